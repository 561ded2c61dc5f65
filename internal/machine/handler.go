package machine

import (
	"fmt"
	"log"
	"strings"

	"punto-express/internal/audit"
	"punto-express/internal/auth"
	"punto-express/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MachineResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Position  int    `json:"position"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type CreateMachineRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Position *int   `json:"position"` // al final si no viene
}

type UpdateMachineRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
	Position *int    `json:"position"`
	Active   *bool   `json:"active"`
}

func toResponse(m models.Machine) MachineResponse {
	return MachineResponse{
		ID:        m.ID,
		Name:      m.Name,
		Location:  m.Location,
		Position:  m.Position,
		Active:    m.Active,
		CreatedAt: m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

func nameTaken(db *gorm.DB, name string, exceptID uint) bool {
	var count int64
	db.Model(&models.Machine{}).Where("name = ? AND id <> ?", name, exceptID).Count(&count)
	return count > 0
}

func writeLog(c *fiber.Ctx, db *gorm.DB, opts audit.LogOptions) {
	user, err := auth.CurrentUser(c, db)
	if err == nil {
		opts.UserID = user.ID
		opts.UserName = user.Name
	}
	opts.EntityType = models.AuditEntityMachine
	if err := audit.WriteLog(db, opts); err != nil {
		log.Println("auditoría de máquina:", err)
	}
}

// GET /api/machines?all=true
// Por defecto solo el roster activo, en orden.
func ListMachinesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.WithContext(c.UserContext()).Model(&models.Machine{})
		if c.Query("all") != "true" {
			q = q.Where("active = ?", true)
		}

		var machines []models.Machine
		if err := q.Order("position ASC, id ASC").Find(&machines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudieron listar las máquinas")
		}

		res := make([]MachineResponse, 0, len(machines))
		for _, m := range machines {
			res = append(res, toResponse(m))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/machines
func CreateMachineHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMachineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "El nombre de la máquina no puede estar vacío")
		}
		if nameTaken(db, body.Name, 0) {
			return fiber.NewError(fiber.StatusConflict, "Ya existe una máquina con ese nombre")
		}

		m := models.Machine{
			Name:     body.Name,
			Location: strings.TrimSpace(body.Location),
			Active:   true,
		}
		if body.Position != nil {
			if *body.Position < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "La posición no puede ser negativa")
			}
			m.Position = *body.Position
		} else {
			var maxPos *int
			db.Model(&models.Machine{}).Select("MAX(position)").Scan(&maxPos)
			if maxPos != nil {
				m.Position = *maxPos + 1
			}
		}

		if err := db.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo crear la máquina")
		}

		writeLog(c, db, audit.LogOptions{
			EntityID:    m.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Máquina creada: %s", m.Name),
			After:       m,
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(m))
	}
}

// PUT /api/admin/machines/:id
func UpdateMachineHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Machine
		if err := db.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Máquina no encontrada")
		}
		before := m

		var body UpdateMachineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "El nombre de la máquina no puede estar vacío")
			}
			if nameTaken(db, name, m.ID) {
				return fiber.NewError(fiber.StatusConflict, "Ya existe una máquina con ese nombre")
			}
			m.Name = name
		}
		if body.Location != nil {
			m.Location = strings.TrimSpace(*body.Location)
		}
		if body.Position != nil {
			if *body.Position < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "La posición no puede ser negativa")
			}
			m.Position = *body.Position
		}
		if body.Active != nil {
			m.Active = *body.Active
		}

		// Updates con map para que active=false no se ignore
		if err := db.Model(&m).Updates(map[string]interface{}{
			"name":     m.Name,
			"location": m.Location,
			"position": m.Position,
			"active":   m.Active,
		}).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo actualizar la máquina")
		}

		writeLog(c, db, audit.LogOptions{
			EntityID:    m.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Máquina actualizada: %s", m.Name),
			Before:      before,
			After:       m,
		})

		return c.JSON(toResponse(m))
	}
}

// DELETE /api/admin/machines/:id
// Los registros históricos se conservan; guardan el nombre, no el ID.
func DeleteMachineHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.Machine
		if err := db.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Máquina no encontrada")
		}

		if err := db.Delete(&models.Machine{}, "id = ?", m.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "No se pudo eliminar la máquina")
		}

		writeLog(c, db, audit.LogOptions{
			EntityID:    m.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Máquina eliminada: %s", m.Name),
			Before:      m,
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
