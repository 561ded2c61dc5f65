package report

import (
	"fmt"
	"log"
	"strings"

	"punto-express/internal/export"
	"punto-express/internal/store"

	"github.com/gofiber/fiber/v2"
)

// GET /api/records?machine=Norte
func HistoryHandler(records store.Records) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := records.History(c.UserContext(), strings.TrimSpace(c.Query("machine")))
		if err != nil {
			return err
		}
		return c.JSON(recs)
	}
}

// GET /api/records/export
func ExportCSVHandler(records store.Records) fiber.Handler {
	return func(c *fiber.Ctx) error {
		recs, err := records.History(c.UserContext(), strings.TrimSpace(c.Query("machine")))
		if err != nil {
			return err
		}

		data, err := export.RecordsCSV(recs)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, export.MimeCSV)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="resumen_semanal.csv"`)
		return c.Send(data)
	}
}

// DELETE /api/admin/simulation?label=Semana 38
// Borra todas las filas con esa etiqueta de semana (datos de simulación).
func DeleteSimulationHandler(records store.Records) fiber.Handler {
	return func(c *fiber.Ctx) error {
		label := strings.TrimSpace(c.Query("label"))
		if label == "" {
			return fiber.NewError(fiber.StatusBadRequest, "label es obligatorio (ej: Semana 38)")
		}
		var n int
		if _, err := fmt.Sscanf(label, "Semana %d", &n); err != nil || n < 1 || n > 53 {
			return fiber.NewError(fiber.StatusBadRequest, "label inválido, se espera 'Semana N'")
		}

		deleted, err := records.DeleteByLabel(c.UserContext(), label)
		if err != nil {
			return err
		}
		log.Printf("Simulación eliminada: %s (%d registros)", label, deleted)

		return c.JSON(fiber.Map{
			"label":   label,
			"deleted": deleted,
		})
	}
}
