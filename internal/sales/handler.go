package sales

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"slices"
	"strings"
	"time"

	"punto-express/internal/audit"
	"punto-express/internal/auth"
	"punto-express/internal/calendar"
	"punto-express/internal/export"
	"punto-express/internal/models"
	"punto-express/internal/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SaveWeekRequest struct {
	Year int   `json:"year"`
	Week int   `json:"week"`
	Rows []Row `json:"rows"`
}

func httpError(err error) error {
	switch {
	case errors.Is(err, calendar.ErrInvalidPeriod), errors.Is(err, store.ErrInvalidRecord):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}

func weekParam(c *fiber.Ctx) (calendar.Week, error) {
	return calendar.Parse(c.Query("year"), c.Query("week"), calendar.WeekOf(time.Now()))
}

func loadWeek(ctx context.Context, records store.Records, roster store.Roster, w calendar.Week) ([]models.DailyRecord, []string, error) {
	recs, err := records.Between(ctx, w.Monday, w.Saturday())
	if err != nil {
		return nil, nil, err
	}
	machines, err := roster.ActiveMachines(ctx)
	if err != nil {
		return nil, nil, err
	}
	return recs, store.Names(machines), nil
}

// GET /api/sales/weekly?year=2025&week=38
func GetWeeklyHandler(records store.Records, roster store.Roster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := weekParam(c)
		if err != nil {
			return httpError(err)
		}

		recs, names, err := loadWeek(c.UserContext(), records, roster, w)
		if err != nil {
			return httpError(err)
		}

		return c.JSON(BuildSheet(w, names, recs))
	}
}

// PUT /api/sales/weekly
// Reemplaza la semana completa en una transacción y registra la operación.
func SaveWeeklyHandler(db *gorm.DB, records store.Records, roster store.Roster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body SaveWeekRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
		}

		w, err := calendar.ISOWeek(body.Year, body.Week)
		if err != nil {
			return httpError(err)
		}

		ctx := c.UserContext()
		before, names, err := loadWeek(ctx, records, roster, w)
		if err != nil {
			return httpError(err)
		}

		batch, err := Batch(w, Editable(names, before), body.Rows)
		if err != nil {
			return httpError(err)
		}
		if err := records.ReplaceBetween(ctx, w.Monday, w.Saturday(), batch); err != nil {
			return httpError(err)
		}

		after, err := records.Between(ctx, w.Monday, w.Saturday())
		if err != nil {
			return httpError(err)
		}

		action := models.AuditActionUpdate
		if len(before) == 0 {
			action = models.AuditActionCreate
		}
		opts := audit.LogOptions{
			EntityType:  models.AuditEntitySalesWeek,
			EntityID:    audit.WeekEntityID(w),
			Action:      action,
			Description: fmt.Sprintf("%s guardada (%s a %s)", w.Label(), calendar.FormatDate(w.Monday), calendar.FormatDate(w.Saturday())),
			Before:      audit.WeekSnapshot{Year: w.Year, Week: w.Number, Records: before},
			After:       audit.WeekSnapshot{Year: w.Year, Week: w.Number, Records: after},
		}
		if user, err := auth.CurrentUser(c, db); err == nil {
			opts.UserID, opts.UserName = user.ID, user.Name
		}
		if err := audit.WriteLog(db.WithContext(ctx), opts); err != nil {
			log.Println("auditoría de semana:", err)
		}

		return c.JSON(BuildSheet(w, names, after))
	}
}

// GET /api/sales/weekly/export?year=2025&week=38&kind=data|summary
func ExportWeeklyHandler(records store.Records, roster store.Roster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, err := weekParam(c)
		if err != nil {
			return httpError(err)
		}

		recs, names, err := loadWeek(c.UserContext(), records, roster, w)
		if err != nil {
			return httpError(err)
		}
		if len(recs) == 0 {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("No hay registros para la %s", w.Label()))
		}

		var (
			table    export.Table
			filename string
		)
		switch c.Query("kind", "data") {
		case "data":
			table = export.Table{
				Sheet:   fmt.Sprintf("Semana_%d", w.Number),
				Headers: append(slices.Clone(export.RecordHeaders), "neto"),
				Rows:    dataRows(recs),
			}
			filename = fmt.Sprintf("ventas_semana_%d_%d.xlsx", w.Number, w.Year)
		case "summary":
			table = SummaryTable(Summarize(recs, names))
			filename = fmt.Sprintf("resumen_semana_%d_%d.xlsx", w.Number, w.Year)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Tipo de exportación inválido (data o summary)")
		}

		data, err := export.XLSX(table)
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, export.MimeXLSX)
		c.Attachment(filename)
		return c.Send(data)
	}
}

func dataRows(recs []models.DailyRecord) [][]any {
	rows := export.RecordRows(recs)
	for i, r := range recs {
		rows[i] = append(rows[i], r.Net())
	}
	return rows
}

// SummaryTable: resumen ejecutivo como hoja Métrica / Valor.
func SummaryTable(s Summary) export.Table {
	return export.Table{
		Sheet:   "Resumen",
		Headers: []string{"Métrica", "Valor"},
		Rows: [][]any{
			{"Total Ventas", export.Money(s.Sales)},
			{"Total Egresos", export.Money(s.Expenses)},
			{"Profit Neto", export.Money(s.Net)},
			{"Promedio Diario", export.Money(int64(math.RoundToEven(s.DailyAverage)))},
			{"Fondo Emergencia (5%)", export.Money(s.Fund)},
			{"Día con más ventas", s.TopDay},
			{"Top 4 máquinas", strings.Join(s.TopMachines, ", ")},
		},
	}
}
