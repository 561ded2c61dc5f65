package dashboard

import (
	"errors"
	"fmt"
	"time"

	"punto-express/internal/calendar"
	"punto-express/internal/export"
	"punto-express/internal/schedule"
	"punto-express/internal/store"

	"github.com/gofiber/fiber/v2"
)

type WeekRef struct {
	Year  int    `json:"year"`
	Week  int    `json:"week"`
	Label string `json:"label"`
	From  string `json:"from"`
	To    string `json:"to"`
}

type DashboardResponse struct {
	Empty    bool     `json:"empty"`
	Message  string   `json:"message,omitempty"`
	Week     *WeekRef `json:"week,omitempty"`
	Previous *WeekRef `json:"previous,omitempty"`
	*Metrics
}

func weekRef(w calendar.Week) *WeekRef {
	return &WeekRef{
		Year:  w.Year,
		Week:  w.Number,
		Label: w.Label(),
		From:  calendar.FormatDate(w.Monday),
		To:    calendar.FormatDate(w.Saturday()),
	}
}

// load resuelve la semana pedida (o la del registro más reciente) y calcula
// sus métricas. ok es false cuando no hay ningún registro.
func load(c *fiber.Ctx, records store.Records, roster store.Roster) (calendar.Week, Metrics, bool, error) {
	ctx := c.UserContext()

	latest, ok, err := records.LatestDate(ctx)
	if err != nil {
		return calendar.Week{}, Metrics{}, false, err
	}
	if !ok && c.Query("week") == "" {
		return calendar.Week{}, Metrics{}, false, nil
	}

	w, err := calendar.Parse(c.Query("year"), c.Query("week"), calendar.WeekOf(latest))
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidPeriod) {
			return calendar.Week{}, Metrics{}, false, fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return calendar.Week{}, Metrics{}, false, err
	}

	prev := w.Previous()
	recs, err := records.Between(ctx, prev.Monday, w.Saturday())
	if err != nil {
		return calendar.Week{}, Metrics{}, false, err
	}
	machines, err := roster.ActiveMachines(ctx)
	if err != nil {
		return calendar.Week{}, Metrics{}, false, err
	}

	m := Compute(schedule.WeekRecords(recs, w), schedule.WeekRecords(recs, prev), store.Names(machines))
	return w, m, true, nil
}

// GET /api/dashboard?year=2025&week=38
// Sin parámetros usa la semana del registro más reciente.
func DashboardHandler(records store.Records, roster store.Roster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, m, ok, err := load(c, records, roster)
		if err != nil {
			return err
		}
		if !ok {
			return c.JSON(DashboardResponse{Empty: true, Message: "No hay datos registrados aún."})
		}

		return c.JSON(DashboardResponse{
			Week:     weekRef(w),
			Previous: weekRef(w.Previous()),
			Metrics:  &m,
		})
	}
}

// GET /api/dashboard/pdf
func PDFHandler(records store.Records, roster store.Roster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		w, m, ok, err := load(c, records, roster)
		if err != nil {
			return err
		}
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "No hay datos registrados aún.")
		}

		data, err := export.SummaryPDF(Summary(w, m, time.Now()))
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, export.MimePDF)
		c.Attachment(fmt.Sprintf("resumen_semana_%d.pdf", w.Number))
		return c.Send(data)
	}
}

// Summary: resumen ejecutivo para el PDF.
func Summary(w calendar.Week, m Metrics, generated time.Time) export.Summary {
	notes := make([]string, 0, len(m.Alerts))
	for _, a := range m.Alerts {
		notes = append(notes, a.Message)
	}

	return export.Summary{
		Title:    "Punto Express - Resumen Ejecutivo",
		Subtitle: fmt.Sprintf("%s (%s a %s)", w.Label(), calendar.FormatDate(w.Monday), calendar.FormatDate(w.Saturday())),
		Metrics: []export.Metric{
			{Label: "Total Ventas", Value: export.Money(m.Sales)},
			{Label: "Total Egresos", Value: export.Money(m.Expenses)},
			{Label: "Profit Neto", Value: export.Money(m.Net)},
			{Label: "Fondo Emergencia (5%)", Value: export.Money(m.Fund)},
			{Label: "Variación semanal", Value: export.Percent(m.Variation)},
		},
		Notes:     notes,
		Generated: generated,
	}
}
