package sales

import (
	"fmt"
	"slices"

	"punto-express/internal/calendar"
	"punto-express/internal/models"
	"punto-express/internal/store"
)

type Cell struct {
	Date     string `json:"date"`
	Day      string `json:"day"`
	Sales    int64  `json:"sales"`
	Expenses int64  `json:"expenses"`
}

// Row: una máquina con sus seis días.
type Row struct {
	Machine string `json:"machine"`
	Days    []Cell `json:"days"`
}

// Sheet es la planilla editable de una semana.
type Sheet struct {
	Year    int     `json:"year"`
	Week    int     `json:"week"`
	Label   string  `json:"label"`
	From    string  `json:"from"`
	To      string  `json:"to"`
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// BuildSheet arma la grilla roster x lunes-sábado. Las celdas sin registro
// valen cero; las máquinas con registros que ya no están en el roster se
// agregan al final para no ocultar datos.
func BuildSheet(w calendar.Week, roster []string, records []models.DailyRecord) Sheet {
	type key struct{ date, machine string }
	byKey := make(map[key]models.DailyRecord, len(records))
	machines := append([]string(nil), roster...)
	known := make(map[string]bool, len(roster))
	for _, m := range roster {
		known[m] = true
	}
	for _, r := range records {
		byKey[key{r.Date, r.Machine}] = r
		if !known[r.Machine] {
			known[r.Machine] = true
			machines = append(machines, r.Machine)
		}
	}

	days := w.Days()
	rows := make([]Row, 0, len(machines))
	for _, m := range machines {
		row := Row{Machine: m, Days: make([]Cell, 0, len(days))}
		for _, d := range days {
			date := calendar.FormatDate(d)
			rec := byKey[key{date, m}]
			row.Days = append(row.Days, Cell{
				Date:     date,
				Day:      calendar.DayName(d),
				Sales:    rec.Sales,
				Expenses: rec.Expenses,
			})
		}
		rows = append(rows, row)
	}

	return Sheet{
		Year:    w.Year,
		Week:    w.Number,
		Label:   w.Label(),
		From:    calendar.FormatDate(w.Monday),
		To:      calendar.FormatDate(w.Saturday()),
		Rows:    rows,
		Summary: Summarize(records, roster),
	}
}

// Batch convierte la planilla recibida en registros y completa con ceros los
// días y máquinas del roster que no vinieron. Filas de máquinas fuera del
// roster se rechazan con store.ErrInvalidRecord.
func Batch(w calendar.Week, roster []string, rows []Row) ([]models.DailyRecord, error) {
	type key struct{ date, machine string }
	seen := make(map[key]bool)
	batch := make([]models.DailyRecord, 0, len(roster)*calendar.BusinessDays)

	for _, row := range rows {
		if !slices.Contains(roster, row.Machine) {
			return nil, fmt.Errorf("%w: la máquina %q no está en el roster", store.ErrInvalidRecord, row.Machine)
		}
		for _, c := range row.Days {
			k := key{c.Date, row.Machine}
			seen[k] = true
			batch = append(batch, models.DailyRecord{
				Date:     c.Date,
				Machine:  row.Machine,
				Sales:    c.Sales,
				Expenses: c.Expenses,
			})
		}
	}

	for _, m := range roster {
		for _, d := range w.Days() {
			date := calendar.FormatDate(d)
			if seen[key{date, m}] {
				continue
			}
			batch = append(batch, models.DailyRecord{Date: date, Machine: m})
		}
	}

	return batch, nil
}

// Editable: roster activo más las máquinas que ya tienen registros en la
// semana, para poder corregir semanas de máquinas dadas de baja.
func Editable(roster []string, existing []models.DailyRecord) []string {
	out := slices.Clone(roster)
	for _, r := range existing {
		if !slices.Contains(out, r.Machine) {
			out = append(out, r.Machine)
		}
	}
	return out
}
