package sales

import (
	"math"

	"punto-express/internal/calendar"
	"punto-express/internal/export"
	"punto-express/internal/models"
	"punto-express/internal/schedule"
)

// FundRate: fondo de emergencia como fracción de la utilidad neta.
const FundRate = 0.05

// TopMachines: cuántas máquinas lista el resumen ejecutivo.
const TopMachines = 4

type DayTotal struct {
	Day   string `json:"day"`
	Sales int64  `json:"sales"`
}

type MachineTotal struct {
	Machine  string `json:"machine"`
	Sales    int64  `json:"sales"`
	Expenses int64  `json:"expenses"`
	Net      int64  `json:"net"`
}

// Summary: totales de una semana.
type Summary struct {
	Sales        int64   `json:"sales"`
	Expenses     int64   `json:"expenses"`
	Net          int64   `json:"net"`
	DailyAverage float64 `json:"daily_average"` // sobre los días con ventas
	Fund         int64   `json:"fund"`
	ActiveDays   int     `json:"active_days"`

	TopDay      string         `json:"top_day"`
	TopMachines []string       `json:"top_machines"`
	ByDay       []DayTotal     `json:"by_day"`
	ByMachine   []MachineTotal `json:"by_machine"`
}

// Fund devuelve el 5% de la utilidad, redondeado mitad al par.
func Fund(net int64) int64 {
	return int64(math.RoundToEven(float64(net) * FundRate))
}

// Summarize calcula los totales de los registros de una semana. ByDay sigue el
// orden lunes-sábado y ByMachine el del ranking de ventas.
func Summarize(records []models.DailyRecord, roster []string) Summary {
	s := Summary{
		TopMachines: []string{},
		ByDay:       []DayTotal{},
		ByMachine:   []MachineTotal{},
	}

	activeDates := make(map[string]bool)
	byDay := make(map[string]int64)
	byMachine := make(map[string]*MachineTotal)

	for _, r := range records {
		s.Sales += r.Sales
		s.Expenses += r.Expenses
		if r.Sales > 0 {
			activeDates[r.Date] = true
		}

		byDay[r.Day] += r.Sales

		mt, ok := byMachine[r.Machine]
		if !ok {
			mt = &MachineTotal{Machine: r.Machine}
			byMachine[r.Machine] = mt
		}
		mt.Sales += r.Sales
		mt.Expenses += r.Expenses
		mt.Net += r.Net()
	}

	s.Net = s.Sales - s.Expenses
	s.Fund = Fund(s.Net)
	s.ActiveDays = len(activeDates)
	if s.ActiveDays > 0 {
		s.DailyAverage = export.Round2(float64(s.Sales) / float64(s.ActiveDays))
	}

	if len(records) == 0 {
		return s
	}

	best := int64(-1)
	for _, name := range calendar.BusinessDayNames() {
		total, ok := byDay[name]
		if !ok {
			continue
		}
		s.ByDay = append(s.ByDay, DayTotal{Day: name, Sales: total})
		// en empate gana el día más temprano
		if total > best {
			best, s.TopDay = total, name
		}
	}

	ranking := schedule.Rank(records, roster)
	for _, e := range ranking {
		s.ByMachine = append(s.ByMachine, *byMachine[e.Machine])
	}
	s.TopMachines = ranking.Top(TopMachines).Machines()

	return s
}
