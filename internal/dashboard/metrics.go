package dashboard

import (
	"fmt"
	"math"
	"slices"

	"punto-express/internal/export"
	"punto-express/internal/models"
	"punto-express/internal/sales"
	"punto-express/internal/schedule"
)

// Umbrales de las alertas.
const (
	DropThreshold = -30.0 // % de caída por máquina
	RiseThreshold = 20.0  // % de subida por máquina
	MinFund       = 50000 // pesos
)

type Level string

const (
	LevelDanger  Level = "danger"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
)

type Alert struct {
	Level   Level  `json:"level"`
	Machine string `json:"machine,omitempty"`
	Message string `json:"message"`
}

// Comparison: ventas de una máquina en las dos semanas.
type Comparison struct {
	Machine  string `json:"machine"`
	Previous int64  `json:"previous"`
	Current  int64  `json:"current"`
}

type Metrics struct {
	Sales         int64                `json:"sales"`
	Expenses      int64                `json:"expenses"`
	Net           int64                `json:"net"`
	Fund          int64                `json:"fund"`
	PreviousSales int64                `json:"previous_sales"`
	Variation     float64              `json:"variation"` // % con 2 decimales
	ByMachine     []sales.MachineTotal `json:"by_machine"`
	Comparison    []Comparison         `json:"comparison"`
	Alerts        []Alert              `json:"alerts"`

	Ranking schedule.Ranking `json:"-"`
}

// Variation: cambio porcentual de prev a cur; 0 si prev es 0.
func Variation(cur, prev int64) float64 {
	if prev == 0 {
		return 0
	}
	return export.Round2(float64(cur-prev) / float64(prev) * 100)
}

// Compute arma las métricas de la semana actual contra la anterior.
func Compute(current, previous []models.DailyRecord, roster []string) Metrics {
	cur := sales.Summarize(current, roster)
	prev := sales.Summarize(previous, roster)

	m := Metrics{
		Sales:         cur.Sales,
		Expenses:      cur.Expenses,
		Net:           cur.Net,
		Fund:          cur.Fund,
		PreviousSales: prev.Sales,
		Variation:     Variation(cur.Sales, prev.Sales),
		ByMachine:     cur.ByMachine,
		Ranking:       schedule.Rank(current, roster),
	}
	m.Comparison = compare(current, previous, roster)
	m.Alerts = alerts(m, schedule.Rank(previous, roster))
	return m
}

// compare: máquinas de cualquiera de las dos semanas, en orden del roster y
// luego las demás en orden de aparición.
func compare(current, previous []models.DailyRecord, roster []string) []Comparison {
	prev := make(map[string]int64)
	cur := make(map[string]int64)
	var others []string

	for _, r := range slices.Concat(previous, current) {
		if !slices.Contains(roster, r.Machine) && !slices.Contains(others, r.Machine) {
			others = append(others, r.Machine)
		}
	}
	for _, r := range previous {
		prev[r.Machine] += r.Sales
	}
	for _, r := range current {
		cur[r.Machine] += r.Sales
	}

	out := make([]Comparison, 0, len(roster)+len(others))
	for _, name := range append(slices.Clone(roster), others...) {
		p, inPrev := prev[name]
		c, inCur := cur[name]
		if !inPrev && !inCur {
			continue
		}
		out = append(out, Comparison{Machine: name, Previous: p, Current: c})
	}
	return out
}

func alerts(m Metrics, previous schedule.Ranking) []Alert {
	out := make([]Alert, 0)

	for _, e := range m.Ranking {
		before := previous.Total(e.Machine)
		switch {
		case before > 0:
			change := float64(e.Sales-before) / float64(before) * 100
			if change <= DropThreshold {
				out = append(out, Alert{
					Level:   LevelDanger,
					Machine: e.Machine,
					Message: fmt.Sprintf("%s cayó %.0f%% respecto a la semana anterior.", e.Machine, math.Abs(math.RoundToEven(change))),
				})
			} else if change >= RiseThreshold {
				out = append(out, Alert{
					Level:   LevelSuccess,
					Machine: e.Machine,
					Message: fmt.Sprintf("%s subió %.0f%% respecto a la semana anterior.", e.Machine, math.RoundToEven(change)),
				})
			}
		case e.Sales > 0:
			out = append(out, Alert{
				Level:   LevelSuccess,
				Machine: e.Machine,
				Message: fmt.Sprintf("%s tuvo ventas esta semana pero estaba en cero la anterior.", e.Machine),
			})
		}
	}

	if m.Net < 0 {
		out = append(out, Alert{
			Level:   LevelWarning,
			Message: "Profit negativo esta semana. Revisa egresos y márgenes.",
		})
	}
	if m.Fund < MinFund {
		out = append(out, Alert{
			Level:   LevelWarning,
			Message: fmt.Sprintf("Fondo de emergencia bajo: solo %s", export.Money(m.Fund)),
		})
	}

	return out
}
