package schedule

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"punto-express/internal/calendar"
)

// HolidaySet: fecha ISO -> nombre del festivo (puede ser "").
type HolidaySet map[string]string

// NewHolidaySet valida las fechas.
func NewHolidaySet(dates map[string]string) (HolidaySet, error) {
	h := make(HolidaySet, len(dates))
	for d, name := range dates {
		t, err := calendar.ParseDate(d)
		if err != nil {
			return nil, fmt.Errorf("festivo inválido: %w", err)
		}
		h[calendar.FormatDate(t)] = name
	}
	return h, nil
}

func (h HolidaySet) Contains(date time.Time) bool {
	_, ok := h[calendar.FormatDate(date)]
	return ok
}

func (h HolidaySet) Name(date time.Time) (string, bool) {
	name, ok := h[calendar.FormatDate(date)]
	return name, ok
}

type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Between: festivos en [from, to], en orden de fecha.
func (h HolidaySet) Between(from, to time.Time) []Holiday {
	lo, hi := calendar.FormatDate(from), calendar.FormatDate(to)
	out := make([]Holiday, 0)
	for d, name := range h {
		if d >= lo && d <= hi {
			out = append(out, Holiday{Date: d, Name: name})
		}
	}
	slices.SortFunc(out, func(a, b Holiday) int { return cmp.Compare(a.Date, b.Date) })
	return out
}

// RemapHolidays saca los festivos del calendario y pasa sus visitas al día
// hábil anterior (unión sin duplicados). Festivos consecutivos terminan en el
// mismo día hábil. Si no hay día hábil previo dentro del calendario, las
// visitas quedan en Dropped.
func RemapHolidays(s Schedule, holidays HolidaySet) Schedule {
	out := s.Clone()
	kept := make([]Visit, 0, len(out.Visits))

	for _, v := range out.Visits {
		if !holidays.Contains(v.Date) {
			kept = append(kept, v)
			continue
		}
		if len(v.Machines) == 0 {
			continue
		}

		target := -1
		for prev := v.Date.AddDate(0, 0, -1); ; prev = prev.AddDate(0, 0, -1) {
			if holidays.Contains(prev) {
				// el día anterior también es festivo: seguir hacia atrás
				if prev.Before(out.Week.Monday) {
					break
				}
				continue
			}
			target = indexOfDate(kept, prev)
			break
		}

		if target == -1 {
			out.Dropped = append(out.Dropped, v)
			continue
		}
		kept[target].add(v.Machines...)
	}

	out.Visits = kept
	return out
}

func indexOfDate(vs []Visit, date time.Time) int {
	d := calendar.Day(date)
	for i, v := range vs {
		if v.Date.Equal(d) {
			return i
		}
	}
	return -1
}
