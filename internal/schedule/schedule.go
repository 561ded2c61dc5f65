package schedule

import (
	"slices"
	"time"

	"punto-express/internal/calendar"
)

// Visit: máquinas a reabastecer en una fecha.
type Visit struct {
	Date     time.Time
	Day      string
	Machines []string
}

func (v Visit) Has(machine string) bool {
	return slices.Contains(v.Machines, machine)
}

// add inserta sin duplicar.
func (v *Visit) add(machines ...string) {
	for _, m := range machines {
		if !v.Has(m) {
			v.Machines = append(v.Machines, m)
		}
	}
}

// Schedule: calendario de reabastecimiento de una semana, en orden cronológico.
type Schedule struct {
	Week   calendar.Week
	Visits []Visit

	// Slack: máquina que ocupó el espacio libre del sábado ("" si ninguna)
	Slack string
	// Dropped: visitas de festivos sin día hábil previo dentro de la semana
	Dropped []Visit
}

// Build aplica el patrón al ranking. Las posiciones que el ranking no tiene
// se omiten; con ranking vacío todos los días quedan sin máquinas.
func Build(r Ranking, week calendar.Week, p Pattern) Schedule {
	s := Schedule{Week: week, Visits: make([]Visit, 0, calendar.BusinessDays)}

	for _, day := range week.Days() {
		v := Visit{Date: day, Day: calendar.DayName(day), Machines: make([]string, 0, 2)}
		for _, i := range p[day.Weekday()] {
			if m, ok := r.At(i); ok {
				v.add(m)
			}
		}
		s.Visits = append(s.Visits, v)
	}

	return s
}

// Clone copia profunda; las etapas del pipeline no modifican su entrada.
func (s Schedule) Clone() Schedule {
	out := Schedule{Week: s.Week, Slack: s.Slack}
	out.Visits = cloneVisits(s.Visits)
	if s.Dropped != nil {
		out.Dropped = cloneVisits(s.Dropped)
	}
	return out
}

func cloneVisits(vs []Visit) []Visit {
	out := make([]Visit, len(vs))
	for i, v := range vs {
		out[i] = Visit{Date: v.Date, Day: v.Day, Machines: slices.Clone(v.Machines)}
		if out[i].Machines == nil {
			out[i].Machines = []string{}
		}
	}
	return out
}

// On devuelve la visita de la fecha, si la fecha está en el calendario.
func (s Schedule) On(date time.Time) (Visit, bool) {
	if i := s.indexOf(date); i >= 0 {
		return s.Visits[i], true
	}
	return Visit{}, false
}

func (s Schedule) indexOf(date time.Time) int {
	d := calendar.Day(date)
	return slices.IndexFunc(s.Visits, func(v Visit) bool { return v.Date.Equal(d) })
}

// VisitDays: en cuántos días aparece la máquina.
func (s Schedule) VisitDays(machine string) int {
	n := 0
	for _, v := range s.Visits {
		if v.Has(machine) {
			n++
		}
	}
	return n
}
