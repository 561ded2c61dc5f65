package schedule

import (
	"punto-express/internal/calendar"
	"punto-express/internal/models"
)

// Input: todo lo que necesita una programación de reabastecimiento.
type Input struct {
	Week     calendar.Week        // semana a programar
	Records  []models.DailyRecord // registros de la semana anterior
	Roster   []string
	Holidays HolidaySet
	Pattern  Pattern
	Policy   Policy
}

type Result struct {
	Week      calendar.Week
	Reference calendar.Week
	Ranking   Ranking
	Schedule  Schedule

	// EmptyHistory: no hubo ventas en la semana de referencia
	EmptyHistory bool
}

// Plan: ranking de la semana anterior, patrón, festivos y espacio libre.
func Plan(in Input) Result {
	pattern := in.Pattern
	if len(pattern) == 0 {
		pattern = DefaultPattern
	}

	ref := in.Week.Previous()
	// solo se programan máquinas del roster activo
	ranking := Rank(RosterRecords(WeekRecords(in.Records, ref), in.Roster), in.Roster)

	s := Build(ranking, in.Week, pattern)
	s = RemapHolidays(s, in.Holidays)
	s = AssignSlack(s, ranking, pattern, in.Policy)

	return Result{
		Week:         in.Week,
		Reference:    ref,
		Ranking:      ranking,
		Schedule:     s,
		EmptyHistory: len(ranking) == 0,
	}
}
