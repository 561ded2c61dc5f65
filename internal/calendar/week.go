package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout: formato ISO de las fechas guardadas
const DateLayout = "2006-01-02"

// BusinessDays: Lunes-Sábado
const BusinessDays = 6

var ErrInvalidPeriod = errors.New("periodo inválido")

var dayNames = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// BusinessDayNames: Lunes a Sábado, en orden
func BusinessDayNames() []string {
	names := make([]string, 0, BusinessDays)
	for d := time.Monday; d <= time.Saturday; d++ {
		names = append(names, dayNames[d])
	}
	return names
}

// Week: una semana ISO (lunes a domingo), de la que solo se operan lunes-sábado.
type Week struct {
	Year   int
	Number int
	Monday time.Time
}

// ISOWeek resuelve el lunes de la semana ISO pedida.
func ISOWeek(year, week int) (Week, error) {
	if year < 2000 || year > 9999 {
		return Week{}, fmt.Errorf("%w: año %d fuera de rango", ErrInvalidPeriod, year)
	}
	if week < 1 || week > WeeksInYear(year) {
		return Week{}, fmt.Errorf("%w: semana %d no existe en %d", ErrInvalidPeriod, week, year)
	}

	// la semana 1 contiene el 4 de enero
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset+(week-1)*7)

	return Week{Year: year, Number: week, Monday: monday}, nil
}

// Parse lee año y semana de texto (parámetros de consulta). Si ambos vienen
// vacíos devuelve def; si falta solo uno, ErrInvalidPeriod.
func Parse(year, week string, def Week) (Week, error) {
	year, week = strings.TrimSpace(year), strings.TrimSpace(week)
	if year == "" && week == "" {
		return def, nil
	}
	if year == "" || week == "" {
		return Week{}, fmt.Errorf("%w: se requieren año y semana", ErrInvalidPeriod)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return Week{}, fmt.Errorf("%w: año %q", ErrInvalidPeriod, year)
	}
	n, err := strconv.Atoi(week)
	if err != nil {
		return Week{}, fmt.Errorf("%w: semana %q", ErrInvalidPeriod, week)
	}
	return ISOWeek(y, n)
}

// WeekOf devuelve la semana ISO que contiene t.
func WeekOf(t time.Time) Week {
	day := Day(t)
	offset := (int(day.Weekday()) + 6) % 7
	year, week := day.ISOWeek()
	return Week{Year: year, Number: week, Monday: day.AddDate(0, 0, -offset)}
}

// WeeksInYear: 52 o 53
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// Day trunca t a medianoche UTC conservando la fecha de calendario.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parsea "YYYY-MM-DD".
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", ErrInvalidPeriod, s)
	}
	return t, nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayName devuelve el nombre en español del día de la semana.
func DayName(t time.Time) string {
	return dayNames[t.Weekday()]
}

// Days: lunes a sábado de la semana
func (w Week) Days() []time.Time {
	days := make([]time.Time, 0, BusinessDays)
	for i := 0; i < BusinessDays; i++ {
		days = append(days, w.Monday.AddDate(0, 0, i))
	}
	return days
}

func (w Week) Saturday() time.Time {
	return w.Monday.AddDate(0, 0, BusinessDays-1)
}

// Previous: semana anterior, cruza el límite de año si hace falta
func (w Week) Previous() Week {
	return WeekOf(w.Monday.AddDate(0, 0, -7))
}

func (w Week) Next() Week {
	return WeekOf(w.Monday.AddDate(0, 0, 7))
}

// Contains indica si date cae entre el lunes y el sábado de la semana.
func (w Week) Contains(date time.Time) bool {
	d := Day(date)
	return !d.Before(w.Monday) && !d.After(w.Saturday())
}

// Label: etiqueta con la que se guardan los registros ("Semana 38")
func (w Week) Label() string {
	return fmt.Sprintf("Semana %d", w.Number)
}

func (w Week) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Number)
}
