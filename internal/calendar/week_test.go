package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestISOWeek(t *testing.T) {
	tests := []struct {
		name       string
		year, week int
		wantMonday string
		wantErr    bool
	}{
		{"semana 38 de 2025", 2025, 38, "2025-09-15", false},
		{"primera semana empieza en diciembre", 2025, 1, "2024-12-30", false},
		{"año con 53 semanas", 2020, 53, "2020-12-28", false},
		{"semana 53 inexistente", 2025, 53, "", true},
		{"semana cero", 2025, 0, "", true},
		{"año fuera de rango", 1999, 10, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ISOWeek(tt.year, tt.week)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Fatalf("expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := FormatDate(w.Monday); got != tt.wantMonday {
				t.Errorf("expected monday %s, got %s", tt.wantMonday, got)
			}
			if w.Monday.Weekday() != time.Monday {
				t.Errorf("expected a monday, got %s", w.Monday.Weekday())
			}
		})
	}
}

func TestWeekDaysAndLabel(t *testing.T) {
	w, err := ISOWeek(2025, 38)
	if err != nil {
		t.Fatal(err)
	}

	days := w.Days()
	if len(days) != BusinessDays {
		t.Fatalf("expected %d days, got %d", BusinessDays, len(days))
	}
	if FormatDate(days[5]) != "2025-09-20" || DayName(days[5]) != "Sábado" {
		t.Errorf("unexpected last day %s (%s)", FormatDate(days[5]), DayName(days[5]))
	}
	if DayName(days[2]) != "Miércoles" {
		t.Errorf("expected Miércoles, got %s", DayName(days[2]))
	}
	if w.Label() != "Semana 38" {
		t.Errorf("unexpected label %q", w.Label())
	}

	sunday := time.Date(2025, 9, 21, 0, 0, 0, 0, time.UTC)
	if w.Contains(sunday) {
		t.Error("sunday must not be part of the business span")
	}
	if !w.Contains(time.Date(2025, 9, 18, 15, 30, 0, 0, time.UTC)) {
		t.Error("thursday should be contained regardless of time of day")
	}
}

func TestPreviousCrossesYear(t *testing.T) {
	w, err := ISOWeek(2026, 1)
	if err != nil {
		t.Fatal(err)
	}
	prev := w.Previous()
	if prev.Year != 2025 || prev.Number != 52 {
		t.Fatalf("expected 2025-W52, got %s", prev)
	}
	if FormatDate(prev.Monday) != "2025-12-22" {
		t.Errorf("unexpected monday %s", FormatDate(prev.Monday))
	}
}

func TestWeekOf(t *testing.T) {
	w := WeekOf(time.Date(2025, 12, 31, 10, 0, 0, 0, time.UTC))
	if w.Year != 2026 || w.Number != 1 {
		t.Fatalf("expected 2026-W01, got %s", w)
	}
	if FormatDate(w.Monday) != "2025-12-29" {
		t.Errorf("unexpected monday %s", FormatDate(w.Monday))
	}
}

func TestParse(t *testing.T) {
	def, _ := ISOWeek(2025, 38)

	tests := []struct {
		name       string
		year, week string
		want       string
		wantErr    bool
	}{
		{"defaults", "", "", "2025-W38", false},
		{"explicit", "2026", "1", "2026-W01", false},
		{"missing year", "", "1", "", true},
		{"missing week", "2025", "", "", true},
		{"not a number", "2025", "x", "", true},
		{"week 53 in a 52 week year", "2025", "53", "", true},
		{"week zero", "2025", "0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Parse(tt.year, tt.week, def)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPeriod) {
					t.Fatalf("expected ErrInvalidPeriod, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if w.String() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, w)
			}
		})
	}
}

func TestNext(t *testing.T) {
	w, _ := ISOWeek(2025, 52)
	if n := w.Next(); n.String() != "2026-W01" {
		t.Errorf("expected 2026-W01, got %s", n)
	}
}
