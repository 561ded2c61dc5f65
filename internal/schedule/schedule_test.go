package schedule

import (
	"reflect"
	"slices"
	"testing"
	"time"

	"punto-express/internal/calendar"
	"punto-express/internal/models"
)

var roster = []string{"A", "B", "C", "D", "E"}

func mustWeek(t *testing.T, year, week int) calendar.Week {
	t.Helper()
	w, err := calendar.ISOWeek(year, week)
	if err != nil {
		t.Fatalf("ISOWeek(%d, %d): %v", year, week, err)
	}
	return w
}

// exampleRanking: [A:30, B:25, C:20, D:15, E:10]
func exampleRanking() Ranking {
	records := []models.DailyRecord{
		{Date: "2025-09-08", Machine: "E", Sales: 10},
		{Date: "2025-09-08", Machine: "C", Sales: 20},
		{Date: "2025-09-09", Machine: "A", Sales: 10},
		{Date: "2025-09-08", Machine: "B", Sales: 25},
		{Date: "2025-09-08", Machine: "D", Sales: 15},
		{Date: "2025-09-10", Machine: "A", Sales: 20},
	}
	return Rank(records, roster)
}

func machinesByDay(s Schedule) map[string][]string {
	out := make(map[string][]string, len(s.Visits))
	for _, v := range s.Visits {
		out[v.Day] = v.Machines
	}
	return out
}

func assertDay(t *testing.T, s Schedule, day string, want ...string) {
	t.Helper()
	got, ok := machinesByDay(s)[day]
	if !ok {
		t.Fatalf("%s missing from schedule", day)
	}
	if want == nil {
		want = []string{}
	}
	if !slices.Equal(got, want) {
		t.Errorf("%s: expected %v, got %v", day, want, got)
	}
}

func TestRank(t *testing.T) {
	r := exampleRanking()

	want := []string{"A", "B", "C", "D", "E"}
	if !slices.Equal(r.Machines(), want) {
		t.Fatalf("expected %v, got %v", want, r.Machines())
	}
	for i := 1; i < len(r); i++ {
		if r[i-1].Sales < r[i].Sales {
			t.Errorf("ranking not descending at %d: %v", i, r)
		}
	}
	if r.Total("A") != 30 {
		t.Errorf("expected A total 30, got %d", r.Total("A"))
	}
	if r.Total("Z") != 0 {
		t.Errorf("absent machine should total 0, got %d", r.Total("Z"))
	}
}

func TestRankTieBreaksOnRosterOrder(t *testing.T) {
	records := []models.DailyRecord{
		{Date: "2025-09-08", Machine: "X", Sales: 10},
		{Date: "2025-09-08", Machine: "Outsider", Sales: 10},
		{Date: "2025-09-08", Machine: "Y", Sales: 10},
	}
	r := Rank(records, []string{"Y", "X"})

	want := []string{"Y", "X", "Outsider"}
	if !slices.Equal(r.Machines(), want) {
		t.Errorf("expected %v, got %v", want, r.Machines())
	}
}

func TestRankEmpty(t *testing.T) {
	r := Rank(nil, roster)
	if len(r) != 0 {
		t.Fatalf("expected empty ranking, got %v", r)
	}
	if top := r.Top(4); len(top) != 0 {
		t.Errorf("expected empty top, got %v", top)
	}
}

func TestWeekRecordsFiltersOutsideSpan(t *testing.T) {
	w := mustWeek(t, 2025, 37)
	records := []models.DailyRecord{
		{Date: "2025-09-08", Machine: "A", Sales: 1},
		{Date: "2025-09-14", Machine: "A", Sales: 100}, // domingo
		{Date: "2025-09-15", Machine: "A", Sales: 100}, // semana siguiente
		{Date: "no-date", Machine: "A", Sales: 100},
	}
	got := WeekRecords(records, w)
	if len(got) != 1 || got[0].Date != "2025-09-08" {
		t.Errorf("unexpected filtered records: %+v", got)
	}
}

func TestBuildFixedPattern(t *testing.T) {
	s := Build(exampleRanking(), mustWeek(t, 2025, 38), DefaultPattern)

	if len(s.Visits) != calendar.BusinessDays {
		t.Fatalf("expected %d days, got %d", calendar.BusinessDays, len(s.Visits))
	}
	assertDay(t, s, "Lunes", "A", "B")
	assertDay(t, s, "Martes", "A", "C")
	assertDay(t, s, "Miércoles", "A", "B")
	assertDay(t, s, "Jueves", "A", "D")
	assertDay(t, s, "Viernes", "A", "B")
	assertDay(t, s, "Sábado", "C")

	if got := calendar.FormatDate(s.Visits[0].Date); got != "2025-09-15" {
		t.Errorf("expected schedule to start 2025-09-15, got %s", got)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	r := exampleRanking()
	w := mustWeek(t, 2025, 38)

	first := Build(r, w, DefaultPattern)
	second := Build(r, w, DefaultPattern)
	if !reflect.DeepEqual(first, second) {
		t.Error("Build returned different schedules for identical input")
	}
}

func TestBuildDegenerateRankings(t *testing.T) {
	w := mustWeek(t, 2025, 38)

	t.Run("empty ranking", func(t *testing.T) {
		s := Build(nil, w, DefaultPattern)
		for _, v := range s.Visits {
			if len(v.Machines) != 0 {
				t.Errorf("%s: expected no machines, got %v", v.Day, v.Machines)
			}
		}
	})

	t.Run("two machines", func(t *testing.T) {
		r := Ranking{{Machine: "A", Sales: 9}, {Machine: "B", Sales: 3, position: 1}}
		s := Build(r, w, DefaultPattern)
		assertDay(t, s, "Lunes", "A", "B")
		assertDay(t, s, "Martes", "A")
		assertDay(t, s, "Jueves", "A")
		assertDay(t, s, "Sábado")
	})
}

func TestSlackPolicies(t *testing.T) {
	r := exampleRanking()
	base := Build(r, mustWeek(t, 2025, 38), DefaultPattern)

	counts := map[string]int{"A": 5, "B": 3, "C": 2, "D": 1}
	for m, want := range counts {
		if got := base.VisitDays(m); got != want {
			t.Errorf("%s: expected %d visit days, got %d", m, want, got)
		}
	}

	least := AssignSlack(base, r, DefaultPattern, PolicyLeastVisited)
	assertDay(t, least, "Sábado", "C", "D")
	if least.Slack != "D" {
		t.Errorf("expected slack D, got %q", least.Slack)
	}

	emergent := AssignSlack(base, r, DefaultPattern, PolicyEmergent)
	assertDay(t, emergent, "Sábado", "C", "E")

	// la entrada no se modifica
	assertDay(t, base, "Sábado", "C")
}

func TestSlackIsIdempotent(t *testing.T) {
	r := exampleRanking()
	base := Build(r, mustWeek(t, 2025, 38), DefaultPattern)

	for _, policy := range []Policy{PolicyLeastVisited, PolicyEmergent} {
		once := AssignSlack(base, r, DefaultPattern, policy)
		twice := AssignSlack(once, r, DefaultPattern, policy)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("%s: second application changed the schedule: %v vs %v", policy, machinesByDay(once), machinesByDay(twice))
		}
	}
}

func TestSlackEdgeCases(t *testing.T) {
	w := mustWeek(t, 2025, 38)

	t.Run("emergent without fifth machine", func(t *testing.T) {
		r := exampleRanking().Top(4)
		s := AssignSlack(Build(r, w, DefaultPattern), r, DefaultPattern, PolicyEmergent)
		assertDay(t, s, "Sábado", "C")
		if s.Slack != "" {
			t.Errorf("expected no slack, got %q", s.Slack)
		}
	})

	t.Run("least visited with short ranking", func(t *testing.T) {
		r := Ranking{{Machine: "A", Sales: 9}, {Machine: "B", Sales: 3, position: 1}}
		s := AssignSlack(Build(r, w, DefaultPattern), r, DefaultPattern, PolicyLeastVisited)
		assertDay(t, s, "Sábado", "B")
	})

	t.Run("saturday holiday", func(t *testing.T) {
		r := exampleRanking()
		s := RemapHolidays(Build(r, w, DefaultPattern), HolidaySet{"2025-09-20": ""})
		s = AssignSlack(s, r, DefaultPattern, PolicyEmergent)
		if _, ok := s.On(w.Saturday()); ok {
			t.Fatal("saturday should not be scheduled")
		}
		if s.Slack != "" {
			t.Errorf("expected no slack, got %q", s.Slack)
		}
		assertDay(t, s, "Viernes", "A", "B", "C")
	})

	t.Run("empty ranking", func(t *testing.T) {
		s := AssignSlack(Build(nil, w, DefaultPattern), nil, DefaultPattern, PolicyLeastVisited)
		assertDay(t, s, "Sábado")
	})

	t.Run("least visited ties use roster order", func(t *testing.T) {
		// D y B empatan en días de visita; B va antes en el roster
		r := Ranking{
			{Machine: "A", Sales: 40, position: 0},
			{Machine: "C", Sales: 30, position: 2},
			{Machine: "D", Sales: 20, position: 3},
			{Machine: "B", Sales: 10, position: 1},
		}
		p := Pattern{time.Monday: {0, 2}, time.Tuesday: {0, 3}, time.Saturday: {1}}
		s := AssignSlack(Build(r, w, p), r, p, PolicyLeastVisited)
		assertDay(t, s, "Sábado", "C", "B")
	})
}

func TestRemapHolidays(t *testing.T) {
	r := exampleRanking()
	w := mustWeek(t, 2025, 38)
	base := Build(r, w, DefaultPattern)

	t.Run("tuesday holiday merges into monday", func(t *testing.T) {
		s := RemapHolidays(base, HolidaySet{"2025-09-16": "Festivo"})
		assertDay(t, s, "Lunes", "A", "B", "C")
		if _, ok := machinesByDay(s)["Martes"]; ok {
			t.Error("Martes should be absent from the schedule")
		}
		if len(s.Visits) != 5 {
			t.Errorf("expected 5 visit days, got %d", len(s.Visits))
		}
	})

	t.Run("consecutive holidays collapse on the same business day", func(t *testing.T) {
		s := RemapHolidays(base, HolidaySet{"2025-09-17": "", "2025-09-18": ""})
		assertDay(t, s, "Martes", "A", "C", "B", "D")
		if len(s.Dropped) != 0 {
			t.Errorf("expected nothing dropped, got %v", s.Dropped)
		}
	})

	t.Run("monday holiday has no prior business day", func(t *testing.T) {
		s := RemapHolidays(base, HolidaySet{"2025-09-15": ""})
		if len(s.Dropped) != 1 || !slices.Equal(s.Dropped[0].Machines, []string{"A", "B"}) {
			t.Fatalf("expected monday visits to be dropped, got %+v", s.Dropped)
		}
		assertDay(t, s, "Martes", "A", "C")
	})

	t.Run("holiday dates never remain", func(t *testing.T) {
		holidays := HolidaySet{"2025-09-15": "", "2025-09-16": "", "2025-09-19": "", "2025-09-20": ""}
		s := RemapHolidays(base, holidays)
		for _, v := range s.Visits {
			if holidays.Contains(v.Date) {
				t.Errorf("holiday %s still scheduled", calendar.FormatDate(v.Date))
			}
		}
		assertDay(t, s, "Jueves", "A", "D", "B", "C")
	})

	t.Run("input schedule untouched", func(t *testing.T) {
		RemapHolidays(base, HolidaySet{"2025-09-16": ""})
		assertDay(t, base, "Lunes", "A", "B")
	})
}

func TestPlan(t *testing.T) {
	w := mustWeek(t, 2025, 38)
	records := []models.DailyRecord{
		{Date: "2025-09-08", Machine: "A", Sales: 30},
		{Date: "2025-09-09", Machine: "B", Sales: 25},
		{Date: "2025-09-10", Machine: "C", Sales: 20},
		{Date: "2025-09-11", Machine: "D", Sales: 15},
		{Date: "2025-09-12", Machine: "E", Sales: 10},
		{Date: "2025-09-15", Machine: "E", Sales: 999}, // semana objetivo, no cuenta
	}

	res := Plan(Input{
		Week:     w,
		Records:  records,
		Roster:   roster,
		Holidays: HolidaySet{"2025-09-16": ""},
		Policy:   PolicyEmergent,
	})

	if res.EmptyHistory {
		t.Fatal("expected history")
	}
	if res.Reference.Number != 37 {
		t.Errorf("expected reference week 37, got %d", res.Reference.Number)
	}
	if !slices.Equal(res.Ranking.Machines(), []string{"A", "B", "C", "D", "E"}) {
		t.Errorf("unexpected ranking %v", res.Ranking.Machines())
	}
	assertDay(t, res.Schedule, "Lunes", "A", "B", "C")
	assertDay(t, res.Schedule, "Sábado", "C", "E")
}

func TestPlanIgnoresMachinesOutsideRoster(t *testing.T) {
	records := []models.DailyRecord{
		{Date: "2025-09-08", Machine: "Z", Sales: 999},
		{Date: "2025-09-08", Machine: "A", Sales: 30},
		{Date: "2025-09-09", Machine: "B", Sales: 25},
	}

	res := Plan(Input{
		Week:    mustWeek(t, 2025, 38),
		Records: records,
		Roster:  []string{"A", "B"},
		Policy:  PolicyLeastVisited,
	})

	if !slices.Equal(res.Ranking.Machines(), []string{"A", "B"}) {
		t.Errorf("unexpected ranking %v", res.Ranking.Machines())
	}
	for _, v := range res.Schedule.Visits {
		if v.Has("Z") {
			t.Errorf("%s: machine Z is not in the roster, got %v", v.Day, v.Machines)
		}
	}
	assertDay(t, res.Schedule, "Lunes", "A", "B")
}

func TestPlanOnlyRetiredMachinesIsEmptyHistory(t *testing.T) {
	res := Plan(Input{
		Week:    mustWeek(t, 2025, 38),
		Records: []models.DailyRecord{{Date: "2025-09-08", Machine: "Z", Sales: 999}},
		Roster:  roster,
		Policy:  PolicyLeastVisited,
	})
	if !res.EmptyHistory {
		t.Error("expected EmptyHistory when no roster machine sold")
	}
}

func TestPlanEmptyHistory(t *testing.T) {
	res := Plan(Input{Week: mustWeek(t, 2025, 38), Roster: roster, Policy: PolicyLeastVisited})
	if !res.EmptyHistory {
		t.Error("expected EmptyHistory")
	}
	for _, v := range res.Schedule.Visits {
		if len(v.Machines) != 0 {
			t.Errorf("%s: expected empty set, got %v", v.Day, v.Machines)
		}
	}
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("mon=0,1; tue=0,2;wed=0,1;thu=0,3;fri=0,1;sat=2")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p, DefaultPattern) {
		t.Errorf("expected default pattern, got %v", p)
	}
	if p.CoreSize() != 4 {
		t.Errorf("expected core size 4, got %d", p.CoreSize())
	}
	if p.String() != "mon=0,1;tue=0,2;wed=0,1;thu=0,3;fri=0,1;sat=2" {
		t.Errorf("unexpected string %q", p.String())
	}

	for _, bad := range []string{"", "sun=0", "mon=x", "mon=0;mon=1", "mon"} {
		if _, err := ParsePattern(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParsePolicy(t *testing.T) {
	tests := map[string]Policy{
		"":              PolicyLeastVisited,
		"least-visited": PolicyLeastVisited,
		"A":             PolicyLeastVisited,
		"emergent":      PolicyEmergent,
		"b":             PolicyEmergent,
	}
	for in, want := range tests {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Errorf("ParsePolicy(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParsePolicy("random"); err == nil {
		t.Error("expected error for unknown policy")
	}
}

func TestNewHolidaySet(t *testing.T) {
	h, err := NewHolidaySet(map[string]string{"2025-12-25": "Navidad"})
	if err != nil {
		t.Fatal(err)
	}
	if name, ok := h.Name(time.Date(2025, 12, 25, 8, 0, 0, 0, time.UTC)); !ok || name != "Navidad" {
		t.Errorf("expected Navidad, got %q %v", name, ok)
	}
	if _, err := NewHolidaySet(map[string]string{"25/12/2025": ""}); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestHolidaysBetween(t *testing.T) {
	h, _ := NewHolidaySet(map[string]string{
		"2025-12-08": "Inmaculada Concepción",
		"2025-11-17": "Independencia de Cartagena",
		"2025-11-03": "Todos los Santos",
	})
	w := mustWeek(t, 2025, 47)

	got := h.Between(w.Monday, w.Saturday())
	if len(got) != 1 || got[0].Date != "2025-11-17" {
		t.Errorf("expected only 2025-11-17 in week 47, got %+v", got)
	}

	all := h.Between(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	if len(all) != 3 || all[0].Date != "2025-11-03" || all[2].Date != "2025-12-08" {
		t.Errorf("expected sorted holidays, got %+v", all)
	}
}
