package schedule

import (
	"cmp"
	"slices"

	"punto-express/internal/calendar"
	"punto-express/internal/models"
)

// Entry: una máquina con su total de ventas en la semana de referencia.
type Entry struct {
	Machine string `json:"machine"`
	Sales   int64  `json:"sales"`

	position int // posición en el roster; desempata totales iguales
}

// Ranking: máquinas ordenadas de mayor a menor venta.
type Ranking []Entry

// Rank suma las ventas por máquina y ordena de forma descendente.
// Solo aparecen las máquinas que tienen registros; las que no están en el
// roster quedan después de las del roster, en orden de aparición.
func Rank(records []models.DailyRecord, roster []string) Ranking {
	pos := make(map[string]int, len(roster))
	for i, name := range roster {
		if _, ok := pos[name]; !ok {
			pos[name] = i
		}
	}

	index := make(map[string]int)
	ranking := make(Ranking, 0)
	next := len(roster)

	for _, r := range records {
		i, ok := index[r.Machine]
		if !ok {
			p, inRoster := pos[r.Machine]
			if !inRoster {
				p = next
				next++
			}
			ranking = append(ranking, Entry{Machine: r.Machine, position: p})
			i = len(ranking) - 1
			index[r.Machine] = i
		}
		ranking[i].Sales += r.Sales
	}

	slices.SortStableFunc(ranking, func(a, b Entry) int {
		if c := cmp.Compare(b.Sales, a.Sales); c != 0 {
			return c
		}
		return cmp.Compare(a.position, b.position)
	})

	return ranking
}

// WeekRecords deja solo los registros de lunes a sábado de la semana.
func WeekRecords(records []models.DailyRecord, week calendar.Week) []models.DailyRecord {
	out := make([]models.DailyRecord, 0, len(records))
	for _, r := range records {
		d, err := calendar.ParseDate(r.Date)
		if err != nil || !week.Contains(d) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// RosterRecords descarta los registros de máquinas fuera del roster activo.
func RosterRecords(records []models.DailyRecord, roster []string) []models.DailyRecord {
	out := make([]models.DailyRecord, 0, len(records))
	for _, r := range records {
		if slices.Contains(roster, r.Machine) {
			out = append(out, r)
		}
	}
	return out
}

// Top devuelve como máximo n entradas; nunca falla si hay menos.
func (r Ranking) Top(n int) Ranking {
	if n < 0 {
		n = 0
	}
	if n > len(r) {
		n = len(r)
	}
	return r[:n]
}

func (r Ranking) Machines() []string {
	out := make([]string, 0, len(r))
	for _, e := range r {
		out = append(out, e.Machine)
	}
	return out
}

// Total: ventas de la máquina; 0 si no tiene registros.
func (r Ranking) Total(machine string) int64 {
	for _, e := range r {
		if e.Machine == machine {
			return e.Sales
		}
	}
	return 0
}

// At devuelve la máquina en la posición i del ranking (base cero).
func (r Ranking) At(i int) (string, bool) {
	if i < 0 || i >= len(r) {
		return "", false
	}
	return r[i].Machine, true
}
