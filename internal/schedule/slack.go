package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Policy: cómo se llena el espacio libre del sábado.
type Policy string

const (
	// PolicyLeastVisited: la máquina del núcleo con menos días de visita
	PolicyLeastVisited Policy = "least-visited"
	// PolicyEmergent: la primera máquina fuera del núcleo (5ª por defecto)
	PolicyEmergent Policy = "emergent"
)

func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "least-visited", "least", "a":
		return PolicyLeastVisited, nil
	case "emergent", "b":
		return PolicyEmergent, nil
	default:
		return "", fmt.Errorf("política desconocida %q", s)
	}
}

// AssignSlack agrega como máximo una máquina al sábado hábil. No hace nada si
// el sábado fue festivo, si la política no resuelve máquina, si ya está ese
// día o si el espacio ya fue asignado.
func AssignSlack(s Schedule, r Ranking, p Pattern, policy Policy) Schedule {
	out := s.Clone()
	if out.Slack != "" {
		return out
	}

	sat := -1
	for i, v := range out.Visits {
		if v.Date.Weekday() == time.Saturday {
			sat = i
			break
		}
	}
	if sat == -1 {
		return out
	}

	machine, ok := resolveSlack(out, r, p.CoreSize(), policy)
	if !ok || out.Visits[sat].Has(machine) {
		return out
	}

	out.Visits[sat].add(machine)
	out.Slack = machine
	return out
}

func resolveSlack(s Schedule, r Ranking, core int, policy Policy) (string, bool) {
	switch policy {
	case PolicyEmergent:
		return r.At(core)
	case PolicyLeastVisited:
		best := -1
		bestCount := 0
		for i, e := range r.Top(core) {
			n := s.VisitDays(e.Machine)
			if best == -1 || n < bestCount || (n == bestCount && e.position < r[best].position) {
				best, bestCount = i, n
			}
		}
		if best == -1 {
			return "", false
		}
		return r[best].Machine, true
	default:
		return "", false
	}
}
