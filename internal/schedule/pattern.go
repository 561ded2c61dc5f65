package schedule

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Pattern: día de la semana -> posiciones del ranking a visitar ese día.
type Pattern map[time.Weekday][]int

// DefaultPattern: la máquina líder se visita de lunes a viernes, las demás rotan.
var DefaultPattern = Pattern{
	time.Monday:    {0, 1},
	time.Tuesday:   {0, 2},
	time.Wednesday: {0, 1},
	time.Thursday:  {0, 3},
	time.Friday:    {0, 1},
	time.Saturday:  {2},
}

type patternDay struct {
	key string
	day time.Weekday
}

var patternDays = []patternDay{
	{"mon", time.Monday},
	{"tue", time.Tuesday},
	{"wed", time.Wednesday},
	{"thu", time.Thursday},
	{"fri", time.Friday},
	{"sat", time.Saturday},
}

// CoreSize: cuántas posiciones del ranking usa el patrón (4 con el patrón por defecto).
func (p Pattern) CoreSize() int {
	size := 0
	for _, idxs := range p {
		for _, i := range idxs {
			if i+1 > size {
				size = i + 1
			}
		}
	}
	return size
}

// ParsePattern lee "mon=0,1;tue=0,2;...;sat=2". Días omitidos quedan sin visitas.
func ParsePattern(s string) (Pattern, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("patrón vacío")
	}

	p := make(Pattern)
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, list, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("patrón inválido %q: falta '='", part)
		}

		key = strings.ToLower(strings.TrimSpace(key))
		i := slices.IndexFunc(patternDays, func(d patternDay) bool { return d.key == key })
		if i == -1 {
			return nil, fmt.Errorf("día desconocido %q (use mon..sat)", key)
		}
		day := patternDays[i].day
		if _, dup := p[day]; dup {
			return nil, fmt.Errorf("día repetido %q", key)
		}

		idxs := make([]int, 0)
		for _, raw := range strings.Split(list, ",") {
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("posición inválida %q para %s", raw, key)
			}
			idxs = append(idxs, n)
		}
		p[day] = idxs
	}

	if len(p) == 0 {
		return nil, fmt.Errorf("patrón vacío")
	}
	return p, nil
}

func (p Pattern) String() string {
	parts := make([]string, 0, len(patternDays))
	for _, d := range patternDays {
		idxs, ok := p[d.day]
		if !ok {
			continue
		}
		nums := make([]string, 0, len(idxs))
		for _, i := range idxs {
			nums = append(nums, strconv.Itoa(i))
		}
		parts = append(parts, d.key+"="+strings.Join(nums, ","))
	}
	return strings.Join(parts, ";")
}
