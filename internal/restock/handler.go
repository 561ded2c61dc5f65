package restock

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"punto-express/internal/calendar"
	"punto-express/internal/export"
	"punto-express/internal/schedule"
	"punto-express/internal/store"

	"github.com/gofiber/fiber/v2"
)

// RankingSize: filas del ranking que se muestran.
const RankingSize = 8

// Options: configuración fija del planificador.
type Options struct {
	Holidays schedule.HolidaySet
	Pattern  schedule.Pattern
	Policy   schedule.Policy // política por defecto
	Now      func() time.Time
}

type VisitResponse struct {
	Date     string   `json:"date"`
	Day      string   `json:"day"`
	Machines []string `json:"machines"`
}

type WeekRef struct {
	Year  int    `json:"year"`
	Week  int    `json:"week"`
	Label string `json:"label"`
	From  string `json:"from"`
	To    string `json:"to"`
}

type PlanResponse struct {
	Week         WeekRef            `json:"week"`
	Reference    WeekRef            `json:"reference"`
	Policy       schedule.Policy    `json:"policy"`
	Pattern      string             `json:"pattern"`
	Ranking      []schedule.Entry   `json:"ranking"`
	Schedule     []VisitResponse    `json:"schedule"`
	Slack        string             `json:"slack"`
	Dropped      []VisitResponse    `json:"dropped"`
	Holidays     []schedule.Holiday `json:"holidays"`
	EmptyHistory bool               `json:"empty_history"`
	Notice       string             `json:"notice,omitempty"`
}

func weekRef(w calendar.Week) WeekRef {
	return WeekRef{
		Year:  w.Year,
		Week:  w.Number,
		Label: w.Label(),
		From:  calendar.FormatDate(w.Monday),
		To:    calendar.FormatDate(w.Saturday()),
	}
}

func visits(vs []schedule.Visit) []VisitResponse {
	out := make([]VisitResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, VisitResponse{
			Date:     calendar.FormatDate(v.Date),
			Day:      v.Day,
			Machines: v.Machines,
		})
	}
	return out
}

func httpError(err error) error {
	if errors.Is(err, calendar.ErrInvalidPeriod) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

// plan lee la semana y la política de la consulta y corre el planificador.
// Por defecto programa la semana siguiente a la actual.
func plan(c *fiber.Ctx, records store.Records, roster store.Roster, opts Options) (schedule.Result, schedule.Policy, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	w, err := calendar.Parse(c.Query("year"), c.Query("week"), calendar.WeekOf(now()).Next())
	if err != nil {
		return schedule.Result{}, "", httpError(err)
	}

	policy := opts.Policy
	if policy == "" {
		policy = schedule.PolicyLeastVisited
	}
	if q := c.Query("policy"); q != "" {
		policy, err = schedule.ParsePolicy(q)
		if err != nil {
			return schedule.Result{}, "", fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
	}

	ref := w.Previous()
	ctx := c.UserContext()
	recs, err := records.Between(ctx, ref.Monday, ref.Saturday())
	if err != nil {
		return schedule.Result{}, "", err
	}
	machines, err := roster.ActiveMachines(ctx)
	if err != nil {
		return schedule.Result{}, "", err
	}

	res := schedule.Plan(schedule.Input{
		Week:     w,
		Records:  recs,
		Roster:   store.Names(machines),
		Holidays: opts.Holidays,
		Pattern:  opts.Pattern,
		Policy:   policy,
	})
	return res, policy, nil
}

// GET /api/restock?year=2025&week=39&policy=least-visited|emergent
func PlanHandler(records store.Records, roster store.Roster, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, policy, err := plan(c, records, roster, opts)
		if err != nil {
			return err
		}

		pattern := opts.Pattern
		if len(pattern) == 0 {
			pattern = schedule.DefaultPattern
		}

		resp := PlanResponse{
			Week:         weekRef(res.Week),
			Reference:    weekRef(res.Reference),
			Policy:       policy,
			Pattern:      pattern.String(),
			Ranking:      res.Ranking.Top(RankingSize),
			Schedule:     visits(res.Schedule.Visits),
			Slack:        res.Schedule.Slack,
			Dropped:      visits(res.Schedule.Dropped),
			Holidays:     opts.Holidays.Between(res.Week.Monday, res.Week.Saturday()),
			EmptyHistory: res.EmptyHistory,
		}
		if res.EmptyHistory {
			resp.Notice = fmt.Sprintf("No hay ventas registradas en la %s (%d); el calendario queda vacío.",
				res.Reference.Label(), res.Reference.Year)
		}

		return c.JSON(resp)
	}
}

// GET /api/restock/export
func ExportHandler(records store.Records, roster store.Roster, opts Options) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, _, err := plan(c, records, roster, opts)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(res.Schedule.Visits))
		for _, v := range res.Schedule.Visits {
			rows = append(rows, []any{calendar.FormatDate(v.Date), v.Day, strings.Join(v.Machines, ", ")})
		}

		data, err := export.XLSX(export.Table{
			Sheet:   fmt.Sprintf("Reab_%d", res.Week.Number),
			Headers: []string{"fecha", "día", "máquinas"},
			Rows:    rows,
		})
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, export.MimeXLSX)
		c.Attachment(fmt.Sprintf("reabastecimiento_semana_%d_%d.xlsx", res.Week.Number, res.Week.Year))
		return c.Send(data)
	}
}
