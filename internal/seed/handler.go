package seed

import (
	"errors"

	"punto-express/internal/calendar"
	"punto-express/internal/store"

	"github.com/gofiber/fiber/v2"
)

type SeedRequest struct {
	Year int    `json:"year"`
	Week int    `json:"week"`
	Seed uint64 `json:"seed"`
}

// DefaultWeek: semana de simulación histórica (Semana 38 de 2025).
var DefaultWeek = SeedRequest{Year: 2025, Week: 38}

// POST /api/admin/seed
func SeedHandler(records store.Records, roster store.Roster) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := DefaultWeek
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Datos inválidos")
			}
		}

		w, err := calendar.ISOWeek(body.Year, body.Week)
		if err != nil {
			if errors.Is(err, calendar.ErrInvalidPeriod) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return err
		}

		ctx := c.UserContext()
		machines, err := roster.ActiveMachines(ctx)
		if err != nil {
			return err
		}

		inserted, err := SimulateWeek(ctx, records, w, store.Names(machines), NewRand(body.Seed))
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"label":    w.Label(),
			"inserted": inserted,
			"skipped":  inserted == 0,
		})
	}
}
