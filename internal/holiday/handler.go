package holiday

import (
	"fmt"
	"strconv"
	"time"

	"punto-express/internal/calendar"
	"punto-express/internal/schedule"

	"github.com/gofiber/fiber/v2"
)

type TomorrowResponse struct {
	Date      string `json:"date"`
	IsHoliday bool   `json:"is_holiday"`
	Name      string `json:"name,omitempty"`
	Notice    string `json:"notice,omitempty"`
}

// GET /api/holidays?year=2025
func ListHandler(holidays schedule.HolidaySet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from := time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)

		if y := c.Query("year"); y != "" {
			year, err := strconv.Atoi(y)
			if err != nil || year < 2000 || year > 9999 {
				return fiber.NewError(fiber.StatusBadRequest, "Año inválido")
			}
			from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			to = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
		}

		return c.JSON(holidays.Between(from, to))
	}
}

// Tomorrow: aviso si el día siguiente a now es festivo.
func Tomorrow(holidays schedule.HolidaySet, now time.Time) TomorrowResponse {
	tomorrow := calendar.Day(now).AddDate(0, 0, 1)
	resp := TomorrowResponse{Date: calendar.FormatDate(tomorrow)}

	name, ok := holidays.Name(tomorrow)
	if !ok {
		return resp
	}

	resp.IsHoliday = true
	resp.Name = name
	if name == "" {
		name = resp.Date
	}
	resp.Notice = fmt.Sprintf("Mañana es festivo: %s. ¡Carga completa recomendada hoy!", name)
	return resp
}

// GET /api/holidays/tomorrow
func TomorrowHandler(holidays schedule.HolidaySet, now func() time.Time) fiber.Handler {
	if now == nil {
		now = time.Now
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(Tomorrow(holidays, now()))
	}
}
