package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"punto-express/internal/calendar"
	"punto-express/internal/models"

	"gorm.io/gorm"
)

var (
	ErrStoreUnavailable = errors.New("almacén de registros no disponible")
	ErrInvalidRecord    = errors.New("registro inválido")
)

// Records: acceso a los registros diarios de ventas.
type Records interface {
	Between(ctx context.Context, from, to time.Time) ([]models.DailyRecord, error)
	ReplaceBetween(ctx context.Context, from, to time.Time, batch []models.DailyRecord) error
	History(ctx context.Context, machine string) ([]models.DailyRecord, error)
	LatestDate(ctx context.Context) (time.Time, bool, error)
	CountByLabel(ctx context.Context, label string) (int64, error)
	DeleteByLabel(ctx context.Context, label string) (int64, error)
}

// Roster: máquinas activas en orden.
type Roster interface {
	ActiveMachines(ctx context.Context) ([]models.Machine, error)
}

// Store implementa Records y Roster sobre GORM.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// Between devuelve los registros con fecha en [from, to], por máquina y fecha.
func (s *Store) Between(ctx context.Context, from, to time.Time) ([]models.DailyRecord, error) {
	var records []models.DailyRecord
	err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", calendar.FormatDate(from), calendar.FormatDate(to)).
		Order("machine ASC, date ASC").
		Find(&records).Error
	if err != nil {
		return nil, unavailable(err)
	}
	return records, nil
}

// ReplaceBetween borra [from, to] e inserta el lote en una sola transacción.
func (s *Store) ReplaceBetween(ctx context.Context, from, to time.Time, batch []models.DailyRecord) error {
	rows, err := normalizeBatch(from, to, batch)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date BETWEEN ? AND ?", calendar.FormatDate(from), calendar.FormatDate(to)).
			Delete(&models.DailyRecord{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// normalizeBatch valida el lote y completa día y etiqueta de semana.
func normalizeBatch(from, to time.Time, batch []models.DailyRecord) ([]models.DailyRecord, error) {
	from, to = calendar.Day(from), calendar.Day(to)
	seen := make(map[string]bool, len(batch))
	rows := make([]models.DailyRecord, 0, len(batch))

	for _, r := range batch {
		if r.Machine == "" {
			return nil, fmt.Errorf("%w: máquina vacía", ErrInvalidRecord)
		}
		d, err := calendar.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
		}
		if d.Before(from) || d.After(to) {
			return nil, fmt.Errorf("%w: %s fuera del rango %s a %s", ErrInvalidRecord, r.Date,
				calendar.FormatDate(from), calendar.FormatDate(to))
		}
		if d.Weekday() == time.Sunday {
			return nil, fmt.Errorf("%w: %s es domingo", ErrInvalidRecord, r.Date)
		}
		if r.Sales < 0 || r.Expenses < 0 {
			return nil, fmt.Errorf("%w: montos negativos para %s el %s", ErrInvalidRecord, r.Machine, r.Date)
		}

		key := r.Date + "|" + r.Machine
		if seen[key] {
			return nil, fmt.Errorf("%w: %s repetida el %s", ErrInvalidRecord, r.Machine, r.Date)
		}
		seen[key] = true

		label := calendar.WeekOf(d).Label()
		if r.Week != "" && r.Week != label {
			return nil, fmt.Errorf("%w: %s no pertenece a %s", ErrInvalidRecord, r.Date, r.Week)
		}

		rows = append(rows, models.DailyRecord{
			Week:     label,
			Date:     calendar.FormatDate(d),
			Machine:  r.Machine,
			Day:      calendar.DayName(d),
			Sales:    r.Sales,
			Expenses: r.Expenses,
		})
	}

	return rows, nil
}

// History: historial completo, más reciente primero; machine "" = todas.
func (s *Store) History(ctx context.Context, machine string) ([]models.DailyRecord, error) {
	q := s.db.WithContext(ctx).Model(&models.DailyRecord{})
	if machine != "" {
		q = q.Where("machine = ?", machine)
	}

	var records []models.DailyRecord
	if err := q.Order("date DESC, machine ASC").Find(&records).Error; err != nil {
		return nil, unavailable(err)
	}
	return records, nil
}

// LatestDate: fecha del registro más reciente; false si no hay registros.
func (s *Store) LatestDate(ctx context.Context) (time.Time, bool, error) {
	var rec models.DailyRecord
	err := s.db.WithContext(ctx).Order("date DESC").Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, unavailable(err)
	}

	d, err := calendar.ParseDate(rec.Date)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	return d, true, nil
}

func (s *Store) CountByLabel(ctx context.Context, label string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.DailyRecord{}).
		Where("week = ?", label).Count(&count).Error; err != nil {
		return 0, unavailable(err)
	}
	return count, nil
}

// DeleteByLabel borra todas las filas con esa etiqueta de semana.
func (s *Store) DeleteByLabel(ctx context.Context, label string) (int64, error) {
	res := s.db.WithContext(ctx).Where("week = ?", label).Delete(&models.DailyRecord{})
	if res.Error != nil {
		return 0, unavailable(res.Error)
	}
	return res.RowsAffected, nil
}

func (s *Store) ActiveMachines(ctx context.Context) ([]models.Machine, error) {
	var machines []models.Machine
	if err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("position ASC, id ASC").
		Find(&machines).Error; err != nil {
		return nil, unavailable(err)
	}
	return machines, nil
}

// Names: nombres del roster en orden.
func Names(machines []models.Machine) []string {
	out := make([]string, 0, len(machines))
	for _, m := range machines {
		out = append(out, m.Name)
	}
	return out
}
