package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"punto-express/internal/calendar"
	"punto-express/internal/models"
	"punto-express/internal/store"

	"gorm.io/gorm"
)

var (
	ErrLogNotFound   = errors.New("registro de auditoría no encontrado")
	ErrAlreadyUndone = errors.New("esta operación ya fue revertida")
	ErrNotUndoable   = errors.New("este tipo de operación no se puede revertir")
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WeekSnapshot es el contenido de una semana antes o después de guardarla.
type WeekSnapshot struct {
	Year    int                  `json:"year"`
	Week    int                  `json:"week"`
	Records []models.DailyRecord `json:"records"`
}

// WeekEntityID codifica año y semana en un solo entero (202538).
func WeekEntityID(w calendar.Week) uint {
	return uint(w.Year*100 + w.Number)
}

func marshalData(v any) string {
	// null JSON en vez de string vacío para que la columna sea JSON válido
	if v == nil {
		return "null"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func WriteLog(db *gorm.DB, opts LogOptions) error {
	entry := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  marshalData(opts.Before),
		AfterData:   marshalData(opts.After),
	}

	if err := db.Create(&entry).Error; err != nil {
		return fmt.Errorf("no se pudo guardar el registro de auditoría: %w", err)
	}
	return nil
}

// UndoLog revierte una operación registrada y deja constancia con una
// entrada "undo". Todo ocurre en una transacción: si algo falla, ni los datos
// ni el registro cambian.
func UndoLog(ctx context.Context, db *gorm.DB, logID, userID uint, userName string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entry models.AuditLog
		if err := tx.First(&entry, "id = ?", logID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLogNotFound
			}
			return fmt.Errorf("no se pudo leer el registro: %w", err)
		}

		if entry.IsUndone {
			return ErrAlreadyUndone
		}

		switch entry.EntityType {
		case models.AuditEntitySalesWeek:
			if err := restoreWeek(ctx, store.New(tx), entry); err != nil {
				return err
			}
		case models.AuditEntityMachine:
			if err := undoMachine(tx, entry); err != nil {
				return err
			}
		default:
			return ErrNotUndoable
		}

		res := tx.Model(&models.AuditLog{}).
			Where("id = ? AND is_undone = ?", entry.ID, false).
			Updates(map[string]interface{}{
				"is_undone": true,
				"undone_by": userID,
				"undone_at": time.Now(),
			})
		if res.Error != nil {
			return fmt.Errorf("no se pudo actualizar el registro: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyUndone
		}

		return WriteLog(tx, LogOptions{
			UserID:      userID,
			UserName:    userName,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Action:      models.AuditActionUndo,
			Description: fmt.Sprintf("Revertido: %s", entry.Description),
			Before:      json.RawMessage(entry.AfterData),
			After:       json.RawMessage(entry.BeforeData),
		})
	})
}

// restoreWeek vuelve a escribir la semana tal como estaba antes de guardarla.
func restoreWeek(ctx context.Context, records store.Records, entry models.AuditLog) error {
	if entry.Action != models.AuditActionCreate && entry.Action != models.AuditActionUpdate {
		return ErrNotUndoable
	}

	var before WeekSnapshot
	if entry.BeforeData != "" && entry.BeforeData != "null" {
		if err := json.Unmarshal([]byte(entry.BeforeData), &before); err != nil {
			return fmt.Errorf("datos previos ilegibles: %w", err)
		}
	}

	// la semana sale del EntityID cuando no había datos previos
	year, number := before.Year, before.Week
	if year == 0 {
		year, number = int(entry.EntityID/100), int(entry.EntityID%100)
	}
	w, err := calendar.ISOWeek(year, number)
	if err != nil {
		return err
	}

	batch := make([]models.DailyRecord, 0, len(before.Records))
	for _, r := range before.Records {
		batch = append(batch, models.DailyRecord{
			Date:     r.Date,
			Machine:  r.Machine,
			Sales:    r.Sales,
			Expenses: r.Expenses,
		})
	}
	return records.ReplaceBetween(ctx, w.Monday, w.Saturday(), batch)
}

func undoMachine(tx *gorm.DB, entry models.AuditLog) error {
	switch entry.Action {
	case models.AuditActionCreate:
		return tx.Delete(&models.Machine{}, "id = ?", entry.EntityID).Error

	case models.AuditActionUpdate:
		var m models.Machine
		if err := json.Unmarshal([]byte(entry.BeforeData), &m); err != nil {
			return fmt.Errorf("datos previos ilegibles: %w", err)
		}
		return tx.Model(&models.Machine{}).Where("id = ?", entry.EntityID).Updates(map[string]interface{}{
			"name":     m.Name,
			"location": m.Location,
			"position": m.Position,
			"active":   m.Active,
		}).Error

	case models.AuditActionDelete:
		var m models.Machine
		if err := json.Unmarshal([]byte(entry.BeforeData), &m); err != nil {
			return fmt.Errorf("datos previos ilegibles: %w", err)
		}
		m.ID = entry.EntityID
		active := m.Active
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		// default:true ignora el false en el INSERT
		if !active {
			return tx.Model(&m).Update("active", false).Error
		}
		return nil

	default:
		return ErrNotUndoable
	}
}
