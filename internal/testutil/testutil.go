package testutil

import (
	"testing"

	"punto-express/internal/database"
	"punto-express/internal/models"

	"gorm.io/gorm"
)

// Roster usado por las pruebas
var Roster = []string{"Motomall", "Unidad", "Norte", "Buses", "Paquetex"}

// SetupTestDB abre un SQLite en memoria con el esquema completo y el roster de prueba.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	if err := database.Migrate(db, Roster); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// InsertRecords guarda registros tal cual, sin pasar por la validación del store.
func InsertRecords(t *testing.T, db *gorm.DB, records ...models.DailyRecord) {
	t.Helper()
	if len(records) == 0 {
		return
	}
	if err := db.Create(&records).Error; err != nil {
		t.Fatalf("Failed to insert records: %v", err)
	}
}

// Record arma un registro; el día y la etiqueta los completa quien lo necesite.
func Record(week, date, machine, day string, sales, expenses int64) models.DailyRecord {
	return models.DailyRecord{Week: week, Date: date, Machine: machine, Day: day, Sales: sales, Expenses: expenses}
}
