package database

import (
	"database/sql"
	"fmt"
	"log"

	"punto-express/internal/config"
	"punto-express/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// Open abre la conexión según DATABASE_DRIVER. El handle se inyecta en los
// handlers; no hay conexión global.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), gcfg)
		if err != nil {
			return nil, fmt.Errorf("no se pudo conectar a Postgres: %w", err)
		}
		return db, nil

	case config.DriverSQLite:
		return OpenSQLite(cfg.DatabaseDSN, gcfg)

	default:
		return nil, fmt.Errorf("driver de base de datos desconocido: %s", cfg.DatabaseDriver)
	}
}

// OpenSQLite usa el driver pure-Go de modernc detrás del dialecto SQLite de GORM.
func OpenSQLite(dsn string, gcfg *gorm.Config) (*gorm.DB, error) {
	if gcfg == nil {
		gcfg = &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir SQLite: %w", err)
	}
	// una sola conexión: ":memory:" es por conexión y SQLite serializa escrituras
	sqlDB.SetMaxOpenConns(1)

	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", Conn: sqlDB}), gcfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("no se pudo abrir SQLite: %w", err)
	}
	return db, nil
}

// Migrate crea/actualiza las tablas y carga el roster inicial si no hay máquinas.
func Migrate(db *gorm.DB, roster []string) error {
	err := db.AutoMigrate(
		&models.Machine{},
		&models.DailyRecord{},
		&models.User{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("AutoMigrate falló: %w", err)
	}

	var count int64
	if err := db.Model(&models.Machine{}).Count(&count).Error; err != nil {
		return fmt.Errorf("no se pudieron contar las máquinas: %w", err)
	}
	if count == 0 && len(roster) > 0 {
		machines := make([]models.Machine, 0, len(roster))
		for i, name := range roster {
			machines = append(machines, models.Machine{Name: name, Position: i, Active: true})
		}
		if err := db.Create(&machines).Error; err != nil {
			return fmt.Errorf("no se pudo crear el roster inicial: %w", err)
		}
		log.Printf("Roster inicial creado con %d máquinas", len(machines))
	}

	log.Println("Base de datos lista. Migración completada.")
	return nil
}
