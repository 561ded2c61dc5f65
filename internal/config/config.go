package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"punto-express/internal/schedule"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultPostgresDSN = "host=localhost user=postgres password=postgres dbname=punto_express port=5432 sslmode=disable"
	defaultSQLiteDSN   = "ventas_semanales.db"
	defaultCORSOrigins = "http://localhost:5173"
)

// DefaultMachines: roster inicial cuando la tabla de máquinas está vacía
var DefaultMachines = []string{
	"Motomall", "Unidad", "Norte", "Buses",
	"Paquetex", "Dekohouse", "Caldas", "Maquina 8",
}

// DefaultHolidays: festivos de Colombia 2025
var DefaultHolidays = map[string]string{
	"2025-01-01": "Año Nuevo",
	"2025-01-06": "Día de los Reyes Magos",
	"2025-03-24": "Día de San José",
	"2025-04-17": "Jueves Santo",
	"2025-04-18": "Viernes Santo",
	"2025-05-01": "Día del Trabajo",
	"2025-06-02": "Ascensión del Señor",
	"2025-06-23": "Corpus Christi",
	"2025-06-30": "Sagrado Corazón",
	"2025-07-20": "Día de la Independencia",
	"2025-08-07": "Batalla de Boyacá",
	"2025-08-18": "La Asunción de la Virgen",
	"2025-10-13": "Día de la Raza",
	"2025-11-03": "Día de Todos los Santos",
	"2025-11-17": "Independencia de Cartagena",
	"2025-12-08": "Inmaculada Concepción",
	"2025-12-25": "Navidad",
}

type Config struct {
	HTTPPort       string
	DatabaseDriver string // postgres | sqlite
	DatabaseDSN    string
	JWTSecret      string
	CORSOrigins    string

	Machines    []string            // roster inicial
	Holidays    schedule.HolidaySet // HOLIDAYS_FILE > HOLIDAYS > DefaultHolidays
	Pattern     schedule.Pattern    // RESTOCK_PATTERN
	SlackPolicy schedule.Policy     // SLACK_POLICY
}

func Load() (*Config, error) {
	// .env es opcional; las variables del entorno tienen prioridad
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[WARN] .env no se pudo leer: %v", err)
	}

	cfg := &Config{
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseDSN:    os.Getenv("DATABASE_DSN"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		CORSOrigins:    getEnv("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		Machines:       splitList(getEnv("MACHINES", strings.Join(DefaultMachines, ","))),
	}

	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = defaultPostgresDSN
			log.Println("[WARN] DATABASE_DSN no definido, se usa el Postgres local por defecto.")
		}
	case DriverSQLite:
		if cfg.DatabaseDSN == "" {
			cfg.DatabaseDSN = defaultSQLiteDSN
		}
	default:
		return nil, fmt.Errorf("DATABASE_DRIVER inválido %q (postgres o sqlite)", cfg.DatabaseDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET no está definido")
	}
	if len(cfg.JWTSecret) < 32 {
		return nil, errors.New("JWT_SECRET debe tener al menos 32 caracteres")
	}
	if len(cfg.Machines) == 0 {
		return nil, errors.New("MACHINES no puede estar vacío")
	}
	if cfg.CORSOrigins == defaultCORSOrigins {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS usa el valor por defecto.")
	}

	holidays, err := loadHolidays()
	if err != nil {
		return nil, err
	}
	cfg.Holidays = holidays

	cfg.Pattern = schedule.DefaultPattern
	if raw := os.Getenv("RESTOCK_PATTERN"); raw != "" {
		p, err := schedule.ParsePattern(raw)
		if err != nil {
			return nil, fmt.Errorf("RESTOCK_PATTERN: %w", err)
		}
		cfg.Pattern = p
	}

	policy, err := schedule.ParsePolicy(os.Getenv("SLACK_POLICY"))
	if err != nil {
		return nil, fmt.Errorf("SLACK_POLICY: %w", err)
	}
	cfg.SlackPolicy = policy

	return cfg, nil
}

type holidayFile struct {
	Holidays []struct {
		Date string `yaml:"date"`
		Name string `yaml:"name"`
	} `yaml:"holidays"`
}

func loadHolidays() (schedule.HolidaySet, error) {
	if path := os.Getenv("HOLIDAYS_FILE"); path != "" {
		return LoadHolidayFile(path)
	}

	raw := os.Getenv("HOLIDAYS")
	if raw == "" {
		return schedule.NewHolidaySet(DefaultHolidays)
	}

	// "2025-01-01=Año Nuevo,2025-01-06"
	dates := make(map[string]string)
	for _, item := range splitList(raw) {
		date, name, _ := strings.Cut(item, "=")
		dates[strings.TrimSpace(date)] = strings.TrimSpace(name)
	}
	set, err := schedule.NewHolidaySet(dates)
	if err != nil {
		return nil, fmt.Errorf("HOLIDAYS: %w", err)
	}
	return set, nil
}

// LoadHolidayFile lee un YAML con la lista "holidays: [{date, name}]".
func LoadHolidayFile(path string) (schedule.HolidaySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("archivo de festivos: %w", err)
	}

	var f holidayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("archivo de festivos %s: %w", path, err)
	}

	dates := make(map[string]string, len(f.Holidays))
	for _, h := range f.Holidays {
		dates[h.Date] = h.Name
	}
	return schedule.NewHolidaySet(dates)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
