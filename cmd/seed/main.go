// seed carga una semana simulada de ventas para probar el tablero y el
// planificador sin datos reales.
package main

import (
	"context"
	"flag"
	"log"

	"punto-express/internal/calendar"
	"punto-express/internal/config"
	"punto-express/internal/database"
	"punto-express/internal/seed"
	"punto-express/internal/store"
)

func main() {
	year := flag.Int("year", seed.DefaultWeek.Year, "año ISO de la semana a simular")
	week := flag.Int("week", seed.DefaultWeek.Week, "número de semana ISO")
	rngSeed := flag.Uint64("seed", 0, "semilla del generador (0 = aleatoria)")
	flag.Parse()

	w, err := calendar.ISOWeek(*year, *week)
	if err != nil {
		log.Fatal(err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuración inválida: ", err)
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal("No se pudo conectar a la base de datos: ", err)
	}
	if err := database.Migrate(db, cfg.Machines); err != nil {
		log.Fatal("Migración fallida: ", err)
	}

	ctx := context.Background()
	st := store.New(db)
	machines, err := st.ActiveMachines(ctx)
	if err != nil {
		log.Fatal(err)
	}

	n, err := seed.SimulateWeek(ctx, st, w, store.Names(machines), seed.NewRand(*rngSeed))
	if err != nil {
		log.Fatal(err)
	}
	if n == 0 {
		log.Printf("La %s ya tiene datos; no se insertó nada.", w.Label())
		return
	}
	log.Printf("%d registros simulados para la %s (%d).", n, w.Label(), w.Year)
}
