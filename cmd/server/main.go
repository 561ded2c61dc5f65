package main

import (
	"log"

	"punto-express/internal/config"
	"punto-express/internal/database"
	"punto-express/internal/server"
)

func main() {
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

	app := server.New(cfg, db)

	log.Println("Servidor escuchando en el puerto:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
