package main

import (
	"context"
	"flag"
	"log"

	"github.com/UnknownOlympus/pallas/internal/config"
	"github.com/UnknownOlympus/pallas/internal/repository"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
)

func main() {
	var migrationsDir, command string
	flag.StringVar(&migrationsDir, "dir", "migrations", "directory with goose migration files")
	flag.StringVar(&command, "command", "up", "goose command to run: up, down, status")
	flag.Parse()

	cfg := config.MustLoad()

	dbpool, dbErr := repository.NewDatabase(context.Background(), cfg.Postgres)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("Failed to set goose dialect: %v", err) //nolint:gocritic // pool close is best effort
	}

	dtb := stdlib.OpenDBFromPool(dbpool)
	defer dtb.Close()

	if err := goose.Run(command, dtb, migrationsDir); err != nil {
		log.Fatalf("Failed to run %q migrations: %v", command, err)
	}

	log.Printf("Migrations %q applied successfully", command)
}
