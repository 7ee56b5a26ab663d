package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-ConsultationService/internal/config"
	"github.com/m04kA/SMC-ConsultationService/migrations"
)

// Использование:
//
//	migrate [-config config.toml] up
//	migrate [-config config.toml] down
//	migrate [-config config.toml] force <version>
func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		fmt.Printf("Failed to ping database: %v\n", err)
		os.Exit(1)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		fmt.Printf("Failed to create database driver: %v\n", err)
		os.Exit(1)
	}

	srcDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		fmt.Printf("Failed to create source driver: %v\n", err)
		os.Exit(1)
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "postgres", dbDriver)
	if err != nil {
		fmt.Printf("Failed to create migrator: %v\n", err)
		os.Exit(1)
	}
	defer func() { _, _ = m.Close() }()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "force":
		var version int
		if flag.NArg() < 2 {
			fmt.Println("force requires a version")
			os.Exit(2)
		}
		if _, scanErr := fmt.Sscanf(flag.Arg(1), "%d", &version); scanErr != nil {
			fmt.Printf("Invalid version %q: %v\n", flag.Arg(1), scanErr)
			os.Exit(2)
		}
		err = m.Force(version)
	default:
		fmt.Printf("Unknown command %q (expected up, down or force)\n", command)
		os.Exit(2)
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		fmt.Printf("Migration %s failed: %v\n", command, err)
		os.Exit(1)
	}

	fmt.Printf("Migration %s complete\n", command)
}
