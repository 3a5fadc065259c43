package main

import (
	"context"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/dbmigrate"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatalf("usage: go run ./cmd/migrate [%s] [migrations-dir]", strings.Join(dbmigrate.Commands, "|"))
	}

	command := os.Args[1]
	if !dbmigrate.IsCommand(command) {
		log.Fatalf("unsupported command %q (allowed: %s)", command, strings.Join(dbmigrate.Commands, ", "))
	}

	// Without an explicit directory the embedded migrations are used.
	dir := ""
	if len(os.Args) > 2 {
		dir = os.Args[2]
	}

	cfg := config.Load()
	sel, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		log.Fatal(err)
	}

	if sel.Warning != "" {
		log.Printf("WARN migrate: %s", sel.Warning)
	}
	log.Printf("INFO migrate: command=%s using=%s dir=%s", command, sel.Source, nonEmptyOr(dir, "(embedded)"))

	if err := dbmigrate.Run(context.Background(), command, sel.URL, dir); err != nil {
		log.Fatal(err)
	}

	log.Printf("INFO migrate: %s completed successfully", command)
}

func nonEmptyOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
