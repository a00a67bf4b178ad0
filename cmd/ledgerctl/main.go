// ledgerctl runs engine operations directly against the database, for
// administrators and for scheduled jobs that bypass the API.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/dp-213/insoledger/internal/config"
	"github.com/dp-213/insoledger/internal/database"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	commander.Register(commander.HelpCommand(), "")
	commander.Register(&splitCmd{}, "")
	commander.Register(&classifyCmd{}, "")
	commander.Register(&forecastCmd{}, "")
	commander.Register(&checkCmd{}, "")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func openDB() (*sql.DB, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	return database.New(cfg.ConnectionString())
}

func parseCase(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, fmt.Errorf("-case is required")
	}

	return uuid.Parse(s)
}
