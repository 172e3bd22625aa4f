package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/martivergara/pressupost/internal/cli"
	"github.com/martivergara/pressupost/internal/db"
	"github.com/martivergara/pressupost/internal/repository"
	"github.com/martivergara/pressupost/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.pressupost/pressupost.db
	dbPath := os.Getenv("PRESSUPOST_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".pressupost", "pressupost.db")
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	projectRepo := repository.NewSQLiteProjectRepo(database)
	snapshotRepo := repository.NewSQLiteSnapshotRepo(database)

	// Use-case telemetry goes to stderr when PRESSUPOST_LOG is set.
	var observers []service.UseCaseObserver
	if os.Getenv("PRESSUPOST_LOG") != "" {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		Projects: service.NewProjectService(projectRepo, snapshotRepo, observers...),
		Budgets:  service.NewBudgetService(observers...),
		Imports:  service.NewImportService(observers...),
		Exports:  service.NewExportService(observers...),
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
