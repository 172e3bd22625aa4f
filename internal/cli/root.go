package cli

import (
	"github.com/martivergara/pressupost/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Budgets  service.BudgetService
	Imports  service.ImportService
	Exports  service.ExportService

	// IsInteractive reports whether stdin is a terminal, so commands know
	// when they may prompt instead of requiring flags.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "pressupost" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "pressupost",
		Short: "Construction budget editor with BC3 interchange",
	}

	root.AddCommand(
		newProjectCmd(app),
		newTotalCmd(app),
		newSummaryCmd(app),
		newTreeCmd(app),
		newResourcesCmd(app),
		newNodeCmd(app),
		newPriceCmd(app),
		newImportCmd(app),
		newExportCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}
