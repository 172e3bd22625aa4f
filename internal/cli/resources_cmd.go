package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martivergara/pressupost/internal/cli/formatter"
)

func newResourcesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resources PROJECT",
		Short: "Show the aggregated bill of resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}
			bill, err := app.Budgets.Resources(ctx, ws)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatResources(bill))
			return nil
		},
	}
}
