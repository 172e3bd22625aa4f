package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martivergara/pressupost/internal/cli/formatter"
	"github.com/martivergara/pressupost/internal/pricing"
)

func newTreeCmd(app *App) *cobra.Command {
	var levels int
	var measurements bool

	cmd := &cobra.Command{
		Use:   "tree PROJECT",
		Short: "Print the budget as a numbered listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			rows, err := app.Budgets.Flatten(ctx, ws, pricing.FlattenOptions{
				MaxLevels:           levels,
				IncludeMeasurements: measurements,
			})
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				fmt.Println("The budget is empty.")
				return nil
			}
			fmt.Println(formatter.FormatRows(rows))
			return nil
		},
	}

	cmd.Flags().IntVar(&levels, "levels", 0, "Chapter levels to show as headers (0 = all)")
	cmd.Flags().BoolVar(&measurements, "measurements", false, "Include measurement lines")

	return cmd
}
