package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/martivergara/pressupost/internal/cli/formatter"
)

func newTotalCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "total PROJECT",
		Short: "Print the budget total (PEM)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			_, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}
			s, err := app.Budgets.Summary(ctx, ws)
			if err != nil {
				return err
			}
			fmt.Println(formatter.FormatMoney(s.Total))
			return nil
		},
	}
}
