package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/martivergara/pressupost/internal/cli/formatter"
)

func newPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Edit prices",
	}

	cmd.AddCommand(
		newPriceSetCmd(app),
		newPricePEMCmd(app),
	)

	return cmd
}

// parseAmount accepts both "1234.56" and the comma-decimal "1234,56".
func parseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

func newPriceSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set PROJECT CODE PRICE",
		Short: "Set the price of a code across the whole budget",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			ctx := context.Background()
			p, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			ws, err = app.Budgets.SetPrice(ctx, ws, args[1], price)
			if err != nil {
				return err
			}
			if err := saveWorkspace(ctx, app, p.ID, ws); err != nil {
				return err
			}

			s, err := app.Budgets.Summary(ctx, ws)
			if err != nil {
				return err
			}
			fmt.Printf("Price of %s set to %s. New PEM: %s\n",
				args[1], formatter.FormatMoney(price), formatter.FormatMoney(s.Total))
			return nil
		},
	}
}

func newPricePEMCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pem PROJECT TARGET",
		Short: "Scale all prices to hit a target budget total",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := parseAmount(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			p, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			ws, factor, err := app.Budgets.AdjustPEM(ctx, ws, target)
			if err != nil {
				return err
			}
			if err := saveWorkspace(ctx, app, p.ID, ws); err != nil {
				return err
			}

			fmt.Printf("Adjusted PEM to %s (factor %s)\n",
				formatter.FormatMoney(target), formatter.FormatNumber(factor, 6))
			return nil
		},
	}
}
