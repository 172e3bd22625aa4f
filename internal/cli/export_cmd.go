package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export PROJECT",
		Short: "Export the project as BC3 or a JSON project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "bc3":
				data, err = app.Exports.ExportBC3(ctx, ws)
			case "json":
				data, err = app.Exports.ExportProject(ctx, ws)
			default:
				return fmt.Errorf("unknown format %q, want bc3 or json", format)
			}
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported %s to %s (%d bytes)\n", p.Name, output, len(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "bc3", "Output format: bc3 or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file; stdout when empty")

	return cmd
}
