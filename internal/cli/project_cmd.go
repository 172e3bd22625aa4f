package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/martivergara/pressupost/internal/cli/formatter"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage stored projects",
	}

	cmd.AddCommand(
		newProjectNewCmd(app),
		newProjectListCmd(app),
		newProjectRenameCmd(app),
		newProjectRemoveCmd(app),
		newProjectLoadCmd(app),
	)

	return cmd
}

func newProjectNewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Projects.Create(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created project %s [%s]\n", p.Name, p.ID[:8])
			return nil
		},
	}
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}
			fmt.Println(formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectRenameCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rename PROJECT NAME",
		Short: "Rename a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, _, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Rename(ctx, p.ID, args[1]); err != nil {
				return err
			}
			fmt.Printf("Renamed %s to %s\n", p.Name, args[1])
			return nil
		},
	}
}

func newProjectLoadCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "load PROJECT FILE",
		Short: "Replace a project's budget with a saved JSON project file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			p, current, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			if len(current.Budget.Chapters) > 0 && !force {
				if !app.interactive() {
					return fmt.Errorf("%q is not empty, pass --force to overwrite it", p.Name)
				}
				var confirmed bool
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Overwrite the current budget of %q?", p.Name)).
						Value(&confirmed),
				)).WithTheme(pressupostHuhTheme())
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			ws, err := app.Exports.ImportProjectFile(ctx, raw)
			if err != nil {
				return err
			}
			if err := saveWorkspace(ctx, app, p.ID, ws); err != nil {
				return err
			}

			fmt.Printf("Loaded %s into %s\n", args[1], p.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite without confirmation")

	return cmd
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Delete a project and its budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, _, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !force {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %q without --force", p.Name)
				}
				var confirmed bool
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete project %q and all its data?", p.Name)).
						Value(&confirmed),
				)).WithTheme(pressupostHuhTheme())
				if err := form.Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := app.Projects.Delete(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Deleted project %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete without confirmation")

	return cmd
}
