package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/martivergara/pressupost/internal/domain"
	"github.com/martivergara/pressupost/internal/service"
)

func newNodeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Edit chapters and items",
	}

	cmd.AddCommand(
		newNodeAddCmd(app),
		newNodeEditCmd(app),
		newNodeRemoveCmd(app),
	)

	return cmd
}

// findNode resolves a node reference inside the budget: exact ID first,
// then unique normalized code.
func findNode(b *domain.Budget, ref string) (*domain.Node, error) {
	if n := domain.FindByID(b.Chapters, ref); n != nil {
		return n, nil
	}

	norm := domain.NormalizeCode(ref)
	var matches []*domain.Node
	var walk func(nodes []*domain.Node)
	walk = func(nodes []*domain.Node) {
		for _, n := range nodes {
			if domain.NormalizeCode(n.Code) == norm {
				matches = append(matches, n)
			}
			walk(n.SubChapters)
			walk(n.Items)
		}
	}
	walk(b.Chapters)

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no node matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("code %q matches %d nodes, use the node ID", ref, len(matches))
	}
}

func newNodeAddCmd(app *App) *cobra.Command {
	var parent, code, desc, unit string
	var price float64

	cmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add a chapter or item",
		Long:  "Add a node to the budget. Nodes with a unit are priced items; nodes without one are chapters.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			parentID := ""
			if parent != "" {
				parentNode, err := findNode(ws.Budget, parent)
				if err != nil {
					return err
				}
				parentID = parentNode.ID
			}

			if code == "" && app.interactive() {
				if err := nodeDraftForm(&code, &desc, &unit).Run(); err != nil {
					return err
				}
			}
			if code == "" {
				return fmt.Errorf("--code is required")
			}

			ws, node, err := app.Budgets.CreateNode(ctx, ws, parentID, service.NodeDraft{
				Code:        code,
				Description: desc,
				Unit:        unit,
				Price:       price,
			})
			if err != nil {
				return err
			}
			if err := saveWorkspace(ctx, app, p.ID, ws); err != nil {
				return err
			}

			kind := "item"
			if node.IsChapter() {
				kind = "chapter"
			}
			fmt.Printf("Added %s %s (%s)\n", kind, node.Code, node.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent chapter (ID or code); empty adds at the top level")
	cmd.Flags().StringVar(&code, "code", "", "Node code")
	cmd.Flags().StringVar(&desc, "desc", "", "Short description")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit of measure; leave empty for a chapter")
	cmd.Flags().Float64Var(&price, "price", 0, "Unit price (items only)")

	return cmd
}

// nodeDraftForm collects the node fields interactively.
func nodeDraftForm(code, desc, unit *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Code").Placeholder("E01").Value(code).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("a code is required")
					}
					return nil
				}),
			huh.NewInput().Title("Description").Value(desc),
			huh.NewInput().Title("Unit (empty for a chapter)").Placeholder("m2").Value(unit),
		),
	).WithTheme(pressupostHuhTheme()).WithShowHelp(false)
}

func newNodeEditCmd(app *App) *cobra.Command {
	var desc, unit string
	var price float64

	cmd := &cobra.Command{
		Use:   "edit PROJECT NODE",
		Short: "Edit a node's description, unit or price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			node, err := findNode(ws.Budget, args[1])
			if err != nil {
				return err
			}

			draft := service.NodeDraft{
				Code:        node.Code,
				Description: node.Description,
				Unit:        node.Unit,
				Price:       node.Price,
			}
			if cmd.Flags().Changed("desc") {
				draft.Description = desc
			}
			if cmd.Flags().Changed("unit") {
				draft.Unit = unit
			}
			if cmd.Flags().Changed("price") {
				draft.Price = price
			}

			ws, err = app.Budgets.UpdateNode(ctx, ws, node.ID, draft)
			if err != nil {
				return err
			}
			if err := saveWorkspace(ctx, app, p.ID, ws); err != nil {
				return err
			}

			fmt.Printf("Updated %s\n", node.Code)
			return nil
		},
	}

	cmd.Flags().StringVar(&desc, "desc", "", "New short description")
	cmd.Flags().StringVar(&unit, "unit", "", "New unit of measure")
	cmd.Flags().Float64Var(&price, "price", 0, "New unit price")

	return cmd
}

func newNodeRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove PROJECT NODE",
		Short: "Delete a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			node, err := findNode(ws.Budget, args[1])
			if err != nil {
				return err
			}

			if node.HasDescendants() && !force {
				if !app.interactive() {
					return fmt.Errorf("%s has nested content, pass --force to delete it", node.Code)
				}
				var confirmed bool
				form := huh.NewForm(huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Delete %s and everything under it?", node.Code)).
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

			ws, err = app.Budgets.DeleteNode(ctx, ws, node.ID)
			if err != nil {
				return err
			}
			if err := saveWorkspace(ctx, app, p.ID, ws); err != nil {
				return err
			}

			fmt.Printf("Deleted %s\n", node.Code)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Delete without confirmation")

	return cmd
}
