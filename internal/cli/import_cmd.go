package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/martivergara/pressupost/internal/cli/formatter"
	"github.com/martivergara/pressupost/internal/merge"
)

// duplicatePolicy is the --on-duplicate flag value: empty, "rename" or
// "skip", validated at parse time.
type duplicatePolicy string

var _ pflag.Value = (*duplicatePolicy)(nil)

func (p *duplicatePolicy) String() string { return string(*p) }

func (p *duplicatePolicy) Type() string { return "policy" }

func (p *duplicatePolicy) Set(v string) error {
	switch v {
	case "rename", "skip":
		*p = duplicatePolicy(v)
		return nil
	default:
		return fmt.Errorf("must be rename or skip, got %q", v)
	}
}

func newImportCmd(app *App) *cobra.Command {
	var onDuplicate duplicatePolicy

	cmd := &cobra.Command{
		Use:   "import PROJECT FILE",
		Short: "Import a BC3 file into the project",
		Long: "Decode a FIEBDC-3 (.bc3) file and merge its chapters into the project's budget. " +
			"Items whose code already exists in the budget are duplicates: each one is either " +
			"renamed to a unique code or skipped in favour of the existing item.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			ctx := context.Background()
			p, ws, err := openWorkspace(ctx, app, args[0])
			if err != nil {
				return err
			}

			session, err := app.Imports.Start(ctx, ws, raw)
			if err != nil {
				return err
			}

			if session.Pending() {
				if err := resolveDuplicates(session, onDuplicate, app.interactive()); err != nil {
					return err
				}
			}

			ws, err = app.Imports.Finalize(ctx, ws, session)
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
			fmt.Printf("Imported %s into %s. PEM: %s\n",
				args[1], p.Name, formatter.FormatMoney(s.Total))
			return nil
		},
	}

	cmd.Flags().Var(&onDuplicate, "on-duplicate",
		"Resolve all duplicate codes the same way: rename or skip")

	return cmd
}

// resolveDuplicates drives the merge session until no decisions remain,
// prompting per duplicate on a terminal unless a batch policy was given.
func resolveDuplicates(session *merge.Session, policy duplicatePolicy, interactive bool) error {
	var batch merge.Decision
	havePolicy := true
	switch policy {
	case "rename":
		batch = merge.DecisionRename
	case "skip":
		batch = merge.DecisionSkip
	default:
		havePolicy = false
	}

	if !havePolicy && !interactive {
		return fmt.Errorf("%d duplicate codes found, pass --on-duplicate rename|skip", session.Remaining())
	}

	for session.Pending() {
		dup, _ := session.Current()

		decision := batch
		if !havePolicy {
			if err := askDuplicate(dup, &decision); err != nil {
				return err
			}
		}

		res, err := session.Resolve(decision)
		if err != nil {
			return err
		}
		switch decision {
		case merge.DecisionRename:
			fmt.Printf("  %s renamed to %s\n", dup.Code, res.RenamedTo)
		case merge.DecisionSkip:
			fmt.Printf("  %s skipped, keeping the existing item\n", dup.Code)
		}
	}
	return nil
}

func askDuplicate(dup merge.Duplicate, decision *merge.Decision) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[merge.Decision]().
			Title(fmt.Sprintf("Code %s already exists", dup.Code)).
			Description(dup.Description).
			Options(
				huh.NewOption("Import under a new code", merge.DecisionRename),
				huh.NewOption("Skip, keep the existing item", merge.DecisionSkip),
			).
			Value(decision),
	)).WithTheme(pressupostHuhTheme()).WithShowHelp(false)
	return form.Run()
}
