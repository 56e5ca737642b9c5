package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/folio-admin-cli/internal/adapters/render/table"
	"github.com/bnema/folio-admin-cli/internal/application"
	"github.com/bnema/folio-admin-cli/internal/domain"
)

type listable interface {
	domain.Entity
	domain.Row
}

func newController[T listable](app *app, schema domain.Schema) *application.ResourceController[T] {
	return application.NewResourceController[T](schema, app.client, app.sessions, app.logger)
}

// newResourceCmd builds one command group per resource view. Subcommands
// follow the schema's capabilities.
func newResourceCmd[T listable](app *app, schema domain.Schema, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(schema.Kind),
		Short: short,
	}

	cmd.AddCommand(newResourceListCmd[T](app, schema))
	if schema.Creatable {
		cmd.AddCommand(newResourceCreateCmd[T](app, schema))
	}
	if schema.Updatable {
		cmd.AddCommand(newResourceUpdateCmd[T](app, schema))
	}
	if schema.Deletable {
		cmd.AddCommand(newResourceDeleteCmd[T](app, schema))
	}
	if schema.Secondary != nil {
		cmd.AddCommand(newResourceSecondaryCmd[T](app, schema))
	}
	if schema.SeedPath != "" {
		cmd.AddCommand(newResourceSeedCmd[T](app, schema))
	}

	app.views[schema.Kind] = func(cmd *cobra.Command) error {
		return runResourceList[T](cmd, app, schema, false)
	}

	return cmd
}

func newResourceListCmd[T listable](app *app, schema domain.Schema) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   fmt.Sprintf("List %s entries", schema.Label),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResourceList[T](cmd, app, schema, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runResourceList[T listable](cmd *cobra.Command, app *app, schema domain.Schema, asJSON bool) error {
	if err := app.admit(schema.Kind); err != nil {
		return err
	}

	ctrl := newController[T](app, schema)
	defer ctrl.Detach()

	if err := withSpinner(cmd, asJSON, fmt.Sprintf("Loading %s...", schema.Kind), ctrl.Refresh); err != nil {
		return explain(err)
	}

	items := ctrl.Items()
	if asJSON {
		if items == nil {
			items = []T{}
		}
		return writeJSON(cmd.OutOrStdout(), items)
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.RowCells())
	}

	return app.writeTable(cmd, table.Table{
		Title:   viewTitle(schema.Kind),
		Columns: schema.Columns,
		Rows:    rows,
		Empty:   fmt.Sprintf("No %s entries.", schema.Label),
	}, 0)
}

func newResourceCreateCmd[T listable](app *app, schema domain.Schema) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", schema.Label),
		Long:  fieldHelp(schema),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.admit(schema.Kind); err != nil {
				return err
			}

			ctrl := newController[T](app, schema)
			defer ctrl.Detach()

			form := application.NewFormDraftController(schema)
			form.OpenForCreate()
			if err := flags.apply(form); err != nil {
				return err
			}

			if err := submitDraft(cmd, form, ctrl); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created %s.\n", schema.Label)
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

func newResourceUpdateCmd[T listable](app *app, schema domain.Schema) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: fmt.Sprintf("Update a %s", schema.Label),
		Long:  fieldHelp(schema),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.empty() {
				return errors.New("nothing to update: pass --set field=value or --file field=path")
			}
			if err := app.admit(schema.Kind); err != nil {
				return err
			}

			ctrl := newController[T](app, schema)
			defer ctrl.Detach()

			if err := withSpinner(cmd, false, fmt.Sprintf("Loading %s...", schema.Kind), ctrl.Refresh); err != nil {
				return explain(err)
			}
			id, err := resolveEntityID(ctrl.Items(), args[0])
			if err != nil {
				return err
			}
			item, _ := ctrl.Find(id)
			editable, ok := any(item).(domain.Editable)
			if !ok {
				return fmt.Errorf("update %s: %w", schema.Label, domain.ErrUnsupported)
			}

			form := application.NewFormDraftController(schema)
			form.OpenForEdit(editable)
			if err := flags.apply(form); err != nil {
				return err
			}

			if err := submitDraft(cmd, form, ctrl); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s.\n", schema.Label, id)
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}

// submitDraft sends the open draft through target. On failure the form
// keeps its values and the error names every rejected field.
func submitDraft(cmd *cobra.Command, form *application.FormDraftController, target application.Submitter) error {
	err := withSpinner(cmd, false, "Saving...", func(ctx context.Context) error {
		return form.Submit(ctx, target)
	})
	return explain(err)
}

func newResourceDeleteCmd[T listable](app *app, schema domain.Schema) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete a %s", schema.Label),
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.admit(schema.Kind); err != nil {
				return err
			}

			ctrl := newController[T](app, schema)
			defer ctrl.Detach()

			id, err := lookupID(cmd, ctrl, args[0])
			if err != nil {
				return err
			}

			err = ctrl.Remove(cmd.Context(), id, newPrompter(cmd).confirmer(assumeYes))
			if errors.Is(err, domain.ErrNotConfirmed) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
			if err != nil {
				return explain(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s.\n", schema.Label, id)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newResourceSecondaryCmd[T listable](app *app, schema domain.Schema) *cobra.Command {
	action := schema.Secondary.Name

	return &cobra.Command{
		Use:   action + " <id>",
		Short: fmt.Sprintf("Flip the %s state of a %s", action, schema.Label),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.admit(schema.Kind); err != nil {
				return err
			}

			ctrl := newController[T](app, schema)
			defer ctrl.Detach()

			id, err := lookupID(cmd, ctrl, args[0])
			if err != nil {
				return err
			}

			err = withSpinner(cmd, false, "Saving...", func(ctx context.Context) error {
				return ctrl.ToggleSecondary(ctx, id)
			})
			if err != nil {
				return explain(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %s to %s %s.\n", action, schema.Label, id)
			if item, ok := ctrl.Find(id); ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(item.RowCells(), "\t"))
			}
			return nil
		},
	}
}

func newResourceSeedCmd[T listable](app *app, schema domain.Schema) *cobra.Command {
	var assumeYes bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: fmt.Sprintf("Insert the default %s entries", schema.Label),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.admit(schema.Kind); err != nil {
				return err
			}

			ctrl := newController[T](app, schema)
			defer ctrl.Detach()

			err := ctrl.Seed(cmd.Context(), newPrompter(cmd).confirmer(assumeYes))
			if errors.Is(err, domain.ErrNotConfirmed) {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Cancelled.")
				return nil
			}
			if err != nil {
				return explain(err)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s entries; %d total.\n", schema.Label, len(ctrl.Items()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

// lookupID refreshes the collection and resolves an id prefix against it.
// An id the collection does not know is passed through so the server can
// answer for it.
func lookupID[T listable](cmd *cobra.Command, ctrl *application.ResourceController[T], raw string) (string, error) {
	if err := withSpinner(cmd, false, fmt.Sprintf("Loading %s...", ctrl.Schema().Kind), ctrl.Refresh); err != nil {
		return "", explain(err)
	}

	id, err := resolveEntityID(ctrl.Items(), raw)
	if errors.Is(err, errUnknownID) {
		return strings.TrimSpace(raw), nil
	}
	return id, err
}

func viewTitle(view domain.View) string {
	words := strings.Fields(strings.ReplaceAll(string(view), "-", " "))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
