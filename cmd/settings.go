package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/folio-admin-cli/internal/adapters/render/table"
	"github.com/bnema/folio-admin-cli/internal/application"
	"github.com/bnema/folio-admin-cli/internal/domain"
)

func newSettingsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(domain.ViewSettings),
		Short: "Show and edit site settings",
	}

	cmd.AddCommand(newSettingsShowCmd(app), newSettingsSetCmd(app))

	app.views[domain.ViewSettings] = func(cmd *cobra.Command) error {
		return runSettingsShow(cmd, app, false)
	}

	return cmd
}

func newSettingsShowCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the site settings document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSettingsShow(cmd, app, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func runSettingsShow(cmd *cobra.Command, app *app, asJSON bool) error {
	if err := app.admit(domain.ViewSettings); err != nil {
		return err
	}

	ctrl := application.NewSettingsController(app.client, app.sessions, app.logger)
	defer ctrl.Detach()

	if err := withSpinner(cmd, asJSON, "Loading settings...", ctrl.Refresh); err != nil {
		return explain(err)
	}

	settings, _ := ctrl.Settings()
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), settings)
	}

	return app.writeTable(cmd, table.Table{
		Title:   "Site Settings",
		Columns: []string{"FIELD", "VALUE"},
		Rows:    settingsRows(settings),
	}, -1)
}

func settingsRows(settings domain.SiteSettings) [][]string {
	values := settings.DraftFields()
	values["resume"] = settings.ResumeLink
	values["profileImage"] = settings.ProfileImage

	rows := make([][]string, 0, len(domain.SettingsSchema.Fields))
	for _, field := range domain.SettingsSchema.Fields {
		rows = append(rows, []string{field.Name, values[field.Name]})
	}
	return rows
}

func newSettingsSetCmd(app *app) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the site settings document",
		Long:  "Fields not given keep their current value. Files not given keep the hosted file.\n\n" + fieldHelp(domain.SettingsSchema),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.empty() {
				return fmt.Errorf("nothing to update: pass --set field=value or --file field=path")
			}
			if err := app.admit(domain.ViewSettings); err != nil {
				return err
			}

			ctrl := application.NewSettingsController(app.client, app.sessions, app.logger)
			defer ctrl.Detach()

			if err := withSpinner(cmd, false, "Loading settings...", ctrl.Refresh); err != nil {
				return explain(err)
			}

			form := application.NewFormDraftController(domain.SettingsSchema)
			if current, ok := ctrl.Settings(); ok {
				form.OpenForEdit(current)
			} else {
				form.OpenForCreate()
			}
			if err := flags.apply(form); err != nil {
				return err
			}

			err := withSpinner(cmd, false, "Saving...", func(ctx context.Context) error {
				return form.Submit(ctx, ctrl)
			})
			if err != nil {
				return explain(err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Saved settings.")
			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}
