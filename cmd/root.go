package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/folio-admin-cli/internal/domain"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fa",
		Short:         "Folio admin (fa): manage portfolio content from the terminal",
		Long:          "fa signs an operator into the portfolio content API and manages projects, services, experience, gallery, reviews, messages, tech stack and site settings.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.AddCommand(newVersionCmd())

	app, err := wireApp(commandStderr{cmd: rootCmd})
	if err != nil {
		// Any invocation reports the wiring error instead of "unknown command".
		rootCmd.Args = cobra.ArbitraryArgs
		rootCmd.FParseErrWhitelist.UnknownFlags = true
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.sessions.Rehydrate(cmd.Context())
		if app.sessions.Current() == nil {
			return
		}
		app.sessions.Subscribe(func(session *domain.Session) {
			if session == nil && !app.signingOut {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Session expired; signed out. Run 'fa login' to sign in again.")
			}
		})
	}
	rootCmd.PersistentPostRun = func(_ *cobra.Command, _ []string) {
		_ = app.logger.Sync()
	}

	rootCmd.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newResourceCmd[domain.Project](app, domain.ProjectSchema, "Manage portfolio projects"),
		newResourceCmd[domain.Service](app, domain.ServiceSchema, "Manage offered services"),
		newResourceCmd[domain.Experience](app, domain.ExperienceSchema, "Manage work experience entries"),
		newResourceCmd[domain.GalleryItem](app, domain.GallerySchema, "Manage gallery images"),
		newResourceCmd[domain.Review](app, domain.ReviewSchema, "Moderate client reviews"),
		newResourceCmd[domain.Message](app, domain.MessageSchema, "Read and remove contact messages"),
		newResourceCmd[domain.TechStackItem](app, domain.TechStackSchema, "Manage the tech stack showcase"),
		newSettingsCmd(app),
	)

	return rootCmd
}
