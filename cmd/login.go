package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	authadapter "github.com/bnema/folio-admin-cli/internal/adapters/auth"
	"github.com/bnema/folio-admin-cli/internal/domain"
)

func newLoginCmd(app *app) *cobra.Command {
	var identifier string
	var passwordFile string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the content API",
		Long:  "Sign in with an operator email and password. The password is read from --password-file, or prompted for without echo. Use --password-file - to read it from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			decision := app.guard.Admit(domain.ViewLogin)
			if !decision.Allowed {
				if current := app.sessions.Current(); current != nil {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Already signed in as %s.\n", current.DisplayName)
				}
				return app.navigate(cmd, decision.RedirectTo)
			}

			prompt := newPrompter(cmd)
			if strings.TrimSpace(identifier) == "" {
				value, err := prompt.line("Email: ")
				if err != nil {
					return fmt.Errorf("read email: %w", err)
				}
				identifier = value
			}

			secret, err := readLoginSecret(prompt, passwordFile)
			if err != nil {
				return err
			}

			session, err := app.sessions.Login(cmd.Context(), identifier, secret)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", session.DisplayName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&identifier, "identifier", "u", "", "Operator email")
	cmd.Flags().StringVar(&passwordFile, "password-file", "", "Read the password from a file, or - for stdin")

	return cmd
}

func readLoginSecret(prompt *prompter, passwordFile string) (string, error) {
	switch passwordFile {
	case "":
		secret, err := prompt.secret("Password: ")
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return secret, nil
	case "-":
		secret, err := prompt.line("")
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return secret, nil
	default:
		return readPasswordFile(passwordFile)
	}
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.signingOut = true
			if err := app.sessions.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("sign out: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in operator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session := app.sessions.Current()
			if session == nil {
				return explain(domain.ErrNoSession)
			}

			claims, err := authadapter.InspectToken(session.Token)
			if err != nil && !errors.Is(err, authadapter.ErrOpaqueToken) {
				app.logger.Debug("token claims unreadable", zap.Error(err))
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), whoamiOutput{
					OperatorID:  session.OperatorID,
					DisplayName: session.DisplayName,
					IssuedAt:    session.IssuedAt.UTC().Format(time.RFC3339),
					ExpiresAt:   formatOptionalTime(claims.ExpiresAt),
					Expired:     claims.Expired(app.now()),
				})
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Signed in as %s (%s)\n", session.DisplayName, session.OperatorID)
			_, _ = fmt.Fprintf(out, "Since: %s\n", session.IssuedAt.Local().Format(timeLayout))
			if !claims.ExpiresAt.IsZero() {
				state := "expires"
				if claims.Expired(app.now()) {
					state = "expired"
				}
				_, _ = fmt.Fprintf(out, "Token %s: %s\n", state, claims.ExpiresAt.Local().Format(timeLayout))
			}
			_, _ = fmt.Fprintf(out, "API: %s\n", app.cfg.APIBaseURL)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

const timeLayout = "2006-01-02 15:04 MST"

type whoamiOutput struct {
	OperatorID  string `json:"operator_id"`
	DisplayName string `json:"display_name"`
	IssuedAt    string `json:"issued_at"`
	ExpiresAt   string `json:"expires_at,omitempty"`
	Expired     bool   `json:"expired"`
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
