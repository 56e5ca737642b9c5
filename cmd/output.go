package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bnema/folio-admin-cli/internal/adapters/render/table"
	"github.com/bnema/folio-admin-cli/internal/domain"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) writeTable(cmd *cobra.Command, t table.Table, idColumn int) error {
	rendered, err := a.render(t, table.RenderOptions{IDColumn: idColumn})
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
	return err
}

// explain adds the next step to errors an operator can act on.
func explain(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrAuth) {
		return fmt.Errorf("%w (run 'fa login' to sign in)", err)
	}
	return err
}

// admit runs the route guard for a protected view.
func (a *app) admit(view domain.View) error {
	decision := a.guard.Admit(view)
	if decision.Allowed {
		return nil
	}
	if decision.RedirectTo == domain.ViewLogin {
		return explain(fmt.Errorf("%s: %w", view, domain.ErrNoSession))
	}
	return fmt.Errorf("%s: redirected to %s", view, decision.RedirectTo)
}

// navigate shows a view as if its command had been invoked.
func (a *app) navigate(cmd *cobra.Command, view domain.View) error {
	show, ok := a.views[view]
	if !ok {
		return fmt.Errorf("no command shows %s", view)
	}
	return show(cmd)
}
