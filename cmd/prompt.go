package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bnema/folio-admin-cli/internal/ports"
)

var errNoInput = errors.New("no input")

// prompter reads answers from the command's input. It keeps one buffered
// reader so consecutive prompts see consecutive lines.
type prompter struct {
	cmd    *cobra.Command
	reader *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, reader: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) line(label string) (string, error) {
	if label != "" {
		_, _ = fmt.Fprint(p.cmd.ErrOrStderr(), label)
	}
	text, err := p.reader.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", err
		}
		if text == "" {
			return "", errNoInput
		}
	}
	return strings.TrimRight(text, "\r\n"), nil
}

// secret reads a password with echo disabled when input is a terminal, and
// as a plain line otherwise.
func (p *prompter) secret(label string) (string, error) {
	if file, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(p.cmd.ErrOrStderr(), label)
		raw, err := term.ReadPassword(int(file.Fd()))
		_, _ = fmt.Fprintln(p.cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	return p.line(label)
}

// confirmer returns the gate used before destructive calls. With assumeYes
// it approves without asking.
func (p *prompter) confirmer(assumeYes bool) ports.Confirmer {
	return ports.ConfirmFunc(func(_ context.Context, prompt string) (bool, error) {
		if assumeYes {
			return true, nil
		}
		answer, err := p.line(prompt + " [y/N]: ")
		if errors.Is(err, errNoInput) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true, nil
		default:
			return false, nil
		}
	})
}

func readPasswordFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read password file: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
