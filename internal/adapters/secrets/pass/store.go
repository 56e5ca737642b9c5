package pass

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
)

var ErrUnavailable = errors.New("pass command unavailable")

type runFunc func(ctx context.Context, input string, args ...string) (stdout string, stderr string, err error)

// Store keeps the session token in the operator's pass(1) password store.
type Store struct {
	run runFunc
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore() *Store {
	return &Store{run: runPassCommand}
}

// entryCommand is one pass invocation against a single entry.
type entryCommand struct {
	verb  string
	flags []string
	key   string
	input string
}

func (c entryCommand) args() []string {
	args := make([]string, 0, len(c.flags)+2)
	args = append(args, c.verb)
	args = append(args, c.flags...)
	return append(args, c.key)
}

// CommandError describes a failed pass invocation. It unwraps to
// domain.ErrSecretNotFound when the entry does not exist.
type CommandError struct {
	Verb   string
	Key    string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("pass %s %q: %v", e.Verb, e.Key, e.Err)
	}
	return fmt.Sprintf("pass %s %q: %v: %s", e.Verb, e.Key, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() []error {
	if e.Missing() {
		return []error{domain.ErrSecretNotFound, e.Err}
	}
	return []error{e.Err}
}

// Missing reports whether pass rejected the key as absent.
func (e *CommandError) Missing() bool {
	return strings.Contains(e.Stderr, "is not in the password store")
}

func (s *Store) exec(ctx context.Context, c entryCommand) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	stdout, stderr, err := s.run(ctx, c.input, c.args()...)
	if err != nil {
		return "", &CommandError{Verb: c.verb, Key: c.key, Stderr: stderr, Err: err}
	}
	return stdout, nil
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	_, err := s.exec(ctx, entryCommand{
		verb:  "insert",
		flags: []string{"--multiline", "--force"},
		key:   key,
		input: value + "\n",
	})
	return err
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	stdout, err := s.exec(ctx, entryCommand{verb: "show", key: key})
	if err != nil {
		return "", err
	}
	return strings.TrimRight(stdout, "\r\n"), nil
}

// Delete removes the entry. An entry that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.exec(ctx, entryCommand{verb: "rm", flags: []string{"--force"}, key: key})
	if errors.Is(err, domain.ErrSecretNotFound) {
		return nil
	}
	return err
}

func runPassCommand(ctx context.Context, input string, args ...string) (string, string, error) {
	path, err := exec.LookPath("pass")
	if errors.Is(err, exec.ErrNotFound) {
		return "", "", ErrUnavailable
	}
	if err != nil {
		return "", "", fmt.Errorf("locate pass command: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	err = cmd.Run()
	return stdout.String(), strings.TrimSpace(stderr.String()), err
}
