package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bnema/folio-admin-cli/internal/adapters/config"
	"github.com/bnema/folio-admin-cli/internal/adapters/httpapi"
	"github.com/bnema/folio-admin-cli/internal/adapters/logger"
	"github.com/bnema/folio-admin-cli/internal/adapters/render/table"
	tomlrepo "github.com/bnema/folio-admin-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/folio-admin-cli/internal/adapters/secrets/chain"
	"github.com/bnema/folio-admin-cli/internal/application"
	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/ports"
	"github.com/bnema/folio-admin-cli/internal/version"
)

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	client   httpapi.Client
	sessions *application.SessionStore
	guard    *application.RouteGuard
	render   func(table.Table, table.RenderOptions) (string, error)
	now      func() time.Time

	// views maps a navigable view to the command body that shows it.
	views map[domain.View]func(*cobra.Command) error
	// signingOut silences the expiry notice during an explicit logout.
	signingOut bool
}

func wireApp(logOutput io.Writer) (*app, error) {
	cfg, err := config.Load(config.Options{
		ConfigFile: os.Getenv("FA_CONFIG"),
		EnvFile:    ".env",
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log, logOutput)
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg.Viper())
	if err != nil {
		return nil, fmt.Errorf("wire session repository: %w", err)
	}

	secretStore, err := chainstore.ForBackend(cfg.SecretsBackend, cfg.SecretsDir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store: %w", err)
	}

	client := httpapi.Client{
		BaseURL:        cfg.APIBaseURL,
		HTTPClient:     http.DefaultClient,
		RequestTimeout: cfg.APITimeout,
		UserAgent:      version.UserAgent(),
		Logger:         log,
	}
	sessions := application.NewSessionStore(client, repo, secretStore, ports.SystemClock{}, log)

	return &app{
		cfg:      cfg,
		logger:   log,
		client:   client,
		sessions: sessions,
		guard:    application.NewRouteGuard(sessions),
		render:   table.Render,
		now:      time.Now,
		views:    make(map[domain.View]func(*cobra.Command) error),
	}, nil
}

// commandStderr resolves the command's error stream on every write, so
// output redirected after wiring still receives log entries.
type commandStderr struct {
	cmd *cobra.Command
}

func (w commandStderr) Write(p []byte) (int, error) {
	return w.cmd.ErrOrStderr().Write(p)
}
