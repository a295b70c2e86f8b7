package bootstrap

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/api"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/guard"
	"github.com/yigit/collegeportal/internal/pkg/logger"
	"github.com/yigit/collegeportal/internal/pkg/tokenstore"
	"github.com/yigit/collegeportal/internal/session"
)

// App is the portal client: one session store shared by the gateway and the navigator
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Sessions  *session.Store
	Gateway   *api.Gateway
	Navigator *guard.Navigator
}

// NewApp opens the durable token store, restores any persisted session and
// wires the API gateway and navigator around it.
func NewApp(cfg *config.Config, lgr zerolog.Logger) (*App, error) {
	tokens, err := tokenstore.OpenBolt(cfg.Session.StorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}
	app, err := NewAppWithTokens(cfg, tokens, lgr)
	if err != nil {
		_ = tokens.Close()
		return nil, err
	}
	return app, nil
}

// NewAppWithTokens is NewApp over an already open token store
func NewAppWithTokens(cfg *config.Config, tokens tokenstore.Store, lgr zerolog.Logger) (*App, error) {
	client, err := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger.WithComponent(lgr, "api"))
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore(api.NewAuthAPI(client), tokens, logger.WithComponent(lgr, "session"))
	if err := sessions.Restore(); err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    lgr,
		Sessions:  sessions,
		Gateway:   api.NewGateway(client, sessions, logger.WithComponent(lgr, "gateway")),
		Navigator: guard.NewNavigator(sessions, nil),
	}, nil
}

// Close releases the durable token store
func (a *App) Close() error {
	if a == nil || a.Sessions == nil {
		return nil
	}
	return a.Sessions.Close()
}
