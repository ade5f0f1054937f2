// Package cli implements the interactive terminal client of SecureVault.
// It drives the identity and vault services directly and keeps the
// unlocked master key inside a session store, never in its own fields.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/securevault/internal/config"
	"github.com/dmitrijs2005/securevault/internal/logging"
	"github.com/dmitrijs2005/securevault/internal/repositories/repomanager"
	"github.com/dmitrijs2005/securevault/internal/services"
	"github.com/dmitrijs2005/securevault/internal/session"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	identity *services.IdentityService
	vault    *services.VaultService
	sessions session.Manager

	// token of the active session, empty when logged out
	token    string
	username string
	reader   *bufio.Reader
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	rm, err := repomanager.New(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName(cfg.DatabaseDriver), cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	sessions, err := newSessionManager(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &App{
		config:   cfg,
		logger:   logger,
		db:       db,
		identity: services.NewIdentityService(db, rm),
		vault:    services.NewVaultService(db, rm),
		sessions: sessions,
		reader:   bufio.NewReader(os.Stdin),
	}, nil
}

func driverName(configured string) string {
	if configured == "postgres" {
		return "pgx"
	}
	return configured
}

func newSessionManager(cfg *config.Config) (session.Manager, error) {
	switch cfg.SessionBackend {
	case "redis":
		return session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SessionTTL)
	default:
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.Close(ctx)
	a.Root(ctx)
}

// Close revokes the active session and releases the session store and the
// database, wiping any remaining key material.
func (a *App) Close(ctx context.Context) {
	if a.token != "" {
		_ = a.sessions.Revoke(ctx, a.token)
		a.token = ""
	}
	if err := a.sessions.Close(ctx); err != nil {
		a.logger.Error(ctx, "error closing session store", "error", err.Error())
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error(ctx, "error closing database", "error", err.Error())
	}
}

func (a *App) isLoggedIn() bool {
	return a.token != ""
}

// currentSession resolves the active token. An expired or revoked session
// logs the user out locally.
func (a *App) currentSession(ctx context.Context) (*session.Session, bool) {
	if a.token == "" {
		fmt.Println("Please log in first")
		return nil, false
	}

	sess, err := a.sessions.Lookup(ctx, a.token)
	if err != nil {
		a.token = ""
		a.username = ""
		fmt.Println("Session expired, please log in again")
		return nil, false
	}

	return sess, true
}
