// Package app wires a workspace into a ready engine: environment, config,
// database, key-value backend, journal and logger.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shiftlog/internal/config"
	"shiftlog/internal/db"
	"shiftlog/internal/engine"
	"shiftlog/internal/events"
	"shiftlog/internal/logging"
	"shiftlog/internal/migrate"
	"shiftlog/internal/persist"
	"shiftlog/internal/repo"
	"shiftlog/internal/store"
)

// Options override config values. Empty fields leave the config untouched.
type Options struct {
	Workspace string
	LogLevel  string
	Backend   string
	// Logger replaces the configured logger; tests pass zap.NewNop().
	Logger *zap.Logger
}

// Session is an opened workspace.
type Session struct {
	Workspace string
	Config    *config.Config
	DB        *sql.DB
	Repo      repo.Repo
	Engine    *engine.Engine
	Log       *zap.Logger

	closeLog func() error
}

// LoadEnv reads <workspace>/.env into the process environment without
// overriding variables that are already set.
func LoadEnv(workspace string) error {
	path := filepath.Join(workspaceOrDot(workspace), ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Open loads config, migrates the workspace database and restores the
// persisted state into a new engine.
func Open(ctx context.Context, opts Options) (*Session, error) {
	ws := workspaceOrDot(opts.Workspace)
	cfg, err := config.LoadOptional(ws)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.Log.Level = opts.LogLevel
	}
	if opts.Backend != "" {
		cfg.Storage.Backend = opts.Backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{Workspace: ws, Config: cfg, Log: opts.Logger, closeLog: func() error { return nil }}
	if s.Log == nil {
		logFile := cfg.Log.File
		if logFile != "" && !filepath.IsAbs(logFile) {
			logFile = filepath.Join(ws, logFile)
		}
		log, closeLog, err := logging.New(cfg.Log.Level, logFile)
		if err != nil {
			return nil, err
		}
		s.Log, s.closeLog = log, closeLog
	}

	conn, err := db.Open(ctx, db.Config{Workspace: ws})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.DB = conn
	if err := migrate.Migrate(ctx, conn); err != nil {
		s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	s.Repo = repo.Repo{DB: conn}

	kv, err := s.kv()
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Engine = engine.New(persist.New(kv, cfg.Storage.Key), s.Log.Named("engine"))
	s.Engine.Journal = events.Writer{Repo: s.Repo}
	s.Engine.Load(ctx)
	s.Log.Debug("workspace opened",
		zap.String("workspace", ws),
		zap.String("backend", cfg.Storage.Backend),
		zap.String("key", cfg.Storage.Key))
	return s, nil
}

func (s *Session) kv() (store.KV, error) {
	switch s.Config.Storage.Backend {
	case "sqlite":
		return store.SQLite{Repo: s.Repo}, nil
	case "file":
		dir := s.Config.Storage.Dir
		if dir == "" {
			dir = filepath.Join(db.StateDir(s.Workspace), "state")
		} else if !filepath.IsAbs(dir) {
			dir = filepath.Join(s.Workspace, dir)
		}
		return store.File{Dir: dir}, nil
	case "memory":
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", s.Config.Storage.Backend)
}

// Close releases the database and flushes the log file.
func (s *Session) Close() error {
	var errs []error
	if s.DB != nil {
		errs = append(errs, s.DB.Close())
		s.DB = nil
	}
	if s.closeLog != nil {
		errs = append(errs, s.closeLog())
		s.closeLog = nil
	}
	return errors.Join(errs...)
}

func workspaceOrDot(ws string) string {
	if ws == "" {
		return "."
	}
	return ws
}
