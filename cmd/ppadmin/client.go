package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/paradisepeak/ppadmin/internal/admin"
	"github.com/paradisepeak/ppadmin/internal/api"
	"github.com/paradisepeak/ppadmin/internal/auth"
	"github.com/paradisepeak/ppadmin/internal/config"
	"github.com/paradisepeak/ppadmin/internal/listing"
	"github.com/paradisepeak/ppadmin/internal/notify"
	"github.com/paradisepeak/ppadmin/internal/session"
	"github.com/paradisepeak/ppadmin/internal/storage"
)

// app is what a guarded command runs against: the persisted session and an
// API client that reads its token.
type app struct {
	cfg      config.Config
	store    *storage.Store
	session  *session.Manager
	client   *api.Client
	notifier notify.Notifier
	logger   *slog.Logger
}

// current is set by the root command before a guarded command runs.
var current *app

var openApp = func(cfg config.Config) (*app, error) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	// Each API server gets its own session.
	a, err := newApp(cfg, store.Scoped(cfg.API.BaseURL))
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

func newApp(cfg config.Config, store *storage.Store, opts ...api.Option) (*app, error) {
	sess, err := session.Open(store)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	logger := slog.Default()
	opts = append([]api.Option{api.WithLogger(logger)}, opts...)
	return &app{
		cfg:      cfg,
		store:    store,
		session:  sess,
		client:   api.New(cfg.API.BaseURL, sess, opts...),
		notifier: cliNotifier,
		logger:   logger,
	}, nil
}

func closeApp() {
	if current == nil {
		return
	}
	if err := current.store.Close(); err != nil {
		slog.Warn("closing storage", "error", err)
	}
	current = nil
}

func (a *app) deps() admin.Deps {
	return admin.Deps{
		Client:   a.client,
		Notifier: a.notifier,
		Logger:   a.logger,
		PageSize: a.cfg.List.PageSize,
	}
}

func (a *app) auth() *auth.Flow {
	return auth.New(a.client, a.session, a.logger)
}

// load fills a list. Fallback data counts as loaded; the controller has
// already warned about it.
func load[T listing.Record](ctx context.Context, list *listing.Controller[T]) error {
	if err := list.Load(ctx); err != nil && !errors.Is(err, listing.ErrDegraded) {
		return err
	}
	return nil
}
