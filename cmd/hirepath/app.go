package main

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	session "github.com/hirepath/go-session"
)

// zapLogger adapts the CLI's zap logger to the SDK Logger interface.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l zapLogger) Debug(format string, args ...any) { l.s.Debugf(format, args...) }
func (l zapLogger) Info(format string, args ...any)  { l.s.Infof(format, args...) }
func (l zapLogger) Warn(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l zapLogger) Error(format string, args ...any) { l.s.Errorf(format, args...) }

// app bundles the wired SDK components behind each command.
type app struct {
	cfg          session.SimpleConfig
	client       *session.APIClient
	store        *session.Store
	affiliations *session.AffiliationStore
	storage      *session.BunStorage
	controller   *session.Controller
	gate         *session.Gate
	logger       session.Logger
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := zapLogger{s: zlog.Sugar()}

	client := session.NewAPIClient(cfg).WithLogger(logger)
	store := session.NewStore(client)
	affiliations := session.NewAffiliationStore()

	if err := os.MkdirAll(filepath.Dir(cfg.StoragePath), 0o700); err != nil {
		return nil, err
	}

	storage, err := session.NewBunStorage(ctx, cfg.StoragePath)
	if err != nil {
		return nil, err
	}

	controller := session.NewController(store, affiliations, client, storage,
		session.WithLogger(logger),
		session.WithSessionStorageKey(cfg.GetSessionStorageKey()),
		session.WithActivitySink(session.ActivitySinkFunc(
			func(_ context.Context, event session.ActivityEvent) error {
				logger.Debug("activity %s user=%s", event.EventType, event.UserID)
				return nil
			})),
	)

	return &app{
		cfg:          cfg,
		client:       client,
		store:        store,
		affiliations: affiliations,
		storage:      storage,
		controller:   controller,
		gate:         session.NewGate(store, affiliations),
		logger:       logger,
	}, nil
}

func (a *app) Close() {
	if err := a.storage.Close(); err != nil {
		a.logger.Warn("failed to close session storage: %v", err)
	}
}
