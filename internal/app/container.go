package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"screening-sync/internal/config"
	"screening-sync/internal/database"
	"screening-sync/internal/database/migration"
	dbpostgres "screening-sync/internal/database/postgres"
	"screening-sync/internal/infrastructure/cache"
	"screening-sync/internal/infrastructure/screening"
	"screening-sync/internal/pkg/jwt"
	"screening-sync/internal/repository"
	"screening-sync/internal/usecase"
	"screening-sync/internal/ws"
)

// Container owns the process-wide dependencies. Postgres and Redis are
// optional: without them workspaces live in memory and the dashboard hint
// is not shared.
type Container struct {
	Config   config.Config
	Logger   *logrus.Logger
	DB       database.DB
	Redis    *cache.Redis
	Remote   screening.Client
	JWT      jwt.Service
	Hub      *ws.Hub
	Sessions *usecase.Sessions

	stop context.CancelFunc
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := NewLogger(cfg.App)
	c := &Container{Config: cfg, Logger: logger}

	var repo repository.WorkspaceRepository
	if cfg.Database.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := (migration.Runner{Logger: logger}).Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, err
		}
		c.DB = db
		repo = repository.NewPostgresWorkspaceRepository(db)
	} else {
		logger.WithFields(logrus.Fields{"component": "app", "step": "database", "status": "skipped"}).Info("no database configured, workspaces are kept in memory")
	}

	c.Redis = cache.NewRedis(cfg.Redis, logger)
	hints := cache.NewHintStore(c.Redis, cfg.Dashboard.HintTTL)

	c.Remote = screening.NewClient(screening.Options{
		BaseURL:   cfg.Remote.BaseURL,
		Timeout:   cfg.Remote.Timeout,
		RateLimit: cfg.Remote.RateLimit,
		Burst:     cfg.Remote.Burst,
	}, logger)
	c.JWT = jwt.NewHMACService(cfg.JWT.Secret, cfg.JWT.Issuer, time.Hour)

	bg, stop := context.WithCancel(context.Background())
	c.Hub = ws.NewHub(logger)
	c.stop = stop
	go c.Hub.Run(bg)

	c.Sessions = usecase.NewSessions(usecase.Deps{
		Remote:   c.Remote,
		Hints:    hints,
		Notifier: c.Hub,
		Logger:   logger,
		Now:      time.Now,
		Settings: usecase.Settings{
			TopThreshold:   cfg.Dashboard.TopThreshold,
			TopLimit:       cfg.Dashboard.TopLimit,
			MaxResumeBytes: cfg.Upload.MaxResumeBytes,
			MaxAudioBytes:  cfg.Upload.MaxAudioBytes,
		},
	}, repo)
	if idle := cfg.Database.SessionIdle; idle > 0 {
		go c.Sessions.RunEviction(bg, idle/2, idle)
	}

	return c, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.stop != nil {
		c.stop()
	}

	var errs []error
	if c.Redis != nil {
		errs = append(errs, c.Redis.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}

// NewLogger builds the process logger. Production logs are JSON.
func NewLogger(cfg config.AppConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(strings.TrimSpace(cfg.LogLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if strings.EqualFold(cfg.Environment, "production") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
