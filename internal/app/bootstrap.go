package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"screening-sync/internal/config"
	"screening-sync/internal/delivery/http/handler"
	"screening-sync/internal/delivery/http/middleware"
	"screening-sync/internal/delivery/http/routes"
	v1 "screening-sync/internal/delivery/http/routes/v1"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// bodyLimitSlack covers multipart framing around the largest upload.
const bodyLimitSlack = 1 << 20

func New(c *Container) *App {
	cfg := c.Config
	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: int(maxInt64(cfg.Upload.MaxResumeBytes, cfg.Upload.MaxAudioBytes)) + bodyLimitSlack,
	})

	registerGlobalMiddleware(f, c)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(c.Logger).Middleware())
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	health := handler.NewHealthHandler(healthChecks(c)...)
	routes.NewRegistry(health, v1.Deps{
		Workspaces:     c.Sessions,
		Session:        middleware.NewSessionMiddleware(c.JWT),
		Hub:            c.Hub,
		Logger:         c.Logger,
		Now:            time.Now,
		MaxResumeBytes: c.Config.Upload.MaxResumeBytes,
		MaxAudioBytes:  c.Config.Upload.MaxAudioBytes,
	}).Register(app)
}

func healthChecks(c *Container) []handler.HealthCheck {
	checks := []handler.HealthCheck{
		{Name: "redis", Check: c.Redis.Ping},
	}
	if c.DB != nil {
		checks = append(checks, handler.HealthCheck{Name: "postgres", Check: c.DB.Ping})
	}
	checks = append(checks, handler.HealthCheck{Name: "remote", Check: func(context.Context) error {
		if c.Config.Remote.BaseURL == "" {
			return fmt.Errorf("remote base url not configured")
		}
		return nil
	}})
	return checks
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
