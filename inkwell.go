// Package inkwell serves a content site's collections (posts, authors,
// categories, tags, pages, affiliate products and settings) to an external
// dashboard through an authenticated JSON API, and publishes the public
// feeds: RSS, sitemap and robots.txt.
//
// Content comes from a content.Source: a directory of Markdown and JSON
// files, or a SQLite store filled by Import.
package inkwell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/inkwell/content"
	"github.com/eringen/inkwell/seo"
)

// App is the central inkwell application. It wires together the content
// source, snapshot cache, handlers and middleware.
type App struct {
	Config Config
	Echo   *echo.Echo
	Source content.Source
	Cache  *SnapshotCache
	SEO    *seo.Generator
	Logger *zap.Logger

	authLimiter  *AuthLimiter
	store        *Store
	watcher      *Watcher
	customRoutes []func(*App)
	initialized  bool
}

// New creates a new inkwell App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Logger: zap.NewNop(),
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init validates the configuration, opens the content source, and
// registers middleware and routes. Start calls it; tests call it directly
// and drive a.Echo with httptest.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}

	if a.Source == nil {
		switch a.Config.Content.Driver {
		case DriverSQLite:
			store, err := OpenStore(a.Config.Content.DatabasePath)
			if err != nil {
				return fmt.Errorf("inkwell: open store: %w", err)
			}
			a.store = store
			a.Source = store
		default:
			a.Source = content.NewDirSource(a.Config.Content.Dir)
		}
	}

	a.Cache = NewSnapshotCache(a.Source, a.Config.Content.CacheTTL)
	a.SEO = &seo.Generator{Source: a.Source, Logger: a.Logger}
	a.authLimiter = NewAuthLimiter(a.Config.API.AuthFailuresPerMinute, time.Minute)

	if a.Config.Content.Watch && a.Config.Content.CacheTTL > 0 {
		if _, ok := a.Source.(*content.DirSource); ok {
			w, err := NewWatcher(a.Config.Content.Dir, a.Logger, a.Cache.Invalidate)
			if err != nil {
				return fmt.Errorf("inkwell: create watcher: %w", err)
			}
			if err := w.Start(ctx); err != nil {
				w.Stop()
				a.Logger.Warn("content watcher disabled", zap.Error(err))
			} else {
				a.watcher = w
			}
		}
	}

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

// Start initializes the app and serves HTTP until Shutdown is called.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	a.Logger.Info("listening",
		zap.String("addr", a.Config.Server.Addr),
		zap.String("driver", a.Config.Content.Driver),
		zap.Duration("cache_ttl", a.Config.Content.CacheTTL),
	)
	if err := a.Echo.Start(a.Config.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/rss.xml", a.handleRSS)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/robots.txt", a.handleRobots)

	api := e.Group("/api", a.apiKeyAuth)
	api.GET("/posts.json", a.handlePosts)
	api.GET("/posts/:slug", a.handlePost)
	api.GET("/categories.json", a.handleCategories)
	api.GET("/tags.json", a.handleTags)
	api.GET("/authors.json", a.handleAuthors)
	api.GET("/pages.json", a.handlePages)
	api.GET("/affiliate-categories.json", a.handleAffiliateCategories)
	api.GET("/affiliate-products/:category", a.handleAffiliateProducts)
	api.GET("/affiliate-comparisons/:category", a.handleAffiliateComparison)
	api.GET("/settings.json", a.handleSettings)
	api.GET("/stats.json", a.handleStats)
}

// snapshot returns the content snapshot for the current request.
func (a *App) snapshot(c echo.Context) (*content.Snapshot, error) {
	return a.Cache.Get(c.Request().Context())
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.authLimiter != nil {
		a.authLimiter.Stop()
	}
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
