// Package folio is a portfolio and blog engine built with Go, Echo, and templ.
// It loads site configuration and markdown posts from disk, serves them over
// HTTP, and can render the same routes into a static site.
//
// Users provide their own templ components via the ViewFuncs struct, and
// folio handles content loading, routing, feeds, search and static builds.
package folio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home        func(l Layout, featured, recent []BlogPost) templ.Component
	Posts       func(l Layout, page Pagination) templ.Component
	Post        func(l Layout, post BlogPost, related []BlogPost, newer, older *BlogPost) templ.Component
	Tags        func(l Layout, tags []TagCount) templ.Component
	TagPosts    func(l Layout, tag TagCount, page Pagination) templ.Component
	Archives    func(l Layout, years []ArchiveYear) templ.Component
	About       func(l Layout, page Page) templ.Component
	Search      func(l Layout, query string, hits []SearchHit) templ.Component
	NotFound    func(l Layout) templ.Component
	ServerError func(l Layout) templ.Component
}

const shutdownTimeout = 10 * time.Second

// App is the central folio application. It wires together the content
// cache, search index, handlers, middleware, and user-provided templates.
type App struct {
	Config  Config
	Echo    *echo.Echo
	Content *ContentCache
	Search  *SearchIndex
	Views   ViewFuncs

	load         LoadFunc
	limiter      *Limiter
	customRoutes []func(*App)
	static       bool
	initialized  bool
}

// New creates a new folio App with the given configuration and view functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))

	a := &App{
		Config: cfg,
		Echo:   e,
		Views:  views,
	}
	a.load = func() (*Collection, error) {
		return LoadContent(os.DirFS(a.Config.ContentDir), a.Config.Site)
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Logger returns the Echo logger shared by requests, builds and the CLI.
func (a *App) Logger() echo.Logger {
	return a.Echo.Logger
}

func (a *App) init(static bool) error {
	if a.initialized {
		if a.static != static {
			return errors.New("folio: app already initialized in another mode")
		}
		return nil
	}
	a.static = static

	ttl := a.Config.ContentReloadTTL
	if static {
		ttl = 0
	} else {
		search, err := NewSearchIndex(a.Config.SearchDatabasePath)
		if err != nil {
			return fmt.Errorf("folio: init search index: %w", err)
		}
		a.Search = search
		a.limiter = NewLimiter(30, time.Minute)
	}

	a.Content = NewContentCache(a.load, ttl)
	a.Content.OnReload = a.reindex
	a.Content.OnError = func(err error) {
		a.Logger().Errorf("content reload failed, serving previous content: %v", err)
	}
	col, err := a.Content.Collection()
	if err != nil {
		return fmt.Errorf("folio: load content: %w", err)
	}
	a.Logger().Infof("loaded %d posts from %s", col.Len(), a.Config.ContentDir)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

func (a *App) reindex(col *Collection) error {
	if a.Search == nil {
		return nil
	}
	posts := col.ListPosts(a.listFilter())
	if err := a.Search.Index(posts); err != nil {
		return fmt.Errorf("folio: index posts: %w", err)
	}
	a.Logger().Debugf("indexed %d posts for search", len(posts))
	return nil
}

// Start initializes content, search, middleware and routes, then serves
// until ctx is cancelled.
func (a *App) Start(ctx context.Context) error {
	if err := a.init(false); err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger().Infof("listening on %s", a.Config.Addr)
		errCh <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	a.Logger().Info("shutting down")
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("folio: shutdown: %w", err)
	}
	return nil
}

// Handler initializes the app for serving and returns it as an http.Handler
// without listening, for tests and embedding.
func (a *App) Handler() (http.Handler, error) {
	if err := a.init(false); err != nil {
		return nil, err
	}
	return a.Echo, nil
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.limiter != nil {
		a.limiter.Close()
	}
	if a.Search != nil {
		return a.Search.Close()
	}
	return nil
}

func (a *App) listFilter() ListFilter {
	return ListFilter{IncludeDrafts: a.Config.Drafts}
}

func (a *App) staticFS() fs.FS {
	return os.DirFS(a.Config.StaticDir)
}

func logLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		return log.INFO
	}
}
