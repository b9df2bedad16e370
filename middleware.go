package folio

import (
	"net/http"
	"path"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	csrfCookie  = "_csrf"
	csrfLookup  = "header:X-CSRF-Token,form:" + csrfCookie
	sessionTTL  = 365 * 24 * 60 * 60
	hstsSeconds = 365 * 24 * 60 * 60
)

var securityHeaders = middleware.SecureConfig{
	XSSProtection:      "1; mode=block",
	ContentTypeNosniff: "nosniff",
	XFrameOptions:      "DENY",
	ReferrerPolicy:     "strict-origin-when-cross-origin",
	ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; " +
		"style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
	HSTSMaxAge: hstsSeconds,
}

// setupMiddleware installs the middleware chain. A static build only needs
// error rendering and panic recovery; everything else is request-time.
func (a *App) setupMiddleware() {
	e := a.Echo
	e.HTTPErrorHandler = a.httpErrorHandler
	e.Use(middleware.Recover())
	if a.static {
		return
	}

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.Pre(middleware.NonWWWRedirectWithConfig(middleware.RedirectConfig{Skipper: isAPIPath}))

	e.Use(
		middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:     true,
			LogURI:        true,
			LogStatus:     true,
			LogLatency:    true,
			LogRemoteIP:   true,
			LogValuesFunc: logRequest,
		}),
		middleware.GzipWithConfig(middleware.GzipConfig{Level: 5, Skipper: skipCompression}),
		middleware.SecureWithConfig(securityHeaders),
		session.Middleware(a.newSessionStore()),
		middleware.CSRFWithConfig(middleware.CSRFConfig{
			Skipper:        isAPIPath,
			TokenLookup:    csrfLookup,
			CookieName:     csrfCookie,
			CookiePath:     "/",
			CookieSameSite: http.SameSiteLaxMode,
			CookieSecure:   a.Config.CookieSecure,
			ErrorHandler: func(_ error, c echo.Context) error {
				return c.String(http.StatusForbidden, "Forbidden")
			},
		}),
		middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
			RedirectCode: http.StatusMovedPermanently,
			Skipper:      skipTrailingSlash,
		}),
		cacheControlMiddleware,
	)
}

func logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	line := "%s %s %s -> %d (%s)"
	args := []any{v.RemoteIP, v.Method, v.URI, v.Status, v.Latency}
	switch {
	case v.Status >= http.StatusInternalServerError:
		c.Logger().Warnf(line, args...)
	default:
		c.Logger().Infof(line, args...)
	}
	return nil
}

func isAPIPath(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// Assets are served as is, API bodies are tiny and PNGs are already compressed.
func skipCompression(c echo.Context) bool {
	p := c.Request().URL.Path
	return isAPIPath(c) || strings.HasPrefix(p, "/public/") || path.Ext(p) == ".png"
}

// Only page routes get a trailing slash; files keep their extension URL.
func skipTrailingSlash(c echo.Context) bool {
	p := c.Request().URL.Path
	return isAPIPath(c) || strings.HasPrefix(p, "/public") || path.Ext(p) != ""
}

func cachePolicy(p string) string {
	switch {
	case strings.HasPrefix(p, "/public/"):
		return "public, max-age=31536000, immutable"
	case strings.HasPrefix(p, "/api/"), strings.HasPrefix(p, "/search"), strings.HasPrefix(p, "/theme"):
		return "no-store"
	case p == "/rss.xml", path.Ext(p) == ".png":
		return "public, max-age=86400"
	}
	return "public, max-age=3600"
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set(echo.HeaderCacheControl, cachePolicy(c.Request().URL.Path))
		return next(c)
	}
}

// newSessionStore keeps visitor preferences in a signed cookie.
func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	opts := *store.Options
	opts.Path = "/"
	opts.MaxAge = sessionTTL
	opts.HttpOnly = true
	opts.SameSite = http.SameSiteLaxMode
	opts.Secure = a.Config.CookieSecure
	store.Options = &opts
	return store
}

// CsrfToken returns the token set by the CSRF middleware, or "" outside it.
func CsrfToken(c echo.Context) string {
	if token, ok := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string); ok {
		return token
	}
	return ""
}
