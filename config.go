package folio

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// SiteConfig is the site-wide metadata every template reads. It is built once
// at startup and never mutated afterwards.
type SiteConfig struct {
	Website          string // canonical URL
	Author           string
	Description      string
	Title            string
	OGImage          string // site default og image path, "" = generated /og.png
	LightAndDarkMode bool
	PostsPerPage     int
	PostsPerIndex    int // recent posts on the home page
	ShowArchives     bool
	Timezone         string
	Locale           Locale
	Logo             Logo
}

// Locale controls the html lang attribute and date formatting.
type Locale struct {
	Lang    string
	LangTag []string
}

// Logo replaces the text title in the header when enabled.
type Logo struct {
	Enable bool
	Image  string
	Width  int
	Height int
}

// SocialLink is one outbound link shown in the header and footer.
type SocialLink struct {
	Name      string
	Href      string
	LinkTitle string
	Active    bool
}

// Config holds the site metadata, social links and runtime settings.
type Config struct {
	Site    SiteConfig
	Socials []SocialLink

	Addr               string // listen address (default ":3000")
	ContentDir         string // markdown root (default "content")
	StaticDir          string // user assets served under /public (default "public")
	SearchDatabasePath string // SQLite path (default "data/search.db")
	SessionSecret      string // theme preference cookie key
	CookieSecure       bool
	ContentReloadTTL   time.Duration // 0 loads content once
	Drafts             bool          // serve and build draft posts
	LogLevel           string        // debug, info, warn, error
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.SearchDatabasePath == "" {
		c.SearchDatabasePath = "data/search.db"
	}
	if c.SessionSecret == "" {
		c.SessionSecret = "folio-dev-secret"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Site.Title == "" {
		c.Site.Title = "Blog"
	}
	if c.Site.Website == "" {
		c.Site.Website = "http://localhost:3000/"
	}
	if c.Site.Timezone == "" {
		c.Site.Timezone = "UTC"
	}
	if c.Site.Locale.Lang == "" {
		c.Site.Locale.Lang = "en"
	}
	for i := range c.Socials {
		if c.Socials[i].LinkTitle == "" {
			c.Socials[i].LinkTitle = fmt.Sprintf("%s on %s", c.Site.Title, c.Socials[i].Name)
		}
	}
}

// Validate checks the invariants templates rely on.
func (c Config) Validate() error {
	if c.Site.PostsPerPage <= 0 {
		return configErrf("", "site.postsPerPage", "must be greater than 0, got %d", c.Site.PostsPerPage)
	}
	if c.Site.PostsPerIndex < 0 {
		return configErrf("", "site.postsPerIndex", "must not be negative, got %d", c.Site.PostsPerIndex)
	}
	if err := validateWebsite(c.Site.Website); err != nil {
		return configErr("", "site.website", err)
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return configErr("", "site.timezone", err)
	}
	if c.Site.Logo.Enable && strings.TrimSpace(c.Site.Logo.Image) == "" {
		return configErrf("", "site.logo.image", "logo is enabled but no image is set")
	}
	for i, s := range c.Socials {
		field := fmt.Sprintf("socials[%d]", i)
		if strings.TrimSpace(s.Name) == "" {
			return configErrf("", field+".name", "name is required")
		}
		if err := ValidateHref(s.Href); err != nil {
			return configErr("", field+".href", err)
		}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return configErrf("", "logLevel", "unknown level %q", c.LogLevel)
	}
	return nil
}

// Location returns the configured timezone, UTC when it cannot be loaded.
func (s SiteConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ActiveSocials returns the active social links in their configured order.
func (c Config) ActiveSocials() []SocialLink {
	out := make([]SocialLink, 0, len(c.Socials))
	for _, s := range c.Socials {
		if s.Active {
			out = append(out, s)
		}
	}
	return out
}

// ValidateHref accepts absolute URLs with a scheme and host, and mailto: URIs.
func ValidateHref(href string) error {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return err
	}
	if strings.EqualFold(u.Scheme, "mailto") {
		if u.Opaque == "" || !strings.Contains(u.Opaque, "@") {
			return fmt.Errorf("mailto link %q has no address", href)
		}
		return nil
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("link %q is not an absolute URL", href)
	}
	return nil
}

func validateWebsite(website string) error {
	u, err := url.Parse(website)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("website %q must use http or https", website)
	}
	if u.Host == "" {
		return fmt.Errorf("website %q has no host", website)
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// RequireEnv returns the value of the environment variable key, or a
// BuildConfigError naming it when it is empty.
func RequireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", configErrf("env", key, "required environment variable %s is not set", key)
	}
	return v, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithContentLoader replaces the default filesystem content loader.
func WithContentLoader(load LoadFunc) Option {
	return func(a *App) {
		a.load = load
	}
}
