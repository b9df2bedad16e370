package folio

import (
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const (
	sessionName = "folio_prefs"
	themeKey    = "theme"

	ThemeLight = "light"
	ThemeDark  = "dark"
)

// themeFromSession returns the stored theme, "" when none is stored or
// sessions are not available.
func themeFromSession(c echo.Context) string {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return ""
	}
	theme, _ := sess.Values[themeKey].(string)
	if theme != ThemeLight && theme != ThemeDark {
		return ""
	}
	return theme
}

func setThemeSession(c echo.Context, theme string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[themeKey] = theme
	return sess.Save(c.Request(), c.Response())
}

// handleTheme stores an explicit "theme" form value, or flips the current
// one, then sends the visitor back to the page they came from.
func (a *App) handleTheme(c echo.Context) error {
	if !a.Config.Site.LightAndDarkMode {
		return a.notFound(c)
	}
	theme := c.FormValue("theme")
	if theme != ThemeLight && theme != ThemeDark {
		if themeFromSession(c) == ThemeDark {
			theme = ThemeLight
		} else {
			theme = ThemeDark
		}
	}
	if err := setThemeSession(c, theme); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, safeReturnPath(c.FormValue("return")))
}

// safeReturnPath only allows same-site absolute paths.
func safeReturnPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return "/"
	}
	return p
}
