package folio

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	relatedPosts = 3
	searchLimit  = 20
)

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/theme.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.svg", a.handleFavicon)

	e.GET("/", a.handleHome)
	e.GET("/posts/", a.handlePosts)
	e.GET("/posts/:slug/", a.handlePostsParam)
	e.GET("/posts/:slug/og.png", a.handlePostOG)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/tags/:tag/:page/", a.handleTagPage)
	e.GET("/about/", a.handleAbout)
	e.GET("/rss.xml", a.handleFeed)
	if a.Config.Site.ShowArchives {
		e.GET("/archives/", a.handleArchives)
	}
	if a.Config.Site.OGImage == "" {
		e.GET("/og.png", a.handleSiteOG)
	}

	if a.static {
		return
	}
	e.GET("/search/", a.handleSearch)
	if a.Config.Site.LightAndDarkMode {
		e.POST("/theme/", a.handleTheme)
	}
	e.Any("/api/users", handleUsers)
}

func (a *App) content() (*Collection, error) {
	return a.Content.Collection()
}

func (a *App) handleHome(c echo.Context) error {
	col, err := a.content()
	if err != nil {
		return err
	}
	f := a.listFilter()
	featured := col.Featured(f)
	recent := col.Recent(f, a.Config.Site.PostsPerIndex)
	l := a.layout(c, PageMeta{}, "")
	return Render(c, a.Views.Home(l, featured, recent))
}

func (a *App) handlePosts(c echo.Context) error {
	return a.renderPostsPage(c, 1)
}

// handlePostsParam serves /posts/N/ as listing page N and anything else as
// a post slug. Slugs are never numeric, so the two cannot collide.
func (a *App) handlePostsParam(c echo.Context) error {
	param := pathParam(c, "slug")
	if !isNumeric(param) {
		return a.handlePost(c, param)
	}
	n, err := strconv.Atoi(param)
	if err != nil {
		return a.notFound(c)
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, PostsURL(1))
	}
	return a.renderPostsPage(c, n)
}

func (a *App) renderPostsPage(c echo.Context, n int) error {
	col, err := a.content()
	if err != nil {
		return err
	}
	page, err := Paginate(col.ListPosts(a.listFilter()), n, a.Config.Site.PostsPerPage, PostsURL)
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	title := "Posts"
	if n > 1 {
		title = "Posts - page " + strconv.Itoa(n)
	}
	l := a.layout(c, PageMeta{Title: title, Description: "All the articles I've posted."}, "posts")
	return Render(c, a.Views.Posts(l, page))
}

// lookupPost hides drafts unless the app was configured to show them.
func (a *App) lookupPost(slug string) (BlogPost, error) {
	col, err := a.content()
	if err != nil {
		return BlogPost{}, err
	}
	post, err := col.GetPostBySlug(slug)
	if err != nil {
		return BlogPost{}, err
	}
	if post.Draft && !a.Config.Drafts {
		return BlogPost{}, ErrNotFound
	}
	return post, nil
}

func (a *App) handlePost(c echo.Context, slug string) error {
	post, err := a.lookupPost(slug)
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	col, err := a.content()
	if err != nil {
		return err
	}
	f := a.listFilter()
	related := col.Related(f, post, relatedPosts)
	newer, older := col.Adjacent(f, post.Slug)

	l := a.layout(c, PageMeta{
		Title:       post.Title,
		Description: post.Description,
		OGType:      "article",
		OGImage:     a.postOGImage(post),
	}, "posts")
	return Render(c, a.Views.Post(l, post, related, newer, older))
}

func (a *App) handlePostOG(c echo.Context) error {
	post, err := a.lookupPost(pathParam(c, "slug"))
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	footer := post.Author + " | " + a.Config.Site.Title
	return renderPNG(c, func(w io.Writer) error {
		return RenderOGImage(w, post.Title, footer)
	})
}

func (a *App) handleSiteOG(c echo.Context) error {
	site := a.Config.Site
	return renderPNG(c, func(w io.Writer) error {
		return RenderOGImage(w, site.Title, hostOf(site.Website))
	})
}

func (a *App) handleTags(c echo.Context) error {
	col, err := a.content()
	if err != nil {
		return err
	}
	l := a.layout(c, PageMeta{Title: "Tags", Description: "All the tags used in posts."}, "tags")
	return Render(c, a.Views.Tags(l, col.Tags(a.listFilter())))
}

func (a *App) handleTag(c echo.Context) error {
	return a.renderTagPage(c, pathParam(c, "tag"), 1)
}

func (a *App) handleTagPage(c echo.Context) error {
	tag := pathParam(c, "tag")
	param := c.Param("page")
	if !isNumeric(param) {
		return a.notFound(c)
	}
	n, err := strconv.Atoi(param)
	if err != nil {
		return a.notFound(c)
	}
	if n == 1 {
		return c.Redirect(http.StatusMovedPermanently, TagURL(tag, 1))
	}
	return a.renderTagPage(c, tag, n)
}

func (a *App) renderTagPage(c echo.Context, tag string, n int) error {
	col, err := a.content()
	if err != nil {
		return err
	}
	f := a.listFilter()
	var tc TagCount
	for _, t := range col.Tags(f) {
		if t.Slug == Slugify(tag) {
			tc = t
			break
		}
	}
	if tc.Slug == "" {
		return a.notFound(c)
	}
	page, err := Paginate(col.PostsByTag(f, tc.Slug), n, a.Config.Site.PostsPerPage, func(p int) string {
		return TagURL(tc.Slug, p)
	})
	if errors.Is(err, ErrNotFound) {
		return a.notFound(c)
	}
	if err != nil {
		return err
	}
	l := a.layout(c, PageMeta{
		Title:       "Tag: " + tc.Name,
		Description: `All the articles with the tag "` + tc.Name + `".`,
	}, "tags")
	return Render(c, a.Views.TagPosts(l, tc, page))
}

func (a *App) handleArchives(c echo.Context) error {
	col, err := a.content()
	if err != nil {
		return err
	}
	years := col.Archives(a.listFilter(), a.Config.Site.Location())
	l := a.layout(c, PageMeta{Title: "Archives", Description: "All the articles I've archived."}, "archives")
	return Render(c, a.Views.Archives(l, years))
}

func (a *App) handleAbout(c echo.Context) error {
	col, err := a.content()
	if err != nil {
		return err
	}
	page, ok := col.About()
	if !ok {
		return a.notFound(c)
	}
	l := a.layout(c, PageMeta{Title: page.Title, Description: page.Description}, "about")
	return Render(c, a.Views.About(l, page))
}

func (a *App) handleFeed(c echo.Context) error {
	col, err := a.content()
	if err != nil {
		return err
	}
	return a.renderRSS(c, col.ListPosts(ListFilter{}))
}

func (a *App) handleSearch(c echo.Context) error {
	if !a.limiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many searches. Try again in a minute.")
	}
	query := strings.TrimSpace(c.QueryParam("q"))
	var hits []SearchHit
	if query != "" {
		found, err := a.Search.Search(query, searchLimit)
		if err != nil {
			return err
		}
		hits = found
	}
	l := a.layout(c, PageMeta{Title: "Search", Description: "Search any article ..."}, "search")
	return Render(c, a.Views.Search(l, query, hits))
}

func (a *App) handleFavicon(c echo.Context) error {
	return c.File(path.Join(a.Config.StaticDir, "favicon.svg"))
}

// layout fills the shared frame, defaulting meta from the site config.
func (a *App) layout(c echo.Context, meta PageMeta, nav string) Layout {
	site := a.Config.Site
	if meta.Title == "" {
		meta.Title = site.Title
	} else {
		meta.Title += " | " + site.Title
	}
	if meta.Description == "" {
		meta.Description = site.Description
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	if meta.OGImage == "" {
		meta.OGImage = a.siteOGImage()
	}
	meta.URL = BuildURL(site.Website, c.Request().URL.EscapedPath())

	l := Layout{
		Site:        site,
		Socials:     a.Config.ActiveSocials(),
		Meta:        meta,
		Path:        c.Request().URL.Path,
		Nav:         nav,
		Interactive: !a.static,
		Archives:    site.ShowArchives,
	}
	if col, err := a.content(); err == nil {
		_, l.HasAbout = col.About()
	}
	if !a.static {
		if site.LightAndDarkMode {
			l.Theme = themeFromSession(c)
		}
		l.CSRFToken = CsrfToken(c)
	}
	return l
}

func (a *App) siteOGImage() string {
	if img := a.Config.Site.OGImage; img != "" {
		return absoluteURL(a.Config.Site.Website, img)
	}
	return BuildURL(a.Config.Site.Website, "og.png")
}

func (a *App) postOGImage(p BlogPost) string {
	if p.OGImage != "" {
		return absoluteURL(a.Config.Site.Website, p.OGImage)
	}
	return BuildURL(a.Config.Site.Website, "posts", p.Slug, "og.png")
}

func absoluteURL(base, ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return BuildURL(base, ref)
}

func hostOf(website string) string {
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return website
	}
	return u.Host
}

func (a *App) notFound(c echo.Context) error {
	l := a.layout(c, PageMeta{Title: "404 Not Found"}, "")
	return RenderStatus(c, http.StatusNotFound, a.Views.NotFound(l))
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if (ok && he.Code == http.StatusNotFound) || errors.Is(err, ErrNotFound) {
		_ = a.notFound(c)
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		l := a.layout(c, PageMeta{Title: "Server error"}, "")
		_ = RenderStatus(c, code, a.Views.ServerError(l))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

// pathParam returns a decoded route parameter. Echo matches on the raw path
// when the request escapes characters non-canonically, leaving params escaped.
func pathParam(c echo.Context, name string) string {
	v := c.Param(name)
	if raw, err := url.PathUnescape(v); err == nil {
		return raw
	}
	return v
}
