package folio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildConfig(t *testing.T) Config {
	t.Helper()
	static := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(static, "style.css"), []byte("body{}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(static, "img"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(static, "img", "me.png"), []byte("png"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(static, "favicon.svg"), []byte("<svg/>"), 0o644))

	cfg := testConfig()
	cfg.StaticDir = static
	return cfg
}

func readOut(t *testing.T, out, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(name)))
	require.NoError(t, err, name)
	return string(b)
}

func TestBuildWritesEveryRoute(t *testing.T) {
	app := newTestApp(t, buildConfig(t), testContent())
	out := t.TempDir()

	report, err := app.Build(context.Background(), out)
	require.NoError(t, err)

	col, _ := app.Content.Collection()
	assert.Equal(t, len(app.staticRoutes(col)), report.Pages)
	// style.css, img/me.png and favicon.svg under public/, favicon.svg at the root, theme.js
	assert.Equal(t, 5, report.Assets)

	assert.Equal(t, "home featured=first recent=third,second theme= socials=2", readOut(t, out, "index.html"))
	assert.Equal(t, "posts page=1/2 posts=third,second prev= next=/posts/2/", readOut(t, out, "posts/index.html"))
	assert.Equal(t, "posts page=2/2 posts=first prev=/posts/ next=", readOut(t, out, "posts/2/index.html"))
	assert.Contains(t, readOut(t, out, "posts/second/index.html"), "post second")
	assert.Equal(t, "tag go page=1/1 posts=second,first", readOut(t, out, "tags/go/index.html"))
	assert.Equal(t, "about About me", readOut(t, out, "about/index.html"))
	assert.Equal(t, "archives years=1", readOut(t, out, "archives/index.html"))
	assert.Equal(t, "not found", readOut(t, out, "404.html"))
	assert.Contains(t, readOut(t, out, "rss.xml"), "<rss")
	assert.Equal(t, "body{}", readOut(t, out, "public/style.css"))
	assert.Equal(t, "png", readOut(t, out, "public/img/me.png"))
	assert.Equal(t, "<svg/>", readOut(t, out, "favicon.svg"))
	assert.Contains(t, readOut(t, out, "public/theme.js"), "data-theme")

	for _, f := range []string{"posts/first/og.png", "posts/second/og.png", "posts/third/og.png", "og.png"} {
		assert.FileExists(t, filepath.Join(out, f))
	}

	assert.NoFileExists(t, filepath.Join(out, "posts", "draft", "index.html"))
	assert.NoDirExists(t, filepath.Join(out, "search"))
	assert.NoDirExists(t, filepath.Join(out, "api"))
}

func TestBuildIncludesDraftsWhenEnabled(t *testing.T) {
	cfg := buildConfig(t)
	cfg.Drafts = true
	app := newTestApp(t, cfg, testContent())
	out := t.TempDir()

	_, err := app.Build(context.Background(), out)
	require.NoError(t, err)
	assert.Contains(t, readOut(t, out, "posts/draft/index.html"), "post draft")
}

func TestBuildWritesUnicodeRoutes(t *testing.T) {
	content := testContent()
	content["posts/café.md"] = post("title: Café\ndescription: x\npubDatetime: 2026-05-01\ntags: [日本語]", "")
	app := newTestApp(t, buildConfig(t), content)
	out := t.TempDir()

	_, err := app.Build(context.Background(), out)
	require.NoError(t, err)
	assert.Contains(t, readOut(t, out, "posts/café/index.html"), "post café ")
	assert.FileExists(t, filepath.Join(out, "posts", "café", "og.png"))
	assert.Equal(t, "tag 日本語 page=1/1 posts=café", readOut(t, out, "tags/日本語/index.html"))
}

func TestStaticRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.Site.ShowArchives = false
	cfg.Site.OGImage = "/public/og.jpg"
	content := testContent()
	delete(content, "about.md")
	content["posts/custom-og.md"] = post("title: Custom\ndescription: d\npubDatetime: 2025-01-01\nogImage: /public/custom.png\ntags: [go]", "")

	app := newTestApp(t, cfg, content)
	require.NoError(t, app.init(true))
	col, err := app.Content.Collection()
	require.NoError(t, err)

	routes := app.staticRoutes(col)
	sort.Strings(routes)
	assert.Equal(t, []string{
		"/",
		"/posts/",
		"/posts/2/",
		"/posts/custom-og/",
		"/posts/first/",
		"/posts/first/og.png",
		"/posts/second/",
		"/posts/second/og.png",
		"/posts/third/",
		"/posts/third/og.png",
		"/rss.xml",
		"/tags/",
		"/tags/go/",
		"/tags/go/2/",
		"/tags/life/",
		"/tags/web/",
	}, routes)
}

func TestBuildFailsOnBrokenRoute(t *testing.T) {
	app := newTestApp(t, buildConfig(t), testContent())
	app.Views.About = func(Layout, Page) templ.Component {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return errors.New("template exploded")
		})
	}

	_, err := app.Build(context.Background(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/about/")
	assert.Contains(t, err.Error(), "status 500")
}

func TestBuildHonorsCancelledContext(t *testing.T) {
	app := newTestApp(t, buildConfig(t), testContent())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := app.Build(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildRejectsServeMode(t *testing.T) {
	app := newTestApp(t, buildConfig(t), testContent())
	_, err := app.Handler()
	require.NoError(t, err)

	_, err = app.Build(context.Background(), t.TempDir())
	assert.Error(t, err)
}
