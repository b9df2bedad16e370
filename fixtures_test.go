package folio

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/a-h/templ"
)

func post(front, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + front + "\n---\n" + body)}
}

// testContent has three listed posts, one draft and an about page.
func testContent() fstest.MapFS {
	return fstest.MapFS{
		"posts/first.md": post(`title: First post
description: The very first one
pubDatetime: 2026-01-01T09:00:00Z
featured: true
tags: [go, web]`, "Hello from the first post about goroutines."),
		"posts/second.md": post(`title: Second post
description: Another day
pubDatetime: 2026-02-01T09:00:00Z
tags: [Go]`, "Channels and select."),
		"posts/third.md": post(`title: Third post
description: Life update
pubDatetime: 2026-03-01T09:00:00Z
modDatetime: 2026-03-05T09:00:00Z
tags: [Life]`, "Went hiking."),
		"posts/draft.md": post(`title: Draft post
description: Not ready
pubDatetime: 2026-04-01T09:00:00Z
draft: true
tags: [go]`, "Work in progress."),
		"about.md": post(`title: About me
description: Who I am`, "I write Go."),
	}
}

func testConfig() Config {
	return Config{
		Site: SiteConfig{
			Website:          "https://example.com/",
			Author:           "Jane Doe",
			Title:            "Example",
			Description:      "An example site",
			LightAndDarkMode: true,
			PostsPerPage:     2,
			PostsPerIndex:    4,
			ShowArchives:     true,
		},
		Socials: []SocialLink{
			{Name: "GitHub", Href: "https://github.com/jane", Active: true},
			{Name: "Mastodon", Href: "https://example.social/@jane", Active: false},
			{Name: "Mail", Href: "mailto:jane@example.com", Active: true},
		},
		SearchDatabasePath: ":memory:",
		LogLevel:           "error",
	}
}

func titles(posts []BlogPost) string {
	var names []string
	for _, p := range posts {
		names = append(names, p.Slug)
	}
	return strings.Join(names, ",")
}

func text(format string, args ...any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, format, args...)
		return err
	})
}

// fakeViews renders a plain-text summary of what each view received.
func fakeViews() ViewFuncs {
	return ViewFuncs{
		Home: func(l Layout, featured, recent []BlogPost) templ.Component {
			return text("home featured=%s recent=%s theme=%s socials=%d", titles(featured), titles(recent), l.Theme, len(l.Socials))
		},
		Posts: func(l Layout, p Pagination) templ.Component {
			return text("posts page=%d/%d posts=%s prev=%s next=%s", p.Current, p.Total, titles(p.Posts), p.PrevURL, p.NextURL)
		},
		Post: func(l Layout, p BlogPost, related []BlogPost, newer, older *BlogPost) templ.Component {
			var n, o string
			if newer != nil {
				n = newer.Slug
			}
			if older != nil {
				o = older.Slug
			}
			return text("post %s related=%s newer=%s older=%s og=%s", p.Slug, titles(related), n, o, l.Meta.OGImage)
		},
		Tags: func(l Layout, tags []TagCount) templ.Component {
			var parts []string
			for _, t := range tags {
				parts = append(parts, fmt.Sprintf("%s:%d", t.Slug, t.Count))
			}
			return text("tags %s", strings.Join(parts, ","))
		},
		TagPosts: func(l Layout, tag TagCount, p Pagination) templ.Component {
			return text("tag %s page=%d/%d posts=%s", tag.Slug, p.Current, p.Total, titles(p.Posts))
		},
		Archives: func(l Layout, years []ArchiveYear) templ.Component {
			return text("archives years=%d", len(years))
		},
		About: func(l Layout, p Page) templ.Component {
			return text("about %s", p.Title)
		},
		Search: func(l Layout, q string, hits []SearchHit) templ.Component {
			var slugs []string
			for _, h := range hits {
				slugs = append(slugs, h.Slug)
			}
			return text("search q=%s hits=%s", q, strings.Join(slugs, ","))
		},
		NotFound: func(l Layout) templ.Component {
			return text("not found")
		},
		ServerError: func(l Layout) templ.Component {
			return text("server error")
		},
	}
}

func newTestApp(t *testing.T, cfg Config, content fstest.MapFS, opts ...Option) *App {
	t.Helper()
	site := cfg.Site
	opts = append([]Option{WithContentLoader(func() (*Collection, error) {
		return LoadContent(content, site)
	})}, opts...)
	app := New(cfg, fakeViews(), opts...)
	t.Cleanup(func() { app.Close() })
	return app
}

func serveTestApp(t *testing.T, cfg Config, content fstest.MapFS) http.Handler {
	t.Helper()
	h, err := newTestApp(t, cfg, content).Handler()
	if err != nil {
		t.Fatalf("Handler failed: %v", err)
	}
	return h
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
