// Package views is the default theme shipped with folio. Pages are
// html/template files embedded in the binary and exposed as templ components.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/folio"
	"github.com/eringen/folio/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageFiles = []string{
	"home", "posts", "post", "tags", "tag", "archives", "about", "search", "404", "500",
}

// Theme is a parsed set of page templates.
type Theme struct {
	pages map[string]*template.Template
}

// NewTheme parses the built-in templates. Files in override replace the
// built-in file of the same name.
func NewTheme(override fs.FS) (*Theme, error) {
	t := &Theme{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, name := range pageFiles {
		tmpl := template.New(name).Funcs(funcMap())
		for _, file := range []string{"layout.html", "partials.html", name + ".html"} {
			data, err := readTemplate(override, file)
			if err != nil {
				return nil, err
			}
			if _, err := tmpl.New(file).Parse(string(data)); err != nil {
				return nil, fmt.Errorf("views: parse %s: %w", file, err)
			}
		}
		t.pages[name] = tmpl
	}
	return t, nil
}

func readTemplate(override fs.FS, file string) ([]byte, error) {
	if override != nil {
		if data, err := fs.ReadFile(override, file); err == nil {
			return data, nil
		}
	}
	data, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return nil, fmt.Errorf("views: read %s: %w", file, err)
	}
	return data, nil
}

// Funcs returns the built-in theme as the ViewFuncs folio renders with.
func Funcs() folio.ViewFuncs {
	t, err := NewTheme(nil)
	if err != nil {
		panic(err)
	}
	return t.ViewFuncs()
}

// ViewFuncs adapts the theme to folio.ViewFuncs.
func (t *Theme) ViewFuncs() folio.ViewFuncs {
	return folio.ViewFuncs{
		Home: func(l folio.Layout, featured, recent []folio.BlogPost) templ.Component {
			return t.component("home", homeData{Layout: l, Featured: featured, Recent: recent})
		},
		Posts: func(l folio.Layout, page folio.Pagination) templ.Component {
			return t.component("posts", listData{Layout: l, Page: page})
		},
		Post: func(l folio.Layout, post folio.BlogPost, related []folio.BlogPost, newer, older *folio.BlogPost) templ.Component {
			return t.component("post", postData{Layout: l, Post: post, Related: related, Newer: newer, Older: older})
		},
		Tags: func(l folio.Layout, tags []folio.TagCount) templ.Component {
			return t.component("tags", tagsData{Layout: l, Tags: tags})
		},
		TagPosts: func(l folio.Layout, tag folio.TagCount, page folio.Pagination) templ.Component {
			return t.component("tag", listData{Layout: l, Tag: tag, Page: page})
		},
		Archives: func(l folio.Layout, years []folio.ArchiveYear) templ.Component {
			return t.component("archives", archivesData{Layout: l, Years: years})
		},
		About: func(l folio.Layout, page folio.Page) templ.Component {
			return t.component("about", aboutData{Layout: l, Page: page})
		},
		Search: func(l folio.Layout, query string, hits []folio.SearchHit) templ.Component {
			return t.component("search", searchData{Layout: l, Query: query, Hits: hits})
		},
		NotFound: func(l folio.Layout) templ.Component {
			return t.component("404", pageData{Layout: l})
		},
		ServerError: func(l folio.Layout) templ.Component {
			return t.component("500", pageData{Layout: l})
		},
	}
}

func (t *Theme) component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		tmpl, ok := t.pages[name]
		if !ok {
			return fmt.Errorf("views: unknown page %q", name)
		}
		return tmpl.ExecuteTemplate(w, "layout.html", data)
	})
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"markdown": markdown.Render,
		"formatDate": func(t time.Time, site folio.SiteConfig) string {
			return folio.FormatDate(t, site.Location())
		},
		"isoDate":       func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
		"tagURL":        folio.TagURL,
		"slugify":       folio.Slugify,
		"joinTags":      folio.JoinTags,
		"tagClass":      TagClass,
		"websiteJSONLD": WebsiteJSONLD,
		"postingJSONLD": BlogPostingJSONLD,
		"withSite": func(p folio.BlogPost, site folio.SiteConfig) cardData {
			return cardData{Post: p, Site: site}
		},
		"updated": func(p folio.BlogPost) *time.Time {
			if t, ok := p.Updated(); ok {
				return &t
			}
			return nil
		},
	}
}
