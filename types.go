package folio

import (
	"net/url"
	"time"
)

// BlogPost is one markdown document from the posts collection.
type BlogPost struct {
	Author      string
	PubDatetime time.Time
	ModDatetime *time.Time
	Title       string
	Slug        string
	Featured    bool
	Draft       bool
	Tags        []string
	OGImage     string
	Description string
	Body        string // markdown
	ReadingTime int    // minutes
	Source      string // path inside the content filesystem
}

// Link returns the site-relative, path-escaped URL of the post.
func (p BlogPost) Link() string {
	return "/posts/" + url.PathEscape(p.Slug) + "/"
}

// Updated returns ModDatetime when set and later than PubDatetime.
func (p BlogPost) Updated() (time.Time, bool) {
	if p.ModDatetime == nil || !p.ModDatetime.After(p.PubDatetime) {
		return time.Time{}, false
	}
	return *p.ModDatetime, true
}

// Page is a standalone markdown page such as about.md.
type Page struct {
	Title       string
	Description string
	Body        string
	Source      string
}

// TagCount pairs a tag with the number of listed posts carrying it.
type TagCount struct {
	Name  string
	Slug  string
	Count int
}

// Pagination is one listing page.
type Pagination struct {
	Posts   []BlogPost
	Current int // 1-based
	Total   int
	PrevURL string
	NextURL string
}

// ArchiveMonth groups posts of one calendar month.
type ArchiveMonth struct {
	Month time.Month
	Posts []BlogPost
}

// ArchiveYear groups posts of one year, newest month first.
type ArchiveYear struct {
	Year   int
	Months []ArchiveMonth
}

// SearchHit is one result of a search index query.
type SearchHit struct {
	Slug        string
	Title       string
	Description string
	PubDatetime time.Time
}

// PageMeta carries per-page title and OpenGraph data into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	OGImage     string
}

// Layout is the shared frame every view receives.
type Layout struct {
	Site        SiteConfig
	Socials     []SocialLink // active only
	Meta        PageMeta
	Path        string // request path, used as the theme form return target
	Nav         string // active nav section: "posts", "tags", "archives", "about", "search"
	Theme       string // "light", "dark" or "" when the client decides
	Interactive bool   // served at runtime; false during static builds
	CSRFToken   string
	Archives    bool
	HasAbout    bool // about.md exists, so /about/ resolves
}
