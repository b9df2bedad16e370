package folio

import (
	"sort"
	"time"
)

// ListFilter selects which posts ListPosts returns.
type ListFilter struct {
	IncludeDrafts bool
}

// Collection is the immutable set of posts and pages loaded from content.
type Collection struct {
	posts  []BlogPost // sorted newest first
	bySlug map[string]int
	about  *Page
}

// NewCollection sorts posts by publish time, newest first, and indexes them
// by slug. Slugs must be unique; LoadContent enforces that for file content.
func NewCollection(posts []BlogPost, about *Page) *Collection {
	sorted := make([]BlogPost, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.PubDatetime.Equal(b.PubDatetime) {
			return a.PubDatetime.After(b.PubDatetime)
		}
		return a.Slug < b.Slug
	})
	idx := make(map[string]int, len(sorted))
	for i, p := range sorted {
		idx[p.Slug] = i
	}
	return &Collection{posts: sorted, bySlug: idx, about: about}
}

// ListPosts returns posts ordered by PubDatetime descending. Drafts are
// skipped unless f.IncludeDrafts is set.
func (c *Collection) ListPosts(f ListFilter) []BlogPost {
	out := make([]BlogPost, 0, len(c.posts))
	for _, p := range c.posts {
		if p.Draft && !f.IncludeDrafts {
			continue
		}
		out = append(out, p)
	}
	return out
}

// GetPostBySlug returns the post with the exact slug, drafts included.
func (c *Collection) GetPostBySlug(slug string) (BlogPost, error) {
	i, ok := c.bySlug[slug]
	if !ok {
		return BlogPost{}, ErrNotFound
	}
	return c.posts[i], nil
}

// About returns the about page when about.md exists.
func (c *Collection) About() (Page, bool) {
	if c.about == nil {
		return Page{}, false
	}
	return *c.about, true
}

// Len returns the number of posts, drafts included. It feeds the load log
// line and lets callers outside the package check what was loaded.
func (c *Collection) Len() int {
	return len(c.posts)
}

// PageCount returns ceil(non-draft posts / perPage), 0 with no posts.
func (c *Collection) PageCount(perPage int) int {
	return pageCount(len(c.ListPosts(ListFilter{})), perPage)
}

func pageCount(n, perPage int) int {
	if perPage <= 0 || n <= 0 {
		return 0
	}
	return (n + perPage - 1) / perPage
}

// Paginate slices posts into the 1-based page. urlFor builds the prev/next
// links. Page 1 of an empty list is valid and empty; any other page outside
// the range is ErrNotFound.
func Paginate(posts []BlogPost, page, perPage int, urlFor func(int) string) (Pagination, error) {
	total := pageCount(len(posts), perPage)
	if page < 1 || (page > total && !(page == 1 && total == 0)) {
		return Pagination{}, ErrNotFound
	}
	start := (page - 1) * perPage
	end := start + perPage
	if end > len(posts) {
		end = len(posts)
	}
	p := Pagination{
		Posts:   posts[start:end],
		Current: page,
		Total:   total,
	}
	if page > 1 {
		p.PrevURL = urlFor(page - 1)
	}
	if page < total {
		p.NextURL = urlFor(page + 1)
	}
	return p, nil
}

// Featured returns listed posts marked featured, newest first.
func (c *Collection) Featured(f ListFilter) []BlogPost {
	var out []BlogPost
	for _, p := range c.ListPosts(f) {
		if p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Recent returns up to n listed posts that are not featured.
func (c *Collection) Recent(f ListFilter, n int) []BlogPost {
	var out []BlogPost
	for _, p := range c.ListPosts(f) {
		if len(out) >= n {
			break
		}
		if !p.Featured {
			out = append(out, p)
		}
	}
	return out
}

// Tags returns every tag of the listed posts sorted by slug.
func (c *Collection) Tags(f ListFilter) []TagCount {
	counts := make(map[string]*TagCount)
	for _, p := range c.ListPosts(f) {
		seen := make(map[string]struct{}, len(p.Tags))
		for _, t := range p.Tags {
			slug := Slugify(t)
			if _, dup := seen[slug]; dup {
				continue
			}
			seen[slug] = struct{}{}
			tc, ok := counts[slug]
			if !ok {
				tc = &TagCount{Name: normalizeTag(t), Slug: slug}
				counts[slug] = tc
			}
			tc.Count++
		}
	}
	out := make([]TagCount, 0, len(counts))
	for _, tc := range counts {
		out = append(out, *tc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out
}

// PostsByTag returns listed posts carrying the tag, matched by slug so
// "Go", "go" and "GO" are the same tag.
func (c *Collection) PostsByTag(f ListFilter, tag string) []BlogPost {
	want := Slugify(tag)
	var out []BlogPost
	for _, p := range c.ListPosts(f) {
		for _, t := range p.Tags {
			if Slugify(t) == want {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Archives groups listed posts by year and month in loc, newest first.
func (c *Collection) Archives(f ListFilter, loc *time.Location) []ArchiveYear {
	if loc == nil {
		loc = time.UTC
	}
	var years []ArchiveYear
	for _, p := range c.ListPosts(f) {
		t := p.PubDatetime.In(loc)
		if len(years) == 0 || years[len(years)-1].Year != t.Year() {
			years = append(years, ArchiveYear{Year: t.Year()})
		}
		y := &years[len(years)-1]
		if len(y.Months) == 0 || y.Months[len(y.Months)-1].Month != t.Month() {
			y.Months = append(y.Months, ArchiveMonth{Month: t.Month()})
		}
		m := &y.Months[len(y.Months)-1]
		m.Posts = append(m.Posts, p)
	}
	return years
}

// Adjacent returns the newer and older neighbors of slug in listing order.
func (c *Collection) Adjacent(f ListFilter, slug string) (newer, older *BlogPost) {
	posts := c.ListPosts(f)
	for i := range posts {
		if posts[i].Slug != slug {
			continue
		}
		if i > 0 {
			newer = &posts[i-1]
		}
		if i+1 < len(posts) {
			older = &posts[i+1]
		}
		return newer, older
	}
	return nil, nil
}

// Related returns up to n listed posts sharing at least one tag with current.
func (c *Collection) Related(f ListFilter, current BlogPost, n int) []BlogPost {
	tagSet := make(map[string]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		tagSet[Slugify(t)] = struct{}{}
	}
	var related []BlogPost
	for _, p := range c.ListPosts(f) {
		if len(related) >= n {
			break
		}
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[Slugify(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}
