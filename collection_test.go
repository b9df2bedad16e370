package folio

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func loadTestCollection(t *testing.T) *Collection {
	t.Helper()
	col, err := LoadContent(testContent(), testConfig().Site)
	if err != nil {
		t.Fatalf("LoadContent failed: %v", err)
	}
	return col
}

func TestListPostsExcludesDraftsNewestFirst(t *testing.T) {
	col := loadTestCollection(t)

	posts := col.ListPosts(ListFilter{})
	if got := titles(posts); got != "third,second,first" {
		t.Fatalf("ListPosts = %s, want third,second,first", got)
	}
	seen := make(map[string]int)
	for i, p := range posts {
		seen[p.Slug]++
		if p.Draft {
			t.Errorf("draft %s listed", p.Slug)
		}
		if i > 0 && p.PubDatetime.After(posts[i-1].PubDatetime) {
			t.Errorf("posts out of order at %d", i)
		}
	}
	for slug, n := range seen {
		if n != 1 {
			t.Errorf("%s listed %d times", slug, n)
		}
	}

	all := col.ListPosts(ListFilter{IncludeDrafts: true})
	if got := titles(all); got != "draft,third,second,first" {
		t.Errorf("ListPosts(drafts) = %s", got)
	}
}

func TestListPostsReturnsCopy(t *testing.T) {
	col := loadTestCollection(t)
	posts := col.ListPosts(ListFilter{})
	posts[0].Title = "mutated"
	if col.ListPosts(ListFilter{})[0].Title == "mutated" {
		t.Error("ListPosts should not expose internal storage")
	}
}

func TestGetPostBySlug(t *testing.T) {
	col := loadTestCollection(t)

	p, err := col.GetPostBySlug("second")
	if err != nil {
		t.Fatalf("GetPostBySlug failed: %v", err)
	}
	if p.Title != "Second post" {
		t.Errorf("title = %q", p.Title)
	}

	d, err := col.GetPostBySlug("draft")
	if err != nil || !d.Draft {
		t.Errorf("drafts should be found by slug, got %v %v", d.Draft, err)
	}

	for _, slug := range []string{"missing", "", "Second", "second/"} {
		if _, err := col.GetPostBySlug(slug); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetPostBySlug(%q) err = %v, want ErrNotFound", slug, err)
		}
	}
}

func TestEqualTimesBreakTiesBySlug(t *testing.T) {
	at := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	col := NewCollection([]BlogPost{
		{Slug: "zeta", PubDatetime: at},
		{Slug: "alpha", PubDatetime: at},
		{Slug: "mid", PubDatetime: at},
	}, nil)
	if got := titles(col.ListPosts(ListFilter{})); got != "alpha,mid,zeta" {
		t.Errorf("order = %s, want alpha,mid,zeta", got)
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct {
		posts, perPage, want int
	}{
		{0, 4, 0},
		{1, 4, 1},
		{4, 4, 1},
		{5, 4, 2},
		{9, 3, 3},
		{3, 0, 0},
	}
	for _, c := range cases {
		var posts []BlogPost
		for i := 0; i < c.posts; i++ {
			posts = append(posts, BlogPost{Slug: fmt.Sprintf("p%d", i), PubDatetime: time.Unix(int64(i), 0)})
		}
		// one draft never counts
		posts = append(posts, BlogPost{Slug: "d", Draft: true})
		col := NewCollection(posts, nil)
		if got := col.PageCount(c.perPage); got != c.want {
			t.Errorf("PageCount(%d posts, %d per page) = %d, want %d", c.posts, c.perPage, got, c.want)
		}
	}
}

func TestPaginate(t *testing.T) {
	col := loadTestCollection(t)
	posts := col.ListPosts(ListFilter{})

	p, err := Paginate(posts, 1, 2, PostsURL)
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if titles(p.Posts) != "third,second" || p.Total != 2 || p.PrevURL != "" || p.NextURL != "/posts/2/" {
		t.Errorf("page 1 = %+v", p)
	}

	p, err = Paginate(posts, 2, 2, PostsURL)
	if err != nil {
		t.Fatalf("Paginate failed: %v", err)
	}
	if titles(p.Posts) != "first" || p.PrevURL != "/posts/" || p.NextURL != "" {
		t.Errorf("page 2 = %+v", p)
	}

	for _, n := range []int{0, -1, 3} {
		if _, err := Paginate(posts, n, 2, PostsURL); !errors.Is(err, ErrNotFound) {
			t.Errorf("Paginate(page %d) err = %v, want ErrNotFound", n, err)
		}
	}

	empty, err := Paginate(nil, 1, 2, PostsURL)
	if err != nil || len(empty.Posts) != 0 || empty.Total != 0 {
		t.Errorf("empty page 1 = %+v, %v", empty, err)
	}
}

func TestFeaturedAndRecent(t *testing.T) {
	col := loadTestCollection(t)
	f := ListFilter{}
	if got := titles(col.Featured(f)); got != "first" {
		t.Errorf("Featured = %s", got)
	}
	if got := titles(col.Recent(f, 1)); got != "third" {
		t.Errorf("Recent(1) = %s", got)
	}
	if got := titles(col.Recent(f, 0)); got != "" {
		t.Errorf("Recent(0) = %s", got)
	}
}

func TestTagsAndPostsByTag(t *testing.T) {
	col := loadTestCollection(t)
	f := ListFilter{}

	tags := col.Tags(f)
	want := []TagCount{{Name: "go", Slug: "go", Count: 2}, {Name: "life", Slug: "life", Count: 1}, {Name: "web", Slug: "web", Count: 1}}
	if len(tags) != len(want) {
		t.Fatalf("Tags = %+v", tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("Tags[%d] = %+v, want %+v", i, tags[i], want[i])
		}
	}

	if got := titles(col.PostsByTag(f, "GO")); got != "second,first" {
		t.Errorf("PostsByTag(GO) = %s", got)
	}
	if got := titles(col.PostsByTag(ListFilter{IncludeDrafts: true}, "go")); got != "draft,second,first" {
		t.Errorf("PostsByTag(go, drafts) = %s", got)
	}
	if got := col.PostsByTag(f, "nope"); len(got) != 0 {
		t.Errorf("PostsByTag(nope) = %v", got)
	}
}

func TestArchives(t *testing.T) {
	col := NewCollection([]BlogPost{
		{Slug: "a", PubDatetime: time.Date(2025, 12, 31, 23, 30, 0, 0, time.UTC)},
		{Slug: "b", PubDatetime: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Slug: "c", PubDatetime: time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)},
		{Slug: "d", PubDatetime: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}, nil)

	years := col.Archives(ListFilter{}, time.UTC)
	if len(years) != 2 || years[0].Year != 2026 || years[1].Year != 2025 {
		t.Fatalf("years = %+v", years)
	}
	if len(years[0].Months) != 2 || years[0].Months[0].Month != time.March || years[0].Months[1].Month != time.January {
		t.Errorf("2026 months = %+v", years[0].Months)
	}
	if titles(years[0].Months[1].Posts) != "b,c" {
		t.Errorf("January posts = %s", titles(years[0].Months[1].Posts))
	}

	// 2025-12-31 23:30 UTC is already January in Tokyo
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	years = col.Archives(ListFilter{}, tokyo)
	if len(years) != 1 {
		t.Errorf("Tokyo years = %d, want 1", len(years))
	}
}

func TestAdjacentAndRelated(t *testing.T) {
	col := loadTestCollection(t)
	f := ListFilter{}

	newer, older := col.Adjacent(f, "third")
	if newer != nil || older == nil || older.Slug != "second" {
		t.Errorf("Adjacent(third) = %v, %v", newer, older)
	}
	newer, older = col.Adjacent(f, "first")
	if newer == nil || newer.Slug != "second" || older != nil {
		t.Errorf("Adjacent(first) = %v, %v", newer, older)
	}
	newer, older = col.Adjacent(f, "draft")
	if newer != nil || older != nil {
		t.Error("unlisted post should have no neighbors")
	}

	first, _ := col.GetPostBySlug("first")
	if got := titles(col.Related(f, first, 3)); got != "second" {
		t.Errorf("Related(first) = %s", got)
	}
	third, _ := col.GetPostBySlug("third")
	if got := col.Related(f, third, 3); len(got) != 0 {
		t.Errorf("Related(third) = %s", titles(got))
	}
}

func TestAbout(t *testing.T) {
	col := loadTestCollection(t)
	page, ok := col.About()
	if !ok || page.Title != "About me" || page.Description != "Who I am" {
		t.Errorf("About = %+v, %v", page, ok)
	}
	if _, ok := NewCollection(nil, nil).About(); ok {
		t.Error("expected no about page")
	}
}
