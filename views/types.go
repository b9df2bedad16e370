package views

import "github.com/eringen/folio"

// pageData is the template root for pages that only need the frame.
type pageData struct {
	Layout folio.Layout
}

type homeData struct {
	Layout   folio.Layout
	Featured []folio.BlogPost
	Recent   []folio.BlogPost
}

// listData backs both /posts/ and /tags/:tag/ listings. Tag is zero for
// the main listing.
type listData struct {
	Layout folio.Layout
	Tag    folio.TagCount
	Page   folio.Pagination
}

type postData struct {
	Layout  folio.Layout
	Post    folio.BlogPost
	Related []folio.BlogPost
	Newer   *folio.BlogPost
	Older   *folio.BlogPost
}

type tagsData struct {
	Layout folio.Layout
	Tags   []folio.TagCount
}

type archivesData struct {
	Layout folio.Layout
	Years  []folio.ArchiveYear
}

type aboutData struct {
	Layout folio.Layout
	Page   folio.Page
}

type searchData struct {
	Layout folio.Layout
	Query  string
	Hits   []folio.SearchHit
}

// cardData is what the card and datetime partials receive.
type cardData struct {
	Post folio.BlogPost
	Site folio.SiteConfig
}
