package folio

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const atomNS = "http://www.w3.org/2005/Atom"

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Atom    string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Self          atomLink  `xml:"atom:link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssGUID struct {
	Value       string `xml:",chardata"`
	IsPermaLink bool   `xml:"isPermaLink,attr"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	GUID        rssGUID  `xml:"guid"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	Categories  []string `xml:"category,omitempty"`
}

// newFeed builds the channel for posts, which are expected newest first.
func newFeed(site SiteConfig, posts []BlogPost) rssFeed {
	var latest time.Time
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := BuildURL(site.Website, p.Link())
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        link,
			GUID:        rssGUID{Value: link, IsPermaLink: true},
			Description: p.Description,
			PubDate:     p.PubDatetime.UTC().Format(time.RFC1123Z),
			Categories:  p.Tags,
		})
		changed := p.PubDatetime
		if mod, ok := p.Updated(); ok {
			changed = mod
		}
		if changed.After(latest) {
			latest = changed
		}
	}

	ch := rssChannel{
		Title:       site.Title,
		Link:        BuildURL(site.Website),
		Self:        atomLink{Href: BuildURL(site.Website, "rss.xml"), Rel: "self", Type: "application/rss+xml"},
		Description: site.Description,
		Language:    site.Locale.Lang,
		Items:       items,
	}
	if !latest.IsZero() {
		ch.LastBuildDate = latest.UTC().Format(time.RFC1123Z)
	}
	return rssFeed{Version: "2.0", Atom: atomNS, Channel: ch}
}

func (a *App) renderRSS(c echo.Context, posts []BlogPost) error {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(newFeed(a.Config.Site, posts)); err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", buf.Bytes())
}
