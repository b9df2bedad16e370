package views

import (
	"encoding/json"
	"html/template"
	"strings"
	"time"

	"github.com/eringen/folio"
)

// TagClass returns CSS classes for a tag pill, with active variant.
func TagClass(active bool) string {
	base := "inline-flex items-center rounded border border-ink dark:border-white/30 bg-stone-100 dark:bg-neutral-700 px-2.5 py-1 text-[11px] font-semibold uppercase tracking-[0.12em] hover:-translate-y-0.5 hover:shadow-sm transition"
	if active {
		base += " bg-ink dark:bg-white text-white dark:text-ink"
	}
	return base
}

// WebsiteJSONLD produces a Schema.org WebSite JSON-LD block for the site.
func WebsiteJSONLD(site folio.SiteConfig) template.JS {
	data := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     site.Title,
		"url":      folio.BuildURL(site.Website),
	}
	if site.Description != "" {
		data["description"] = site.Description
	}
	if site.Author != "" {
		data["author"] = person(site.Author)
	}
	return marshalJS(data)
}

// BlogPostingJSONLD produces a Schema.org BlogPosting JSON-LD block for a post.
func BlogPostingJSONLD(site folio.SiteConfig, post folio.BlogPost) template.JS {
	postURL := folio.BuildURL(site.Website, "posts", post.Slug)
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Description,
		"datePublished": post.PubDatetime.UTC().Format(time.RFC3339),
		"url":           postURL,
		"author":        person(post.Author),
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  site.Title,
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
	}
	if mod, ok := post.Updated(); ok {
		data["dateModified"] = mod.UTC().Format(time.RFC3339)
	}
	if len(post.Tags) > 0 {
		data["keywords"] = strings.Join(post.Tags, ", ")
	}
	return marshalJS(data)
}

func person(name string) map[string]string {
	return map[string]string{"@type": "Person", "name": name}
}

// marshalJS relies on encoding/json escaping <, > and & so the result is
// safe inside a script element.
func marshalJS(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return template.JS(b)
}
