package folio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var errNoFrontMatter = errors.New("missing front-matter block")

type yamlPost struct {
	Author      string   `yaml:"author"`
	PubDatetime yamlTime `yaml:"pubDatetime"`
	ModDatetime yamlTime `yaml:"modDatetime"`
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Featured    bool     `yaml:"featured"`
	Draft       bool     `yaml:"draft"`
	Tags        []string `yaml:"tags"`
	OGImage     string   `yaml:"ogImage"`
	Description string   `yaml:"description"`
}

type yamlPage struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// yamlTime keeps the raw scalar so zone-less values can be resolved in the
// site timezone after decoding.
type yamlTime struct {
	raw string
}

func (t *yamlTime) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: timestamp must be a scalar", value.Line)
	}
	t.raw = strings.TrimSpace(value.Value)
	return nil
}

func (t yamlTime) set() bool {
	return t.raw != "" && t.raw != "null" && t.raw != "~"
}

var timeLayouts = []struct {
	layout string
	zoned  bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04", false},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
}

func (t yamlTime) parse(loc *time.Location) (time.Time, error) {
	for _, l := range timeLayouts {
		if l.zoned {
			if v, err := time.Parse(l.layout, t.raw); err == nil {
				return v, nil
			}
			continue
		}
		if v, err := time.ParseInLocation(l.layout, t.raw, loc); err == nil {
			return v, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", t.raw)
}

// splitFrontMatter separates a leading "---" fenced YAML block from the body.
func splitFrontMatter(data []byte) (front []byte, body string, err error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return nil, text, errNoFrontMatter
	}
	rest := text[len("---\n"):]
	if strings.HasPrefix(rest, "---\n") || rest == "---" {
		return nil, strings.TrimPrefix(rest[3:], "\n"), nil
	}
	end := strings.Index(rest, "\n---\n")
	if end < 0 {
		if strings.HasSuffix(rest, "\n---") {
			return []byte(rest[:len(rest)-len("\n---")]), "", nil
		}
		return nil, "", errors.New("unterminated front-matter block")
	}
	return []byte(rest[:end]), strings.TrimLeft(rest[end+len("\n---\n"):], "\n"), nil
}

// parsePost decodes one post document. name is the file path and provides
// the default slug.
func parsePost(name string, data []byte, site SiteConfig) (BlogPost, error) {
	front, body, err := splitFrontMatter(data)
	if err != nil {
		return BlogPost{}, configErr(name, "", err)
	}
	var fm yamlPost
	if err := yaml.Unmarshal(front, &fm); err != nil {
		return BlogPost{}, configErr(name, "", err)
	}

	title := strings.TrimSpace(fm.Title)
	if title == "" {
		return BlogPost{}, configErrf(name, "title", "title is required")
	}
	description := strings.TrimSpace(fm.Description)
	if description == "" {
		return BlogPost{}, configErrf(name, "description", "description is required")
	}
	if !fm.PubDatetime.set() {
		return BlogPost{}, configErrf(name, "pubDatetime", "pubDatetime is required")
	}
	loc := site.Location()
	pub, err := fm.PubDatetime.parse(loc)
	if err != nil {
		return BlogPost{}, configErr(name, "pubDatetime", err)
	}
	var mod *time.Time
	if fm.ModDatetime.set() {
		m, err := fm.ModDatetime.parse(loc)
		if err != nil {
			return BlogPost{}, configErr(name, "modDatetime", err)
		}
		mod = &m
	}

	slug := strings.TrimSpace(fm.Slug)
	if slug == "" {
		slug = Slugify(baseName(name))
	}
	if !validSlug(slug) {
		return BlogPost{}, configErrf(name, "slug", "slug %q must be lowercase letters, digits and dashes, and not only digits", slug)
	}

	tags := FilterEmpty(fm.Tags)
	if len(tags) == 0 {
		tags = []string{"others"}
	}
	unique := tags[:0]
	seenTag := make(map[string]bool, len(tags))
	for i, t := range tags {
		if Slugify(t) == "" {
			return BlogPost{}, configErrf(name, fmt.Sprintf("tags[%d]", i), "tag %q has no letters or digits", t)
		}
		t = normalizeTag(t)
		if !seenTag[t] {
			seenTag[t] = true
			unique = append(unique, t)
		}
	}
	tags = unique

	author := strings.TrimSpace(fm.Author)
	if author == "" {
		author = site.Author
	}

	return BlogPost{
		Author:      author,
		PubDatetime: pub,
		ModDatetime: mod,
		Title:       title,
		Slug:        slug,
		Featured:    fm.Featured,
		Draft:       fm.Draft,
		Tags:        tags,
		OGImage:     strings.TrimSpace(fm.OGImage),
		Description: description,
		Body:        body,
		ReadingTime: readingTime(body),
		Source:      name,
	}, nil
}

// parsePage decodes a standalone page. Front-matter is optional.
func parsePage(name string, data []byte) (Page, error) {
	front, body, err := splitFrontMatter(data)
	if err != nil && !errors.Is(err, errNoFrontMatter) {
		return Page{}, configErr(name, "", err)
	}
	var fm yamlPage
	if len(front) > 0 {
		if err := yaml.Unmarshal(front, &fm); err != nil {
			return Page{}, configErr(name, "", err)
		}
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = "About"
	}
	return Page{
		Title:       title,
		Description: strings.TrimSpace(fm.Description),
		Body:        body,
		Source:      name,
	}, nil
}

func baseName(name string) string {
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndex(name, "."); i > 0 {
		name = name[:i]
	}
	return name
}
