package folio

import (
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Slugify converts a title to a slug of lowercase letters, digits and
// dashes. Letters and digits from any script are kept, so URLs built from
// slugs must be path-escaped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prev = false
		case unicode.Is(unicode.Mn, r) && b.Len() > 0 && !prev:
			// combining accents stay with their letter
			b.WriteRune(r)
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// validSlug reports whether s is already in Slugify form and is not purely
// numeric, since numeric segments under /posts/ address listing pages.
func validSlug(s string) bool {
	if s == "" || Slugify(s) != s {
		return false
	}
	return !isNumeric(s)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
// Segments may already be path-escaped, as Link and TagURL return them.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	joined := path.Join(pathSegments...)
	if raw, err := url.PathUnescape(joined); err == nil {
		joined = raw
	}
	u.Path = path.Join(u.Path, joined)
	u.RawPath = ""
	if len(pathSegments) > 0 && !strings.HasSuffix(u.Path, "/") && path.Ext(u.Path) == "" {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// TagURL returns the listing URL of a tag, page 1 when page <= 1.
func TagURL(tag string, page int) string {
	u := "/tags/" + url.PathEscape(Slugify(tag)) + "/"
	if page > 1 {
		u += strconv.Itoa(page) + "/"
	}
	return u
}

// PostsURL returns the URL of a listing page.
func PostsURL(page int) string {
	if page <= 1 {
		return "/posts/"
	}
	return "/posts/" + strconv.Itoa(page) + "/"
}

// FormatDate renders t in loc as e.g. "14 Oct, 2026".
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format("2 Jan, 2006")
}

const wordsPerMinute = 200

// readingTime returns whole minutes to read body, never less than one.
func readingTime(body string) int {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
