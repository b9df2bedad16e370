package folio

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

const (
	postsDir  = "posts"
	aboutFile = "about.md"
)

// LoadFunc produces a fresh Collection. The App calls it on startup and
// whenever the content cache expires.
type LoadFunc func() (*Collection, error)

// LoadContent reads posts/**/*.md and the optional about.md from fsys.
// Files whose base name starts with "_" or "." are ignored.
func LoadContent(fsys fs.FS, site SiteConfig) (*Collection, error) {
	var posts []BlogPost
	seen := make(map[string]string)
	tags := make(tagOwners)

	err := fs.WalkDir(fsys, postsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == postsDir && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if p != postsDir && ignoredName(name) {
				return fs.SkipDir
			}
			return nil
		}
		if ignoredName(name) || !strings.EqualFold(path.Ext(name), ".md") {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		post, err := parsePost(p, data, site)
		if err != nil {
			return err
		}
		if prev, dup := seen[post.Slug]; dup {
			return configErrf(p, "slug", "slug %q already used by %s", post.Slug, prev)
		}
		if err := tags.claim(p, post.Tags); err != nil {
			return err
		}
		seen[post.Slug] = p
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var about *Page
	data, err := fs.ReadFile(fsys, aboutFile)
	switch {
	case err == nil:
		page, err := parsePage(aboutFile, data)
		if err != nil {
			return nil, err
		}
		about = &page
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", aboutFile, err)
	}

	return NewCollection(posts, about), nil
}

type tagOwner struct {
	name string
	file string
}

// tagOwners maps a tag slug to the first tag name that used it. Tags share
// a listing URL, so two different names with one slug are rejected.
type tagOwners map[string]tagOwner

func (o tagOwners) claim(file string, tags []string) error {
	for i, name := range tags {
		slug := Slugify(name)
		owner, ok := o[slug]
		if !ok {
			o[slug] = tagOwner{name: name, file: file}
			continue
		}
		if owner.name != name {
			return configErrf(file, fmt.Sprintf("tags[%d]", i),
				"tag %q has the same URL slug %q as tag %q in %s", name, slug, owner.name, owner.file)
		}
	}
	return nil
}

func ignoredName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
