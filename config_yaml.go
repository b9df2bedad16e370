package folio

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type yamlConfig struct {
	Site    yamlSite     `yaml:"site"`
	Socials []yamlSocial `yaml:"socials"`
}

type yamlSite struct {
	Website          string     `yaml:"website"`
	Author           string     `yaml:"author"`
	Description      string     `yaml:"description"`
	Title            string     `yaml:"title"`
	OGImage          string     `yaml:"ogImage"`
	LightAndDarkMode *bool      `yaml:"lightAndDarkMode"`
	PostsPerPage     *int       `yaml:"postsPerPage"`
	PostsPerIndex    *int       `yaml:"postsPerIndex"`
	ShowArchives     *bool      `yaml:"showArchives"`
	Timezone         string     `yaml:"timezone"`
	Locale           yamlLocale `yaml:"locale"`
	Logo             yamlLogo   `yaml:"logo"`
}

type yamlLocale struct {
	Lang    string   `yaml:"lang"`
	LangTag []string `yaml:"langTag"`
}

type yamlLogo struct {
	Enable bool   `yaml:"enable"`
	Image  string `yaml:"image"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type yamlSocial struct {
	Name      string `yaml:"name"`
	Href      string `yaml:"href"`
	LinkTitle string `yaml:"linkTitle"`
	Active    bool   `yaml:"active"`
}

// LoadConfig reads a site.yaml file, applies defaults and validates it.
// Every failure is a *BuildConfigError carrying the path.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, configErr(path, "", err)
	}
	return ParseConfig(path, b)
}

// ParseConfig decodes YAML config data; path is used only in errors.
func ParseConfig(path string, data []byte) (Config, error) {
	var dto yamlConfig
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return Config{}, configErr(path, "", err)
	}
	cfg := mapConfig(dto)
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		var bce *BuildConfigError
		if errors.As(err, &bce) {
			bce.Path = path
		}
		return Config{}, err
	}
	return cfg, nil
}

func mapConfig(dto yamlConfig) Config {
	site := SiteConfig{
		Website:          strings.TrimSpace(dto.Site.Website),
		Author:           strings.TrimSpace(dto.Site.Author),
		Description:      strings.TrimSpace(dto.Site.Description),
		Title:            strings.TrimSpace(dto.Site.Title),
		OGImage:          strings.TrimSpace(dto.Site.OGImage),
		LightAndDarkMode: boolOr(dto.Site.LightAndDarkMode, true),
		PostsPerPage:     intOr(dto.Site.PostsPerPage, 4),
		PostsPerIndex:    intOr(dto.Site.PostsPerIndex, 4),
		ShowArchives:     boolOr(dto.Site.ShowArchives, true),
		Timezone:         strings.TrimSpace(dto.Site.Timezone),
		Locale: Locale{
			Lang:    strings.TrimSpace(dto.Site.Locale.Lang),
			LangTag: dto.Site.Locale.LangTag,
		},
		Logo: Logo{
			Enable: dto.Site.Logo.Enable,
			Image:  strings.TrimSpace(dto.Site.Logo.Image),
			Width:  dto.Site.Logo.Width,
			Height: dto.Site.Logo.Height,
		},
	}

	socials := make([]SocialLink, 0, len(dto.Socials))
	for _, s := range dto.Socials {
		socials = append(socials, SocialLink{
			Name:      strings.TrimSpace(s.Name),
			Href:      strings.TrimSpace(s.Href),
			LinkTitle: strings.TrimSpace(s.LinkTitle),
			Active:    s.Active,
		})
	}
	return Config{Site: site, Socials: socials}
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
