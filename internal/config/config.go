// Package config loads the optional site.yaml next to the palindrome
// database. Every setting has a default, so a database directory without a
// config file renders the stock site.
package config

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/palindromi-fi/builder/internal/core"
	"github.com/palindromi-fi/builder/internal/palindrome"
)

const fileName = "site.yaml"

// Site holds the site-wide rendering settings.
type Site struct {
	// Title appears on the index page and in page <title> elements.
	Title string
	// StaticURL is the URL prefix (and output subdirectory) for static
	// assets, relative to the site root.
	StaticURL string
	// Letters is the character class the palindrome checker keeps when
	// normalizing, in regexp range syntax.
	Letters string
}

// Default returns the settings used when no site.yaml is present.
func Default() Site {
	return Site{
		Title:     "palindromi.fi",
		StaticURL: "static",
		Letters:   palindrome.DefaultLetters,
	}
}

type siteFile struct {
	Title     string `yaml:"title"`
	StaticURL string `yaml:"static_url"`
	Letters   string `yaml:"letters"`
}

// Load reads site.yaml from the database directory, falling back to defaults
// for the file itself and for any setting it leaves out.
func Load(databaseDir string) (Site, error) {
	site := Default()

	path := filepath.Join(databaseDir, fileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return site, nil
		}
		return Site{}, &core.Error{Op: "config.load", Kind: core.KindIO, Path: path, Err: err}
	}

	var parsed siteFile
	if err := yaml.UnmarshalWithOptions(data, &parsed, yaml.Strict()); err != nil {
		return Site{}, &core.Error{Op: "config.load", Kind: core.KindParse, Path: path, Err: err}
	}

	if parsed.Title != "" {
		site.Title = parsed.Title
	}
	if parsed.StaticURL != "" {
		site.StaticURL = parsed.StaticURL
	}
	if parsed.Letters != "" {
		site.Letters = parsed.Letters
	}
	return site, nil
}
