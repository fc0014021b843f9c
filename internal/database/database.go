// Package database reads the palindrome YAML database and converts it to the
// format the site renderer consumes.
package database

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/palindromi-fi/builder/internal/core"
	"github.com/palindromi-fi/builder/internal/identifier"
)

// Illustration is metadata about an illustration for a palindrome.
type Illustration struct {
	Image   string `yaml:"image"`
	Author  string `yaml:"author"`
	HasText bool   `yaml:"has_text"`
}

// Translation is a translation of a palindrome into another language.
type Translation struct {
	Language string `yaml:"language"`
	Text     string `yaml:"text"`
	Author   string `yaml:"author"`
}

// Links point to the preceding and following palindromes on the site.
type Links struct {
	Next     string `yaml:"next,omitempty"`
	Previous string `yaml:"previous,omitempty"`
}

// Palindrome is one palindrome in the site format: the database record plus
// its derived identifier and neighbour links. Immutable after Read returns.
type Palindrome struct {
	Identifier    string         `yaml:"identifier"`
	Text          string         `yaml:"text"`
	Author        string         `yaml:"author"`
	Created       string         `yaml:"created,omitempty"`
	Translations  []Translation  `yaml:"translations,omitempty"`
	Illustrations []Illustration `yaml:"illustrations,omitempty"`
	Links         Links          `yaml:"links"`
	SourceFile    string         `yaml:"-"`
}

// fileRecord is the database file format: what one YAML list entry holds.
type fileRecord struct {
	Text          string         `yaml:"text"`
	Author        string         `yaml:"author"`
	Created       string         `yaml:"created"`
	Translations  []Translation  `yaml:"translations"`
	Illustrations []Illustration `yaml:"illustrations"`
}

// Read loads every palindrome from <dir>/palindromes/*.yaml. Files are read
// in sorted filename order and records in document order within each file,
// so repeated runs see an identical sequence. Each file holds a YAML list of
// records, oldest first across the whole set.
//
// Read fails on the first malformed file, on a record missing a required
// attribute, and on two records deriving the same identifier.
func Read(dir string) ([]Palindrome, error) {
	recordsDir := filepath.Join(dir, "palindromes")
	if _, err := os.Stat(recordsDir); err != nil {
		return nil, &core.Error{Op: "database.read", Kind: core.KindIO, Path: recordsDir, Err: err}
	}

	paths, err := filepath.Glob(filepath.Join(recordsDir, "*.yaml"))
	if err != nil {
		return nil, &core.Error{Op: "database.read", Kind: core.KindIO, Path: recordsDir, Err: err}
	}
	sort.Strings(paths)

	var palindromes []Palindrome
	sources := map[string]string{} // identifier -> file that introduced it
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &core.Error{Op: "database.read", Kind: core.KindIO, Path: path, Err: err}
		}

		var records []fileRecord
		if err := yaml.UnmarshalWithOptions(data, &records, yaml.Strict()); err != nil {
			return nil, &core.Error{Op: "database.read", Kind: core.KindParse, Path: path, Err: err}
		}

		for i, record := range records {
			if err := validate(record); err != nil {
				return nil, &core.Error{
					Op:   "database.read",
					Kind: core.KindParse,
					Path: path,
					Err:  fmt.Errorf("record %d: %w", i, err),
				}
			}

			id := identifier.Calculate(record.Text)
			if first, ok := sources[id]; ok {
				return nil, &core.Error{
					Op:   "database.read",
					Kind: core.KindCollision,
					Path: path,
					Err:  fmt.Errorf("identifier %q already derived in %s", id, first),
				}
			}
			sources[id] = path

			palindromes = append(palindromes, Palindrome{
				Identifier:    id,
				Text:          record.Text,
				Author:        record.Author,
				Created:       record.Created,
				Translations:  record.Translations,
				Illustrations: record.Illustrations,
				SourceFile:    path,
			})
		}
	}

	link(palindromes)
	return palindromes, nil
}

// link connects neighbours cyclically. The database is ordered oldest first
// and the site front page is the newest palindrome, so following "next" goes
// back in time.
func link(palindromes []Palindrome) {
	n := len(palindromes)
	if n == 0 {
		return
	}
	for i := range palindromes {
		older := &palindromes[i]
		newer := &palindromes[(i+1)%n]
		newer.Links.Next = older.Identifier
		older.Links.Previous = newer.Identifier
	}
}

// Dump writes palindromes in the site format as YAML, for inspecting what
// the renderer will see.
func Dump(w io.Writer, palindromes []Palindrome) error {
	data, err := yaml.Marshal(palindromes)
	if err != nil {
		return fmt.Errorf("encoding site palindromes: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return &core.Error{Op: "database.dump", Kind: core.KindIO, Err: err}
	}
	return nil
}
