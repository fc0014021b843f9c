// Package render turns loaded palindromes into the static site: one detail
// page per palindrome, an index page, and the static assets the pages
// reference.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/palindromi-fi/builder/internal/config"
	"github.com/palindromi-fi/builder/internal/core"
	"github.com/palindromi-fi/builder/internal/database"
	"github.com/palindromi-fi/builder/internal/syncer"
	"github.com/palindromi-fi/builder/internal/typography"
)

// PageExtension is appended to detail page filenames and links. Pages are
// served extensionless with a corrected content type, so it is empty.
const PageExtension = ""

const lettersPlaceholder = "{{.Letters}}"

// PagePath returns the output path of a palindrome's detail page relative to
// the site root. It depends on nothing but the identifier.
func PagePath(identifier string) string {
	return identifier + PageExtension
}

// Stats summarizes one render pass.
type Stats struct {
	Pages   int
	Written int
}

// Renderer renders the site from loaded palindromes. Construct with New.
type Renderer struct {
	logger    *slog.Logger
	site      config.Site
	templates *template.Template
	collator  *collate.Collator
}

// New parses the embedded page templates and prepares a renderer for the
// given site settings.
func New(logger *slog.Logger, site config.Site) (*Renderer, error) {
	templates, err := template.New("pages").
		Funcs(template.FuncMap{"addTypography": typography.AddTypography}).
		Option("missingkey=error").
		ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, &core.Error{Op: "render.new", Kind: core.KindTemplate, Err: err}
	}

	return &Renderer{
		logger:    logger,
		site:      site,
		templates: templates,
		collator:  collate.New(language.Finnish),
	}, nil
}

type renderedPage struct {
	path    string
	content []byte
}

// Render writes the complete site under outDir: detail pages, the index
// page, static assets and illustrations. Every page is rendered to memory
// before anything touches the output directory, so a template failure writes
// nothing. Files whose content is unchanged are left alone; when prune is
// set, files from a previous record set are removed afterwards.
func (r *Renderer) Render(databaseDir, outDir string, palindromes []database.Palindrome, prune bool) (Stats, error) {
	pages, illustrations, err := r.renderPages(palindromes)
	if err != nil {
		return Stats{}, err
	}

	sync, err := syncer.New(outDir)
	if err != nil {
		return Stats{}, err
	}

	staticDest := filepath.Join(outDir, r.site.StaticURL)
	if err := r.copyStatic(sync, staticDest); err != nil {
		return Stats{}, err
	}

	for _, ill := range illustrations {
		src := filepath.Join(databaseDir, "illustrations", ill.image)
		if _, err := sync.Copy(src, filepath.Join(staticDest, ill.filename)); err != nil {
			return Stats{}, err
		}
	}

	for _, page := range pages {
		if _, err := sync.WriteFile(page.content, filepath.Join(outDir, page.path)); err != nil {
			return Stats{}, err
		}
		r.logger.Debug("rendered page", "path", page.path)
	}

	if prune {
		if err := sync.Prune(); err != nil {
			return Stats{}, err
		}
	}

	stats := Stats{Pages: len(pages), Written: sync.Writes()}
	r.logger.Info("site rendered",
		"pages", stats.Pages,
		"written", stats.Written,
		"output", outDir,
	)
	return stats, nil
}

type illustrationCopy struct {
	image    string // filename in the database illustrations directory
	filename string // filename under the static output directory
}

// renderPages renders every detail page plus the index into memory.
func (r *Renderer) renderPages(palindromes []database.Palindrome) ([]renderedPage, []illustrationCopy, error) {
	var pages []renderedPage
	var illustrations []illustrationCopy

	for _, p := range palindromes {
		var filenames []string
		for i, ill := range p.Illustrations {
			filename := fmt.Sprintf("%s%d.jpg", p.Identifier, i)
			filenames = append(filenames, filename)
			illustrations = append(illustrations, illustrationCopy{image: ill.Image, filename: filename})
		}

		content, err := r.executeTemplate("palindrome.html", r.pageData(p, filenames))
		if err != nil {
			return nil, nil, &core.Error{Op: "render.page", Kind: core.KindTemplate, Path: p.SourceFile, Err: err}
		}
		pages = append(pages, renderedPage{path: PagePath(p.Identifier), content: content})
	}

	index, err := r.executeTemplate("index.html", r.indexData(palindromes))
	if err != nil {
		return nil, nil, &core.Error{Op: "render.index", Kind: core.KindTemplate, Err: err}
	}
	pages = append(pages, renderedPage{path: "index.html", content: index})

	return pages, illustrations, nil
}

func (r *Renderer) executeTemplate(name string, data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) pageData(p database.Palindrome, illustrations []string) map[string]any {
	return map[string]any{
		"Site":          map[string]any{"Title": r.site.Title},
		"StaticURL":     r.site.StaticURL,
		"PageExtension": PageExtension,
		"Illustrations": illustrations,
		"Palindrome": map[string]any{
			"Identifier":   p.Identifier,
			"Text":         p.Text,
			"Author":       p.Author,
			"Created":      p.Created,
			"Translations": p.Translations,
			"Links":        p.Links,
		},
	}
}

func (r *Renderer) indexData(palindromes []database.Palindrome) map[string]any {
	sorted := slices.Clone(palindromes)
	slices.SortStableFunc(sorted, func(a, b database.Palindrome) int {
		return r.collator.CompareString(a.Text, b.Text)
	})

	return map[string]any{
		"Site":          map[string]any{"Title": r.site.Title},
		"StaticURL":     r.site.StaticURL,
		"PageExtension": PageExtension,
		"Palindromes":   sorted,
	}
}

// copyStatic copies the embedded static assets, substituting the configured
// letter class into the checker script.
func (r *Renderer) copyStatic(sync *syncer.Syncer, dest string) error {
	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		return &core.Error{Op: "render.static", Kind: core.KindIO, Err: err}
	}

	return fs.WalkDir(assets, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &core.Error{Op: "render.static", Kind: core.KindIO, Path: path, Err: err}
		}
		if path == "." || d.IsDir() {
			return nil
		}

		content, err := fs.ReadFile(assets, path)
		if err != nil {
			return &core.Error{Op: "render.static", Kind: core.KindIO, Path: path, Err: err}
		}
		if path == "checker.js" {
			content = bytes.ReplaceAll(content, []byte(lettersPlaceholder), []byte(r.site.Letters))
		}

		_, err = sync.WriteFile(content, filepath.Join(dest, filepath.FromSlash(path)))
		return err
	})
}
