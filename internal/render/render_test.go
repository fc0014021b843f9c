package render

import (
	"bytes"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palindromi-fi/builder/internal/config"
	"github.com/palindromi-fi/builder/internal/core"
	"github.com/palindromi-fi/builder/internal/database"
	"github.com/palindromi-fi/builder/internal/identifier"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPalindromes() []database.Palindrome {
	texts := []string{"saippuakivikauppias", "Neitsytsi"}
	palindromes := make([]database.Palindrome, 0, len(texts))
	for _, text := range texts {
		palindromes = append(palindromes, database.Palindrome{
			Identifier: identifier.Calculate(text),
			Text:       text,
			Author:     "trad.",
			SourceFile: "palindromes/001.yaml",
		})
	}
	n := len(palindromes)
	for i := range palindromes {
		palindromes[(i+1)%n].Links.Next = palindromes[i].Identifier
		palindromes[i].Links.Previous = palindromes[(i+1)%n].Identifier
	}
	return palindromes
}

func renderSite(t *testing.T, palindromes []database.Palindrome) (string, Stats) {
	t.Helper()
	r, err := New(testLogger(), config.Default())
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "html")
	stats, err := r.Render(t.TempDir(), out, palindromes, false)
	require.NoError(t, err)
	return out, stats
}

func TestRenderDetailPage(t *testing.T) {
	out, stats := renderSite(t, testPalindromes())
	assert.Equal(t, 3, stats.Pages, "two detail pages plus the index")

	pagePath := filepath.Join(out, PagePath("5w1tEW"))
	content, err := os.ReadFile(pagePath)
	require.NoError(t, err, "detail page path must derive from the identifier")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "saippuakivikauppias", strings.TrimSpace(doc.Find(".palindrome-text").Text()))
	assert.Equal(t, "trad.", strings.TrimSpace(doc.Find(".palindrome-author").Text()))

	next, ok := doc.Find("#go-to-next").Attr("href")
	require.True(t, ok)
	assert.Equal(t, "3cttXb", next, "newest wraps forward to the older entry's page")
}

func TestRenderIndexListsAllPalindromes(t *testing.T) {
	out, _ := renderSite(t, testPalindromes())

	content, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	require.NoError(t, err)

	var titles []string
	var hrefs []string
	doc.Find(".palindrome-list li a").Each(func(_ int, sel *goquery.Selection) {
		titles = append(titles, strings.TrimSpace(sel.Text()))
		href, _ := sel.Attr("href")
		hrefs = append(hrefs, href)
	})

	// Alphabetical under Finnish collation, not database order.
	assert.Equal(t, []string{"Neitsytsi", "saippuakivikauppias"}, titles)
	assert.Equal(t, []string{"3cttXb", "5w1tEW"}, hrefs)
}

func TestRenderCopiesStaticAssets(t *testing.T) {
	out, _ := renderSite(t, testPalindromes())

	_, err := os.Stat(filepath.Join(out, "static", "style.css"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(out, "static", "nav.js"))
	assert.NoError(t, err)

	checker, err := os.ReadFile(filepath.Join(out, "static", "checker.js"))
	require.NoError(t, err)
	assert.Contains(t, string(checker), "[^a-z0-9äö]", "letter class substituted from config")
	assert.NotContains(t, string(checker), lettersPlaceholder)
}

func TestRenderCopiesIllustrations(t *testing.T) {
	databaseDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(databaseDir, "illustrations"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(databaseDir, "illustrations", "soapstone.jpg"),
		[]byte("jpeg-bytes"), 0644))

	palindromes := testPalindromes()
	palindromes[0].Illustrations = []database.Illustration{{Image: "soapstone.jpg", Author: "anon"}}

	r, err := New(testLogger(), config.Default())
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "html")
	_, err = r.Render(databaseDir, out, palindromes, false)
	require.NoError(t, err)

	copied, err := os.ReadFile(filepath.Join(out, "static", "5w1tEW0.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(copied))

	content, err := os.ReadFile(filepath.Join(out, PagePath("5w1tEW")))
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	require.NoError(t, err)
	src, ok := doc.Find(".illustration img").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "static/5w1tEW0.jpg", src)
}

func TestRenderIsIdempotent(t *testing.T) {
	palindromes := testPalindromes()
	r, err := New(testLogger(), config.Default())
	require.NoError(t, err)

	databaseDir := t.TempDir()
	out := filepath.Join(t.TempDir(), "html")

	_, err = r.Render(databaseDir, out, palindromes, false)
	require.NoError(t, err)
	first := snapshotTree(t, out)

	stats, err := r.Render(databaseDir, out, palindromes, false)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Written, "an unchanged rerun must rewrite nothing")
	assert.Equal(t, first, snapshotTree(t, out))
}

// snapshotTree captures relative path -> content for a whole output tree.
func snapshotTree(t *testing.T, root string) map[string]string {
	t.Helper()
	tree := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[rel] = string(content)
		return nil
	})
	require.NoError(t, err)
	return tree
}

func TestRenderTemplateErrorWritesNothing(t *testing.T) {
	r, err := New(testLogger(), config.Default())
	require.NoError(t, err)
	// A template referencing an attribute no record carries.
	r.templates = template.Must(template.New("palindrome.html").
		Option("missingkey=error").
		Parse(`{{.Palindrome.Category}}`))

	out := filepath.Join(t.TempDir(), "html")
	_, err = r.Render(t.TempDir(), out, testPalindromes(), false)
	require.Error(t, err)
	assert.True(t, core.IsKind(err, core.KindTemplate))

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no output may exist after a template error")
}

func TestRenderPrune(t *testing.T) {
	palindromes := testPalindromes()
	r, err := New(testLogger(), config.Default())
	require.NoError(t, err)

	databaseDir := t.TempDir()
	out := filepath.Join(t.TempDir(), "html")
	require.NoError(t, os.MkdirAll(out, 0755))
	stale := filepath.Join(out, "REMOVED")
	require.NoError(t, os.WriteFile(stale, []byte("from an earlier record set"), 0644))

	_, err = r.Render(databaseDir, out, palindromes, false)
	require.NoError(t, err)
	_, statErr := os.Stat(stale)
	assert.NoError(t, statErr, "without prune, stale files are the caller's business")

	_, err = r.Render(databaseDir, out, palindromes, true)
	require.NoError(t, err)
	_, statErr = os.Stat(stale)
	assert.True(t, os.IsNotExist(statErr), "prune removes files from previous record sets")
}

func TestPagePathIsPureFunctionOfIdentifier(t *testing.T) {
	assert.Equal(t, PagePath("5w1tEW"), PagePath("5w1tEW"))
	assert.NotEqual(t, PagePath("5w1tEW"), PagePath("3cttXb"))
}

func TestDetailPageSnapshot(t *testing.T) {
	out, _ := renderSite(t, testPalindromes())
	content, err := os.ReadFile(filepath.Join(out, PagePath("5w1tEW")))
	require.NoError(t, err)
	snaps.WithConfig(snaps.Ext(".html")).MatchSnapshot(t, string(content))
}
