// Package palindrome implements the palindrome check shipped to the browser
// in static/checker.js. The Go side is the reference for the normalization
// rule; the two must agree.
package palindrome

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultLetters is the character class kept by normalization: Finnish
// orthography without å, which never appears in the database.
const DefaultLetters = "a-z0-9äö"

// MinLength is the shortest normalized text considered a palindrome at all.
// One- and two-letter strings are trivially mirrored and are rejected.
const MinLength = 3

// Normalizer lowercases a text and strips every rune outside its letter set.
type Normalizer struct {
	strip *regexp.Regexp
}

// NewNormalizer builds a Normalizer keeping only the given character class,
// expressed in regexp range syntax (e.g. "a-z0-9äö").
func NewNormalizer(letters string) (*Normalizer, error) {
	strip, err := regexp.Compile("[^" + letters + "]")
	if err != nil {
		return nil, fmt.Errorf("invalid letter set %q: %w", letters, err)
	}
	return &Normalizer{strip: strip}, nil
}

// MustNormalizer is NewNormalizer for compile-time letter sets.
func MustNormalizer(letters string) *Normalizer {
	n, err := NewNormalizer(letters)
	if err != nil {
		panic(err)
	}
	return n
}

// Normalize lowercases text and removes every rune outside the letter set.
func (n *Normalizer) Normalize(text string) string {
	return n.strip.ReplaceAllString(strings.ToLower(text), "")
}

// Checker reports whether a text reads identically forwards and backwards
// under its normalizer.
type Checker struct {
	norm *Normalizer
}

// NewChecker returns a Checker using the given normalizer, or the default
// Finnish rule when norm is nil.
func NewChecker(norm *Normalizer) *Checker {
	if norm == nil {
		norm = MustNormalizer(DefaultLetters)
	}
	return &Checker{norm: norm}
}

// Check normalizes text and compares it to its own reverse. Texts whose
// normalized form is shorter than MinLength are never palindromes.
func (c *Checker) Check(text string) bool {
	letters := []rune(c.norm.Normalize(text))
	if len(letters) < MinLength {
		return false
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		if letters[i] != letters[j] {
			return false
		}
	}
	return true
}
