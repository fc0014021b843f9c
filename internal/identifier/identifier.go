// Package identifier derives the short identifiers used as page filenames
// and lookup keys for palindromes.
package identifier

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// Calculate returns the identifier for a palindrome text: the first four
// bytes of its SHA-256 digest, base58-encoded. The identifier doubles as the
// detail page filename, so it must stay stable across runs.
func Calculate(text string) string {
	sum := sha256.Sum256([]byte(text))
	return base58.Encode(sum[:4])
}
