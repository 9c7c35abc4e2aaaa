package documents

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ComplexityThreshold is the word count above which a document is complex.
const ComplexityThreshold = 50

// Analyze classifies text by word count and hashes its raw bytes.
// It never fails; empty text is simple and hashes to the SHA-256 of "".
func Analyze(text string) (Complexity, string) {
	return Classify(CountWords(text)), Hash(text)
}

// CountWords counts maximal runs of non-whitespace characters.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// Classify maps a word count to a complexity label.
func Classify(words int) Complexity {
	if words > ComplexityThreshold {
		return ComplexityComplex
	}
	return ComplexitySimple
}

// Hash returns the lowercase hex SHA-256 digest of text.
func Hash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// IsHash reports whether s looks like a value returned by Hash.
func IsHash(s string) bool {
	if len(s) != sha256.Size*2 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
