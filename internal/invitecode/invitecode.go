// Package invitecode generates the short codes a parent hands to an
// educator to grant read access to a child's record.
package invitecode

import (
	"crypto/rand"
	"math/big"
	"strings"
	"unicode"
)

const (
	digits       = "0123456789"
	suffixLength = 4
	maxPrefixLen = 6
	fallback     = "CHILD"
)

// Generate produces a code in the form PREFIX-NNNN, where the prefix is
// derived from the child's name and the suffix is random. Codes are
// always uppercase; uniqueness against live profiles is the caller's
// responsibility (the suffix alone is too short to guarantee it).
func Generate(childName string) (string, error) {
	suffix := make([]byte, suffixLength)
	for i := range suffix {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		suffix[i] = digits[num.Int64()]
	}
	return prefixFor(childName) + "-" + string(suffix), nil
}

// Normalize canonicalizes a code for comparison. Redemption matches on
// exact equality after normalization, not on pattern.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// prefixFor extracts an uppercase letter prefix from a child name
func prefixFor(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
			if b.Len() >= maxPrefixLen {
				break
			}
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
