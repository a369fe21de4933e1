// Package socialid generates human-shareable identifiers that instructors use to find students.
package socialid

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	// Prefix marks a string as a social ID.
	Prefix = "#"
	// MaxStemLength caps the normalized name part.
	MaxStemLength = 20

	minSuffix = 1000
	maxSuffix = 9999
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Generator builds social IDs of the form "#<stem><4 digits>".
// The result is only probabilistically unique; storage enforces uniqueness.
type Generator struct {
	intN func(n int) int
}

// NewGenerator returns a Generator backed by math/rand/v2.
func NewGenerator() *Generator {
	return &Generator{intN: rand.IntN}
}

// Generate returns a social ID derived from displayName plus a random 1000–9999 suffix.
func (g *Generator) Generate(displayName string) string {
	suffix := minSuffix + g.intN(maxSuffix-minSuffix+1)
	return fmt.Sprintf("%s%s%d", Prefix, Normalize(displayName), suffix)
}

// Normalize lowercases name, strips diacritics, joins alphanumeric runs with '-'
// and truncates the result to MaxStemLength characters.
func Normalize(name string) string {
	lower := strings.ToLower(name)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, lower)
	if err != nil {
		stripped = lower
	}

	stem := nonAlnum.ReplaceAllString(stripped, "-")
	stem = strings.Trim(stem, "-")
	if len(stem) > MaxStemLength {
		stem = stem[:MaxStemLength]
	}
	return stem
}
