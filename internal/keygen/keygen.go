// Package keygen derives deterministic localization keys for classified
// string records and binds them to replacement expressions. Keys are
// lowerCamelCase, prefixed by the record's screen group and built from
// the significant words of the value, with numeric suffixes keeping the
// registry collision-free across files.
package keygen

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/arbiter-l10n/arbiter/internal/classify"
)

// ErrEmptyDerivation is returned when a value yields no usable key
// words. The caller skips the record; one bad value never aborts a batch.
var ErrEmptyDerivation = errors.New("no key words derivable from value")

// maxValueWords caps how many words of the value contribute to a key.
const maxValueWords = 4

// stopwords are dropped from key derivation unless nothing else
// remains. Only articles, conjunctions, and possessives: verbs and
// prepositions stay, so "Sign In" keys as signIn rather than sign.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "to": true, "of": true,
	"for": true, "and": true, "or": true, "your": true, "my": true,
}

// Bound pairs a classified record with its assigned key and the
// expression that replaces the literal in source.
type Bound struct {
	classify.Classified
	Key         string
	Replacement string
}

// Generator assigns unique keys. It is not safe for concurrent use;
// binding happens in the sequential aggregation stage after per-file
// extraction completes.
type Generator struct {
	accessor string
	byKey    map[string]string // key -> value it names
	byValue  map[string]string // screen group + value -> assigned key
}

// New returns a Generator producing replacements on accessor, e.g.
// "context.l10n" yields expressions like "context.l10n.loginTitle".
func New(accessor string) *Generator {
	return &Generator{
		accessor: accessor,
		byKey:    make(map[string]string),
		byValue:  make(map[string]string),
	}
}

// Reserve seeds the registry with an existing key -> value binding,
// from the catalog or a previously written resource bundle. Re-scans
// then reuse established keys instead of minting suffixed duplicates.
func (g *Generator) Reserve(key, value string) {
	if key == "" {
		return
	}
	g.byKey[key] = value
}

// Bind assigns a key to c and returns the bound record. Identical
// values in the same screen group share one key; a derived key already
// naming a different value gets a numeric suffix.
func (g *Generator) Bind(c classify.Classified) (Bound, error) {
	dedupe := c.Result.ScreenGroup + "\x00" + c.Record.Value
	if key, ok := g.byValue[dedupe]; ok {
		return g.bound(c, key), nil
	}

	base := deriveKey(c.Result.ScreenGroup, c.Record.Value)
	if base == "" {
		return Bound{}, fmt.Errorf("%w: %q", ErrEmptyDerivation, c.Record.Value)
	}

	key := base
	for n := 2; ; n++ {
		held, taken := g.byKey[key]
		if !taken {
			break
		}
		if held == c.Record.Value {
			break // same value reserved earlier, reuse the key
		}
		key = base + strconv.Itoa(n)
	}
	g.byKey[key] = c.Record.Value
	g.byValue[dedupe] = key
	return g.bound(c, key), nil
}

func (g *Generator) bound(c classify.Classified, key string) Bound {
	return Bound{
		Classified:  c,
		Key:         key,
		Replacement: g.accessor + "." + key,
	}
}

// deriveKey builds the lowerCamelCase key from the screen group words
// followed by up to maxValueWords significant words of the value.
func deriveKey(screenGroup, value string) string {
	prefix := splitWords(screenGroup)
	body := significantWords(value)
	if len(body) == 0 {
		return ""
	}
	return camel(append(prefix, body...))
}

// significantWords lowercases, splits and filters value. When filtering
// removes everything, the unfiltered words are used so short values
// like "Are you sure?" still derive a key.
func significantWords(value string) []string {
	words := splitWords(value)
	kept := words[:0:0]
	for _, w := range words {
		if !stopwords[w] {
			kept = append(kept, w)
		}
	}
	if len(kept) == 0 {
		kept = words
	}
	if len(kept) > maxValueWords {
		kept = kept[:maxValueWords]
	}
	return kept
}

// splitWords breaks s on any non-alphanumeric rune and lowercases the
// parts. Purely numeric parts are kept; they are valid key segments.
func splitWords(s string) []string {
	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, strings.ToLower(b.String()))
			b.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

// camel joins words as lowerCamelCase. A leading digit gets a "k"
// prefix so the key stays a valid identifier.
func camel(words []string) string {
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	key := b.String()
	if key != "" && unicode.IsDigit(rune(key[0])) {
		key = "k" + key
	}
	return key
}
