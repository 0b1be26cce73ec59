package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/arbiter-l10n/arbiter/internal/lang"
)

const (
	minLiteralLen = 2
	maxLiteralLen = 200
)

var (
	allCapsRe   = regexp.MustCompile(`^[A-Z][A-Z0-9_]+$`)
	camelCaseRe = regexp.MustCompile(`^[a-z]+([A-Z][a-z0-9]*)+$`)
	snakeCaseRe = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)+$`)
	hexTokenRe  = regexp.MustCompile(`^(0x)?[0-9a-fA-F]{6,}$`)
	base64Re    = regexp.MustCompile(`^[A-Za-z0-9+/]{16,}={0,2}$`)
	schemeRe    = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	colorRe     = regexp.MustCompile(`^#[0-9a-fA-F]{3,8}$`)
	measureRe   = regexp.MustCompile(`^-?[0-9.]+\s*(px|dp|sp|pt|em|rem|%|ms|s)$`)
)

var debugPrefixes = []string{"DEBUG:", "[LOG]", "[DEBUG]", "TODO:", "FIXME:"}

// ShouldExtract decides whether a literal value is a localization candidate.
// Rejection rules apply in order, first match wins. This is a pure function:
// same inputs, same answer, no I/O.
func ShouldExtract(value, surrounding string, alreadyLocalized bool) bool {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return false
	}
	if n := len([]rune(value)); n < minLiteralLen || n > maxLiteralLen {
		return false
	}
	if alreadyLocalized {
		return false
	}
	if isDebugContext(trimmed, surrounding) {
		return false
	}
	if isTechnicalIdentifier(trimmed) {
		return false
	}
	if isURLOrPath(trimmed) {
		return false
	}
	if isDateFormatPattern(trimmed) {
		return false
	}
	if colorRe.MatchString(trimmed) || measureRe.MatchString(trimmed) {
		return false
	}
	if !hasAlpha(trimmed) {
		return false
	}
	return true
}

func isDebugContext(value, surrounding string) bool {
	for _, p := range debugPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	for name := range lang.DebugCallNames {
		if containsCall(surrounding, name) {
			return true
		}
	}
	return false
}

// containsCall reports whether s contains a call to name — "name(" not
// preceded by an identifier character, so "log(" does not match "showDialog(".
func containsCall(s, name string) bool {
	needle := name + "("
	from := 0
	for {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		if i == 0 || !isIdentChar(rune(s[i-1])) {
			return true
		}
		from = i + 1
	}
}

func isIdentChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// isTechnicalIdentifier matches single-token identifier shapes: ALL_CAPS
// constants, camelCase, snake_case, hex and base64-looking tokens.
func isTechnicalIdentifier(value string) bool {
	if strings.ContainsAny(value, " \t\n") {
		return false
	}
	return isConstantCase(value) ||
		camelCaseRe.MatchString(value) ||
		snakeCaseRe.MatchString(value) ||
		isHexToken(value) ||
		isBase64Token(value)
}

// isConstantCase matches ALL_CAPS constant names. Short all-caps words
// ("OK", "FAQ", "NEW") are legitimate UI copy; a constant carries an
// underscore or digit, or runs longer than four characters.
func isConstantCase(value string) bool {
	if !allCapsRe.MatchString(value) {
		return false
	}
	return strings.ContainsAny(value, "_0123456789") || len(value) > 4
}

// isHexToken matches hex dumps, not English words that happen to spell
// in a-f ("decade", "facade"): at least one digit is required.
func isHexToken(value string) bool {
	return hexTokenRe.MatchString(value) && strings.ContainsAny(value, "0123456789")
}

// isBase64Token likewise requires a digit, '+', '/', or padding so long
// plain words ("Misconfiguration") are not mistaken for encoded data.
func isBase64Token(value string) bool {
	return base64Re.MatchString(value) && strings.ContainsAny(value, "0123456789+/=")
}

func isURLOrPath(value string) bool {
	if schemeRe.MatchString(value) {
		return true
	}
	if strings.HasPrefix(value, "/") {
		return true
	}
	for _, p := range lang.AssetPathPrefixes {
		if strings.HasPrefix(value, p) {
			return true
		}
	}
	lower := strings.ToLower(value)
	for _, ext := range lang.MediaFileExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// isDateFormatPattern reports whether the value is built entirely from
// date/time format tokens and separators (e.g. "yyyy-MM-dd", "HH:mm").
func isDateFormatPattern(value string) bool {
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if !isFormatToken(tok) {
			return false
		}
	}
	return true
}

func isFormatToken(tok string) bool {
	for _, t := range lang.DateFormatTokens {
		if tok == t {
			return true
		}
	}
	return false
}

func hasAlpha(value string) bool {
	for _, r := range value {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
