package rewrite

import (
	"bytes"
	"regexp"
	"strings"
)

var (
	importLineRe  = regexp.MustCompile(`(?m)^import\s+['"][^'"]+['"][^;]*;[^\n]*$`)
	libraryLineRe = regexp.MustCompile(`(?m)^library\s+[^;]+;[^\n]*$`)
)

// EnsureImport makes sure importLine appears in source, inserting it
// after the last existing import directive, after a library directive
// when there are no imports, or at the top of the file otherwise. A
// source that already contains the line is returned unchanged, so the
// operation is idempotent.
func EnsureImport(source []byte, importLine string) ([]byte, bool) {
	if importLine == "" || hasImportLine(source, importLine) {
		return source, false
	}

	at := 0
	if locs := importLineRe.FindAllIndex(source, -1); len(locs) > 0 {
		at = lineEnd(source, locs[len(locs)-1][1])
	} else if loc := libraryLineRe.FindIndex(source); loc != nil {
		at = lineEnd(source, loc[1])
	}

	var out []byte
	out = append(out, source[:at]...)
	out = append(out, importLine...)
	out = append(out, '\n')
	out = append(out, source[at:]...)
	return out, true
}

// hasImportLine reports whether importLine is present as a directive of
// its own line. Anchoring to line starts keeps a commented-out copy
// ("// import '...';") from counting as present.
func hasImportLine(source []byte, importLine string) bool {
	re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(strings.TrimSpace(importLine)) + `[ \t]*$`)
	return re.Match(source)
}

// lineEnd returns the offset just past the newline that terminates the
// line containing offset at, or len(source) for a final unterminated line.
func lineEnd(source []byte, at int) int {
	nl := bytes.IndexByte(source[at:], '\n')
	if nl < 0 {
		return len(source)
	}
	return at + nl + 1
}
