// Package rewrite applies planned literal replacements back to source
// files. Edits are expressed as byte spans recorded at extraction time;
// the engine verifies each span still holds the expected text, relocates
// spans that drifted by a few lines, and applies the surviving edits in
// descending offset order so earlier offsets stay valid.
package rewrite

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/arbiter-l10n/arbiter/internal/parser"
)

// ErrOverlappingEdits is returned when two edits in the same file claim
// intersecting byte ranges. The file is left untouched: overlap means
// the plan is inconsistent, not that one edit is merely stale.
var ErrOverlappingEdits = errors.New("overlapping edits")

// driftLines is how far (in lines, either direction) a span may have
// moved from its recorded position and still be relocated by value.
const driftLines = 2

// Edit is one planned replacement. Span is the exact source text that
// occupied [Offset, Offset+Length) when the edit was planned, and Line
// is the 1-based line the span started on. Both are used to detect and
// recover from source drift between planning and application.
type Edit struct {
	Offset      int
	Length      int
	Span        string
	Line        int
	Replacement string
}

// Skip records an edit that could not be applied and why.
type Skip struct {
	Edit   Edit
	Reason string
}

// Result reports the outcome of applying a set of edits to one file.
type Result struct {
	Modified []byte
	Applied  int
	Skipped  []Skip
}

// File applies edits to source. Edits whose span no longer matches are
// relocated by searching for the span text within driftLines of the
// recorded line; an edit that cannot be relocated unambiguously is
// skipped with a reason rather than failing the file. Overlapping edits
// are fatal and leave the file unmodified. An empty edit set returns
// the source unchanged.
func File(source []byte, edits []Edit) (Result, error) {
	res := Result{Modified: source}
	if len(edits) == 0 {
		return res, nil
	}

	idx := parser.NewLineIndex(source)

	resolved := make([]Edit, 0, len(edits))
	for _, e := range edits {
		fixed, reason := resolve(source, idx, e)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skip{Edit: e, Reason: reason})
			continue
		}
		resolved = append(resolved, fixed)
	}
	if len(resolved) == 0 {
		return res, nil
	}

	sort.Slice(resolved, func(i, j int) bool { return resolved[i].Offset < resolved[j].Offset })
	for i := 1; i < len(resolved); i++ {
		prev := resolved[i-1]
		if resolved[i].Offset < prev.Offset+prev.Length {
			return Result{Modified: source}, fmt.Errorf("%w: byte %d and byte %d", ErrOverlappingEdits, prev.Offset, resolved[i].Offset)
		}
	}

	out := make([]byte, len(source))
	copy(out, source)
	for i := len(resolved) - 1; i >= 0; i-- {
		e := resolved[i]
		var next []byte
		next = append(next, out[:e.Offset]...)
		next = append(next, e.Replacement...)
		next = append(next, out[e.Offset+e.Length:]...)
		out = next
	}
	res.Modified = out
	res.Applied = len(resolved)
	return res, nil
}

// resolve verifies an edit against the current source, relocating it by
// span text when the recorded offset is stale. It returns the usable
// edit, or a non-empty skip reason.
func resolve(source []byte, idx *parser.LineIndex, e Edit) (Edit, string) {
	if e.Length <= 0 || e.Span == "" {
		return e, "empty span"
	}
	if e.Offset >= 0 && e.Offset+e.Length <= len(source) &&
		string(source[e.Offset:e.Offset+e.Length]) == e.Span {
		return e, ""
	}

	// Offset is stale. Find every occurrence of the span text and keep
	// the ones within the drift window of the recorded line.
	var candidates []int
	for from := 0; ; {
		at := indexFrom(source, e.Span, from)
		if at < 0 {
			break
		}
		line, _ := idx.Pos(at)
		if delta := line - e.Line; delta >= -driftLines && delta <= driftLines {
			candidates = append(candidates, at)
		}
		from = at + 1
	}
	switch len(candidates) {
	case 0:
		return e, "span not found near recorded line"
	case 1:
		e.Offset = candidates[0]
		e.Length = len(e.Span)
		return e, ""
	default:
		return e, "span ambiguous after drift"
	}
}

func indexFrom(s []byte, sub string, from int) int {
	if from >= len(s) {
		return -1
	}
	at := bytes.Index(s[from:], []byte(sub))
	if at < 0 {
		return -1
	}
	return from + at
}
