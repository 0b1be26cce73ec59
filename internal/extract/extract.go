package extract

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/arbiter-l10n/arbiter/internal/lang"
	"github.com/arbiter-l10n/arbiter/internal/parser"
)

// Options configures an extraction pass.
type Options struct {
	// Accessor is the localization accessor name used for the
	// already-localized ancestor check (e.g. "AppLocalizations").
	Accessor string
}

// FromTree visits every string-literal node of a parsed file in document
// order and returns one Record per accepted literal. The same source bytes
// the tree was parsed from must be passed in; all byte offsets in the
// returned records point into that content.
//
// Adjacent literals ('Hello ' 'World') merge into one logical candidate.
// Interpolated literals are skipped entirely: value substitution makes an
// exact textual replacement unsafe, so they are a documented limitation of
// this pass rather than a silent attempt.
func FromTree(tree *tree_sitter.Tree, source []byte, path string, opts Options) []Record {
	ix := parser.NewLineIndex(source)
	var records []Record
	consumed := make(map[uintptr]bool)

	parser.Walk(tree.RootNode(), func(n *tree_sitter.Node) bool {
		if !lang.StringLiteralKindSet[n.Kind()] {
			return true
		}
		if consumed[n.Id()] {
			return false
		}

		interpolated := hasInterpolation(n)
		value := decodeString(parser.NodeText(n, source))
		endByte := n.EndByte()

		// Merge the run of adjacent string-literal siblings.
		for sib := n.NextSibling(); sib != nil; sib = sib.NextSibling() {
			if !lang.StringLiteralKindSet[sib.Kind()] {
				break
			}
			consumed[sib.Id()] = true
			interpolated = interpolated || hasInterpolation(sib)
			value += decodeString(parser.NodeText(sib, source))
			endByte = sib.EndByte()
		}
		if interpolated {
			return false
		}

		localized := ancestorReferencesAccessor(n, source, opts.Accessor)
		ctx := Resolve(n, source)
		if !ShouldExtract(value, ctx.Surrounding, localized) {
			return false
		}

		offset := int(n.StartByte())
		line, col := ix.Pos(offset)
		records = append(records, Record{
			Value: value,
			Location: Location{
				File:       path,
				Line:       line,
				Column:     col,
				ByteOffset: offset,
				ByteLength: int(endByte) - offset,
			},
			StructuralType: ctx.StructuralType,
			ParameterName:  ctx.ParameterName,
			Surrounding:    ctx.Surrounding,
			EnclosingType:  ctx.EnclosingType,
		})
		return false
	})

	return records
}

// FromSource parses and extracts in one step. The second return value
// reports whether the tree contained syntax errors (extraction is still
// best-effort over whatever parsed).
func FromSource(source []byte, path string, opts Options) ([]Record, bool, error) {
	tree, err := parser.Parse(source)
	if err != nil {
		return nil, false, err
	}
	defer tree.Close()
	return FromTree(tree, source, path, opts), parser.HasErrors(tree), nil
}

func hasInterpolation(n *tree_sitter.Node) bool {
	found := false
	parser.Walk(n, func(child *tree_sitter.Node) bool {
		if lang.InterpolationKindSet[child.Kind()] {
			found = true
			return false
		}
		return !found
	})
	return found
}

// accessorSpanCap bounds the ancestor spans inspected for the accessor name,
// approximating "the immediate call chain" without matching the whole file.
const accessorSpanCap = 160

// ancestorReferencesAccessor is a textual containment check on ancestor
// spans, not a semantic resolution. It can over- and under-detect; that
// trade-off is deliberate, since doing better needs full semantic analysis.
func ancestorReferencesAccessor(n *tree_sitter.Node, source []byte, accessor string) bool {
	if accessor == "" {
		return false
	}
	for a := n.Parent(); a != nil; a = a.Parent() {
		if int(a.EndByte()-a.StartByte()) > accessorSpanCap {
			break
		}
		if strings.Contains(parser.NodeText(a, source), accessor) {
			return true
		}
	}
	return false
}

// Decode strips Dart string delimiters and escape sequences from a raw
// literal, returning the value a running app would display.
func Decode(raw string) string { return decodeString(raw) }

// Quote renders value as a single-quoted Dart string literal, escaping
// quotes, backslashes, dollar signs, and control characters. It is the
// inverse of Decode for values without exotic escapes.
func Quote(value string) string {
	var b strings.Builder
	b.Grow(len(value) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(value); i++ {
		switch c := value[i]; c {
		case '\'', '\\', '$':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

// decodeString strips Dart string delimiters (single, double, triple, raw)
// and resolves escape sequences for display.
func decodeString(raw string) string {
	s := raw
	isRaw := false
	if strings.HasPrefix(s, "r") {
		isRaw = true
		s = s[1:]
	}
	for _, q := range []string{`'''`, `"""`, `'`, `"`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			s = s[len(q) : len(s)-len(q)]
			if isRaw {
				return s
			}
			return unescape(s)
		}
	}
	return raw
}

func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			// \', \", \\, \$ and unknown escapes keep the escaped char
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
