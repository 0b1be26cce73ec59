package extract

import (
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/arbiter-l10n/arbiter/internal/lang"
	"github.com/arbiter-l10n/arbiter/internal/parser"
)

// surroundingRadius is the byte window sliced on each side of a literal for
// lexical heuristics (~100 chars total after collapsing).
const surroundingRadius = 50

// Context is the structural context resolved for one literal node.
type Context struct {
	StructuralType string
	ParameterName  string
	Surrounding    string
	EnclosingType  string
}

// Resolve walks a literal node's ancestor chain. Named-argument labels
// passed through on the way up are captured as ParameterName; the walk stops
// at the first constructor/call ancestor, which is authoritative — a literal
// nested two calls deep belongs to the inner call, not the outer one.
func Resolve(node *tree_sitter.Node, source []byte) Context {
	ctx := Context{
		Surrounding: surroundingText(node, source),
	}

	n := node.Parent()
	for n != nil {
		kind := n.Kind()

		if ctx.ParameterName == "" && lang.NamedArgumentKindSet[kind] {
			if label := argumentLabel(n, source); label != "" {
				ctx.ParameterName = label
			}
		}

		if lang.CallKindSet[kind] {
			ctx.StructuralType = callName(n, source)
			break
		}
		n = n.Parent()
	}

	// Continue past the call for the enclosing class, which drives
	// screen-group inference independently of the call attribution.
	for ; n != nil; n = n.Parent() {
		if lang.ClassKindSet[n.Kind()] {
			if nameNode := n.ChildByFieldName("name"); nameNode != nil {
				ctx.EnclosingType = parser.NodeText(nameNode, source)
			}
			break
		}
	}

	return ctx
}

// argumentLabel returns the label text of a named-argument node, without the
// trailing colon, or "" for positional arguments.
func argumentLabel(n *tree_sitter.Node, source []byte) string {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !lang.LabelKindSet[child.Kind()] {
			continue
		}
		label := parser.NodeText(child, source)
		label = strings.TrimSuffix(strings.TrimSpace(label), ":")
		return strings.TrimSpace(label)
	}
	return ""
}

// callName derives the constructor/call name for a call ancestor. For a
// selector node (the `(args)` part of `Text('hi')` or `theme.headline(x)`)
// the callee lives in the preceding sibling; for new/const object
// expressions the name is part of the node's own text.
func callName(n *tree_sitter.Node, source []byte) string {
	var text string
	if n.Kind() == "selector" {
		prev := n.PrevSibling()
		if prev == nil {
			return ""
		}
		text = parser.NodeText(prev, source)
	} else {
		text = parser.NodeText(n, source)
	}
	return trimCallName(text)
}

// trimCallName reduces a callee expression to its bare call name:
// "new Text" → "Text", "Theme.of" → "of", "Padding<T>" → "Padding".
func trimCallName(text string) string {
	if i := strings.IndexByte(text, '('); i >= 0 {
		text = text[:i]
	}
	if i := strings.IndexByte(text, '<'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "new ")
	text = strings.TrimPrefix(text, "const ")
	if i := strings.LastIndexByte(text, '.'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSpace(text)
	if !isIdentifier(text) {
		return ""
	}
	return text
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// surroundingText slices a fixed-width byte window around the literal's span
// and collapses all whitespace runs to single spaces. It is computed whether
// or not a call ancestor exists.
func surroundingText(node *tree_sitter.Node, source []byte) string {
	start := int(node.StartByte()) - surroundingRadius
	if start < 0 {
		start = 0
	}
	end := int(node.EndByte()) + surroundingRadius
	if end > len(source) {
		end = len(source)
	}
	return collapseSpace(string(source[start:end]))
}

func collapseSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
