package parser

import (
	"fmt"
	"sort"
	"sync"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	tree_sitter_dart "github.com/UserNobody14/tree-sitter-dart/bindings/go"
)

var (
	dartOnce sync.Once
	dartLang *tree_sitter.Language
	dartPool *sync.Pool
)

func initDart() {
	dartOnce.Do(func() {
		dartLang = tree_sitter.NewLanguage(tree_sitter_dart.Language())
		dartPool = &sync.Pool{
			New: func() any {
				p := tree_sitter.NewParser()
				if err := p.SetLanguage(dartLang); err != nil {
					panic(fmt.Sprintf("set language: %v", err))
				}
				return p
			},
		}
	})
}

// Language returns the tree-sitter Dart language.
func Language() *tree_sitter.Language {
	initDart()
	return dartLang
}

// Parse parses Dart source into a tree-sitter AST Tree.
// The caller must call tree.Close() when done.
// Parsers are pooled via sync.Pool to avoid per-file allocation.
func Parse(source []byte) (*tree_sitter.Tree, error) {
	initDart()

	p, _ := dartPool.Get().(*tree_sitter.Parser)
	if p == nil {
		return nil, fmt.Errorf("failed to get dart parser")
	}
	tree := p.Parse(source, nil)
	dartPool.Put(p)

	if tree == nil {
		return nil, fmt.Errorf("parse failed")
	}
	return tree, nil
}

// HasErrors reports whether the parsed tree contains syntax errors.
// Extraction still proceeds best-effort over whatever parsed.
func HasErrors(tree *tree_sitter.Tree) bool {
	root := tree.RootNode()
	return root != nil && root.HasError()
}

// WalkFunc is called for each node during AST traversal.
// Return false to skip children.
type WalkFunc func(node *tree_sitter.Node) bool

// Walk traverses the AST in depth-first order.
func Walk(node *tree_sitter.Node, fn WalkFunc) {
	if node == nil {
		return
	}
	if !fn(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil {
			Walk(child, fn)
		}
	}
}

// NodeText returns the text content of a node.
func NodeText(node *tree_sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// LineIndex maps byte offsets to 1-based line/column positions. It is built
// with a single forward scan over the file and reused for every literal.
type LineIndex struct {
	// starts[i] is the byte offset of the first byte of line i+1.
	starts []int
}

// NewLineIndex scans source once and records line start offsets.
func NewLineIndex(source []byte) *LineIndex {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{starts: starts}
}

// Pos returns the 1-based line and column for a byte offset.
func (ix *LineIndex) Pos(offset int) (line, col int) {
	i := sort.Search(len(ix.starts), func(i int) bool {
		return ix.starts[i] > offset
	}) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - ix.starts[i] + 1
}

// LineCount returns the number of lines in the indexed source.
func (ix *LineIndex) LineCount() int {
	return len(ix.starts)
}

// LineRange returns the byte range [start, end) spanned by the given
// 1-based line numbers, inclusive. Out-of-range lines are clamped.
func (ix *LineIndex) LineRange(first, last, sourceLen int) (start, end int) {
	if first < 1 {
		first = 1
	}
	if last > len(ix.starts) {
		last = len(ix.starts)
	}
	if first > last {
		return 0, 0
	}
	start = ix.starts[first-1]
	if last == len(ix.starts) {
		end = sourceLen
	} else {
		end = ix.starts[last]
	}
	return start, end
}
