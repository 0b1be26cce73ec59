// astdump prints the tree-sitter parse tree of a Dart file. Development
// aid for adding widget/parameter mappings: shows node kinds, parent
// kinds, and the source text each node covers.
package main

import (
	"fmt"
	"log"
	"os"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/arbiter-l10n/arbiter/internal/parser"
)

func printAST(node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	prefix := ""
	for i := 0; i < indent; i++ {
		prefix += "  "
	}
	parentKind := "nil"
	if node.Parent() != nil {
		parentKind = node.Parent().Kind()
	}
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	fmt.Printf("%s%s (parent=%s) %q\n", prefix, node.Kind(), parentKind, text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printAST(node.Child(i), source, indent+1)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: astdump <file.dart>")
		os.Exit(2)
	}
	source, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("read err=%v", err)
	}
	tree, err := parser.Parse(source)
	if err != nil {
		log.Fatalf("parse err=%v", err)
	}
	printAST(tree.RootNode(), source, 0)
	tree.Close()
}
