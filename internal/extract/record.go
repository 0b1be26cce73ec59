// Package extract walks a parsed Dart syntax tree and produces one Record
// per user-facing string literal that passes the heuristic filter.
package extract

// Location pins a literal to its exact span in the original file content.
// ByteOffset/ByteLength cover the literal including delimiters and are only
// valid against the unmodified source the extraction pass ran over.
type Location struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	ByteOffset int    `json:"byte_offset"`
	ByteLength int    `json:"byte_length"`
}

// Record is one extracted string literal. Records are immutable: downstream
// stages (classification, key binding) wrap them rather than mutating them.
type Record struct {
	// Value is the decoded literal text, escape sequences resolved.
	Value    string   `json:"value"`
	Location Location `json:"location"`
	// StructuralType is the nearest enclosing constructor/call name,
	// empty if the literal has no call ancestor.
	StructuralType string `json:"structural_type,omitempty"`
	// ParameterName is the named-argument label holding the literal.
	ParameterName string `json:"parameter_name,omitempty"`
	// Surrounding is a bounded, whitespace-collapsed snippet around the
	// literal, used by lexical heuristics.
	Surrounding string `json:"surrounding,omitempty"`
	// EnclosingType is the nearest enclosing class name, used for
	// screen-group inference.
	EnclosingType string `json:"enclosing_type,omitempty"`
	// AlreadyLocalized is true when an ancestor expression already
	// references the localization accessor. Such records never appear in
	// extraction output; the field exists for standalone filter calls.
	AlreadyLocalized bool `json:"already_localized,omitempty"`
}
