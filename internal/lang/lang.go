package lang

// Role is the inferred UI role of an extracted string literal.
type Role string

const (
	RoleTitle        Role = "title"
	RoleButton       Role = "button"
	RoleMessage      Role = "message"
	RoleHint         Role = "hint"
	RoleLabel        Role = "label"
	RoleError        Role = "error"
	RolePlaceholder  Role = "placeholder"
	RoleDescription  Role = "description"
	RoleConfirmation Role = "confirmation"
	RoleNavigation   Role = "navigation"
	RoleUnknown      Role = "unknown"
)

// AllRoles returns every role in a stable order, for summaries.
func AllRoles() []Role {
	return []Role{
		RoleTitle, RoleButton, RoleMessage, RoleHint, RoleLabel,
		RoleError, RolePlaceholder, RoleDescription, RoleConfirmation,
		RoleNavigation, RoleUnknown,
	}
}

// Spec defines the tree-sitter node kinds and heuristic tables for the
// Dart/Flutter source this tool operates on. A single Spec is shared by the
// literal filter, the context resolver, and the classifier so that tests
// exercise one source of truth.
type Spec struct {
	FileExtensions []string

	// StringLiteralKinds are node kinds that represent a string literal
	// including its delimiters.
	StringLiteralKinds []string
	// InterpolationKinds mark embedded ${...} / $ident substitutions inside
	// a string literal. Literals containing any of these are skipped.
	InterpolationKinds []string
	// CallKinds are node kinds at which an upward walk stops: the nearest
	// enclosing constructor or function/method call.
	CallKinds []string
	// NamedArgumentKinds are argument bindings that may carry a label.
	NamedArgumentKinds []string
	// LabelKinds identify the `name:` label node inside a named argument.
	LabelKinds []string
	// ClassKinds are type declarations, used for screen-group inference.
	ClassKinds []string
}

// Dart is the language spec for Dart as parsed by tree-sitter-dart.
var Dart = &Spec{
	FileExtensions:     []string{".dart"},
	StringLiteralKinds: []string{"string_literal"},
	InterpolationKinds: []string{"template_substitution"},
	CallKinds: []string{
		"selector", // Text("hi") → (identifier)(selector (argument_part ...))
		"new_expression",
		"const_object_expression",
	},
	NamedArgumentKinds: []string{"named_argument", "argument"},
	LabelKinds:         []string{"label"},
	ClassKinds:         []string{"class_definition"},
}

func toSet(kinds []string) map[string]bool {
	m := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		m[k] = true
	}
	return m
}

// Kind sets derived once from the Dart spec.
var (
	StringLiteralKindSet = toSet(Dart.StringLiteralKinds)
	InterpolationKindSet = toSet(Dart.InterpolationKinds)
	CallKindSet          = toSet(Dart.CallKinds)
	NamedArgumentKindSet = toSet(Dart.NamedArgumentKinds)
	LabelKindSet         = toSet(Dart.LabelKinds)
	ClassKindSet         = toSet(Dart.ClassKinds)
)
