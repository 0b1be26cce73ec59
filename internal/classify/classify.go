// Package classify assigns a UI role, screen group, and confidence score to
// extracted string literals.
package classify

import (
	"strings"
	"unicode"

	"github.com/arbiter-l10n/arbiter/internal/extract"
	"github.com/arbiter-l10n/arbiter/internal/lang"
)

// Result is the classification outcome for one record. Confidence is
// advisory metadata for downstream prioritization, never a correctness gate.
type Result struct {
	Role        lang.Role `json:"role"`
	ScreenGroup string    `json:"screen_group,omitempty"`
	Confidence  float64   `json:"confidence"`
}

// Classified pairs an immutable extraction record with its classification.
type Classified struct {
	Record extract.Record
	Result Result
}

// Classifier resolves roles against the built-in tables plus optional
// per-project widget mappings. Overrides are checked first so they win;
// they are instance state, never written into the package tables, so
// one project's configuration cannot leak into another's scans.
type Classifier struct {
	overrides []lang.WidgetParamRole
}

// NewClassifier creates a classifier with the given override mappings.
func NewClassifier(overrides []lang.WidgetParamRole) *Classifier {
	return &Classifier{overrides: overrides}
}

// Classify resolves a record's role with the structural signal first: the
// (widget, parameter) mapping, then the parameter name alone, then lexical
// heuristics over the value. The structural signal always wins — "Failed"
// inside a button call is still a button.
func (c *Classifier) Classify(rec extract.Record) Result {
	role, structural, parametric := c.resolveRole(rec)
	return Result{
		Role:        role,
		ScreenGroup: ScreenGroup(rec.Location.File, rec.EnclosingType),
		Confidence:  confidence(rec, role, structural, parametric),
	}
}

// Classify resolves a record against the built-in tables alone.
func Classify(rec extract.Record) Result {
	return (&Classifier{}).Classify(rec)
}

func (c *Classifier) resolveRole(rec extract.Record) (role lang.Role, structural, parametric bool) {
	if rec.StructuralType != "" {
		if r, ok := lang.LookupWidgetRoleIn(c.overrides, rec.StructuralType, rec.ParameterName); ok {
			return r, true, false
		}
		if r, ok := lang.LookupWidgetRole(rec.StructuralType, rec.ParameterName); ok {
			return r, true, false
		}
	}
	if rec.ParameterName != "" {
		if r, ok := lang.ParamRoleTable[rec.ParameterName]; ok {
			return r, false, true
		}
	}
	return lexicalRole(rec.Value), false, false
}

// lexicalRole classifies by content alone, in decreasing specificity.
func lexicalRole(value string) lang.Role {
	lower := strings.ToLower(strings.TrimSpace(value))
	words := strings.Fields(lower)
	if len(words) == 0 {
		return lang.RoleUnknown
	}

	if containsAny(lower, lang.ConfirmationVocabulary) {
		return lang.RoleConfirmation
	}
	if containsAny(lower, lang.ErrorVocabulary) {
		return lang.RoleError
	}
	if containsAny(lower, lang.HintVocabulary) {
		return lang.RoleHint
	}
	if len(words) <= 3 && lang.ActionVerbs[strings.Trim(words[0], ".!?")] {
		return lang.RoleButton
	}
	if isTitleCase(value) && len(words) >= 2 && len(words) <= 5 {
		return lang.RoleTitle
	}
	if len(words) <= 3 && !strings.ContainsAny(value, ".!?,") {
		return lang.RoleLabel
	}
	if len(words) >= 4 || len(value) > 40 {
		return lang.RoleMessage
	}
	return lang.RoleUnknown
}

func containsAny(s string, vocab []string) bool {
	for _, v := range vocab {
		if strings.Contains(s, v) {
			return true
		}
	}
	return false
}

// isTitleCase reports whether every word starts with an uppercase letter
// (short connectives excluded).
func isTitleCase(s string) bool {
	minor := map[string]bool{
		"a": true, "an": true, "the": true, "of": true, "in": true,
		"on": true, "to": true, "and": true, "or": true, "for": true,
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return false
	}
	for i, w := range words {
		r := []rune(w)[0]
		if unicode.IsUpper(r) {
			continue
		}
		if i > 0 && minor[strings.ToLower(w)] {
			continue
		}
		return false
	}
	return true
}

const (
	baseConfidence     = 0.5
	structuralBonus    = 0.3
	parameterBonus     = 0.2
	certaintyTierDelta = 0.1
	unknownRolePenalty = 0.2
)

// strongRoles are roles with an unambiguous surface (a button's child is
// button copy); weaker tiers cover roles inferred from looser signals.
var strongRoles = map[lang.Role]bool{
	lang.RoleButton: true, lang.RoleTitle: true, lang.RoleError: true,
	lang.RoleHint: true, lang.RolePlaceholder: true,
}

var weakRoles = map[lang.Role]bool{
	lang.RoleLabel: true, lang.RoleMessage: true,
}

func confidence(rec extract.Record, role lang.Role, structural, parametric bool) float64 {
	c := baseConfidence
	if rec.StructuralType != "" {
		c += structuralBonus
	}
	if rec.ParameterName != "" {
		c += parameterBonus
	}
	switch {
	case role == lang.RoleUnknown:
		c -= unknownRolePenalty
	case strongRoles[role] && (structural || parametric):
		c += certaintyTierDelta
	case weakRoles[role] && !structural && !parametric:
		c -= certaintyTierDelta
	}
	if c < 0 {
		c = 0
	}
	if c > 1 {
		c = 1
	}
	return c
}

// ScreenGroup derives a human-readable screen label. An enclosing type with
// a known UI-container suffix takes precedence over the file base name.
func ScreenGroup(file, enclosingType string) string {
	if enclosingType != "" {
		for _, suffix := range lang.ScreenSuffixes {
			if strings.HasSuffix(enclosingType, suffix) && enclosingType != suffix {
				return titleWords(splitIdentifier(strings.TrimSuffix(enclosingType, suffix)))
			}
		}
	}

	base := file
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".dart")
	for _, suffix := range lang.ScreenSuffixes {
		base = strings.TrimSuffix(base, "_"+strings.ToLower(suffix))
		base = strings.TrimSuffix(base, strings.ToLower(suffix))
	}
	base = strings.Trim(base, "_")
	if base == "" {
		return ""
	}
	return titleWords(splitIdentifier(base))
}

// splitIdentifier splits snake_case and camelCase identifiers into words.
func splitIdentifier(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case r == '_' || r == '-':
			flush()
		case unicode.IsUpper(r):
			flush()
			cur.WriteRune(unicode.ToLower(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}

func titleWords(words []string) string {
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
