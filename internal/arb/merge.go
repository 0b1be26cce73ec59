package arb

import (
	"strings"

	"github.com/arbiter-l10n/arbiter/internal/keygen"
	"github.com/arbiter-l10n/arbiter/internal/lang"
)

// Merge folds bound records into the bundle. Existing keys keep their
// document position; new keys append in record order with description
// metadata derived from the classification.
func Merge(f *File, bound []keygen.Bound) {
	for _, b := range bound {
		f.Set(b.Key, b.Record.Value, Describe(b.Result.Role, b.Result.ScreenGroup))
	}
}

// Describe renders the metadata description for a classified string,
// e.g. "Button on the Login screen".
func Describe(role lang.Role, screenGroup string) string {
	label := string(role)
	if role == lang.RoleUnknown {
		label = "text"
	}
	label = strings.ToUpper(label[:1]) + label[1:]
	if screenGroup == "" {
		return label
	}
	return label + " on the " + screenGroup + " screen"
}
