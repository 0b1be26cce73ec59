package arb

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/arbiter-l10n/arbiter/internal/classify"
	"github.com/arbiter-l10n/arbiter/internal/extract"
	"github.com/arbiter-l10n/arbiter/internal/keygen"
	"github.com/arbiter-l10n/arbiter/internal/lang"
)

const sample = `{
  "@@locale": "en",
  "loginTitle": "Login",
  "@loginTitle": {
    "description": "Title on the Login screen"
  },
  "loginSignIn": "Sign In",
  "settingsSave": "Save"
}
`

func TestParseKeepsOrder(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if f.Locale() != "en" {
		t.Errorf("Locale = %q, want en", f.Locale())
	}
	want := []string{"loginTitle", "loginSignIn", "settingsSave"}
	if got := f.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
	if v, ok := f.Get("loginSignIn"); !ok || v != "Sign In" {
		t.Errorf("Get(loginSignIn) = %q, %v", v, ok)
	}
}

func TestParseRejectsNonString(t *testing.T) {
	if _, err := Parse([]byte(`{"count": 3}`)); err == nil {
		t.Fatal("numeric value accepted")
	}
	if _, err := Parse([]byte(`[1, 2]`)); err == nil {
		t.Fatal("array accepted")
	}
}

func TestRoundTrip(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	out, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	g, err := Parse(out)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if !reflect.DeepEqual(g.Keys(), f.Keys()) {
		t.Errorf("key order changed: %v vs %v", g.Keys(), f.Keys())
	}

	// The round-trip must stay valid JSON as far as encoding/json cares.
	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Fatalf("output not valid JSON: %v\n%s", err, out)
	}
}

func TestMarshalLocaleFirst(t *testing.T) {
	f := New("en")
	f.Set("zebra", "Zebra", "")
	f.Set("apple", "Apple", "")
	out, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "{\n  \"@@locale\": \"en\"") {
		t.Errorf("@@locale not first:\n%s", s)
	}
	if strings.Index(s, "zebra") > strings.Index(s, "apple") {
		t.Errorf("insertion order not preserved:\n%s", s)
	}
}

func TestSetMetadataAdjacent(t *testing.T) {
	f := New("en")
	f.Set("settingsSave", "Save", "Button on the Settings screen")
	f.Set("loginTitle", "Login", "Title on the Login screen")
	out, err := f.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	s := string(out)
	at := strings.Index(s, "\"settingsSave\"")
	meta := strings.Index(s, "\"@settingsSave\"")
	next := strings.Index(s, "\"loginTitle\"")
	if at < 0 || meta < 0 || next < 0 {
		t.Fatalf("missing keys:\n%s", s)
	}
	if !(at < meta && meta < next) {
		t.Errorf("@settingsSave not adjacent to its key:\n%s", s)
	}
}

func TestSetUpdatesInPlace(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	f.Set("loginTitle", "Log In", "")
	if v, _ := f.Get("loginTitle"); v != "Log In" {
		t.Errorf("value = %q, want Log In", v)
	}
	want := []string{"loginTitle", "loginSignIn", "settingsSave"}
	if got := f.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("update moved the key: %v", got)
	}
}

func TestMerge(t *testing.T) {
	f := New("en")
	Merge(f, []keygen.Bound{
		{
			Classified: classify.Classified{
				Record: extract.Record{Value: "Sign In"},
				Result: classify.Result{Role: lang.RoleButton, ScreenGroup: "Login"},
			},
			Key: "loginSignIn",
		},
	})
	if v, ok := f.Get("loginSignIn"); !ok || v != "Sign In" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	out, _ := f.Marshal()
	if !strings.Contains(string(out), "Button on the Login screen") {
		t.Errorf("description missing:\n%s", out)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		role        lang.Role
		screenGroup string
		want        string
	}{
		{lang.RoleButton, "Login", "Button on the Login screen"},
		{lang.RoleUnknown, "Checkout", "Text on the Checkout screen"},
		{lang.RoleTitle, "", "Title"},
	}
	for _, tt := range tests {
		if got := Describe(tt.role, tt.screenGroup); got != tt.want {
			t.Errorf("Describe(%s, %q) = %q, want %q", tt.role, tt.screenGroup, got, tt.want)
		}
	}
}
