package rewrite

import (
	"bytes"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"testing"
)

const loginSource = `import 'package:flutter/material.dart';

class LoginScreen extends StatelessWidget {
  Widget build(BuildContext context) {
    return Scaffold(
      appBar: AppBar(title: Text('Login')),
      body: TextField(
        decoration: InputDecoration(hintText: 'Enter your email'),
      ),
    );
  }
}
`

func mustSpan(t *testing.T, source, span string) Edit {
	t.Helper()
	at := strings.Index(source, span)
	if at < 0 {
		t.Fatalf("span %q not in source", span)
	}
	line := 1 + strings.Count(source[:at], "\n")
	return Edit{Offset: at, Length: len(span), Span: span, Line: line}
}

func TestFileNoEdits(t *testing.T) {
	res, err := File([]byte(loginSource), nil)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if res.Applied != 0 || len(res.Skipped) != 0 {
		t.Fatalf("applied=%d skipped=%d, want 0/0", res.Applied, len(res.Skipped))
	}
	if !bytes.Equal(res.Modified, []byte(loginSource)) {
		t.Fatal("source changed with no edits")
	}
}

func TestFileAppliesMultipleEdits(t *testing.T) {
	e1 := mustSpan(t, loginSource, "'Login'")
	e1.Replacement = "AppLocalizations.of(context).loginTitle"
	e2 := mustSpan(t, loginSource, "'Enter your email'")
	e2.Replacement = "AppLocalizations.of(context).loginEmailHint"

	// Replacements differ in length from their spans, so correctness
	// depends on back-to-front application.
	for _, edits := range [][]Edit{{e1, e2}, {e2, e1}} {
		res, err := File([]byte(loginSource), edits)
		if err != nil {
			t.Fatalf("File: %v", err)
		}
		if res.Applied != 2 {
			t.Fatalf("applied = %d, want 2", res.Applied)
		}
		got := string(res.Modified)
		if !strings.Contains(got, "Text(AppLocalizations.of(context).loginTitle)") {
			t.Errorf("title not rewritten:\n%s", got)
		}
		if !strings.Contains(got, "hintText: AppLocalizations.of(context).loginEmailHint") {
			t.Errorf("hint not rewritten:\n%s", got)
		}
		if strings.Contains(got, "'Login'") || strings.Contains(got, "'Enter your email'") {
			t.Errorf("original literal survived:\n%s", got)
		}
	}
}

func TestFileOverlapIsFatal(t *testing.T) {
	e1 := mustSpan(t, loginSource, "'Login'")
	e1.Replacement = "a"
	e2 := e1
	e2.Offset += 2
	e2.Span = loginSource[e2.Offset : e2.Offset+e2.Length]

	res, err := File([]byte(loginSource), []Edit{e1, e2})
	if !errors.Is(err, ErrOverlappingEdits) {
		t.Fatalf("err = %v, want ErrOverlappingEdits", err)
	}
	if !bytes.Equal(res.Modified, []byte(loginSource)) {
		t.Fatal("file modified despite overlap")
	}
}

func TestFileRelocatesDriftedSpan(t *testing.T) {
	e := mustSpan(t, loginSource, "'Enter your email'")
	e.Replacement = "AppLocalizations.of(context).loginEmailHint"

	// A line added above the span shifts every later offset but moves
	// the span only one line down, inside the drift window.
	drifted := strings.Replace(loginSource, "body: TextField(",
		"// TODO(mila): move field into a form\n      body: TextField(", 1)

	res, err := File([]byte(drifted), []Edit{e})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if res.Applied != 1 {
		t.Fatalf("applied = %d, skipped = %+v", res.Applied, res.Skipped)
	}
	if strings.Contains(string(res.Modified), "'Enter your email'") {
		t.Fatal("drifted literal not rewritten")
	}
}

func TestFileSkipsUnrecoverableDrift(t *testing.T) {
	e := mustSpan(t, loginSource, "'Enter your email'")
	e.Replacement = "x"

	changed := strings.Replace(loginSource, "'Enter your email'", "'Enter your phone'", 1)
	res, err := File([]byte(changed), []Edit{e})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if res.Applied != 0 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%d skipped=%d, want 0/1", res.Applied, len(res.Skipped))
	}
	if res.Skipped[0].Reason == "" {
		t.Fatal("skip has no reason")
	}
	if !bytes.Equal(res.Modified, []byte(changed)) {
		t.Fatal("file modified despite skip")
	}
}

func TestFileSkipsAmbiguousRelocation(t *testing.T) {
	source := "Text('Save')\nText('Save')\nText('Save')\n"
	e := Edit{Offset: 500, Length: len("'Save'"), Span: "'Save'", Line: 2, Replacement: "x"}

	res, err := File([]byte(source), []Edit{e})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if res.Applied != 0 || len(res.Skipped) != 1 {
		t.Fatalf("applied=%d skipped=%d, want 0/1", res.Applied, len(res.Skipped))
	}
}

func TestFileRandomizedEditSets(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	words := make([]string, 40)
	for i := range words {
		words[i] = strings.Repeat(string(rune('a'+i%26)), 2+rng.Intn(4))
	}
	source := strings.Join(words, " ")

	for trial := 0; trial < 50; trial++ {
		// Pick a random set of non-overlapping word spans to replace.
		perm := rng.Perm(len(words))[:1+rng.Intn(10)]
		sort.Ints(perm)

		var edits []Edit
		want := append([]string(nil), words...)
		off := 0
		for i, w := range words {
			take := len(perm) > 0 && perm[0] == i
			if take {
				perm = perm[1:]
				repl := strings.Repeat("X", 1+rng.Intn(6))
				edits = append(edits, Edit{
					Offset: off, Length: len(w), Span: w, Line: 1, Replacement: repl,
				})
				want[i] = repl
			}
			off += len(w) + 1
		}

		res, err := File([]byte(source), edits)
		if err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}
		if res.Applied != len(edits) {
			t.Fatalf("trial %d: applied %d of %d, skipped %+v", trial, res.Applied, len(edits), res.Skipped)
		}
		if got := string(res.Modified); got != strings.Join(want, " ") {
			t.Fatalf("trial %d:\n got %q\nwant %q", trial, got, strings.Join(want, " "))
		}
	}
}

func TestEnsureImport(t *testing.T) {
	const l10n = "import 'package:app/l10n/app_localizations.dart';"

	got, changed := EnsureImport([]byte(loginSource), l10n)
	if !changed {
		t.Fatal("import not inserted")
	}
	want := "import 'package:flutter/material.dart';\n" + l10n + "\n"
	if !strings.HasPrefix(string(got), want) {
		t.Errorf("import misplaced:\n%s", got[:120])
	}

	again, changed := EnsureImport(got, l10n)
	if changed {
		t.Fatal("second insert reported a change")
	}
	if !bytes.Equal(again, got) {
		t.Fatal("EnsureImport not idempotent")
	}
}

func TestEnsureImportPlacement(t *testing.T) {
	const l10n = "import 'package:app/l10n/app_localizations.dart';"
	tests := []struct {
		name   string
		source string
		prefix string
	}{
		{
			name:   "after library directive",
			source: "library widgets;\n\nclass A {}\n",
			prefix: "library widgets;\n" + l10n + "\n",
		},
		{
			name:   "top of bare file",
			source: "class A {}\n",
			prefix: l10n + "\nclass A {}\n",
		},
		{
			name:   "after last of several imports",
			source: "import 'a.dart';\nimport 'b.dart' as b;\nclass A {}\n",
			prefix: "import 'a.dart';\nimport 'b.dart' as b;\n" + l10n + "\n",
		},
		{
			name:   "commented-out copy is not present",
			source: "import 'a.dart';\n// " + l10n + "\nclass A {}\n",
			prefix: "import 'a.dart';\n" + l10n + "\n// " + l10n + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := EnsureImport([]byte(tt.source), l10n)
			if !changed {
				t.Fatal("import not inserted")
			}
			if !strings.HasPrefix(string(got), tt.prefix) {
				t.Errorf("got:\n%s\nwant prefix:\n%s", got, tt.prefix)
			}
		})
	}
}
