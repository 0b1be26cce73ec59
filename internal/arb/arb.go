// Package arb reads and writes Flutter ARB (Application Resource
// Bundle) files. ARB is JSON with conventions: "@@locale" names the
// language, "@key" entries hold metadata for the translatable key they
// follow, everything else is a translatable string. Key order from a
// parsed file is preserved on write, with each metadata entry kept
// adjacent to its key.
package arb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type entry struct {
	key    string
	value  string // translatable keys only
	isMeta bool
	raw    json.RawMessage // original bytes, kept verbatim for metadata
}

// File is an ARB document: ordered entries plus a key index.
type File struct {
	locale  string
	entries []entry
	index   map[string]int
}

// New returns an empty bundle for locale.
func New(locale string) *File {
	return &File{locale: locale, index: make(map[string]int)}
}

// ParseFile reads and parses path. A missing file is not an error: it
// yields an empty bundle for fallbackLocale so first runs just work.
func ParseFile(path, fallbackLocale string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(fallbackLocale), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes ARB content. json.Decoder token streaming keeps the
// document key order, which a map round-trip would destroy.
func Parse(data []byte) (*File, error) {
	f := &File{index: make(map[string]int)}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("arb: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("arb: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("arb key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("arb: expected string key, got %T", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("arb value for %q: %w", key, err)
		}

		e := entry{key: key, isMeta: strings.HasPrefix(key, "@"), raw: raw}
		if key == "@@locale" {
			_ = json.Unmarshal(raw, &f.locale)
		} else if !e.isMeta {
			if err := json.Unmarshal(raw, &e.value); err != nil {
				return nil, fmt.Errorf("arb: key %q is not a string", key)
			}
		}
		f.index[key] = len(f.entries)
		f.entries = append(f.entries, e)
	}
	return f, nil
}

// Locale returns the @@locale value.
func (f *File) Locale() string { return f.locale }

// Len counts translatable entries.
func (f *File) Len() int {
	n := 0
	for _, e := range f.entries {
		if !e.isMeta {
			n++
		}
	}
	return n
}

// Keys returns translatable keys in document order.
func (f *File) Keys() []string {
	var keys []string
	for _, e := range f.entries {
		if !e.isMeta {
			keys = append(keys, e.key)
		}
	}
	return keys
}

// Get returns the value of a translatable key.
func (f *File) Get(key string) (string, bool) {
	if idx, ok := f.index[key]; ok && !f.entries[idx].isMeta {
		return f.entries[idx].value, true
	}
	return "", false
}

// Set adds or updates a translatable key and its description metadata.
// New keys append in call order with the "@key" entry directly after;
// existing keys update in place and keep their position. An empty
// description leaves existing metadata untouched.
func (f *File) Set(key, value, description string) {
	if idx, ok := f.index[key]; ok && !f.entries[idx].isMeta {
		f.entries[idx].value = value
		if description != "" {
			f.setMeta(key, description)
		}
		return
	}

	f.index[key] = len(f.entries)
	f.entries = append(f.entries, entry{key: key, value: value})
	if description != "" {
		f.setMeta(key, description)
	}
}

func (f *File) setMeta(key, description string) {
	raw, _ := json.Marshal(map[string]string{"description": description})
	metaKey := "@" + key
	if idx, ok := f.index[metaKey]; ok {
		f.entries[idx].raw = raw
		return
	}
	at := f.index[key] + 1
	f.index[metaKey] = at
	f.entries = append(f.entries, entry{})
	copy(f.entries[at+1:], f.entries[at:])
	f.entries[at] = entry{key: metaKey, isMeta: true, raw: raw}
	for i := at + 1; i < len(f.entries); i++ {
		f.index[f.entries[i].key] = i
	}
}

// Marshal serializes with 2-space indentation, @@locale always first.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	first := true
	writeKey := func(key string) {
		if !first {
			buf.WriteString(",")
		}
		first = false
		raw, _ := json.Marshal(key)
		buf.WriteString("\n  ")
		buf.Write(raw)
		buf.WriteString(": ")
	}

	if f.locale != "" {
		writeKey("@@locale")
		raw, _ := json.Marshal(f.locale)
		buf.Write(raw)
	}
	for _, e := range f.entries {
		if e.key == "@@locale" {
			continue
		}
		writeKey(e.key)
		if e.isMeta {
			var pretty bytes.Buffer
			if err := json.Indent(&pretty, e.raw, "  ", "  "); err != nil {
				buf.Write(e.raw)
			} else {
				buf.Write(pretty.Bytes())
			}
			continue
		}
		raw, _ := json.Marshal(e.value)
		buf.Write(raw)
	}

	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// WriteFile serializes to path, creating the directory if needed.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
