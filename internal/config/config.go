// Package config loads .arbiter.yaml from a project root, filling in
// defaults for anything the file leaves out. A missing file just means
// all defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file looked up at the root.
const FileName = ".arbiter.yaml"

// WidgetParam maps a widget parameter to a role, extending the built-in
// tables from configuration.
type WidgetParam struct {
	Widget string `yaml:"widget"`
	Param  string `yaml:"param"`
	Role   string `yaml:"role"`
}

// Config is the resolved project configuration.
type Config struct {
	// Accessor is the expression replacement calls are built on,
	// e.g. "context.l10n" or "AppLocalizations.of(context)".
	Accessor string `yaml:"accessor"`
	// ImportLine is inserted into rewritten files when missing.
	ImportLine string `yaml:"import_line"`
	// L10nDir receives the ARB bundle, relative to the project root.
	L10nDir string `yaml:"l10n_dir"`
	// Locale is the bundle's source language.
	Locale string `yaml:"locale"`
	// Workers bounds scan parallelism. Zero means NumCPU.
	Workers int `yaml:"workers"`
	// Backup writes a .bak next to every rewritten file.
	Backup bool `yaml:"backup"`
	// SkipValues are literal values never extracted.
	SkipValues []string `yaml:"skip_values"`
	// WidgetParams extend the widget/parameter role tables.
	WidgetParams []WidgetParam `yaml:"widget_params"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	return Config{
		Accessor:   "AppLocalizations.of(context)",
		ImportLine: "import 'package:flutter_gen/gen_l10n/app_localizations.dart';",
		L10nDir:    "lib/l10n",
		Locale:     "en",
		Workers:    runtime.NumCPU(),
	}
}

// Load reads root/.arbiter.yaml over the defaults. A missing file is
// not an error; a malformed one is.
func Load(root string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filepath.Join(root, FileName))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", FileName, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.Accessor == "" || cfg.L10nDir == "" || cfg.Locale == "" {
		return cfg, fmt.Errorf("%s: accessor, l10n_dir, and locale must not be empty", FileName)
	}
	return cfg, nil
}

// BundlePath returns the ARB file path for the configured locale.
func (c Config) BundlePath(root string) string {
	return filepath.Join(root, c.L10nDir, "app_"+c.Locale+".arb")
}
