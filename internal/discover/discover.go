// Package discover walks a Flutter project and lists the Dart sources
// eligible for scanning. Generated files, build output, and anything
// matched by .arbiterignore are excluded.
package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
)

// ignoreDirs are directory names skipped during discovery.
var ignoreDirs = map[string]bool{
	".dart_tool": true, ".git": true, ".hg": true, ".svn": true,
	".idea": true, ".vscode": true, ".fvm": true, ".cache": true,
	"build": true, "ios": true, "android": true, "macos": true,
	"linux": true, "windows": true, "web": true, ".symlinks": true,
	"Pods": true, "node_modules": true, ".tmp": true, "tmp": true,
}

// generatedSuffixes mark Dart files produced by code generators.
// Rewriting those is pointless: the generator overwrites them.
var generatedSuffixes = []string{
	".g.dart", ".freezed.dart", ".gr.dart", ".mocks.dart",
	".config.dart", ".gen.dart", ".pb.dart", ".pbenum.dart",
	".pbjson.dart", ".pbserver.dart",
}

// FileInfo represents a discovered Dart source file.
type FileInfo struct {
	Path    string // absolute path
	RelPath string // relative to project root, slash-separated
}

// Options configures file discovery.
type Options struct {
	IgnoreFile string // path to .arbiterignore file (optional)
	L10nDir    string // localization output dir to exclude (optional)
}

// shouldSkipDir returns true if the directory should be skipped during discovery.
func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if ignoreDirs[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// isGenerated reports whether name carries a code-generator suffix.
func isGenerated(name string) bool {
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

// Discover walks a project root and returns its scannable Dart files.
func Discover(ctx context.Context, rootPath string, opts *Options) ([]FileInfo, error) {
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var extraIgnore []string
	if opts != nil && opts.IgnoreFile != "" {
		extraIgnore, _ = loadIgnoreFile(opts.IgnoreFile)
	} else {
		extraIgnore, _ = loadIgnoreFile(filepath.Join(rootPath, ".arbiterignore"))
	}
	l10nDir := ""
	if opts != nil && opts.L10nDir != "" {
		l10nDir = filepath.ToSlash(opts.L10nDir)
	}

	var files []FileInfo

	err = filepath.Walk(rootPath, func(path string, info os.FileInfo, walkErr error) error {
		// Check context cancellation periodically during walk
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(rootPath, path)
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			if l10nDir != "" && rel == l10nDir {
				return filepath.SkipDir
			}
			return nil
		}

		name := info.Name()
		if !strings.HasSuffix(name, ".dart") || isGenerated(name) {
			return nil
		}
		for _, pattern := range extraIgnore {
			if matched, _ := filepath.Match(pattern, rel); matched {
				return nil
			}
			if matched, _ := filepath.Match(pattern, name); matched {
				return nil
			}
		}

		files = append(files, FileInfo{Path: path, RelPath: rel})
		return nil
	})

	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
