// Package pipeline orchestrates a scan of a Flutter project: discover
// Dart sources, extract and classify hard-coded literals in parallel,
// bind localization keys, persist the catalog, maintain the ARB bundle,
// and optionally rewrite the sources in place.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/arbiter-l10n/arbiter/internal/arb"
	"github.com/arbiter-l10n/arbiter/internal/classify"
	"github.com/arbiter-l10n/arbiter/internal/config"
	"github.com/arbiter-l10n/arbiter/internal/discover"
	"github.com/arbiter-l10n/arbiter/internal/extract"
	"github.com/arbiter-l10n/arbiter/internal/keygen"
	"github.com/arbiter-l10n/arbiter/internal/lang"
	"github.com/arbiter-l10n/arbiter/internal/store"
)

// Pipeline drives extraction, key binding, and rewrite for one project.
type Pipeline struct {
	Store       *store.Store
	RootPath    string
	ProjectName string
	Config      config.Config

	skipValues map[string]bool
	classifier *classify.Classifier
}

// SkipDetail records one literal that was not rewritten and why.
type SkipDetail struct {
	Value  string
	Reason string
}

// FileReport summarizes one file's trip through the pipeline.
type FileReport struct {
	RelPath   string
	Extracted int
	ByRole    map[string]int
	Applied   int
	Skipped   []SkipDetail
	ParseErr  bool
	Err       error
}

// Summary aggregates the per-file reports of one run.
type Summary struct {
	Project   string
	Files     int
	Changed   int
	Extracted int
	Applied   int
	Skipped   int
	Reports   []FileReport
}

// New creates a Pipeline. Configuration extensions (extra widget
// mappings) become classifier overrides scoped to this Pipeline, not
// global table state.
func New(s *store.Store, rootPath string, cfg config.Config) *Pipeline {
	skip := make(map[string]bool, len(cfg.SkipValues))
	for _, v := range cfg.SkipValues {
		skip[v] = true
	}
	overrides := make([]lang.WidgetParamRole, 0, len(cfg.WidgetParams))
	for _, wp := range cfg.WidgetParams {
		overrides = append(overrides, lang.WidgetParamRole{
			Widget: wp.Widget,
			Param:  wp.Param,
			Role:   lang.Role(wp.Role),
		})
	}
	return &Pipeline{
		Store:       s,
		RootPath:    rootPath,
		ProjectName: ProjectNameFromPath(rootPath),
		Config:      cfg,
		skipValues:  skip,
		classifier:  classify.NewClassifier(overrides),
	}
}

// ProjectNameFromPath derives a unique project name from an absolute path
// by replacing path separators with dashes and trimming the leading dash.
func ProjectNameFromPath(absPath string) string {
	cleaned := filepath.ToSlash(filepath.Clean(absPath))
	name := strings.ReplaceAll(cleaned, "/", "-")
	name = strings.TrimLeft(name, "-")
	if name == "" {
		return "root"
	}
	return name
}

// fileScan is the output of the pure per-file stage: no DB access, no
// shared state mutation.
type fileScan struct {
	File      discover.FileInfo
	Source    []byte
	Hash      string
	Unchanged bool
	Records   []classify.Classified
	ParseErr  bool
	Err       error

	// hashStored is set once the rewrite stage persisted a post-write
	// hash, so the final hash pass leaves the file alone.
	hashStored bool
}

// Run scans the project. When apply is true the sources are rewritten
// after extraction; otherwise the run only refreshes the catalog and
// the ARB bundle.
func (p *Pipeline) Run(ctx context.Context, apply bool) (*Summary, error) {
	slog.Info("scan.start", "project", p.ProjectName, "path", p.RootPath, "apply", apply)

	files, err := discover.Discover(ctx, p.RootPath, &discover.Options{L10nDir: p.Config.L10nDir})
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	slog.Info("scan.discovered", "files", len(files))

	storedHashes, err := p.Store.GetFileHashes(p.ProjectName)
	if err != nil {
		return nil, fmt.Errorf("load hashes: %w", err)
	}

	scans := p.scanFiles(ctx, files, storedHashes)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	summary := &Summary{Project: p.ProjectName, Files: len(files)}

	gen := keygen.New(p.Config.Accessor)
	bundle, err := arb.ParseFile(p.Config.BundlePath(p.RootPath), p.Config.Locale)
	if err != nil {
		return nil, fmt.Errorf("bundle: %w", err)
	}
	p.seedKeys(gen, bundle)

	// Sequential aggregation: catalog writes, key binding.
	bound := make(map[string][]boundRow, len(scans))
	err = p.Store.WithTransaction(func(tx *store.Store) error {
		if err := tx.UpsertProject(p.ProjectName, p.RootPath); err != nil {
			return fmt.Errorf("upsert project: %w", err)
		}
		for i := range scans {
			sc := &scans[i]
			if sc.Err != nil || sc.Unchanged {
				continue
			}
			rows, err := p.storeScan(tx, gen, sc)
			if err != nil {
				return err
			}
			bound[sc.File.RelPath] = rows
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Per-file reports; rewrite happens here when requested.
	for i := range scans {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		sc := &scans[i]
		report := FileReport{RelPath: sc.File.RelPath, ParseErr: sc.ParseErr, Err: sc.Err}
		if sc.Err != nil {
			slog.Warn("scan.file.err", "path", sc.File.RelPath, "err", sc.Err)
			summary.Reports = append(summary.Reports, report)
			continue
		}
		if sc.ParseErr {
			slog.Warn("scan.parse_warn", "path", sc.File.RelPath)
		}
		if !sc.Unchanged {
			summary.Changed++
			report.Extracted = len(sc.Records)
			report.ByRole = roleCounts(sc.Records)
			summary.Extracted += report.Extracted
		}

		if apply {
			p.applyFile(sc, bound[sc.File.RelPath], &report)
			summary.Applied += report.Applied
			summary.Skipped += len(report.Skipped)
		}
		summary.Reports = append(summary.Reports, report)
	}

	// The bundle carries every key the catalog knows, so it is written
	// even for files whose rewrite was skipped. Discovery order keeps
	// new-key placement deterministic across runs.
	var newBound []keygen.Bound
	for i := range scans {
		for _, br := range bound[scans[i].File.RelPath] {
			newBound = append(newBound, br.Bound)
		}
	}
	arb.Merge(bundle, newBound)
	if summary.Extracted > 0 {
		if err := bundle.WriteFile(p.Config.BundlePath(p.RootPath)); err != nil {
			return summary, fmt.Errorf("write bundle: %w", err)
		}
	}

	if err := p.updateHashes(scans); err != nil {
		return summary, err
	}

	slog.Info("scan.done", "files", summary.Files, "changed", summary.Changed,
		"extracted", summary.Extracted, "applied", summary.Applied, "skipped", summary.Skipped)
	return summary, nil
}

// scanFiles runs the pure per-file stage in parallel: read, hash, and
// for changed files parse + extract + classify. Results land in a
// pre-sized slice by index; nothing here touches the store.
func (p *Pipeline) scanFiles(ctx context.Context, files []discover.FileInfo, storedHashes map[string]string) []fileScan {
	scans := make([]fileScan, len(files))

	numWorkers := p.Config.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, f := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			scans[i] = p.scanFile(f, storedHashes[f.RelPath])
			return nil
		})
	}
	_ = g.Wait()
	return scans
}

// scanFile is pure: same file bytes, same result.
func (p *Pipeline) scanFile(f discover.FileInfo, storedHash string) fileScan {
	sc := fileScan{File: f}

	source, err := os.ReadFile(f.Path)
	if err != nil {
		sc.Err = err
		return sc
	}
	sc.Source = source
	sc.Hash = hashBytes(source)
	if storedHash != "" && storedHash == sc.Hash {
		sc.Unchanged = true
		return sc
	}

	records, parseErr, err := extract.FromSource(source, f.RelPath, extract.Options{
		Accessor: accessorName(p.Config.Accessor),
	})
	if err != nil {
		sc.Err = err
		return sc
	}
	sc.ParseErr = parseErr

	for _, rec := range records {
		if p.skipValues[rec.Value] {
			continue
		}
		sc.Records = append(sc.Records, classify.Classified{
			Record: rec,
			Result: p.classifier.Classify(rec),
		})
	}
	return sc
}

// boundRow pairs a bound record with its catalog row id, so rewrite
// outcomes can be written back per record.
type boundRow struct {
	Bound keygen.Bound
	RowID int64
}

// storeScan replaces a changed file's catalog rows with the fresh
// extraction, binding keys along the way. Records whose value derives
// no key are skipped with a log line, never failing the file.
func (p *Pipeline) storeScan(tx *store.Store, gen *keygen.Generator, sc *fileScan) ([]boundRow, error) {
	if err := tx.DeleteRowsByFile(p.ProjectName, sc.File.RelPath); err != nil {
		return nil, fmt.Errorf("clear rows %s: %w", sc.File.RelPath, err)
	}

	rows := make([]boundRow, 0, len(sc.Records))
	for _, c := range sc.Records {
		b, err := gen.Bind(c)
		if err != nil {
			slog.Warn("keygen.skip", "path", sc.File.RelPath, "value", c.Record.Value, "err", err)
			continue
		}
		id, err := tx.InsertRow(&store.Row{
			Project:        p.ProjectName,
			FilePath:       sc.File.RelPath,
			Line:           c.Record.Location.Line,
			Column:         c.Record.Location.Column,
			ByteOffset:     c.Record.Location.ByteOffset,
			ByteLength:     c.Record.Location.ByteLength,
			Value:          c.Record.Value,
			Role:           string(c.Result.Role),
			ScreenGroup:    c.Result.ScreenGroup,
			Confidence:     c.Result.Confidence,
			StructuralType: c.Record.StructuralType,
			ParameterName:  c.Record.ParameterName,
			Key:            b.Key,
			Replacement:    b.Replacement,
			Status:         "pending",
		})
		if err != nil {
			return nil, fmt.Errorf("insert row %s: %w", sc.File.RelPath, err)
		}
		rows = append(rows, boundRow{Bound: b, RowID: id})
	}
	return rows, nil
}

// seedKeys loads established key assignments from the catalog and the
// bundle so re-scans reuse keys instead of minting suffixed duplicates.
func (p *Pipeline) seedKeys(gen *keygen.Generator, bundle *arb.File) {
	if assigned, err := p.Store.AssignedKeys(p.ProjectName); err == nil {
		for key, value := range assigned {
			gen.Reserve(key, value)
		}
	}
	for _, key := range bundle.Keys() {
		if value, ok := bundle.Get(key); ok {
			gen.Reserve(key, value)
		}
	}
}

// updateHashes writes scan-time hashes for unchanged and non-applied
// files. Files rewritten during this run already stored their
// post-write hash.
func (p *Pipeline) updateHashes(scans []fileScan) error {
	for i := range scans {
		sc := &scans[i]
		if sc.Err != nil || sc.Hash == "" || sc.hashStored {
			continue
		}
		if err := p.Store.UpsertFileHash(p.ProjectName, sc.File.RelPath, sc.Hash); err != nil {
			return fmt.Errorf("store hash %s: %w", sc.File.RelPath, err)
		}
	}
	return nil
}

func roleCounts(records []classify.Classified) map[string]int {
	if len(records) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, c := range records {
		counts[string(c.Result.Role)]++
	}
	return counts
}

// accessorName reduces an accessor expression to the identifier used
// for the already-localized check: "AppLocalizations.of(context)"
// matches on "AppLocalizations", "context.l10n" on "l10n".
func accessorName(accessor string) string {
	if i := strings.IndexAny(accessor, ".("); i > 0 {
		head := accessor[:i]
		if head == "context" && strings.HasPrefix(accessor, "context.") {
			rest := accessor[len("context."):]
			if j := strings.IndexAny(rest, ".("); j > 0 {
				return rest[:j]
			}
			return rest
		}
		return head
	}
	return accessor
}

// hashBytes returns the xxh3 content hash as fixed-width hex.
func hashBytes(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}
