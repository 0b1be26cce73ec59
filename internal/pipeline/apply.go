package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/arbiter-l10n/arbiter/internal/extract"
	"github.com/arbiter-l10n/arbiter/internal/rewrite"
)

// pendingEdit joins a planned edit with its catalog row, so the rewrite
// outcome can be written back per record.
type pendingEdit struct {
	Edit  rewrite.Edit
	RowID int64
	Value string
}

// applyFile rewrites one source file. Freshly scanned files use the
// records extracted this run; unchanged files replay their pending
// catalog rows, relying on drift relocation for any small shifts. A
// failure here is recorded on the report and never stops other files.
func (p *Pipeline) applyFile(sc *fileScan, rows []boundRow, report *FileReport) {
	var pending []pendingEdit
	if sc.Unchanged {
		catalog, err := p.Store.FindRowsByFile(p.ProjectName, sc.File.RelPath)
		if err != nil {
			report.Err = fmt.Errorf("load rows: %w", err)
			return
		}
		for _, r := range catalog {
			if r.Status != "pending" {
				continue
			}
			pending = append(pending, pendingEdit{
				Edit: rewrite.Edit{
					Offset:      r.ByteOffset,
					Length:      r.ByteLength,
					Span:        p.spanFor(sc.Source, r.ByteOffset, r.ByteLength, r.Value),
					Line:        r.Line,
					Replacement: r.Replacement,
				},
				RowID: r.ID,
				Value: r.Value,
			})
		}
	} else {
		for _, br := range rows {
			loc := br.Bound.Record.Location
			pending = append(pending, pendingEdit{
				Edit: rewrite.Edit{
					Offset:      loc.ByteOffset,
					Length:      loc.ByteLength,
					Span:        p.spanFor(sc.Source, loc.ByteOffset, loc.ByteLength, br.Bound.Record.Value),
					Line:        loc.Line,
					Replacement: br.Bound.Replacement,
				},
				RowID: br.RowID,
				Value: br.Bound.Record.Value,
			})
		}
	}
	if len(pending) == 0 {
		return
	}

	edits := make([]rewrite.Edit, len(pending))
	for i, pe := range pending {
		edits[i] = pe.Edit
	}
	res, err := rewrite.File(sc.Source, edits)
	if err != nil {
		if errors.Is(err, rewrite.ErrOverlappingEdits) {
			slog.Error("rewrite.overlap", "path", sc.File.RelPath, "err", err)
		}
		report.Err = err
		return
	}

	// Map skips back to rows by their original offset.
	skippedAt := make(map[int]string, len(res.Skipped))
	for _, sk := range res.Skipped {
		skippedAt[sk.Edit.Offset] = sk.Reason
	}

	modified := res.Modified
	if res.Applied > 0 {
		if p.Config.ImportLine != "" {
			modified, _ = rewrite.EnsureImport(modified, p.Config.ImportLine)
		}
		if err := p.writeSource(sc, modified); err != nil {
			report.Err = err
			return
		}
	}

	for _, pe := range pending {
		if reason, ok := skippedAt[pe.Edit.Offset]; ok {
			slog.Warn("rewrite.skip", "path", sc.File.RelPath, "value", pe.Value, "reason", reason)
			report.Skipped = append(report.Skipped, SkipDetail{Value: pe.Value, Reason: reason})
			if err := p.Store.SetStatus(pe.RowID, "skipped", reason); err != nil {
				report.Err = err
				return
			}
			continue
		}
		report.Applied++
		if err := p.Store.SetStatus(pe.RowID, "applied", ""); err != nil {
			report.Err = err
			return
		}
	}
}

// spanFor returns the exact source text an edit must replace: the
// recorded slice when it still decodes to the value, otherwise the
// value re-encoded as a literal for drift relocation to search for.
func (p *Pipeline) spanFor(source []byte, offset, length int, value string) string {
	if offset >= 0 && offset+length <= len(source) {
		span := string(source[offset : offset+length])
		if extract.Decode(span) == value {
			return span
		}
	}
	return extract.Quote(value)
}

// writeSource replaces the file atomically: temp file in the same
// directory, then rename. An optional .bak keeps the original.
func (p *Pipeline) writeSource(sc *fileScan, content []byte) error {
	path := sc.File.Path
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if p.Config.Backup {
		if err := os.WriteFile(path+".bak", sc.Source, info.Mode().Perm()); err != nil {
			return fmt.Errorf("backup %s: %w", path, err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".arbiter-*")
	if err != nil {
		return fmt.Errorf("temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, info.Mode().Perm()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", tmpPath, err)
	}

	// Store the post-write hash so the next scan sees this file as
	// unchanged instead of re-extracting what was just rewritten.
	if err := p.Store.UpsertFileHash(p.ProjectName, sc.File.RelPath, hashBytes(content)); err != nil {
		return fmt.Errorf("store hash %s: %w", sc.File.RelPath, err)
	}
	sc.hashStored = true
	return nil
}
