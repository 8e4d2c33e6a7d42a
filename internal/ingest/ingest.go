// Package ingest parses translation term files into domain term records.
// Pure function: file path in, snapshot out. No database dependencies.
//
// Two historical column layouts are supported. Files whose header row has a
// "language code" column use the new layout:
//
//	0 description id | language column | 2 concept id | 4 term
//
// Files without it use the old layout, with the language supplied by the
// caller for the whole file:
//
//	0 description id | 2 term | 9 concept id
package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/levi/internal/domain"
)

// contextCheckInterval is how many rows are parsed between cancellation checks.
const contextCheckInterval = 256

// Layout identifies the detected column layout.
type Layout string

const (
	LayoutNew Layout = "new"
	LayoutOld Layout = "old"
)

// Column positions of both layouts.
const (
	newDescriptionCol = 0
	newConceptCol     = 2
	newTermCol        = 4

	oldDescriptionCol = 0
	oldTermCol        = 2
	oldConceptCol     = 9
)

// Options controls a single Load.
type Options struct {
	Release domain.Release
	// FallbackLanguage is required for old-layout files and fills empty
	// language cells in new-layout files.
	FallbackLanguage string
	// Sheet selects a worksheet by name; empty means the first sheet.
	Sheet string
}

// Issue is a non-fatal problem found in one row.
type Issue struct {
	Row     int
	Message string
}

// Snapshot is the parsed content of one term file.
type Snapshot struct {
	Path    string
	Release domain.Release
	Layout  Layout
	Records []domain.TermRecord
	Skipped int
	Issues  []Issue
}

// rawRow is one source row with cells already coerced to text.
type rawRow struct {
	Line  int
	Cells []string
}

// Load reads the term file at path. The format is chosen by extension:
// .csv, .txt and .tsv are delimited text; .xlsx and .xlsm are spreadsheets.
func Load(ctx context.Context, path string, opts Options) (*Snapshot, error) {
	if !opts.Release.IsValid() {
		return nil, domain.NewConfigError("release", fmt.Sprintf("unknown release type %q", opts.Release))
	}

	var (
		rows   []rawRow
		issues []Issue
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".txt", ".tsv":
		rows, issues, err = readDelimited(ctx, path, ext == ".tsv")
	case ".xlsx", ".xlsm":
		rows, err = readSpreadsheet(ctx, path, opts.Sheet)
	default:
		return nil, &domain.IngestionError{Path: path, Reason: fmt.Sprintf("unsupported file type %q", ext)}
	}
	if err != nil {
		return nil, err
	}

	snap, err := parseRows(ctx, path, rows, opts)
	if err != nil {
		return nil, err
	}
	snap.Issues = append(issues, snap.Issues...)
	return snap, nil
}

// parseRows detects the layout from the first row and converts the remaining
// rows into term records.
func parseRows(ctx context.Context, path string, rows []rawRow, opts Options) (*Snapshot, error) {
	fallback := domain.NormalizeLanguage(opts.FallbackLanguage)
	snap := &Snapshot{Path: path, Release: opts.Release, Layout: LayoutOld}

	if len(rows) == 0 {
		if fallback == "" {
			return nil, &domain.IngestionError{Path: path, Reason: "no header row and no fallback language"}
		}
		return snap, nil
	}

	cols := detectColumns(rows[0].Cells)
	if cols.language >= 0 {
		snap.Layout = LayoutNew
	} else if fallback == "" {
		return nil, domain.NewConfigError("settings.fallbackLanguageCode",
			fmt.Sprintf("%s has no %q column; a fallback language code is required", filepath.Base(path), "language code"))
	}

	for i, row := range rows[1:] {
		if i%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		if isEmptyRow(row.Cells) {
			snap.Skipped++
			continue
		}

		rec := domain.TermRecord{Release: opts.Release, Row: row.Line}
		if snap.Layout == LayoutNew {
			rec.DescriptionID = cellID(row.Cells, newDescriptionCol)
			rec.ConceptID = cellID(row.Cells, newConceptCol)
			rec.Term = cell(row.Cells, newTermCol)
			rec.LanguageCode = domain.NormalizeLanguage(cell(row.Cells, cols.language))
			if cols.typ >= 0 {
				rec.TypeHint = strings.TrimSpace(cell(row.Cells, cols.typ))
			}
			if cols.active >= 0 {
				rec.Inactive = isInactiveMarker(cell(row.Cells, cols.active))
			}
		} else {
			rec.DescriptionID = cellID(row.Cells, oldDescriptionCol)
			rec.Term = cell(row.Cells, oldTermCol)
			rec.ConceptID = cellID(row.Cells, oldConceptCol)
		}

		if rec.LanguageCode == "" {
			if fallback == "" {
				snap.Skipped++
				snap.Issues = append(snap.Issues, Issue{Row: row.Line, Message: "missing language code"})
				continue
			}
			rec.LanguageCode = fallback
		}

		if strings.TrimSpace(rec.Term) == "" {
			snap.Skipped++
			snap.Issues = append(snap.Issues, Issue{Row: row.Line, Message: "missing term"})
			continue
		}

		snap.Records = append(snap.Records, rec)
	}

	return snap, nil
}

// columns holds detected header positions; -1 means absent.
type columns struct {
	language int
	typ      int
	active   int
}

func detectColumns(header []string) columns {
	cols := columns{language: -1, typ: -1, active: -1}
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		switch {
		case cols.language < 0 && strings.Contains(name, "language code"):
			cols.language = i
		case cols.typ < 0 && strings.Contains(name, "type"):
			cols.typ = i
		case cols.active < 0 && (name == "active" || strings.Contains(name, "status")):
			cols.active = i
		}
	}
	return cols
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func cellID(cells []string, i int) string {
	return strings.TrimSpace(cell(cells, i))
}

func isEmptyRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isInactiveMarker(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "inactive", "no", "n":
		return true
	}
	return false
}
