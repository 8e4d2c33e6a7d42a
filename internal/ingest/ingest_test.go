package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/levi/internal/domain"
)

func testdataPath(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	return filepath.Join(filepath.Dir(file), "testdata", name)
}

func rowsOf(lines ...[]string) []rawRow {
	rows := make([]rawRow, len(lines))
	for i, l := range lines {
		rows[i] = rawRow{Line: i + 1, Cells: l}
	}
	return rows
}

var current = Options{Release: domain.ReleaseCurrent}

// --- layout detection ---

func TestParseRows_NewLayout(t *testing.T) {
	t.Parallel()

	rows := rowsOf(
		[]string{"Description ID", "Language Code", "Concept ID", "Description Type", "Term", "Status"},
		[]string{"11000195115", "DE", "49727002", "SYNONYM", "Husten", "active"},
		[]string{"", "", "", "", "", ""},
		[]string{" 21000195113 ", " Fr ", "49727002", "FSN", "toux (symptôme)", "inactive"},
	)

	snap, err := parseRows(context.Background(), "f.csv", rows, current)
	require.NoError(t, err)

	assert.Equal(t, LayoutNew, snap.Layout)
	assert.Equal(t, 1, snap.Skipped)
	require.Len(t, snap.Records, 2)

	first := snap.Records[0]
	assert.Equal(t, "11000195115", first.DescriptionID)
	assert.Equal(t, "49727002", first.ConceptID)
	assert.Equal(t, "Husten", first.Term)
	assert.Equal(t, "de", first.LanguageCode)
	assert.Equal(t, "SYNONYM", first.TypeHint)
	assert.False(t, first.Inactive)
	assert.Equal(t, domain.ReleaseCurrent, first.Release)
	assert.Equal(t, 2, first.Row)

	second := snap.Records[1]
	assert.Equal(t, "21000195113", second.DescriptionID)
	assert.Equal(t, "fr", second.LanguageCode)
	assert.True(t, second.Inactive)
	assert.Equal(t, 4, second.Row)
}

func TestParseRows_OldLayout(t *testing.T) {
	t.Parallel()

	rows := rowsOf(
		[]string{"id", "effectiveTime", "term"},
		[]string{"11000195115", "20240101", "Husten", "", "", "", "", "", "", "49727002"},
	)

	snap, err := parseRows(context.Background(), "f.csv", rows, Options{Release: domain.ReleasePrevious, FallbackLanguage: "DE"})
	require.NoError(t, err)

	assert.Equal(t, LayoutOld, snap.Layout)
	require.Len(t, snap.Records, 1)
	rec := snap.Records[0]
	assert.Equal(t, "11000195115", rec.DescriptionID)
	assert.Equal(t, "Husten", rec.Term)
	assert.Equal(t, "49727002", rec.ConceptID)
	assert.Equal(t, "de", rec.LanguageCode)
	assert.Equal(t, domain.ReleasePrevious, rec.Release)
}

func TestParseRows_OldLayoutRequiresFallback(t *testing.T) {
	t.Parallel()

	rows := rowsOf(
		[]string{"id", "effectiveTime", "term"},
		[]string{"11000195115", "20240101", "Husten"},
	)

	_, err := parseRows(context.Background(), "f.csv", rows, current)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigurationInvalid)
}

func TestParseRows_NoHeader(t *testing.T) {
	t.Parallel()

	_, err := parseRows(context.Background(), "empty.csv", nil, current)
	require.ErrorIs(t, err, domain.ErrIngestion)

	snap, err := parseRows(context.Background(), "empty.csv", nil, Options{Release: domain.ReleaseCurrent, FallbackLanguage: "de"})
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
}

func TestParseRows_LayoutEquivalence(t *testing.T) {
	t.Parallel()

	newRows := rowsOf(
		[]string{"Description ID", "Language code", "Concept ID", "Case", "Term"},
		[]string{"11000195115", "de", "49727002", "ci", "Husten"},
		[]string{"41000195119", "de", "11833005", "ci", "Reizhusten"},
	)
	oldRows := rowsOf(
		[]string{"id", "effectiveTime", "term", "moduleId", "caseSignificance", "", "", "", "", "conceptId"},
		[]string{"11000195115", "20240101", "Husten", "", "", "", "", "", "", "49727002"},
		[]string{"41000195119", "20240101", "Reizhusten", "", "", "", "", "", "", "11833005"},
	)

	fromNew, err := parseRows(context.Background(), "new.csv", newRows, current)
	require.NoError(t, err)
	fromOld, err := parseRows(context.Background(), "old.csv", oldRows, Options{Release: domain.ReleaseCurrent, FallbackLanguage: "de"})
	require.NoError(t, err)

	assert.Equal(t, LayoutNew, fromNew.Layout)
	assert.Equal(t, LayoutOld, fromOld.Layout)
	assert.Equal(t, fromNew.Records, fromOld.Records)
}

func TestParseRows_MissingLanguageCell(t *testing.T) {
	t.Parallel()

	rows := rowsOf(
		[]string{"Description ID", "Language Code", "Concept ID", "x", "Term"},
		[]string{"11000195115", "", "49727002", "", "Husten"},
	)

	snap, err := parseRows(context.Background(), "f.csv", rows, current)
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
	assert.Equal(t, 1, snap.Skipped)
	require.Len(t, snap.Issues, 1)
	assert.Equal(t, 2, snap.Issues[0].Row)

	snap, err = parseRows(context.Background(), "f.csv", rows, Options{Release: domain.ReleaseCurrent, FallbackLanguage: "it"})
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "it", snap.Records[0].LanguageCode)
}

func TestParseRows_MissingTerm(t *testing.T) {
	t.Parallel()

	rows := rowsOf(
		[]string{"Description ID", "Language Code", "Concept ID", "x", "Term"},
		[]string{"11000195115", "de", "49727002"},
	)

	snap, err := parseRows(context.Background(), "f.csv", rows, current)
	require.NoError(t, err)
	assert.Empty(t, snap.Records)
	require.Len(t, snap.Issues, 1)
	assert.Equal(t, "missing term", snap.Issues[0].Message)
}

func TestParseRows_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := rowsOf(
		[]string{"Description ID", "Language Code", "Concept ID", "x", "Term"},
		[]string{"11000195115", "de", "49727002", "", "Husten"},
	)
	_, err := parseRows(ctx, "f.csv", rows, current)
	require.ErrorIs(t, err, context.Canceled)
}

// --- delimited files ---

func TestLoad_CSVTestdata(t *testing.T) {
	t.Parallel()

	snap, err := Load(context.Background(), testdataPath(t, "new_layout.csv"), current)
	require.NoError(t, err)

	assert.Equal(t, LayoutNew, snap.Layout)
	require.Len(t, snap.Records, 3)
	assert.Equal(t, "it", snap.Records[2].LanguageCode)
	assert.True(t, snap.Records[2].Inactive)
	assert.Equal(t, 5, snap.Records[2].Row)

	old, err := Load(context.Background(), testdataPath(t, "old_layout.csv"), Options{Release: domain.ReleaseCurrent, FallbackLanguage: "de"})
	require.NoError(t, err)
	assert.Equal(t, LayoutOld, old.Layout)
	require.Len(t, old.Records, 2)
	assert.Equal(t, "11833005", old.Records[1].ConceptID)
}

func TestLoad_SemicolonWithBOM(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "terms.csv")
	content := "\xEF\xBB\xBFDescription ID;Language Code;Concept ID;Type;Term\n" +
		"11000195115;de;49727002;SYNONYM;\"Husten; trocken\"\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snap, err := Load(context.Background(), path, current)
	require.NoError(t, err)
	assert.Equal(t, LayoutNew, snap.Layout)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Husten; trocken", snap.Records[0].Term)
	assert.Equal(t, "11000195115", snap.Records[0].DescriptionID)
}

func TestLoad_Windows1252(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "terms.csv")
	content := []byte("Description ID,Language Code,Concept ID,Type,Term\n11000195115,de,49727002,SYNONYM,Fu\xDFgelenk\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	snap, err := Load(context.Background(), path, current)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Fußgelenk", snap.Records[0].Term)
	require.NotEmpty(t, snap.Issues)
	assert.Contains(t, snap.Issues[0].Message, "Windows-1252")
}

func TestLoad_TSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "terms.tsv")
	content := "Description ID\tLanguage Code\tConcept ID\tType\tTerm\n11000195115\tde\t49727002\tSYNONYM\tHusten, trocken\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	snap, err := Load(context.Background(), path, current)
	require.NoError(t, err)
	require.Len(t, snap.Records, 1)
	assert.Equal(t, "Husten, trocken", snap.Records[0].Term)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	_, err := Load(context.Background(), "terms.xls", current)
	assert.ErrorIs(t, err, domain.ErrIngestion)

	_, err = Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"), current)
	assert.ErrorIs(t, err, domain.ErrIngestion)

	_, err = Load(context.Background(), "terms.csv", Options{Release: "next"})
	assert.ErrorIs(t, err, domain.ErrConfigurationInvalid)
}

func TestSniffDelimiter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want rune
	}{
		{"comma", "a,b,c", ','},
		{"semicolon", "a;b;c", ';'},
		{"tab", "a\tb\tc", '\t'},
		{"quoted semicolons ignored", `"a;b;c",d,e`, ','},
		{"single column", "abc", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sniffDelimiter([]byte(tt.line + "\nx;y;z;w;v")); got != tt.want {
				t.Errorf("sniffDelimiter(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

// --- spreadsheets ---

func writeWorkbook(t *testing.T, build func(f *excelize.File, sheet string)) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	build(f, sheet)
	path := filepath.Join(t.TempDir(), "terms.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestLoad_Spreadsheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Description ID", "Language Code", "Concept ID", "Type", "Term"}))
		require.NoError(t, f.SetCellValue(sheet, "A2", 11000195115))
		require.NoError(t, f.SetCellValue(sheet, "B2", "DE"))
		require.NoError(t, f.SetCellValue(sheet, "C2", 49727002))
		require.NoError(t, f.SetCellValue(sheet, "D2", "SYNONYM"))
		require.NoError(t, f.SetCellValue(sheet, "E2", "Husten"))

		require.NoError(t, f.SetCellValue(sheet, "A3", "21000195113"))
		require.NoError(t, f.SetCellValue(sheet, "B3", "de"))
		require.NoError(t, f.SetCellValue(sheet, "C3", float64(49727002)))
		require.NoError(t, f.SetCellValue(sheet, "D3", true))
		require.NoError(t, f.SetCellFormula(sheet, "E3", `CONCATENATE("Hus","ten")`))
	})

	snap, err := Load(context.Background(), path, current)
	require.NoError(t, err)
	require.Len(t, snap.Records, 2)

	first := snap.Records[0]
	assert.Equal(t, "11000195115", first.DescriptionID)
	assert.Equal(t, "49727002", first.ConceptID)
	assert.Equal(t, "de", first.LanguageCode)
	assert.Equal(t, "Husten", first.Term)

	second := snap.Records[1]
	assert.Equal(t, "49727002", second.ConceptID)
	assert.Equal(t, "true", second.TypeHint)
	assert.Equal(t, `CONCATENATE("Hus","ten")`, second.Term, "formula cells keep their formula text")
}

func TestLoad_SpreadsheetUnknownSheet(t *testing.T) {
	t.Parallel()

	path := writeWorkbook(t, func(f *excelize.File, sheet string) {
		require.NoError(t, f.SetCellValue(sheet, "A1", "Description ID"))
	})

	_, err := Load(context.Background(), path, Options{Release: domain.ReleaseCurrent, Sheet: "Inactivations"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIngestion))
}

func TestCanonicalNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
	}{
		{"49727002", "49727002"},
		{"900000000000508004", "900000000000508004"},
		{"1.1000195115E10", "11000195115"},
		{"2.5", "2.5"},
		{"1E3", "1000"},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		if got := canonicalNumber(tt.raw); got != tt.want {
			t.Errorf("canonicalNumber(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
