package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/levi/internal/collector"
	"github.com/heartmarshall/levi/internal/domain"
	"github.com/heartmarshall/levi/internal/validation"
)

// Sheet names, in workbook order.
const (
	SheetSummary       = "Summary"
	SheetAdditions     = "Additions"
	SheetChanges       = "Changes"
	SheetInactivations = "Inactivations"
	SheetReactivations = "Reactivations"
	SheetNotPublished  = "NotPublished"
	SheetOverview      = "Overview"
	SheetErrors        = "Errors"
	SheetWarnings      = "Warnings"
)

var entrySheets = []struct {
	name     string
	category domain.Category
}{
	{SheetAdditions, domain.CategoryAddition},
	{SheetChanges, domain.CategoryChange},
	{SheetInactivations, domain.CategoryInactivation},
	{SheetReactivations, domain.CategoryReactivation},
	{SheetNotPublished, domain.CategoryNotPublished},
}

var entryHeader = []string{"Concept ID", "Description ID", "Term", "Language", "Type", "Status", "Notes"}

// workbook wraps an excelize file with the header style.
type workbook struct {
	f      *excelize.File
	header int
}

func writeWorkbook(w io.Writer, r *collector.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	wb := &workbook{f: f, header: header}

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}
	if err := wb.summary(r); err != nil {
		return err
	}
	for _, s := range entrySheets {
		if err := wb.entries(s.name, r.Entries(s.category)); err != nil {
			return err
		}
	}
	if err := wb.overview(r.Overview); err != nil {
		return err
	}
	if err := wb.log(SheetErrors, r.Errors); err != nil {
		return err
	}
	if err := wb.log(SheetWarnings, r.Warnings); err != nil {
		return err
	}

	return f.Write(w)
}

// sheet creates name unless it exists and writes the bold header row.
func (wb *workbook) sheet(name string, header []string) error {
	if idx, _ := wb.f.GetSheetIndex(name); idx < 0 {
		if _, err := wb.f.NewSheet(name); err != nil {
			return err
		}
	}
	if err := wb.row(name, 1, toAny(header)); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(name, "A1", last, wb.header)
}

func (wb *workbook) row(name string, n int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	return wb.f.SetSheetRow(name, cell, &values)
}

func (wb *workbook) summary(r *collector.Result) error {
	if err := wb.sheet(SheetSummary, []string{"Field", "Value"}); err != nil {
		return err
	}
	rows := [][]any{
		{"Run ID", r.RunID},
		{"Job", string(r.JobType)},
		{"Started", r.StartedAt.Format("2006-01-02 15:04:05")},
		{"Execution time (ms)", r.ExecutionTimeMs},
		{"Successful", r.Successful},
		{"Additions", r.AdditionsCount},
		{"Changes", r.ChangesCount},
		{"Inactivations", r.InactivationsCount},
		{"Reactivations", r.ReactivationsCount},
		{"Not published", r.NotPublishedCount},
		{"Errors", r.ErrorsCount},
		{"Warnings", r.WarningsCount},
	}
	for i, values := range rows {
		if err := wb.row(SheetSummary, i+2, values); err != nil {
			return err
		}
	}
	return wb.f.SetColWidth(SheetSummary, "A", "B", 24)
}

// entries writes one category. Validated entries get one column per check
// holding the legacy "OK"/"Please check" value.
func (wb *workbook) entries(name string, entries []collector.ResultEntry) error {
	validated := false
	for _, e := range entries {
		if len(e.Validation) > 0 {
			validated = true
			break
		}
	}

	header := entryHeader
	if validated {
		header = append(append([]string(nil), entryHeader...), validation.Checks()...)
	}
	if err := wb.sheet(name, header); err != nil {
		return err
	}

	for i, e := range entries {
		values := []any{e.ConceptID, e.DescriptionID, e.Term, e.Language, e.Type, e.Status, e.Notes}
		if len(e.Validation) > 0 {
			values = append(values, toAny(validation.Outcomes{Language: e.Language, Items: e.Validation}.Legacy())...)
		}
		if err := wb.row(name, i+2, values); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}

func (wb *workbook) overview(summaries []collector.LanguageSummary) error {
	header := append([]string{"Language", "Refset ID", "Terms", "Concepts", "Flagged", "Not checked"}, validation.Checks()...)
	if err := wb.sheet(SheetOverview, header); err != nil {
		return err
	}

	for i, s := range summaries {
		values := []any{s.Language, s.RefsetID, s.Terms, s.Concepts, s.Flagged, s.NotChecked}
		for _, c := range s.Checks {
			values = append(values, c.NeedsReview)
		}
		if err := wb.row(SheetOverview, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) log(name string, entries []collector.LogEntry) error {
	if err := wb.sheet(name, []string{"#", "Severity", "Concept ID", "Message"}); err != nil {
		return err
	}
	for i, e := range entries {
		values := []any{i + 1, string(e.Severity), e.ConceptID, e.Message}
		if err := wb.row(name, i+2, values); err != nil {
			return err
		}
	}
	return wb.f.SetColWidth(name, "D", "D", 80)
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
