package ingest

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/levi/internal/domain"
)

// readSpreadsheet reads one worksheet, coercing every cell to text:
// formulas as their formula text, booleans as true/false and numbers in
// canonical decimal form.
func readSpreadsheet(ctx context.Context, path, sheet string) ([]rawRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &domain.IngestionError{Path: path, Reason: fmt.Sprintf("open workbook: %v", err)}
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, &domain.IngestionError{Path: path, Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	grid, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &domain.IngestionError{Path: path, Reason: fmt.Sprintf("read sheet %q: %v", sheet, err)}
	}

	width := 0
	for _, r := range grid {
		width = max(width, len(r))
	}

	rows := make([]rawRow, 0, len(grid))
	for r, raw := range grid {
		if r%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cells := make([]string, width)
		for c := range width {
			var value string
			if c < len(raw) {
				value = raw[c]
			}
			text, err := coerceCell(f, sheet, c+1, r+1, value)
			if err != nil {
				return nil, &domain.IngestionError{Path: path, Row: r + 1, Reason: err.Error()}
			}
			cells[c] = text
		}
		rows = append(rows, rawRow{Line: r + 1, Cells: cells})
	}

	return rows, nil
}

func coerceCell(f *excelize.File, sheet string, col, row int, raw string) (string, error) {
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}

	formula, err := f.GetCellFormula(sheet, axis)
	if err != nil {
		return "", fmt.Errorf("cell %s formula: %w", axis, err)
	}
	if formula != "" {
		return strings.TrimPrefix(formula, "="), nil
	}

	if raw == "" {
		return "", nil
	}

	typ, err := f.GetCellType(sheet, axis)
	if err != nil {
		return "", fmt.Errorf("cell %s type: %w", axis, err)
	}
	switch typ {
	case excelize.CellTypeBool:
		if raw == "1" || strings.EqualFold(raw, "true") {
			return "true", nil
		}
		return "false", nil
	case excelize.CellTypeError:
		return "", nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return canonicalNumber(raw), nil
	default:
		return raw, nil
	}
}

var integerLiteral = regexp.MustCompile(`^-?[0-9]+$`)

// canonicalNumber renders a stored numeric value as plain decimal text.
// Integer literals are returned verbatim so long identifiers keep every digit.
func canonicalNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if integerLiteral.MatchString(raw) {
		return raw
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
