package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/heartmarshall/levi/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// readDelimited reads a delimited text file. Input that is not valid UTF-8
// is decoded as Windows-1252, the encoding spreadsheet exports default to.
func readDelimited(ctx context.Context, path string, tab bool) ([]rawRow, []Issue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &domain.IngestionError{Path: path, Reason: err.Error()}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var issues []Issue
	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, nil, &domain.IngestionError{Path: path, Reason: fmt.Sprintf("decode windows-1252: %v", err)}
		}
		data = decoded
		issues = append(issues, Issue{Message: "file is not valid UTF-8; decoded as Windows-1252"})
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // allow variable column count
	reader.LazyQuotes = true
	if tab {
		reader.Comma = '\t'
	} else {
		reader.Comma = sniffDelimiter(data)
	}

	var rows []rawRow
	for n := 0; ; n++ {
		if n%contextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				return nil, nil, &domain.IngestionError{Path: path, Row: pe.Line, Reason: pe.Err.Error()}
			}
			return nil, nil, &domain.IngestionError{Path: path, Reason: err.Error()}
		}

		line, _ := reader.FieldPos(0)
		rows = append(rows, rawRow{Line: line, Cells: record})
	}

	return rows, issues, nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the
// first line, ignoring quoted text. Comma wins ties.
func sniffDelimiter(data []byte) rune {
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		data = data[:i]
	}

	counts := map[rune]int{}
	inQuotes := false
	for _, r := range string(data) {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case !inQuotes && (r == ',' || r == ';' || r == '\t'):
			counts[r]++
		}
	}

	best := ','
	for _, r := range []rune{';', '\t'} {
		if counts[r] > counts[best] {
			best = r
		}
	}
	return best
}
