// Package report writes the artifacts of a successful run: an xlsx workbook
// for reviewers and the JSON form of the result. Files are written to a
// temporary name in the output directory and renamed into place.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/heartmarshall/levi/internal/collector"
)

// ErrUnsuccessfulRun is returned when asked to write the result of a run
// that failed or was cancelled.
var ErrUnsuccessfulRun = errors.New("report: run was not successful")

// Artifacts holds the paths of the written files.
type Artifacts struct {
	Workbook string
	JSON     string
}

// BaseName returns the artifact name without extension:
// <job>_<yyyymmdd-hhmmss>_<first 8 characters of the run id>.
func BaseName(r *collector.Result) string {
	run := strings.ReplaceAll(r.RunID, "-", "")
	if len(run) > 8 {
		run = run[:8]
	}
	return fmt.Sprintf("%s_%s_%s", r.JobType, r.StartedAt.Format("20060102-150405"), run)
}

// Write stores the workbook and the JSON result of r in dir.
func Write(dir string, r *collector.Result) (Artifacts, error) {
	if r == nil || !r.Successful {
		return Artifacts{}, ErrUnsuccessfulRun
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Artifacts{}, fmt.Errorf("report: create output directory: %w", err)
	}

	base := BaseName(r)
	a := Artifacts{
		Workbook: filepath.Join(dir, base+".xlsx"),
		JSON:     filepath.Join(dir, base+".json"),
	}

	if err := writeAtomic(a.Workbook, func(w io.Writer) error { return writeWorkbook(w, r) }); err != nil {
		return Artifacts{}, err
	}
	if err := writeAtomic(a.JSON, func(w io.Writer) error { return writeJSON(w, r) }); err != nil {
		_ = os.Remove(a.Workbook)
		return Artifacts{}, err
	}
	return a, nil
}

func writeJSON(w io.Writer, r *collector.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return nil
}

// writeAtomic writes path through a temporary file in the same directory.
// The destination never holds a partial file.
func writeAtomic(path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".levi-*.tmp")
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("report: write %s: %w", filepath.Base(path), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", filepath.Base(path), err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
