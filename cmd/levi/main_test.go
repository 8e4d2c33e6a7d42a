package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/levi/internal/app"
	"github.com/heartmarshall/levi/internal/config"
)

func writeCurrent(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "current.csv")
	content := "Description ID,Language Code,Concept ID,Type,Term\n" +
		",de,49727002,SYNONYM,Husten\n" +
		",it,49727002,SYNONYM,tosse\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("LEVI_CONFIG", "")
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// --- commands ---

func TestExecute_Version(t *testing.T) {
	code, out, _ := run(t, "version")
	if code != app.ExitOK {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(out, "levi ") {
		t.Errorf("version output = %q", out)
	}
}

func TestExecute_Overview(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "reports")
	code, out, errOut := run(t, "overview", "--country", "ch", "--current", writeCurrent(t), "--dest", dest, "--log-level", "error")
	if code != app.ExitOK {
		t.Fatalf("exit code = %d, stderr: %s", code, errOut)
	}
	if !strings.Contains(out, "overview successful") {
		t.Errorf("summary = %q", out)
	}

	entries, err := os.ReadDir(dest)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("expected workbook and json, got %d files", len(entries))
	}
}

func TestExecute_ConfigurationInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing country", []string{"overview", "--country", "", "--current", "x.csv", "--dest", "out"}},
		{"missing current file", []string{"overview", "--current", "x.csv", "--dest", "out"}},
		{"missing database", []string{"translate-delta", "--country", "CH", "--current", "x.csv"}},
		{"bad timeout", []string{"overview", "--timeout", "soon"}},
		{"unknown flag", []string{"overview", "--colour"}},
		{"unknown command", []string{"translate"}},
		{"missing config file", []string{"overview", "--config", "does-not-exist.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			code, _, errOut := run(t, tt.args...)
			if code != app.ExitConfigInvalid {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, app.ExitConfigInvalid, errOut)
			}
			if errOut == "" {
				t.Error("expected a message on stderr")
			}
		})
	}
}

// --- flags ---

func TestFlags_OnlyChangedFlagsOverride(t *testing.T) {
	f := &flags{}
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	f.register(cmd)

	if err := cmd.ParseFlags([]string{"--country", "AT", "--regex=false", "--db-url", "jdbc:postgresql://h/snomed"}); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Settings.CountryCode = "CH"
	cfg.Paths.CurrentFile = "from-file.csv"
	for _, opt := range f.options(cmd) {
		opt(&cfg)
	}

	if cfg.Settings.CountryCode != "AT" {
		t.Errorf("country = %q", cfg.Settings.CountryCode)
	}
	if cfg.Settings.RegexCheck {
		t.Error("regex should be disabled")
	}
	if cfg.Database.URL != "jdbc:postgresql://h/snomed" {
		t.Errorf("db url = %q", cfg.Database.URL)
	}
	if cfg.Paths.CurrentFile != "from-file.csv" {
		t.Errorf("unset flag overrode current file: %q", cfg.Paths.CurrentFile)
	}
}
