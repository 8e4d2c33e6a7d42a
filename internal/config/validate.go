package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/levi/internal/domain"
)

// Validate checks settings shared by every job. It creates the output
// directory when it does not exist. Load calls it automatically.
func (c *Config) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(c.Paths.OutputDirectory) == "" {
		errs = append(errs, domain.FieldError{Field: "paths.outputDirectory", Message: "required"})
	} else if err := os.MkdirAll(c.Paths.OutputDirectory, 0o755); err != nil {
		errs = append(errs, domain.FieldError{Field: "paths.outputDirectory", Message: err.Error()})
	}

	if c.Database.MaxConns < 1 {
		errs = append(errs, domain.FieldError{Field: "database.maxConns", Message: fmt.Sprintf("must be >= 1 (got %d)", c.Database.MaxConns)})
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, domain.FieldError{Field: "log.format", Message: fmt.Sprintf("must be json or text (got %q)", c.Log.Format)})
	}

	timeout, err := ParseTimeout(c.TimeoutRaw)
	if err != nil {
		errs = append(errs, domain.FieldError{Field: "timeout", Message: err.Error()})
	}
	c.Timeout = timeout

	if len(errs) > 0 {
		return domain.NewConfigErrors(errs)
	}
	return nil
}

// ValidateFor checks the settings a specific job needs: a country code, a
// database URL for jobs that query the terminology store, and existing input
// files.
func (c *Config) ValidateFor(job domain.JobType) error {
	if !job.IsValid() {
		return domain.NewConfigError("job", fmt.Sprintf("unknown job type %q", job))
	}

	var errs []domain.FieldError

	if strings.TrimSpace(c.Settings.CountryCode) == "" {
		errs = append(errs, domain.FieldError{Field: "settings.countryCode", Message: "required"})
	}

	if job.NeedsDatabase() {
		if strings.TrimSpace(c.Database.URL) == "" {
			errs = append(errs, domain.FieldError{Field: "database.url", Message: "required"})
		} else if _, err := c.Database.ConnString(); err != nil {
			errs = append(errs, domain.FieldError{Field: "database.url", Message: err.Error()})
		}
	}

	if job.NeedsCurrentFile() {
		errs = appendFileError(errs, "paths.currentFile", c.Paths.CurrentFile)
	}
	if job.NeedsPreviousFile() {
		errs = appendFileError(errs, "paths.previousFile", c.Paths.PreviousFile)
	}

	if len(errs) > 0 {
		return domain.NewConfigErrors(errs)
	}
	return nil
}

func appendFileError(errs []domain.FieldError, field, path string) []domain.FieldError {
	if strings.TrimSpace(path) == "" {
		return append(errs, domain.FieldError{Field: field, Message: "required"})
	}
	info, err := os.Stat(path)
	if err != nil {
		return append(errs, domain.FieldError{Field: field, Message: fmt.Sprintf("%s does not exist", path)})
	}
	if info.IsDir() {
		return append(errs, domain.FieldError{Field: field, Message: fmt.Sprintf("%s is a directory", path)})
	}
	return errs
}

// ParseTimeout parses a run timeout such as "30m". Empty and "0" mean no limit.
func ParseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("must be >= 0 (got %v)", d)
	}
	return d, nil
}
