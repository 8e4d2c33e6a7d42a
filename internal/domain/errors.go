package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound             = errors.New("not found")
	ErrConfigurationInvalid = errors.New("configuration invalid")
	ErrIngestion            = errors.New("ingestion error")
	ErrDatabaseUnavailable  = errors.New("database unavailable")
	ErrCollectorFinalized   = errors.New("collector already finalized")
)

// FieldError describes a configuration problem for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ConfigError contains a list of field-level configuration errors.
type ConfigError struct {
	Errors []FieldError
}

func (e *ConfigError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return fmt.Sprintf("configuration: %d errors (%s)", len(e.Errors), strings.Join(parts, "; "))
}

func (e *ConfigError) Unwrap() error { return ErrConfigurationInvalid }

// NewConfigError creates a ConfigError for a single field.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewConfigErrors creates a ConfigError from multiple field errors.
func NewConfigErrors(errs []FieldError) *ConfigError {
	return &ConfigError{Errors: errs}
}

// IngestionError reports a malformed or unreadable term file.
// Row is 1-based; zero means the error is not tied to a row.
type IngestionError struct {
	Path   string
	Row    int
	Reason string
}

func (e *IngestionError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("ingest %s: row %d: %s", e.Path, e.Row, e.Reason)
	}
	return fmt.Sprintf("ingest %s: %s", e.Path, e.Reason)
}

func (e *IngestionError) Unwrap() error { return ErrIngestion }

// ErrorKind returns a stable machine-readable name for the error category,
// or "internal" when err matches none of the sentinels.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrConfigurationInvalid):
		return "configuration_invalid"
	case errors.Is(err, ErrIngestion):
		return "ingestion"
	case errors.Is(err, ErrDatabaseUnavailable):
		return "database_unavailable"
	case errors.Is(err, ErrCollectorFinalized):
		return "collector_finalized"
	default:
		return "internal"
	}
}
