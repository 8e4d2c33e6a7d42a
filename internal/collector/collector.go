// Package collector accumulates the outcome of one delta run. A Collector is
// append-only until Finalize, which derives the counters, stamps the elapsed
// time and freezes it. It is owned by a single run and is not safe for
// concurrent use.
package collector

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/levi/internal/domain"
	"github.com/heartmarshall/levi/internal/validation"
)

// ResultEntry is one classified term.
type ResultEntry struct {
	ConceptID     string               `json:"conceptId"`
	DescriptionID string               `json:"descriptionId,omitempty"`
	Term          string               `json:"term"`
	Language      string               `json:"language"`
	Type          string               `json:"type,omitempty"`
	Status        string               `json:"status,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Validation    []validation.Outcome `json:"validation,omitempty"`
}

// LogEntry is one diagnostic.
type LogEntry struct {
	Severity  domain.Severity `json:"severity"`
	ConceptID string          `json:"conceptId,omitempty"`
	Message   string          `json:"message"`
}

// CheckTally counts the terms one validation check flagged.
type CheckTally struct {
	Check       string `json:"check"`
	NeedsReview int    `json:"needsReview"`
}

// LanguageSummary is the overview of one local language.
type LanguageSummary struct {
	Language   string       `json:"language"`
	RefsetID   string       `json:"refsetId"`
	Terms      int          `json:"terms"`
	Concepts   int          `json:"concepts"`
	Flagged    int          `json:"flagged"`
	NotChecked int          `json:"notChecked"`
	Checks     []CheckTally `json:"checks"`
}

// Outcome tells Finalize how the run ended.
type Outcome struct {
	Err       error
	Cancelled bool
}

// Succeeded is the outcome of a run that completed.
func Succeeded() Outcome { return Outcome{} }

// Failed is the outcome of a run aborted by err.
func Failed(err error) Outcome { return Outcome{Err: err} }

// Cancelled is the outcome of a run stopped by its caller.
func Cancelled() Outcome { return Outcome{Cancelled: true} }

// Option configures a Collector.
type Option func(*Collector)

// WithRunID sets the run id instead of generating one.
func WithRunID(id string) Option {
	return func(c *Collector) { c.runID = id }
}

// Collector is the mutable aggregate of one run.
type Collector struct {
	runID     string
	job       domain.JobType
	start     time.Time
	finalized bool

	entries  map[domain.Category][]ResultEntry
	errors   []LogEntry
	warnings []LogEntry
	overview []LanguageSummary
}

// New creates a Collector for a run of job that started at start.
func New(job domain.JobType, start time.Time, opts ...Option) *Collector {
	c := &Collector{
		runID:   uuid.NewString(),
		job:     job,
		start:   start,
		entries: make(map[domain.Category][]ResultEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RunID returns the id of the run.
func (c *Collector) RunID() string { return c.runID }

// Add appends entry to the category sequence.
func (c *Collector) Add(category domain.Category, entry ResultEntry) error {
	if c.finalized {
		return domain.ErrCollectorFinalized
	}
	if !category.IsValid() {
		return fmt.Errorf("collector: unknown category %q", category)
	}
	c.entries[category] = append(c.entries[category], entry)
	return nil
}

// Warn appends a warning diagnostic.
func (c *Collector) Warn(conceptID, message string) error {
	if c.finalized {
		return domain.ErrCollectorFinalized
	}
	c.warnings = append(c.warnings, LogEntry{Severity: domain.SeverityWarning, ConceptID: conceptID, Message: message})
	return nil
}

// Error appends an error diagnostic. It records data problems; it does not
// fail the run.
func (c *Collector) Error(conceptID, message string) error {
	if c.finalized {
		return domain.ErrCollectorFinalized
	}
	c.errors = append(c.errors, LogEntry{Severity: domain.SeverityError, ConceptID: conceptID, Message: message})
	return nil
}

// SetOverview stores the per-language summary of an overview run.
func (c *Collector) SetOverview(summaries []LanguageSummary) error {
	if c.finalized {
		return domain.ErrCollectorFinalized
	}
	c.overview = summaries
	return nil
}

// Finalize freezes the collector and returns the result. On a failed outcome
// all entries are discarded; on a cancelled one they are kept, but the
// result is not successful.
func (c *Collector) Finalize(end time.Time, outcome Outcome) (*Result, error) {
	if c.finalized {
		return nil, domain.ErrCollectorFinalized
	}
	c.finalized = true

	r := &Result{
		RunID:           c.runID,
		JobType:         c.job,
		StartedAt:       c.start,
		ExecutionTimeMs: end.Sub(c.start).Milliseconds(),
		Successful:      true,
	}

	switch {
	case outcome.Err != nil:
		r.Successful = false
		r.ErrorMessage = outcome.Err.Error()
		r.ErrorKind = domain.ErrorKind(outcome.Err)
		r.fill(nil, nil, nil, nil)
		return r, nil
	case outcome.Cancelled:
		r.Successful = false
		r.Cancelled = true
		r.ErrorMessage = "run cancelled"
	}

	r.fill(c.entries, c.errors, c.warnings, c.overview)
	return r, nil
}
