package collector

import (
	"time"

	"github.com/heartmarshall/levi/internal/domain"
)

// Result is the frozen outcome of one run, handed to the caller and
// serialized into the report artifacts.
type Result struct {
	RunID   string         `json:"runId"`
	JobType domain.JobType `json:"jobType"`

	AdditionsCount     int `json:"additionsCount"`
	ChangesCount       int `json:"changesCount"`
	InactivationsCount int `json:"inactivationsCount"`
	ReactivationsCount int `json:"reactivationsCount"`
	NotPublishedCount  int `json:"notPublishedCount"`
	ErrorsCount        int `json:"errorsCount"`
	WarningsCount      int `json:"warningsCount"`

	StartedAt       time.Time `json:"startedAt"`
	ExecutionTimeMs int64     `json:"executionTimeMs"`
	Successful      bool      `json:"successful"`
	Cancelled       bool      `json:"cancelled"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
	ErrorKind       string    `json:"errorKind,omitempty"`

	Additions     []ResultEntry     `json:"additions"`
	Changes       []ResultEntry     `json:"changes"`
	Inactivations []ResultEntry     `json:"inactivations"`
	Reactivations []ResultEntry     `json:"reactivations"`
	NotPublished  []ResultEntry     `json:"notPublished"`
	Errors        []LogEntry        `json:"errors"`
	Warnings      []LogEntry        `json:"warnings"`
	Overview      []LanguageSummary `json:"overview,omitempty"`
}

// fill copies the sequences and derives every counter from their lengths.
// Nil inputs become empty, non-nil slices.
func (r *Result) fill(entries map[domain.Category][]ResultEntry, errs, warnings []LogEntry, overview []LanguageSummary) {
	r.Additions = cloneOrEmpty(entries[domain.CategoryAddition])
	r.Changes = cloneOrEmpty(entries[domain.CategoryChange])
	r.Inactivations = cloneOrEmpty(entries[domain.CategoryInactivation])
	r.Reactivations = cloneOrEmpty(entries[domain.CategoryReactivation])
	r.NotPublished = cloneOrEmpty(entries[domain.CategoryNotPublished])
	r.Errors = cloneOrEmpty(errs)
	r.Warnings = cloneOrEmpty(warnings)
	if len(overview) > 0 {
		r.Overview = append([]LanguageSummary(nil), overview...)
	}

	r.AdditionsCount = len(r.Additions)
	r.ChangesCount = len(r.Changes)
	r.InactivationsCount = len(r.Inactivations)
	r.ReactivationsCount = len(r.Reactivations)
	r.NotPublishedCount = len(r.NotPublished)
	r.ErrorsCount = len(r.Errors)
	r.WarningsCount = len(r.Warnings)
}

func cloneOrEmpty[T any](s []T) []T {
	return append(make([]T, 0, len(s)), s...)
}

// Entries returns the sequence of a category.
func (r *Result) Entries(category domain.Category) []ResultEntry {
	switch category {
	case domain.CategoryAddition:
		return r.Additions
	case domain.CategoryChange:
		return r.Changes
	case domain.CategoryInactivation:
		return r.Inactivations
	case domain.CategoryReactivation:
		return r.Reactivations
	case domain.CategoryNotPublished:
		return r.NotPublished
	}
	return nil
}

// ExecutionTime returns the elapsed wall-clock time of the run.
func (r *Result) ExecutionTime() time.Duration {
	return time.Duration(r.ExecutionTimeMs) * time.Millisecond
}
