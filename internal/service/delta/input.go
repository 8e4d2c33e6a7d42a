package delta

import (
	"strings"

	"github.com/heartmarshall/levi/internal/domain"
)

// Settings holds the resolved parameters of one run.
type Settings struct {
	CountryCode      string
	TransformEszett  bool
	RegexCheck       bool
	FallbackLanguage string
	CurrentFile      string
	PreviousFile     string
}

// Validate checks the fields job needs and collects all errors.
func (s Settings) Validate(job domain.JobType) error {
	var errs []domain.FieldError

	if !job.IsValid() {
		errs = append(errs, domain.FieldError{Field: "job", Message: "unknown job type " + string(job)})
	}
	if strings.TrimSpace(s.CountryCode) == "" {
		errs = append(errs, domain.FieldError{Field: "settings.countryCode", Message: "required"})
	}
	if job.NeedsCurrentFile() && strings.TrimSpace(s.CurrentFile) == "" {
		errs = append(errs, domain.FieldError{Field: "paths.currentFile", Message: "required"})
	}
	if job.NeedsPreviousFile() && strings.TrimSpace(s.PreviousFile) == "" {
		errs = append(errs, domain.FieldError{Field: "paths.previousFile", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewConfigErrors(errs)
	}
	return nil
}
