// Package validation applies orthographic rules to translated terms.
// Validate is a pure function; the order of outcomes is part of its contract.
package validation

import (
	"regexp"
	"strings"
)

// Status is the result of a single check.
type Status string

const (
	StatusPass        Status = "PASS"
	StatusNeedsReview Status = "NEEDS_REVIEW"
	// StatusNotChecked marks a language without locale rules. It is informational.
	StatusNotChecked Status = "NOT_CHECKED"
)

// Check names, in evaluation order.
const (
	CheckQuotes         = "quotes"
	CheckSoftHyphen     = "soft-hyphen"
	CheckSlashSpacing   = "slash-spacing"
	CheckApostrophe     = "apostrophe"
	CheckCapitalization = "capitalization"
)

// Checks returns the check names in evaluation order.
func Checks() []string {
	return []string{CheckQuotes, CheckSoftHyphen, CheckSlashSpacing, CheckApostrophe, CheckCapitalization}
}

// Legacy report values.
const (
	LegacyOK          = "OK"
	LegacyPleaseCheck = "Please check"
	LegacyNotChecked  = "language code not recognized and therefore not checked"
)

var (
	upperStart  = regexp.MustCompile(`^\p{Lu}`)
	quotes      = regexp.MustCompile(`["“”„]`)
	softHyphen  = regexp.MustCompile(`\x{00AD}`)
	slashSpaced = regexp.MustCompile(`\s/\s|\s/|/\s`)
	apostrophe  = regexp.MustCompile("//`")
)

var universal = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{CheckQuotes, quotes},
	{CheckSoftHyphen, softHyphen},
	{CheckSlashSpacing, slashSpaced},
	{CheckApostrophe, apostrophe},
}

// Outcome is the result of one named check.
type Outcome struct {
	Check  string `json:"check"`
	Status Status `json:"status"`
}

// Outcomes is the ordered result of Validate.
type Outcomes struct {
	Language string
	Items    []Outcome
}

// Validate runs the universal checks followed by the locale check for
// language. Universal checks fail when their pattern matches. German terms
// must start upper-case; French and Italian terms must not.
func Validate(language, term string) Outcomes {
	language = strings.ToLower(strings.TrimSpace(language))
	items := make([]Outcome, 0, len(universal)+1)

	for _, u := range universal {
		items = append(items, Outcome{Check: u.name, Status: statusFor(!u.pattern.MatchString(term))})
	}

	startsUpper := upperStart.MatchString(term)
	switch language {
	case "de":
		items = append(items, Outcome{Check: CheckCapitalization, Status: statusFor(startsUpper)})
	case "fr", "it":
		items = append(items, Outcome{Check: CheckCapitalization, Status: statusFor(!startsUpper)})
	default:
		items = append(items, Outcome{Check: CheckCapitalization, Status: StatusNotChecked})
	}

	return Outcomes{Language: language, Items: items}
}

func statusFor(pass bool) Status {
	if pass {
		return StatusPass
	}
	return StatusNeedsReview
}

// NeedsReview reports whether any check needs review.
func (o Outcomes) NeedsReview() bool {
	for _, it := range o.Items {
		if it.Status == StatusNeedsReview {
			return true
		}
	}
	return false
}

// Flagged returns the names of checks that need review, in order.
func (o Outcomes) Flagged() []string {
	var names []string
	for _, it := range o.Items {
		if it.Status == StatusNeedsReview {
			names = append(names, it.Check)
		}
	}
	return names
}

// Legacy renders outcomes as the report strings used by earlier tooling:
// "OK", "Please check" or the not-recognized sentinel.
func (o Outcomes) Legacy() []string {
	out := make([]string, len(o.Items))
	for i, it := range o.Items {
		switch it.Status {
		case StatusPass:
			out[i] = LegacyOK
		case StatusNeedsReview:
			out[i] = LegacyPleaseCheck
		default:
			out[i] = LegacyNotChecked
		}
	}
	return out
}
