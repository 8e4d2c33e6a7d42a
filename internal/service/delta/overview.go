package delta

import (
	"context"

	"github.com/heartmarshall/levi/internal/collector"
	"github.com/heartmarshall/levi/internal/domain"
	"github.com/heartmarshall/levi/internal/validation"
)

// ---------------------------------------------------------------------------
// Overview
// ---------------------------------------------------------------------------

// overview tallies terms, concepts and validation outcomes per local
// language of the current file. It does not touch the database.
func (r *run) overview(ctx context.Context) error {
	snap, err := r.load(ctx, r.settings.CurrentFile, domain.ReleaseCurrent)
	if err != nil {
		return err
	}
	records, err := r.prepare(snap)
	if err != nil {
		return err
	}

	checks := validation.Checks()
	type tally struct {
		summary  collector.LanguageSummary
		concepts map[string]struct{}
		flagged  map[string]int
	}
	byLang := make(map[string]*tally, len(r.languages))
	for _, lang := range r.languages {
		refsetID, _ := r.refsets.LanguageRefSetID(r.country, lang)
		byLang[lang] = &tally{
			summary:  collector.LanguageSummary{Language: lang, RefsetID: refsetID},
			concepts: make(map[string]struct{}),
			flagged:  make(map[string]int),
		}
	}

	for _, p := range records {
		if err := ctx.Err(); err != nil {
			return err
		}

		t := byLang[p.rec.LanguageCode]
		t.summary.Terms++
		t.concepts[p.rec.ConceptID] = struct{}{}

		if !r.settings.RegexCheck {
			continue
		}
		out := validation.Validate(p.rec.LanguageCode, p.rec.Term)
		if out.NeedsReview() {
			t.summary.Flagged++
		}
		for _, item := range out.Items {
			switch item.Status {
			case validation.StatusNeedsReview:
				t.flagged[item.Check]++
			case validation.StatusNotChecked:
				t.summary.NotChecked++
			}
		}
	}

	summaries := make([]collector.LanguageSummary, 0, len(r.languages))
	for _, lang := range r.languages {
		t := byLang[lang]
		t.summary.Concepts = len(t.concepts)
		if r.settings.RegexCheck {
			t.summary.Checks = make([]collector.CheckTally, len(checks))
			for i, name := range checks {
				t.summary.Checks[i] = collector.CheckTally{Check: name, NeedsReview: t.flagged[name]}
			}
		}
		summaries = append(summaries, t.summary)
	}

	return r.c.SetOverview(summaries)
}
