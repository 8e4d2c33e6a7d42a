// Package delta classifies the terms of a translation extension against the
// terminology store. Each job loads its inputs, runs inside one read-only
// database snapshot and reports into a collector.
package delta

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/heartmarshall/levi/internal/collector"
	"github.com/heartmarshall/levi/internal/domain"
	"github.com/heartmarshall/levi/internal/ingest"
	"github.com/heartmarshall/levi/internal/refset"
	"github.com/heartmarshall/levi/internal/validation"
	"github.com/heartmarshall/levi/pkg/ctxutil"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type terminologyGateway interface {
	HasActiveDescription(ctx context.Context, conceptID, refsetID, term string) (bool, error)
	IsDescriptionActive(ctx context.Context, descriptionID, refsetID string) (bool, error)
	DescriptionByID(ctx context.Context, descriptionID, refsetID string) (domain.Description, error)
	ConceptDescriptions(ctx context.Context, conceptID, refsetID string) ([]domain.Description, error)
	RefsetDescriptions(ctx context.Context, refsetID string) ([]domain.Description, error)
}

type txManager interface {
	RunReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service runs delta jobs. It holds no per-run state and may be reused.
type Service struct {
	log     *slog.Logger
	refsets *refset.Resolver
	terms   terminologyGateway
	tx      txManager
	now     func() time.Time
}

// NewService creates a new delta service. terms and tx may be nil when only
// jobs without database access (overview) are run.
func NewService(logger *slog.Logger, refsets *refset.Resolver, terms terminologyGateway, tx txManager) *Service {
	return &Service{
		log:     logger.With("service", "delta"),
		refsets: refsets,
		terms:   terms,
		tx:      tx,
		now:     time.Now,
	}
}

// Run executes job and returns its finalized result. Failures are reported
// in the result, never returned: an unsuccessful result carries no entries.
// A cancelled ctx stops the run between records and keeps partial entries.
func (s *Service) Run(ctx context.Context, job domain.JobType, settings Settings) *collector.Result {
	start := s.now()

	var opts []collector.Option
	if id, ok := ctxutil.RunIDFromCtx(ctx); ok {
		opts = append(opts, collector.WithRunID(id))
	}
	c := collector.New(job, start, opts...)
	ctx = ctxutil.WithJob(ctxutil.WithRunID(ctx, c.RunID()), string(job))

	s.log.InfoContext(ctx, "run started", slog.String("country", settings.CountryCode))

	err := s.run(ctx, c, job, settings)

	outcome := collector.Succeeded()
	switch {
	case err == nil:
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		outcome = collector.Cancelled()
	default:
		outcome = collector.Failed(err)
	}

	result, ferr := c.Finalize(s.now(), outcome)
	if ferr != nil {
		result = &collector.Result{
			RunID:        c.RunID(),
			JobType:      job,
			StartedAt:    start,
			ErrorMessage: ferr.Error(),
			ErrorKind:    domain.ErrorKind(ferr),
		}
	}

	attrs := []any{
		slog.Bool("successful", result.Successful),
		slog.Bool("cancelled", result.Cancelled),
		slog.Int("additions", result.AdditionsCount),
		slog.Int("changes", result.ChangesCount),
		slog.Int("inactivations", result.InactivationsCount),
		slog.Int("reactivations", result.ReactivationsCount),
		slog.Int("not_published", result.NotPublishedCount),
		slog.Int("errors", result.ErrorsCount),
		slog.Int("warnings", result.WarningsCount),
		slog.Duration("elapsed", result.ExecutionTime()),
	}
	if err != nil && !result.Cancelled {
		s.log.ErrorContext(ctx, "run failed", append(attrs, slog.String("error", err.Error()))...)
	} else {
		s.log.InfoContext(ctx, "run finished", attrs...)
	}

	return result
}

func (s *Service) run(ctx context.Context, c *collector.Collector, job domain.JobType, settings Settings) error {
	if err := settings.Validate(job); err != nil {
		return err
	}

	languages := s.refsets.LocalLanguages(settings.CountryCode)
	if len(languages) == 0 {
		return domain.NewConfigError("settings.countryCode",
			fmt.Sprintf("country %q has no local languages (known: %s)",
				settings.CountryCode, strings.Join(s.refsets.Countries(), ", ")))
	}

	if job.NeedsDatabase() && (s.terms == nil || s.tx == nil) {
		return domain.NewConfigError("database", fmt.Sprintf("job %s needs a terminology database", job))
	}

	r := &run{
		Service:   s,
		c:         c,
		settings:  settings,
		country:   strings.ToUpper(strings.TrimSpace(settings.CountryCode)),
		languages: languages,
		concepts:  make(map[conceptKey][]domain.Description),
	}

	switch job {
	case domain.JobOverview:
		return r.overview(ctx)
	case domain.JobDescAdditions:
		return r.additions(ctx)
	case domain.JobDescInactivate:
		return r.inactivations(ctx)
	case domain.JobFullDelta:
		return r.fullDelta(ctx)
	case domain.JobEszettCheck:
		return r.eszettCheck(ctx)
	case domain.JobNotPublished:
		return r.notPublished(ctx)
	}
	return domain.NewConfigError("job", fmt.Sprintf("unknown job type %q", job))
}

// ---------------------------------------------------------------------------
// Per-run state
// ---------------------------------------------------------------------------

type conceptKey struct {
	conceptID string
	refsetID  string
}

// run is the state of one job execution.
type run struct {
	*Service
	c         *collector.Collector
	settings  Settings
	country   string
	languages []string

	// concepts caches ConceptDescriptions for the run's snapshot.
	concepts map[conceptKey][]domain.Description
}

// prepared is a file record that passed the per-run checks.
type prepared struct {
	rec      domain.TermRecord
	refsetID string
	note     string
}

// load reads a term file and reports its row issues as warnings.
func (r *run) load(ctx context.Context, path string, release domain.Release) (*ingest.Snapshot, error) {
	snap, err := ingest.Load(ctx, path, ingest.Options{
		Release:          release,
		FallbackLanguage: r.settings.FallbackLanguage,
	})
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	for _, issue := range snap.Issues {
		msg := fmt.Sprintf("%s: %s", name, issue.Message)
		if issue.Row > 0 {
			msg = fmt.Sprintf("%s row %d: %s", name, issue.Row, issue.Message)
		}
		if err := r.c.Warn("", msg); err != nil {
			return nil, err
		}
	}

	r.log.DebugContext(ctx, "term file loaded",
		slog.String("file", name),
		slog.String("release", string(release)),
		slog.String("layout", string(snap.Layout)),
		slog.Int("records", len(snap.Records)),
		slog.Int("skipped", snap.Skipped),
	)
	return snap, nil
}

// prepare keeps records in a local language of the country, applies the
// eszett transformation and reports records that cannot be matched.
func (r *run) prepare(snap *ingest.Snapshot) ([]prepared, error) {
	name := filepath.Base(snap.Path)
	out := make([]prepared, 0, len(snap.Records))

	for _, rec := range snap.Records {
		refsetID, ok := r.refsets.LanguageRefSetID(r.country, rec.LanguageCode)
		if !ok {
			if err := r.c.Warn(rec.ConceptID, fmt.Sprintf("%s row %d: language %q is not a local language of %s; skipped",
				name, rec.Row, rec.LanguageCode, r.country)); err != nil {
				return nil, err
			}
			continue
		}

		if rec.ConceptID == "" {
			if err := r.c.Error("", fmt.Sprintf("%s row %d: %q has no concept id; skipped", name, rec.Row, rec.Term)); err != nil {
				return nil, err
			}
			continue
		}

		if !domain.IsConceptID(rec.ConceptID) {
			if err := r.c.Warn(rec.ConceptID, fmt.Sprintf("%s row %d: %q is not a valid concept id",
				name, rec.Row, rec.ConceptID)); err != nil {
				return nil, err
			}
		}

		if rec.DescriptionID != "" && !rec.HasReliableID() {
			if err := r.c.Warn(rec.ConceptID, fmt.Sprintf("%s row %d: %q is not a valid description id; matched by concept and term",
				name, rec.Row, rec.DescriptionID)); err != nil {
				return nil, err
			}
		}

		p := prepared{rec: rec, refsetID: refsetID}
		if r.transformsEszett(rec.LanguageCode) && domain.ContainsEszett(rec.Term) {
			p.rec.Term = domain.TransformEszett(rec.Term)
			p.note = "ß replaced by ss"
		}
		out = append(out, p)
	}

	return out, nil
}

func (r *run) transformsEszett(language string) bool {
	return r.settings.TransformEszett && language == "de"
}

// foldEszett applies the ß transform to German terms when it is enabled.
func (r *run) foldEszett(language, term string) string {
	if r.transformsEszett(language) {
		return domain.TransformEszett(term)
	}
	return term
}

// termKey is the comparison form of a term in language.
func (r *run) termKey(language, term string) string {
	return domain.NormalizeTerm(r.foldEszett(language, term))
}

// keyOf is the composite identity used for matching under the run settings.
func (r *run) keyOf(conceptID, language, term string) domain.CompositeKey {
	return domain.NewCompositeKey(conceptID, language, r.foldEszett(language, term))
}

// conceptDescriptions returns the refset members of a concept, cached for
// the run.
func (r *run) conceptDescriptions(ctx context.Context, conceptID, refsetID string) ([]domain.Description, error) {
	k := conceptKey{conceptID: conceptID, refsetID: refsetID}
	if descs, ok := r.concepts[k]; ok {
		return descs, nil
	}
	descs, err := r.terms.ConceptDescriptions(ctx, conceptID, refsetID)
	if err != nil {
		return nil, err
	}
	r.concepts[k] = descs
	return descs, nil
}

// descriptionByID returns the description or nil when the store does not
// know the id in the refset.
func (r *run) descriptionByID(ctx context.Context, descriptionID, refsetID string) (*domain.Description, error) {
	d, err := r.terms.DescriptionByID(ctx, descriptionID, refsetID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// resolve looks a record up in the store and classifies it. An id/composite
// disagreement is reported as an error diagnostic.
func (r *run) resolve(ctx context.Context, p prepared) (decision, error) {
	var byID *domain.Description
	if p.rec.HasReliableID() {
		d, err := r.descriptionByID(ctx, p.rec.DescriptionID, p.refsetID)
		if err != nil {
			return decision{}, err
		}
		byID = d
	}

	concept, err := r.conceptDescriptions(ctx, p.rec.ConceptID, p.refsetID)
	if err != nil {
		return decision{}, err
	}

	d := classify(p.rec, byID, concept, r.termKey)
	if d.conflict != "" {
		if err := r.c.Error(p.rec.ConceptID, fmt.Sprintf("row %d: %s", p.rec.Row, d.conflict)); err != nil {
			return decision{}, err
		}
	}
	return d, nil
}

// ---------------------------------------------------------------------------
// Entries
// ---------------------------------------------------------------------------

const (
	statusActive       = "active"
	statusInactive     = "inactive"
	statusNotPublished = "not published"
)

// recordEntry builds the entry for a file record. match, when known,
// supplies the description id and type the file lacks.
func (r *run) recordEntry(p prepared, status string, match *domain.Description, notes ...string) collector.ResultEntry {
	e := collector.ResultEntry{
		ConceptID:     p.rec.ConceptID,
		DescriptionID: p.rec.DescriptionID,
		Term:          p.rec.Term,
		Language:      p.rec.LanguageCode,
		Type:          p.rec.TypeHint,
		Status:        status,
		Notes:         joinNotes(append([]string{p.note}, notes...)...),
	}
	if match != nil {
		if e.DescriptionID == "" || !p.rec.HasReliableID() {
			e.DescriptionID = match.ID
		}
		if e.Type == "" {
			e.Type = domain.TypeName(match.TypeID)
		}
	}
	return e
}

func descriptionEntry(d domain.Description, status string, notes ...string) collector.ResultEntry {
	return collector.ResultEntry{
		ConceptID:     d.ConceptID,
		DescriptionID: d.ID,
		Term:          d.Term,
		Language:      d.LanguageCode,
		Type:          domain.TypeName(d.TypeID),
		Status:        status,
		Notes:         joinNotes(notes...),
	}
}

// addValidated validates the entry term when regex checks are enabled,
// attaches the outcomes and warns about terms that need review.
func (r *run) addValidated(category domain.Category, e collector.ResultEntry, row int) error {
	if r.settings.RegexCheck {
		out := validation.Validate(e.Language, e.Term)
		e.Validation = out.Items
		if out.NeedsReview() {
			msg := fmt.Sprintf("%q needs review: %s", e.Term, strings.Join(out.Flagged(), ", "))
			if row > 0 {
				msg = fmt.Sprintf("row %d: %s", row, msg)
			}
			if err := r.c.Warn(e.ConceptID, msg); err != nil {
				return err
			}
		}
	}
	return r.c.Add(category, e)
}

func joinNotes(notes ...string) string {
	kept := notes[:0:0]
	for _, n := range notes {
		if n != "" {
			kept = append(kept, n)
		}
	}
	return strings.Join(kept, "; ")
}
