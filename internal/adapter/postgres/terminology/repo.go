// Package terminology implements the read-only terminology gateway over the
// RF2 snapshot tables (description_s, langrefset_s) using PostgreSQL.
package terminology

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/levi/internal/adapter/postgres"
	"github.com/heartmarshall/levi/internal/domain"
)

// rf2Active is the RF2 encoding of an active component.
const rf2Active = "1"

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// descriptionRow is one description joined with its language refset member.
type descriptionRow struct {
	ID                string `db:"id"`
	ConceptID         string `db:"concept_id"`
	LanguageCode      string `db:"language_code"`
	Term              string `db:"term"`
	TypeID            string `db:"type_id"`
	ModuleID          string `db:"module_id"`
	AcceptabilityID   string `db:"acceptability_id"`
	DescriptionActive string `db:"description_active"`
	MemberActive      string `db:"member_active"`
}

func (r descriptionRow) toDomain() domain.Description {
	return domain.Description{
		ID:                r.ID,
		ConceptID:         r.ConceptID,
		LanguageCode:      r.LanguageCode,
		Term:              r.Term,
		TypeID:            r.TypeID,
		ModuleID:          r.ModuleID,
		AcceptabilityID:   r.AcceptabilityID,
		DescriptionActive: r.DescriptionActive == rf2Active,
		MemberActive:      r.MemberActive == rf2Active,
	}
}

// Repo answers terminology lookups. It never writes.
type Repo struct {
	db postgres.Querier
}

// New creates a new terminology repository. Inside TxManager.RunReadOnly the
// run's transaction is used instead of db.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// The tables may hold several RF2 versions of a component (primary key id
// plus effectivetime); only the latest version of each row counts.
const (
	latestDescription = "d.effectivetime = (SELECT max(dv.effectivetime) FROM description_s dv WHERE dv.id = d.id)"
	latestMember      = "l.effectivetime = (SELECT max(lv.effectivetime) FROM langrefset_s lv WHERE lv.id = l.id)"
)

// membersOf selects descriptions that belong to refsetID, each in its latest
// version. When a description has several members in the refset, an active
// member wins over an inactive one, then the most recent.
func membersOf(refsetID string) squirrel.SelectBuilder {
	return psql.
		Select(
			"d.id AS id",
			"d.conceptid AS concept_id",
			"d.languagecode AS language_code",
			"d.term AS term",
			"d.typeid AS type_id",
			"d.moduleid AS module_id",
			"l.acceptabilityid AS acceptability_id",
			"d.active AS description_active",
			"l.active AS member_active",
		).
		Options("DISTINCT ON (d.id)").
		From("description_s d").
		Join("langrefset_s l ON l.referencedcomponentid = d.id").
		Where(squirrel.Eq{"l.refsetid": refsetID}).
		Where(latestDescription).
		Where(latestMember).
		OrderBy("d.id", "l.active DESC", "l.effectivetime DESC")
}

func (r *Repo) selectDescriptions(ctx context.Context, q squirrel.SelectBuilder, entity, id string) ([]domain.Description, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", entity, err)
	}

	var rows []descriptionRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, sql, args...); err != nil {
		return nil, postgres.MapError(err, entity, id)
	}

	out := make([]domain.Description, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}
	return out, nil
}

// DescriptionByID returns the description with the given id as seen through
// refsetID. Returns domain.ErrNotFound if the description is not a member of
// the refset.
func (r *Repo) DescriptionByID(ctx context.Context, descriptionID, refsetID string) (domain.Description, error) {
	descs, err := r.selectDescriptions(ctx, membersOf(refsetID).Where(squirrel.Eq{"d.id": descriptionID}), "description", descriptionID)
	if err != nil {
		return domain.Description{}, err
	}
	if len(descs) == 0 {
		return domain.Description{}, fmt.Errorf("description %s: %w", descriptionID, domain.ErrNotFound)
	}
	return descs[0], nil
}

// IsDescriptionActive reports whether the description is active and an
// active member of refsetID. An unknown id is reported as inactive.
func (r *Repo) IsDescriptionActive(ctx context.Context, descriptionID, refsetID string) (bool, error) {
	d, err := r.DescriptionByID(ctx, descriptionID, refsetID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return d.IsActive(), nil
}

// ConceptDescriptions returns every member of refsetID for the concept,
// active and inactive, ordered by description id.
func (r *Repo) ConceptDescriptions(ctx context.Context, conceptID, refsetID string) ([]domain.Description, error) {
	return r.selectDescriptions(ctx, membersOf(refsetID).Where(squirrel.Eq{"d.conceptid": conceptID}), "concept", conceptID)
}

// HasActiveDescription reports whether the concept has an active description
// with the given term in refsetID. Terms are compared after normalization.
func (r *Repo) HasActiveDescription(ctx context.Context, conceptID, refsetID, term string) (bool, error) {
	descs, err := r.ConceptDescriptions(ctx, conceptID, refsetID)
	if err != nil {
		return false, err
	}
	want := domain.NormalizeTerm(term)
	for _, d := range descs {
		if d.IsActive() && domain.NormalizeTerm(d.Term) == want {
			return true, nil
		}
	}
	return false, nil
}

// RefsetDescriptions returns the active members of refsetID whose
// description is active, ordered by description id.
func (r *Repo) RefsetDescriptions(ctx context.Context, refsetID string) ([]domain.Description, error) {
	q := membersOf(refsetID).Where(squirrel.Eq{"l.active": rf2Active, "d.active": rf2Active})
	return r.selectDescriptions(ctx, q, "refset", refsetID)
}
