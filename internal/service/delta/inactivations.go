package delta

import (
	"context"

	"github.com/heartmarshall/levi/internal/domain"
)

// ---------------------------------------------------------------------------
// Description Inactivations
// ---------------------------------------------------------------------------

// inactivations reports every active refset member of the country's local
// languages that the current file no longer carries or marks inactive.
func (r *run) inactivations(ctx context.Context) error {
	snap, err := r.load(ctx, r.settings.CurrentFile, domain.ReleaseCurrent)
	if err != nil {
		return err
	}
	records, err := r.prepare(snap)
	if err != nil {
		return err
	}

	return r.tx.RunReadOnly(ctx, func(ctx context.Context) error {
		return r.sweep(ctx, records, true)
	})
}

// sweep walks the active members of every local language refset. Members
// absent from records are inactivations. Members the file marks inactive
// are reported only when reportMarked is set; Full Delta has already
// classified them.
func (r *run) sweep(ctx context.Context, records []prepared, reportMarked bool) error {
	active := r.presenceOf(records, false)
	marked := r.presenceOf(records, true)

	for _, lang := range r.languages {
		refsetID, _ := r.refsets.LanguageRefSetID(r.country, lang)

		members, err := r.terms.RefsetDescriptions(ctx, refsetID)
		if err != nil {
			return err
		}

		for _, d := range members {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.IsActive() || active.hasDescription(r, d) {
				continue
			}

			if marked.hasDescription(r, d) {
				if !reportMarked {
					continue
				}
				if err := r.c.Add(domain.CategoryInactivation, descriptionEntry(d, statusInactive, "marked inactive in current file")); err != nil {
					return err
				}
				continue
			}

			if err := r.c.Add(domain.CategoryInactivation, descriptionEntry(d, statusInactive, "missing from current file")); err != nil {
				return err
			}
		}
	}
	return nil
}
