package delta

import (
	"context"
	"fmt"

	"github.com/heartmarshall/levi/internal/domain"
)

// ---------------------------------------------------------------------------
// Full Delta
// ---------------------------------------------------------------------------

// fullDelta classifies every record of the current file against the store
// and then sweeps the refsets for active members the file dropped.
func (r *run) fullDelta(ctx context.Context) error {
	snap, err := r.load(ctx, r.settings.CurrentFile, domain.ReleaseCurrent)
	if err != nil {
		return err
	}
	records, err := r.prepare(snap)
	if err != nil {
		return err
	}

	return r.tx.RunReadOnly(ctx, func(ctx context.Context) error {
		for _, p := range records {
			if err := ctx.Err(); err != nil {
				return err
			}

			d, err := r.resolve(ctx, p)
			if err != nil {
				return err
			}

			category, ok := d.verdict.category()
			if !ok {
				continue
			}

			switch d.verdict {
			case verdictInactivation:
				err = r.c.Add(category, r.recordEntry(p, statusInactive, d.match, "marked inactive in current file"))
			case verdictChange:
				err = r.addValidated(category, r.recordEntry(p, statusActive, d.match, fmt.Sprintf("was %q", d.previous)), p.rec.Row)
			case verdictReactivation:
				err = r.addValidated(category, r.recordEntry(p, statusActive, d.match, fmt.Sprintf("description %s was inactive", d.match.ID)), p.rec.Row)
			default:
				err = r.addValidated(category, r.recordEntry(p, statusActive, nil), p.rec.Row)
			}
			if err != nil {
				return err
			}
		}

		return r.sweep(ctx, records, false)
	})
}
