package delta

import (
	"context"
	"fmt"

	"github.com/heartmarshall/levi/internal/domain"
)

// ---------------------------------------------------------------------------
// Description Additions
// ---------------------------------------------------------------------------

// additions reports every record of the current file that is not active in
// its language refset. Records matching only an inactive description are
// reported too, with the description they would revive.
func (r *run) additions(ctx context.Context) error {
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
			if p.rec.Inactive {
				continue
			}

			d, err := r.resolve(ctx, p)
			if err != nil {
				return err
			}

			switch d.verdict {
			case verdictAddition:
				err = r.addValidated(domain.CategoryAddition, r.recordEntry(p, statusActive, nil), p.rec.Row)
			case verdictReactivation:
				note := fmt.Sprintf("matches inactive description %s", d.match.ID)
				err = r.addValidated(domain.CategoryAddition, r.recordEntry(p, statusActive, d.match, note), p.rec.Row)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
}
