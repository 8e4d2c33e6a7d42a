package delta

import (
	"context"

	"github.com/heartmarshall/levi/internal/domain"
)

// ---------------------------------------------------------------------------
// Not-Published
// ---------------------------------------------------------------------------

// notPublished reports records of the previous file that are missing from
// the current file and are not active in the store either: terms that were
// delivered once and then lost before publication.
func (r *run) notPublished(ctx context.Context) error {
	current, err := r.load(ctx, r.settings.CurrentFile, domain.ReleaseCurrent)
	if err != nil {
		return err
	}
	previous, err := r.load(ctx, r.settings.PreviousFile, domain.ReleasePrevious)
	if err != nil {
		return err
	}

	currentRecords, err := r.prepare(current)
	if err != nil {
		return err
	}
	previousRecords, err := r.prepare(previous)
	if err != nil {
		return err
	}

	inCurrent := r.presenceOfAll(currentRecords)

	return r.tx.RunReadOnly(ctx, func(ctx context.Context) error {
		for _, p := range previousRecords {
			if err := ctx.Err(); err != nil {
				return err
			}
			if inCurrent.hasRecord(r, p.rec) {
				continue
			}

			active, err := r.activeInStore(ctx, p)
			if err != nil {
				return err
			}
			if active {
				continue
			}

			entry := r.recordEntry(p, statusNotPublished, nil, "missing from current file and not active in the terminology store")
			if err := r.c.Add(domain.CategoryNotPublished, entry); err != nil {
				return err
			}
		}
		return nil
	})
}
