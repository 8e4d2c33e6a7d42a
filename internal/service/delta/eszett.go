package delta

import (
	"context"
	"fmt"

	"github.com/heartmarshall/levi/internal/domain"
)

// ---------------------------------------------------------------------------
// Eszett Check
// ---------------------------------------------------------------------------

const germanLanguage = "de"

// eszettCheck emits one warning per active German description containing ß,
// proposing the ss spelling. No input file is read.
func (r *run) eszettCheck(ctx context.Context) error {
	refsetID, ok := r.refsets.LanguageRefSetID(r.country, germanLanguage)
	if !ok {
		return r.c.Warn("", fmt.Sprintf("country %s has no German language refset; nothing to check", r.country))
	}

	return r.tx.RunReadOnly(ctx, func(ctx context.Context) error {
		descs, err := r.terms.RefsetDescriptions(ctx, refsetID)
		if err != nil {
			return err
		}

		for _, d := range descs {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.IsActive() || domain.NormalizeLanguage(d.LanguageCode) != germanLanguage || !domain.ContainsEszett(d.Term) {
				continue
			}

			msg := fmt.Sprintf("description %s %q contains ß; replace with %q", d.ID, d.Term, domain.TransformEszett(d.Term))
			if err := r.c.Warn(d.ConceptID, msg); err != nil {
				return err
			}
		}
		return nil
	})
}
