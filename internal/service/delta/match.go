package delta

import (
	"context"

	"github.com/heartmarshall/levi/internal/domain"
)

// presence indexes file records by description id and composite key.
type presence struct {
	ids  map[string]bool
	keys map[domain.CompositeKey]bool
}

// presenceOf indexes the records whose Inactive flag equals inactive.
func (r *run) presenceOf(records []prepared, inactive bool) presence {
	p := presence{ids: make(map[string]bool), keys: make(map[domain.CompositeKey]bool)}
	for _, rec := range records {
		if rec.rec.Inactive != inactive {
			continue
		}
		if rec.rec.HasReliableID() {
			p.ids[rec.rec.DescriptionID] = true
		}
		p.keys[r.keyOf(rec.rec.ConceptID, rec.rec.LanguageCode, rec.rec.Term)] = true
	}
	return p
}

// presenceOfAll indexes every record regardless of its Inactive flag.
func (r *run) presenceOfAll(records []prepared) presence {
	p := r.presenceOf(records, false)
	q := r.presenceOf(records, true)
	for id := range q.ids {
		p.ids[id] = true
	}
	for k := range q.keys {
		p.keys[k] = true
	}
	return p
}

func (p presence) hasDescription(r *run, d domain.Description) bool {
	return p.ids[d.ID] || p.keys[r.keyOf(d.ConceptID, domain.NormalizeLanguage(d.LanguageCode), d.Term)]
}

func (p presence) hasRecord(r *run, rec domain.TermRecord) bool {
	if rec.HasReliableID() && p.ids[rec.DescriptionID] {
		return true
	}
	return p.keys[r.keyOf(rec.ConceptID, rec.LanguageCode, rec.Term)]
}

// activeInStore reports whether the record is published: its description
// id is active, or an active description carries its concept, language and
// term.
func (r *run) activeInStore(ctx context.Context, p prepared) (bool, error) {
	if p.rec.HasReliableID() {
		active, err := r.terms.IsDescriptionActive(ctx, p.rec.DescriptionID, p.refsetID)
		if err != nil || active {
			return active, err
		}
	}

	if !r.transformsEszett(p.rec.LanguageCode) {
		return r.terms.HasActiveDescription(ctx, p.rec.ConceptID, p.refsetID, p.rec.Term)
	}

	// Stored terms may still spell ß; compare under the run's term key.
	concept, err := r.conceptDescriptions(ctx, p.rec.ConceptID, p.refsetID)
	if err != nil {
		return false, err
	}
	m := matchComposite(p.rec, concept, r.termKey)
	return m != nil && m.IsActive(), nil
}
