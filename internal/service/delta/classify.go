package delta

import (
	"fmt"

	"github.com/heartmarshall/levi/internal/domain"
)

// verdict is the single classification of a file record.
type verdict int

const (
	verdictUnchanged verdict = iota
	verdictAddition
	verdictChange
	verdictInactivation
	verdictReactivation
)

func (v verdict) String() string {
	switch v {
	case verdictAddition:
		return "addition"
	case verdictChange:
		return "change"
	case verdictInactivation:
		return "inactivation"
	case verdictReactivation:
		return "reactivation"
	}
	return "unchanged"
}

// category maps a verdict to the collector sequence it belongs to.
func (v verdict) category() (domain.Category, bool) {
	switch v {
	case verdictAddition:
		return domain.CategoryAddition, true
	case verdictChange:
		return domain.CategoryChange, true
	case verdictInactivation:
		return domain.CategoryInactivation, true
	case verdictReactivation:
		return domain.CategoryReactivation, true
	}
	return "", false
}

// decision is the outcome of classify.
type decision struct {
	verdict verdict
	// match is the stored description the record resolved to, if any.
	match *domain.Description
	// previous is the stored term a change replaces.
	previous string
	// conflict describes an id/composite disagreement; the id verdict stands.
	conflict string
}

// classify resolves a record against the store. byID is the description
// with the record's id (nil when the id is unreliable or unknown); concept
// holds every refset member of the record's concept. termKey gives the
// comparison form of a term.
//
// Rules, in order:
//  1. id known: file marks it inactive and it is active => inactivation;
//     stored inactive => reactivation; different term => change; else unchanged.
//  2. id unknown: file marks it inactive and a composite match is active =>
//     inactivation; no composite match => addition; only an inactive match =>
//     reactivation; else unchanged.
func classify(rec domain.TermRecord, byID *domain.Description, concept []domain.Description, termKey func(language, term string) string) decision {
	composite := matchComposite(rec, concept, termKey)

	if byID != nil {
		d := decision{verdict: verdictUnchanged, match: byID}
		switch {
		case rec.Inactive:
			if byID.IsActive() {
				d.verdict = verdictInactivation
			}
		case !byID.IsActive():
			d.verdict = verdictReactivation
		case termKey(rec.LanguageCode, byID.Term) != termKey(rec.LanguageCode, rec.Term):
			d.verdict = verdictChange
			d.previous = byID.Term
		}

		switch {
		case byID.ConceptID != rec.ConceptID:
			d.conflict = fmt.Sprintf("description %s belongs to concept %s, file says %s; classified as %s by id",
				byID.ID, byID.ConceptID, rec.ConceptID, d.verdict)
		case composite != nil && composite.ID != byID.ID && composite.IsActive() && !rec.Inactive:
			d.conflict = fmt.Sprintf("term %q of description %s is also active as description %s; classified as %s by id",
				rec.Term, byID.ID, composite.ID, d.verdict)
		}
		return d
	}

	d := decision{match: composite}
	switch {
	case rec.Inactive:
		if composite != nil && composite.IsActive() {
			d.verdict = verdictInactivation
		}
	case composite == nil:
		d.verdict = verdictAddition
	case composite.IsActive():
		d.verdict = verdictUnchanged
	default:
		d.verdict = verdictReactivation
	}

	if composite != nil && rec.HasReliableID() && composite.ID != rec.DescriptionID {
		d.conflict = fmt.Sprintf("description %s is unknown but its term matches description %s; classified as %s by concept and term",
			rec.DescriptionID, composite.ID, d.verdict)
	}
	return d
}

// matchComposite finds the stored description with the record's concept,
// language and term. Active matches win over inactive ones.
func matchComposite(rec domain.TermRecord, concept []domain.Description, termKey func(language, term string) string) *domain.Description {
	want := termKey(rec.LanguageCode, rec.Term)

	var found *domain.Description
	for i := range concept {
		d := &concept[i]
		if d.ConceptID != rec.ConceptID || domain.NormalizeLanguage(d.LanguageCode) != rec.LanguageCode {
			continue
		}
		if termKey(rec.LanguageCode, d.Term) != want {
			continue
		}
		if d.IsActive() {
			return d
		}
		if found == nil {
			found = d
		}
	}
	return found
}
