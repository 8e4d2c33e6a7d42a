package domain

// TermRecord is one row of a term file. Records are never modified after
// ingestion; derived values (normalized term, identity) are computed on demand.
type TermRecord struct {
	DescriptionID string
	ConceptID     string
	Term          string
	LanguageCode  string
	TypeHint      string
	// Inactive is set when the file explicitly marks the row inactive.
	Inactive bool
	Release  Release
	// Row is the 1-based source row, header included.
	Row int
}

// HasReliableID reports whether the record carries a verifiable description
// SCTID that can be matched by id across sources.
func (r TermRecord) HasReliableID() bool {
	return IsDescriptionID(r.DescriptionID)
}

// CompositeKey identifies a term by concept, language and normalized text.
// It is the identity used when no reliable description id is available.
type CompositeKey struct {
	ConceptID    string
	LanguageCode string
	Term         string
}

// NewCompositeKey builds a CompositeKey, normalizing the term text.
func NewCompositeKey(conceptID, languageCode, term string) CompositeKey {
	return CompositeKey{
		ConceptID:    conceptID,
		LanguageCode: languageCode,
		Term:         NormalizeTerm(term),
	}
}

// Description is a terminology-store description together with its
// membership state in one language reference set.
type Description struct {
	ID                string
	ConceptID         string
	LanguageCode      string
	Term              string
	TypeID            string
	ModuleID          string
	AcceptabilityID   string
	DescriptionActive bool
	MemberActive      bool
}

// IsActive reports whether the description is active and an active member
// of the reference set it was loaded for.
func (d Description) IsActive() bool {
	return d.DescriptionActive && d.MemberActive
}

// Well-known description type ids.
const (
	TypeFullySpecifiedName = "900000000000003001"
	TypeSynonym            = "900000000000013009"
	TypeDefinition         = "900000000000550004"
)

// TypeName returns a short label for a description type id, or the id itself.
func TypeName(typeID string) string {
	switch typeID {
	case TypeFullySpecifiedName:
		return "FSN"
	case TypeSynonym:
		return "SYNONYM"
	case TypeDefinition:
		return "DEFINITION"
	}
	return typeID
}
