// Package refset maps countries and their local languages to SNOMED CT
// language reference sets. The table is immutable once a Resolver is built.
package refset

import (
	"maps"
	"slices"
	"strings"
)

// Table maps an upper-case country code to language code → refset id.
type Table map[string]map[string]string

// DefaultTable returns the built-in country → language → refset table.
func DefaultTable() Table {
	return Table{
		"AT": {"de": "21000234103"},
		"AU": {"en": "32570271000036106"},
		"BE": {"fr": "21000172104", "nl": "31000172101"},
		"GB": {"en": "900000000000508004"},
		"US": {"en": "900000000000509007"},
		"NZ": {"en": "271000210107"},
		"IE": {"en": "21000220103"},
		"DK": {"da": "554461000005103"},
		"FR": {"fr": "10031000315102"},
		"CH": {"de": "2041000195100", "fr": "2021000195106", "it": "2031000195108"},
		"NO": {"no": "61000202103"},
		"EE": {"et": "71000181105"},
		"KR": {"kr": "21000267104"},
		"NL": {"nl": "31000146106"},
		"SE": {"sv": "46011000052107"},
	}
}

// Resolver answers language reference set lookups. Keys are matched
// case-insensitively. A Resolver is safe for concurrent use.
type Resolver struct {
	table Table
}

// NewResolver copies table into a new Resolver, normalizing key case.
func NewResolver(table Table) *Resolver {
	t := make(Table, len(table))
	for country, langs := range table {
		m := make(map[string]string, len(langs))
		for lang, id := range langs {
			m[normLang(lang)] = id
		}
		t[normCountry(country)] = m
	}
	return &Resolver{table: t}
}

// Default returns a Resolver over DefaultTable.
func Default() *Resolver {
	return NewResolver(DefaultTable())
}

// LanguageRefSetID returns the refset id for the country and language.
func (r *Resolver) LanguageRefSetID(country, language string) (string, bool) {
	id, ok := r.table[normCountry(country)][normLang(language)]
	return id, ok
}

// LocalLanguages returns the sorted language codes of a country.
// Unknown countries yield an empty slice.
func (r *Resolver) LocalLanguages(country string) []string {
	langs := r.table[normCountry(country)]
	return slices.Sorted(maps.Keys(langs))
}

// IsLocalLanguage reports whether language is a local language of country.
func (r *Resolver) IsLocalLanguage(country, language string) bool {
	_, ok := r.LanguageRefSetID(country, language)
	return ok
}

// Countries returns the sorted country codes known to the resolver.
func (r *Resolver) Countries() []string {
	return slices.Sorted(maps.Keys(r.table))
}

func normCountry(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
func normLang(s string) string    { return strings.ToLower(strings.TrimSpace(s)) }
