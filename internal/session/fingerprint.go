package session

import "reflect"

// Fingerprint identifies one backend question: field selector, term, and the
// opaque filter/sort clause lists. Two fingerprints are equal iff the backend
// would be asked an identical question.
type Fingerprint struct {
	Field   string
	Term    string
	Filters []any
	Sort    []any
}

// NewFingerprint builds a fingerprint, normalizing nil clause lists to empty
// ones so freshly allocated empty slices compare equal to absent ones.
func NewFingerprint(field, term string, filters, sort []any) Fingerprint {
	if filters == nil {
		filters = []any{}
	}
	if sort == nil {
		sort = []any{}
	}
	return Fingerprint{Field: field, Term: term, Filters: filters, Sort: sort}
}

// Equal compares fingerprints structurally. Filter and sort clauses are
// decoded JSON value trees, so deep equality is key-order independent and
// never trips on identity of freshly allocated but identical structures.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.Field == other.Field &&
		f.Term == other.Term &&
		reflect.DeepEqual(f.Filters, other.Filters) &&
		reflect.DeepEqual(f.Sort, other.Sort)
}
