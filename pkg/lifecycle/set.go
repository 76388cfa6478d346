package lifecycle

import "sort"

// Set indexes normalized records by canonical serial key and guarantees at
// most one record per serial. Vendors routinely return several records for
// one device: Dell reports one entry per entitlement line item, and Cisco
// answers warranty and EOX queries separately. The Set resolves collisions
// so downstream code never sees a duplicate.
//
// Collisions resolve per field group, not per record. The warranty group
// (coverage flag, service level, start, end) follows the latest coverage
// end date; the end-of-life group follows the latest last-day-of-support.
// A group absent from one side is filled from the other, which is how a
// warranty-only record and an EOX-only record merge into one. When the
// deciding dates tie or are both missing, the earlier-added record wins,
// keeping resolution stable in vendor response order.
type Set struct {
	records map[string]*Record
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{records: make(map[string]*Record)}
}

// Add inserts a record, resolving serial collisions group-wise.
func (s *Set) Add(rec Record) {
	key := Key(rec.Serial)
	if key == "" {
		// Unkeyable records can never match a CMDB row.
		return
	}

	existing, ok := s.records[key]
	if !ok {
		r := rec
		s.records[key] = &r
		return
	}

	if rec.hasWarrantyGroup() {
		if !existing.hasWarrantyGroup() || strictlyLater(rec.WarrantyEnd, existing.WarrantyEnd) {
			existing.takeWarrantyGroup(rec)
		}
	}

	if rec.hasEOLGroup() {
		if !existing.hasEOLGroup() || strictlyLater(rec.LastDayOfSupport, existing.LastDayOfSupport) {
			existing.takeEOLGroup(rec)
		}
	}
}

// strictlyLater reports whether candidate is a real date strictly after
// incumbent. A nil candidate never wins; a nil incumbent loses to any date.
func strictlyLater(candidate, incumbent *Date) bool {
	if candidate == nil {
		return false
	}
	if incumbent == nil {
		return true
	}
	return candidate.After(*incumbent)
}

// AddAll inserts records in order.
func (s *Set) AddAll(recs []Record) {
	for _, rec := range recs {
		s.Add(rec)
	}
}

// Get returns the record for a serial, matching case-insensitively on the
// cleaned form.
func (s *Set) Get(serial string) (Record, bool) {
	rec, ok := s.records[Key(serial)]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// Len returns the number of distinct serials in the set.
func (s *Set) Len() int {
	return len(s.records)
}

// Keys returns the canonical serial keys in sorted order.
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
