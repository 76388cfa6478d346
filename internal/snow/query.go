package snow

import "strings"

// Query builds a sysparm_query expression condition by condition. Conditions
// chain with AND by default; the Or variants chain with OR, which in
// ServiceNow syntax binds to the preceding condition.
type Query struct {
	parts []string
}

// NewQuery returns an empty query.
func NewQuery() *Query {
	return &Query{}
}

// OrderByAsc sorts results by the given field, ascending.
func (q *Query) OrderByAsc(field string) *Query {
	q.parts = append(q.parts, "ORDERBY"+field)
	return q
}

// Equals adds an equality condition.
func (q *Query) Equals(field, value string) *Query {
	q.parts = append(q.parts, field+"="+value)
	return q
}

// Contains adds a substring condition.
func (q *Query) Contains(field, value string) *Query {
	q.parts = append(q.parts, field+"LIKE"+value)
	return q
}

// NotContains adds a negated substring condition.
func (q *Query) NotContains(field, value string) *Query {
	q.parts = append(q.parts, field+"NOTLIKE"+value)
	return q
}

// OrContains adds a substring condition joined to the previous condition
// with OR.
func (q *Query) OrContains(field, value string) *Query {
	q.parts = append(q.parts, "OR"+field+"LIKE"+value)
	return q
}

// IsEmpty reports whether no conditions have been added.
func (q *Query) IsEmpty() bool {
	return q == nil || len(q.parts) == 0
}

// String renders the sysparm_query value.
func (q *Query) String() string {
	if q.IsEmpty() {
		return ""
	}
	return strings.Join(q.parts, "^")
}
