// Package reconcile screens CMDB assets and computes the minimal field-level
// patches that bring them in line with vendor lifecycle data.
package reconcile

import (
	"fmt"
	"strings"
)

// FieldChange records one field moving from its stored value to the vendor
// value.
type FieldChange struct {
	Field    string
	OldValue string
	NewValue string
}

// Patch is the minimal update for one asset: only the fields whose canonical
// values differ from what the vendor reports.
type Patch struct {
	SysID   string
	Name    string
	Serial  string
	Changes []FieldChange
}

// Fields returns the changes as a field→value map for the Table API writer.
func (p *Patch) Fields() map[string]string {
	fields := make(map[string]string, len(p.Changes))
	for _, c := range p.Changes {
		fields[c.Field] = c.NewValue
	}
	return fields
}

// IsEmpty reports whether the patch carries no changes.
func (p *Patch) IsEmpty() bool {
	return len(p.Changes) == 0
}

// String returns a human-readable one-liner for logs.
func (p *Patch) String() string {
	if p.IsEmpty() {
		return fmt.Sprintf("%s: no changes", p.Name)
	}

	parts := make([]string, 0, len(p.Changes))
	for _, c := range p.Changes {
		parts = append(parts, fmt.Sprintf("%s: %q → %q", c.Field, c.OldValue, c.NewValue))
	}
	return fmt.Sprintf("%s: %s", p.Name, strings.Join(parts, ", "))
}
