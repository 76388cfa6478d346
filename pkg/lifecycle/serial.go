package lifecycle

import (
	"regexp"
	"strings"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

// serialJunk matches every character the vendor APIs reject in serial
// numbers. Operators paste serials with stray whitespace, dots, and
// asterisks; only letters, digits, and hyphens survive.
var serialJunk = regexp.MustCompile(`[^-a-zA-Z0-9]+`)

// placeholderSerials are values operators leave in the CMDB serial field
// when the real serial is unknown. They must never reach a vendor API.
var placeholderSerials = map[string]struct{}{
	"N/A":     {},
	"NA":      {},
	"TBD":     {},
	"UNKNOWN": {},
}

// CleanSerial strips characters that are not letters, digits, or hyphens.
// The cleaned form is what gets sent to vendors and written back to the
// CMDB when it differs from the stored value.
func CleanSerial(s string) string {
	return serialJunk.ReplaceAllString(s, "")
}

// Key returns the canonical matching key for a serial: cleaned and
// upper-cased. CMDB records and vendor responses join on this key, so
// " abc123 " and "ABC123" refer to the same device.
func Key(s string) string {
	return strings.ToUpper(CleanSerial(s))
}

// ValidateSerial reports whether a CMDB serial can be sent to a vendor API.
// Empty and placeholder values fail with ErrInvalidSerial.
func ValidateSerial(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return errors.ErrInvalidSerial
	}
	if _, ok := placeholderSerials[strings.ToUpper(trimmed)]; ok {
		return errors.ErrInvalidSerial
	}
	if CleanSerial(trimmed) == "" {
		return errors.ErrInvalidSerial
	}
	return nil
}
