// Package constants provides shared constants used throughout warranty-sync.
// This includes timeouts, vendor batch limits, file permissions, and other
// values that should be consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to vendor APIs
	DefaultHTTPTimeout = 30 * time.Second

	// VerifyTimeout is the timeout for verifying one API session at startup
	VerifyTimeout = 2 * time.Minute

	// RunTimeout caps a full sync run; a weekly job that runs longer than
	// this is stuck, not slow
	RunTimeout = 2 * time.Hour
)

// Vendor batch limits. Each value is the documented request ceiling of the
// corresponding endpoint; batches are never mixed across vendors.
const (
	// CiscoCoverageBatchSize is the maximum serial numbers per Cisco
	// coverage summary request
	CiscoCoverageBatchSize = 75

	// CiscoEOXBatchSize is the maximum serial numbers per Cisco EOX request
	CiscoEOXBatchSize = 20

	// DellBatchSize is the maximum service tags per Dell asset-entitlements
	// request
	DellBatchSize = 100

	// MerakiPageSize is the page size for Meraki organization license listings
	MerakiPageSize = 1000

	// SnowPageSize is the page size for ServiceNow Table API reads
	SnowPageSize = 1000
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0o755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0o644
)

// Format constants
const (
	// DateFormat is the canonical date form for CMDB writes and comparisons
	DateFormat = "2006-01-02"

	// TimeFormatFilename is the format used in generated report filenames
	TimeFormatFilename = "20060102-150405"
)
