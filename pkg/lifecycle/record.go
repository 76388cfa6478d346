package lifecycle

// Manufacturer identifies which CMDB pass a device belongs to. Cisco and
// Meraki are separate passes even though Meraki is a Cisco company: their
// devices live under different manufacturer names and different APIs answer
// for them.
type Manufacturer string

// Supported manufacturers.
const (
	Cisco  Manufacturer = "cisco"
	Meraki Manufacturer = "meraki"
	Dell   Manufacturer = "dell"
)

// String implements fmt.Stringer.
func (m Manufacturer) String() string {
	return string(m)
}

// Manufacturers returns all supported manufacturers in pass order.
func Manufacturers() []Manufacturer {
	return []Manufacturer{Cisco, Meraki, Dell}
}

// Record is the normalized lifecycle data for one device serial. Every
// vendor response is converted into this shape before reconciliation. All
// optional fields are pointers: nil means the vendor did not report the
// field, which is different from reporting an explicit value.
type Record struct {
	// Serial is the cleaned device serial as the vendor echoed it.
	Serial string

	// Manufacturer is the source pass that produced this record.
	Manufacturer Manufacturer

	// Covered reports whether the vendor considers the device under an
	// active support contract.
	Covered *bool

	// ServiceLevel is the vendor's description of the covering contract.
	ServiceLevel string

	// Warranty coverage window.
	WarrantyStart *Date
	WarrantyEnd   *Date

	// End-of-life milestones.
	EOLAnnounced     *Date
	EndOfSale        *Date
	EndOfSupport     *Date
	LastDayOfSupport *Date
}

// HasWarrantyData reports whether the record carries enough evidence to
// call the CMDB row's warranty data valid: a coverage end date or an
// explicit active-coverage flag.
func (r Record) HasWarrantyData() bool {
	if r.WarrantyEnd != nil {
		return true
	}
	return r.Covered != nil && *r.Covered
}

// hasWarrantyGroup reports whether any warranty-side field is populated.
func (r Record) hasWarrantyGroup() bool {
	return r.Covered != nil || r.ServiceLevel != "" || r.WarrantyStart != nil || r.WarrantyEnd != nil
}

// hasEOLGroup reports whether any end-of-life field is populated.
func (r Record) hasEOLGroup() bool {
	return r.EOLAnnounced != nil || r.EndOfSale != nil || r.EndOfSupport != nil || r.LastDayOfSupport != nil
}

// takeWarrantyGroup copies the warranty field group from src.
func (r *Record) takeWarrantyGroup(src Record) {
	r.Covered = src.Covered
	r.ServiceLevel = src.ServiceLevel
	r.WarrantyStart = src.WarrantyStart
	r.WarrantyEnd = src.WarrantyEnd
}

// takeEOLGroup copies the end-of-life field group from src.
func (r *Record) takeEOLGroup(src Record) {
	r.EOLAnnounced = src.EOLAnnounced
	r.EndOfSale = src.EndOfSale
	r.EndOfSupport = src.EndOfSupport
	r.LastDayOfSupport = src.LastDayOfSupport
}
