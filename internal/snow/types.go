package snow

// CMDB columns the sync reads and writes. The u_-prefixed fields are
// customer-defined columns on the CI table.
const (
	FieldSysID              = "sys_id"
	FieldName               = "name"
	FieldSerialNumber       = "serial_number"
	FieldManufacturer       = "manufacturer"
	FieldActiveContractFlag = "u_active_contract"
	FieldActiveContract     = "u_active_support_contract"
	FieldWarrantyStart      = "u_warranty_start"
	FieldWarrantyExpiration = "warranty_expiration"
	FieldEOLAnnounced       = "u_eol_announced"
	FieldEndOfSale          = "u_end_of_sale"
	FieldEndOfSupport       = "u_end_of_support"
	FieldEndOfLife          = "u_end_of_life"
	FieldValidWarrantyData  = "u_valid_warranty_data"
)

// requiredFields is the sysparm_fields projection for asset reads. Dot-walked
// names resolve reference fields to their display values so every column
// decodes as a plain string.
var requiredFields = []string{
	FieldSysID,
	FieldName,
	"manufacturer.name",
	FieldSerialNumber,
	FieldActiveContract,
	FieldWarrantyStart,
	FieldWarrantyExpiration,
	FieldEOLAnnounced,
	FieldEndOfSale,
	FieldEndOfSupport,
	FieldEndOfLife,
	FieldValidWarrantyData,
	"company.name",
}

// Asset is one hardware record from the CMDB CI table, limited to the fields
// the sync needs. The Table API returns every value as a string; dates are in
// YYYY-MM-DD form and booleans are "true"/"false".
type Asset struct {
	SysID              string `json:"sys_id"`
	Name               string `json:"name"`
	Manufacturer       string `json:"manufacturer.name"`
	SerialNumber       string `json:"serial_number"`
	Company            string `json:"company.name"`
	ActiveContract     string `json:"u_active_support_contract"`
	WarrantyStart      string `json:"u_warranty_start"`
	WarrantyExpiration string `json:"warranty_expiration"`
	EOLAnnounced       string `json:"u_eol_announced"`
	EndOfSale          string `json:"u_end_of_sale"`
	EndOfSupport       string `json:"u_end_of_support"`
	EndOfLife          string `json:"u_end_of_life"`
	ValidWarrantyData  string `json:"u_valid_warranty_data"`
}
