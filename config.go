package warrantysync

import (
	stderrors "errors"

	"github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

// Config carries everything a sync run needs. Field comments name the
// environment variable each value is loaded from; the CLI binds them via
// viper, library callers can fill the struct directly.
type Config struct {
	ServiceNow ServiceNowConfig
	Cisco      CiscoConfig
	Dell       DellConfig
	Meraki     MerakiConfig

	// InsecureSkipTLSVerify disables certificate checks on every outbound
	// connection. Only for lab instances with self-signed certificates.
	// INSECURE_SKIP_TLS_VERIFY
	InsecureSkipTLSVerify bool

	// ReportPath, when set, is where the run report YAML is written.
	// REPORT_PATH
	ReportPath string
}

// ServiceNowConfig locates the CMDB and the service account that reads and
// writes it.
type ServiceNowConfig struct {
	Instance  string // SERVICENOW_INSTANCE, instance name or full URL
	Username  string // SERVICENOW_USERNAME
	Password  string // SERVICENOW_PASSWORD
	TablePath string // SERVICENOW_CI_TABLE_PATH, e.g. /table/u_network_ci
}

// CiscoConfig holds the Cisco Support API application credentials and
// endpoints. The same OAuth2 session serves both the coverage and EOX APIs.
type CiscoConfig struct {
	ClientID     string // CISCO_CLIENT_KEY
	ClientSecret string // CISCO_CLIENT_SECRET
	TokenURL     string // CISCO_AUTH_TOKEN_URI
	WarrantyURL  string // CISCO_WARRANTY_URI
	EOXURL       string // CISCO_EOX_URI
}

// DellConfig holds the Dell TechDirect API application credentials and the
// asset-entitlements endpoint.
type DellConfig struct {
	ClientID     string // DELL_CLIENT_KEY
	ClientSecret string // DELL_CLIENT_SECRET
	TokenURL     string // DELL_AUTH_TOKEN_URI
	WarrantyURL  string // DELL_WARRANTY_URI
}

// MerakiConfig holds the Meraki Dashboard API key and the organization whose
// licenses are read.
type MerakiConfig struct {
	APIKey  string // MERAKI_API_KEY
	BaseURL string // MERAKI_API_URI, e.g. https://api.meraki.com/api/v1
	OrgID   string // MERAKI_ORG_ID
}

// Validate checks every required setting and reports all gaps at once, so an
// operator fixes a broken deployment in one round trip instead of one
// variable per run.
func (c *Config) Validate() error {
	var errs []error

	require := func(component, envVar, value string) {
		if value == "" {
			errs = append(errs, errors.NewConfigError(component, envVar+" is required", nil))
		}
	}

	require("servicenow", "SERVICENOW_INSTANCE", c.ServiceNow.Instance)
	require("servicenow", "SERVICENOW_USERNAME", c.ServiceNow.Username)
	require("servicenow", "SERVICENOW_PASSWORD", c.ServiceNow.Password)
	require("servicenow", "SERVICENOW_CI_TABLE_PATH", c.ServiceNow.TablePath)

	require("cisco", "CISCO_CLIENT_KEY", c.Cisco.ClientID)
	require("cisco", "CISCO_CLIENT_SECRET", c.Cisco.ClientSecret)
	require("cisco", "CISCO_AUTH_TOKEN_URI", c.Cisco.TokenURL)
	require("cisco", "CISCO_WARRANTY_URI", c.Cisco.WarrantyURL)
	require("cisco", "CISCO_EOX_URI", c.Cisco.EOXURL)

	require("dell", "DELL_CLIENT_KEY", c.Dell.ClientID)
	require("dell", "DELL_CLIENT_SECRET", c.Dell.ClientSecret)
	require("dell", "DELL_AUTH_TOKEN_URI", c.Dell.TokenURL)
	require("dell", "DELL_WARRANTY_URI", c.Dell.WarrantyURL)

	require("meraki", "MERAKI_API_KEY", c.Meraki.APIKey)
	require("meraki", "MERAKI_API_URI", c.Meraki.BaseURL)
	require("meraki", "MERAKI_ORG_ID", c.Meraki.OrgID)

	return stderrors.Join(errs...)
}
