package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	warrantysync "github.com/CC-Digital-Innovation/warranty-sync"
)

// Config holds the CLI configuration loaded from the environment.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string

	// Sync holds everything the updater needs: CMDB credentials, vendor
	// API credentials and endpoints, and the report path.
	Sync warrantysync.Config
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later via UpdateFromFlags)
//  2. Environment variables
//  3. .env files
//  4. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	bindSettings()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),

		Sync: warrantysync.Config{
			ServiceNow: warrantysync.ServiceNowConfig{
				Instance:  viper.GetString("SERVICENOW_INSTANCE"),
				Username:  viper.GetString("SERVICENOW_USERNAME"),
				Password:  viper.GetString("SERVICENOW_PASSWORD"),
				TablePath: viper.GetString("SERVICENOW_CI_TABLE_PATH"),
			},
			Cisco: warrantysync.CiscoConfig{
				ClientID:     viper.GetString("CISCO_CLIENT_KEY"),
				ClientSecret: viper.GetString("CISCO_CLIENT_SECRET"),
				TokenURL:     viper.GetString("CISCO_AUTH_TOKEN_URI"),
				WarrantyURL:  viper.GetString("CISCO_WARRANTY_URI"),
				EOXURL:       viper.GetString("CISCO_EOX_URI"),
			},
			Dell: warrantysync.DellConfig{
				ClientID:     viper.GetString("DELL_CLIENT_KEY"),
				ClientSecret: viper.GetString("DELL_CLIENT_SECRET"),
				TokenURL:     viper.GetString("DELL_AUTH_TOKEN_URI"),
				WarrantyURL:  viper.GetString("DELL_WARRANTY_URI"),
			},
			Meraki: warrantysync.MerakiConfig{
				APIKey:  viper.GetString("MERAKI_API_KEY"),
				BaseURL: viper.GetString("MERAKI_API_URI"),
				OrgID:   viper.GetString("MERAKI_ORG_ID"),
			},
			InsecureSkipTLSVerify: viper.GetBool("INSECURE_SKIP_TLS_VERIFY"),
			ReportPath:            viper.GetString("REPORT_PATH"),
		},
	}

	return config, nil
}

// UpdateFromFlags updates config fields from parsed command-line flags.
// An empty logLevel keeps the value loaded from the environment, so
// --log-level only wins when it was actually set.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files. The first file
// that defines a variable wins, and variables already present in the real
// environment always win.
func loadEnvFiles() {
	envFiles := []string{
		".env.local",
		".env",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindSettings explicitly binds the sync's environment variables to Viper
// so values loaded from .env files resolve the same way real environment
// variables do.
func bindSettings() {
	settings := []string{
		"SERVICENOW_INSTANCE",
		"SERVICENOW_USERNAME",
		"SERVICENOW_PASSWORD",
		"SERVICENOW_CI_TABLE_PATH",
		"CISCO_CLIENT_KEY",
		"CISCO_CLIENT_SECRET",
		"CISCO_AUTH_TOKEN_URI",
		"CISCO_WARRANTY_URI",
		"CISCO_EOX_URI",
		"DELL_CLIENT_KEY",
		"DELL_CLIENT_SECRET",
		"DELL_AUTH_TOKEN_URI",
		"DELL_WARRANTY_URI",
		"MERAKI_API_KEY",
		"MERAKI_API_URI",
		"MERAKI_ORG_ID",
		"INSECURE_SKIP_TLS_VERIFY",
		"REPORT_PATH",
	}

	for _, key := range settings {
		if err := viper.BindEnv(key); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
