// Package config provides configuration loading and management for the catalog server.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/popguide/catalog-server/internal/telemetry"
)

const (
	// SourceTypeFile is the type for catalog data stored in local files
	SourceTypeFile = "file"

	// SourceTypeAPI is the type for catalog data fetched from a REST endpoint
	SourceTypeAPI = "api"

	// SourceTypeDatabase is the type for catalog data read from PostgreSQL
	SourceTypeDatabase = "database"
)

const (
	// DefaultCatalogName is used when catalogName is not set
	DefaultCatalogName = "popguide"

	// DefaultTable is the catalog table read by the database source
	DefaultTable = "funko_pops"

	// DefaultAPIPageSize is the number of records requested per API page
	DefaultAPIPageSize = 1000

	// DefaultSyncInterval is used when syncPolicy.interval is not set
	DefaultSyncInterval = 30 * time.Minute

	// PasswordEnvVar is the environment variable consulted for the database password
	PasswordEnvVar = "POPGUIDE_DATABASE_PASSWORD"

	// AWSRegionDetect resolves the RDS IAM region from instance metadata
	AWSRegionDetect = "detect"
)

// ErrNoPassword is returned when neither a password file nor the password
// environment variable is set
var ErrNoPassword = errors.New("no database password configured")

// Option defines the interface for configuration options
type Option func(*loaderConfig) error

// loaderConfig defines the configuration for loading a configuration
type loaderConfig struct {
	path string
}

// WithConfigPath loads configuration from a YAML file
func WithConfigPath(path string) Option {
	return func(cfg *loaderConfig) error {
		if path == "" {
			return fmt.Errorf("path is required")
		}

		// Resolve symlinks to prevent symlink attacks.
		// Note that this calls filepath.Clean internally.
		realPath, err := filepath.EvalSymlinks(path)
		if err != nil {
			return fmt.Errorf("failed to evaluate symlinks: %w", err)
		}

		if !filepath.IsAbs(realPath) {
			if !filepath.IsLocal(realPath) {
				return fmt.Errorf("path is not local or contains invalid traversal: %s", path)
			}
		}

		cfg.path = realPath
		return nil
	}
}

// Config represents the root configuration structure
type Config struct {
	// CatalogName identifies this catalog in logs and metrics
	// Defaults to "popguide" if not specified
	CatalogName string            `yaml:"catalogName,omitempty"`
	Source      SourceConfig      `yaml:"source"`
	SyncPolicy  *SyncPolicyConfig `yaml:"syncPolicy,omitempty"`
	Browse      *BrowseConfig     `yaml:"browse,omitempty"`
	Telemetry   *telemetry.Config `yaml:"telemetry,omitempty"`
}

// SourceConfig selects where the catalog is loaded from. Exactly one field must be set.
type SourceConfig struct {
	File     *FileConfig     `yaml:"file,omitempty"`
	API      *APIConfig      `yaml:"api,omitempty"`
	Database *DatabaseConfig `yaml:"database,omitempty"`

	// Filter narrows the loaded records by series before a snapshot is built
	Filter *SourceFilterConfig `yaml:"filter,omitempty"`
}

// SourceFilterConfig holds glob patterns matched against an item's series.
// Exclude takes precedence over include; with no include patterns every
// series not excluded is kept.
type SourceFilterConfig struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
}

// FileConfig defines local file source configuration
type FileConfig struct {
	// Path is the path to a .json, .yaml or .yml catalog file
	// Can be absolute or relative to the working directory
	Path string `yaml:"path"`

	// Watch refreshes the catalog as soon as the file changes instead of
	// waiting for the next sync interval
	Watch bool `yaml:"watch,omitempty"`
}

// APIConfig defines a paged REST catalog endpoint
type APIConfig struct {
	// Endpoint is the collection URL, for example
	// "https://example.supabase.co/rest/v1/funko_pops"
	Endpoint string `yaml:"endpoint"`

	// APIKeyFile is a file holding the key sent in the apikey header
	APIKeyFile string `yaml:"apiKeyFile,omitempty"`

	// PageSize is the number of records requested per page (limit/offset)
	PageSize int `yaml:"pageSize,omitempty"`

	// RequestsPerSecond throttles page requests; 0 disables throttling
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`
}

// SyncPolicyConfig defines refetch settings
type SyncPolicyConfig struct {
	Interval string `yaml:"interval"`
}

// BrowseConfig tunes the browse window and sessions
type BrowseConfig struct {
	// PageSize is the initial window and growth step, default 24
	PageSize int `yaml:"pageSize,omitempty"`

	// ScrollThreshold is the near-bottom distance in pixels, default 200
	ScrollThreshold float64 `yaml:"scrollThreshold,omitempty"`

	// NewReleaseWindow is the recency window in months, default 3
	NewReleaseWindow int `yaml:"newReleaseWindow,omitempty"`

	// SessionIdleTimeout closes untouched sessions (e.g., "30m")
	SessionIdleTimeout string `yaml:"sessionIdleTimeout,omitempty"`
}

// DatabaseConfig defines database connection settings
type DatabaseConfig struct {
	// Host is the database server hostname or IP address
	Host string `yaml:"host"`

	// Port is the database server port
	Port int `yaml:"port"`

	// User is the database username
	User string `yaml:"user"`

	// PasswordFile is the path to a file containing the database password
	// The file should contain only the password with optional trailing whitespace
	PasswordFile string `yaml:"passwordFile,omitempty"`

	// Database is the database name
	Database string `yaml:"database"`

	// SSLMode is the SSL mode for the connection (disable, require, verify-ca, verify-full)
	SSLMode string `yaml:"sslMode,omitempty"`

	// Table is the catalog table, default "funko_pops"
	Table string `yaml:"table,omitempty"`

	// MaxOpenConns is the maximum number of open connections to the database
	MaxOpenConns int32 `yaml:"maxOpenConns,omitempty"`

	// ConnMaxLifetime is the maximum lifetime of a connection (e.g., "1h", "30m")
	ConnMaxLifetime string `yaml:"connMaxLifetime,omitempty"`

	// DynamicAuth replaces the static password with short-lived credentials
	DynamicAuth *DynamicAuthConfig `yaml:"dynamicAuth,omitempty"`
}

// DynamicAuthConfig selects a dynamic authentication method
type DynamicAuthConfig struct {
	AWSRDSIAM *AWSRDSIAMConfig `yaml:"awsRdsIam,omitempty"`
}

// AWSRDSIAMConfig configures AWS RDS IAM authentication
type AWSRDSIAMConfig struct {
	// Region is the AWS region of the database, or "detect" to read it from
	// the instance metadata service
	Region string `yaml:"region"`
}

// GetPassword returns the database password using the following priority:
// 1. Read from PasswordFile if specified
// 2. Read from POPGUIDE_DATABASE_PASSWORD environment variable
//
// The password from file will have leading/trailing whitespace trimmed.
func (d *DatabaseConfig) GetPassword() (string, error) {
	if d.PasswordFile != "" {
		cleanPath := filepath.Clean(d.PasswordFile)

		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return "", fmt.Errorf("failed to read password from file %s: %w", d.PasswordFile, err)
		}

		return strings.TrimSpace(string(data)), nil
	}

	if envPassword := os.Getenv(PasswordEnvVar); envPassword != "" {
		return envPassword, nil
	}

	return "", fmt.Errorf("%w: set passwordFile or %s environment variable", ErrNoPassword, PasswordEnvVar)
}

// GetConnectionString builds a PostgreSQL connection string with proper password handling.
// The password is URL-escaped to handle special characters safely.
func (d *DatabaseConfig) GetConnectionString() (string, error) {
	password, err := d.GetPassword()
	if err != nil {
		return "", err
	}
	return d.BuildConnectionString(password), nil
}

// BuildConnectionString builds a connection string with the given password.
// An empty password is omitted so that pgpass or a BeforeConnect hook can supply it.
func (d *DatabaseConfig) BuildConnectionString(password string) string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}

	userInfo := url.QueryEscape(d.User)
	if password != "" {
		userInfo += ":" + url.QueryEscape(password)
	}

	return fmt.Sprintf(
		"postgres://%s@%s:%d/%s?sslmode=%s",
		userInfo,
		d.Host,
		d.Port,
		d.Database,
		sslMode,
	)
}

// UsesDynamicAuth reports whether credentials come from a dynamic auth method
func (d *DatabaseConfig) UsesDynamicAuth() bool {
	return d.DynamicAuth != nil && d.DynamicAuth.AWSRDSIAM != nil
}

// GetTable returns the catalog table name
func (d *DatabaseConfig) GetTable() string {
	if d.Table == "" {
		return DefaultTable
	}
	return d.Table
}

// GetAPIKey reads the API key file, returning "" when none is configured
func (a *APIConfig) GetAPIKey() (string, error) {
	if a.APIKeyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(filepath.Clean(a.APIKeyFile))
	if err != nil {
		return "", fmt.Errorf("failed to read API key from file %s: %w", a.APIKeyFile, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// GetPageSize returns the API page size
func (a *APIConfig) GetPageSize() int {
	if a.PageSize <= 0 {
		return DefaultAPIPageSize
	}
	return a.PageSize
}

// LoadConfig loads and parses configuration from a YAML file
func LoadConfig(opts ...Option) (*Config, error) {
	loaderCfg := &loaderConfig{}
	for _, opt := range opts {
		if err := opt(loaderCfg); err != nil {
			return nil, err
		}
	}

	if loaderCfg.path == "" {
		return nil, fmt.Errorf("path is required")
	}

	data, err := os.ReadFile(loaderCfg.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes and validates YAML configuration
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// GetCatalogName returns the catalog name, using the default if not specified
func (c *Config) GetCatalogName() string {
	if c.CatalogName == "" {
		return DefaultCatalogName
	}
	return c.CatalogName
}

// GetSyncInterval returns the refetch interval. Validation guarantees it parses.
func (c *Config) GetSyncInterval() time.Duration {
	if c.SyncPolicy == nil || c.SyncPolicy.Interval == "" {
		return DefaultSyncInterval
	}
	d, err := time.ParseDuration(c.SyncPolicy.Interval)
	if err != nil {
		return DefaultSyncInterval
	}
	return d
}

// GetBrowse returns the browse settings, never nil
func (c *Config) GetBrowse() BrowseConfig {
	if c.Browse == nil {
		return BrowseConfig{}
	}
	return *c.Browse
}

// GetSessionIdleTimeout returns the parsed idle timeout, 0 when unset
func (b BrowseConfig) GetSessionIdleTimeout() time.Duration {
	d, err := time.ParseDuration(b.SessionIdleTimeout)
	if err != nil {
		return 0
	}
	return d
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	if c == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validateSourceTypeCount(&c.Source); err != nil {
		return err
	}
	if err := validateSourceSpecificConfig(&c.Source); err != nil {
		return err
	}
	if err := validateSourceFilter(c.Source.Filter); err != nil {
		return err
	}
	if err := validateSyncPolicy(c.SyncPolicy); err != nil {
		return err
	}
	if err := validateBrowse(c.Browse); err != nil {
		return err
	}
	if err := c.Telemetry.Validate(); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// validateSyncPolicy validates the sync policy configuration
func validateSyncPolicy(policy *SyncPolicyConfig) error {
	if policy == nil || policy.Interval == "" {
		return nil
	}

	d, err := time.ParseDuration(policy.Interval)
	if err != nil {
		return fmt.Errorf("syncPolicy.interval must be a valid duration (e.g., '30m', '1h'): %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("syncPolicy.interval must be positive, got %s", policy.Interval)
	}
	return nil
}

func validateBrowse(b *BrowseConfig) error {
	if b == nil {
		return nil
	}

	var errs []error
	if b.PageSize < 0 {
		errs = append(errs, fmt.Errorf("browse.pageSize must not be negative, got %d", b.PageSize))
	}
	if b.ScrollThreshold < 0 {
		errs = append(errs, fmt.Errorf("browse.scrollThreshold must not be negative, got %v", b.ScrollThreshold))
	}
	if b.NewReleaseWindow < 0 {
		errs = append(errs, fmt.Errorf("browse.newReleaseWindow must not be negative, got %d", b.NewReleaseWindow))
	}
	if b.SessionIdleTimeout != "" {
		if _, err := time.ParseDuration(b.SessionIdleTimeout); err != nil {
			errs = append(errs, fmt.Errorf("browse.sessionIdleTimeout must be a valid duration: %w", err))
		}
	}
	return errors.Join(errs...)
}

// validateSourceTypeCount ensures exactly one source type is configured
func validateSourceTypeCount(src *SourceConfig) error {
	configCount := 0
	if src.File != nil {
		configCount++
	}
	if src.API != nil {
		configCount++
	}
	if src.Database != nil {
		configCount++
	}

	if configCount == 0 {
		return fmt.Errorf("source: one of file, api, or database configuration must be specified")
	}
	if configCount > 1 {
		return fmt.Errorf("source: only one of file, api, or database configuration may be specified")
	}

	return nil
}

// validateSourceSpecificConfig validates the configuration for each source type
func validateSourceSpecificConfig(src *SourceConfig) error {
	switch {
	case src.File != nil:
		if src.File.Path == "" {
			return fmt.Errorf("source: file.path is required")
		}
	case src.API != nil:
		return validateAPIConfig(src.API)
	case src.Database != nil:
		return validateDatabaseConfig(src.Database)
	}
	return nil
}

// validateAPIConfig validates API-specific configuration
func validateAPIConfig(api *APIConfig) error {
	if api.Endpoint == "" {
		return fmt.Errorf("source: api.endpoint is required")
	}
	u, err := url.Parse(api.Endpoint)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("source: api.endpoint must be an absolute http(s) URL, got %q", api.Endpoint)
	}
	if api.PageSize < 0 {
		return fmt.Errorf("source: api.pageSize must not be negative")
	}
	if api.RequestsPerSecond < 0 {
		return fmt.Errorf("source: api.requestsPerSecond must not be negative")
	}
	return nil
}

// validateDatabaseConfig validates database-specific configuration
func validateDatabaseConfig(db *DatabaseConfig) error {
	if db.Host == "" {
		return fmt.Errorf("source: database.host is required")
	}
	if db.Database == "" {
		return fmt.Errorf("source: database.database is required")
	}
	if db.Port <= 0 || db.Port > 65535 {
		return fmt.Errorf("source: database.port must be between 1 and 65535, got %d", db.Port)
	}
	if db.ConnMaxLifetime != "" {
		if _, err := time.ParseDuration(db.ConnMaxLifetime); err != nil {
			return fmt.Errorf("source: database.connMaxLifetime must be a valid duration: %w", err)
		}
	}
	if !validIdentifier(db.GetTable()) {
		return fmt.Errorf("source: database.table must be a plain identifier, got %q", db.Table)
	}
	if db.DynamicAuth != nil {
		if db.DynamicAuth.AWSRDSIAM == nil {
			return fmt.Errorf("source: database.dynamicAuth requires an auth method (e.g., awsRdsIam)")
		}
		if db.DynamicAuth.AWSRDSIAM.Region == "" {
			return fmt.Errorf("source: database.dynamicAuth.awsRdsIam.region is required")
		}
	}
	return nil
}

// validateSourceFilter checks that every pattern is a well-formed glob
func validateSourceFilter(f *SourceFilterConfig) error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, pattern := range append(slices.Clone(f.Include), f.Exclude...) {
		if _, err := filepath.Match(pattern, ""); err != nil {
			errs = append(errs, fmt.Errorf("source: invalid filter pattern %q: %w", pattern, err))
		}
	}
	return errors.Join(errs...)
}

// validIdentifier accepts names usable unquoted in SQL, optionally schema-qualified
func validIdentifier(s string) bool {
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return false
		}
		for i, r := range part {
			switch {
			case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			case r >= '0' && r <= '9' && i > 0:
			default:
				return false
			}
		}
	}
	return true
}

// GetType returns the inferred type of the source config based on which field is present
func (s *SourceConfig) GetType() string {
	if s.File != nil {
		return SourceTypeFile
	}
	if s.API != nil {
		return SourceTypeAPI
	}
	if s.Database != nil {
		return SourceTypeDatabase
	}
	return ""
}
