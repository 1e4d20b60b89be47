// Package config loads and validates stockfix configuration.
//
// Precedence, lowest to highest: built-in defaults, the YAML config file,
// a .env file in the working directory, process environment variables,
// command-line flags (applied by the cli package).
package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/stockfix/stockfix/internal/engine/batch"
)

// DefaultConfigFile is the config file consulted when --config is not given.
const DefaultConfigFile = "stockfix.yaml"

// cutoffLayout is the wire format for the move-date cutoff.
const cutoffLayout = "2006-01-02"

// Connection environment variables, matching the names the Odoo client
// ecosystem conventionally reads.
const (
	EnvOdooURL      = "ODOO_URL"
	EnvOdooDatabase = "ODOO_DB"
	EnvOdooUsername = "ODOO_USERNAME"
	EnvOdooPassword = "ODOO_PASSWORD"
)

// stockfix-specific environment variables.
const (
	EnvCutoffDate      = "STOCKFIX_CUTOFF_DATE"
	EnvBatchSize       = "STOCKFIX_BATCH_SIZE"
	EnvTopN            = "STOCKFIX_TOP_N"
	EnvCommitEachBatch = "STOCKFIX_COMMIT_EACH_BATCH"
	EnvTimeoutSeconds  = "STOCKFIX_TIMEOUT_SECONDS"
	EnvLogLevel        = "STOCKFIX_LOG_LEVEL"
	EnvLogFile         = "STOCKFIX_LOG_FILE"
)

// OdooConfig holds the ERP connection settings.
type OdooConfig struct {
	URL      string `yaml:"url"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	// Password is normally supplied via ODOO_PASSWORD rather than the
	// config file; config init writes it empty.
	Password       string `yaml:"password,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the HTTP round-trip timeout for the ERP transport.
func (o OdooConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// ReconcileConfig holds the reconciliation parameters.
type ReconcileConfig struct {
	// CutoffDate is an ISO date (YYYY-MM-DD); moves dated strictly before
	// it qualify as stuck.
	CutoffDate string `yaml:"cutoff_date"`
	// BatchSize bounds the number of pickings per release call.
	BatchSize int `yaml:"batch_size"`
	// TopN bounds how many affected products the reports cover.
	TopN int `yaml:"top_n"`
	// CommitEachBatch commits after every release batch instead of once
	// at the end, trading the single-commit contract for durability of
	// completed batches.
	CommitEachBatch bool `yaml:"commit_each_batch"`
}

// LoggingConfig mirrors the logging section of the config file.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// Config is the full stockfix configuration.
type Config struct {
	Odoo      OdooConfig      `yaml:"odoo"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Odoo: OdooConfig{
			TimeoutSeconds: 120,
		},
		Reconcile: ReconcileConfig{
			CutoffDate: "2024-01-01",
			BatchSize:  batch.DefaultSize,
			TopN:       20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists), a .env file in the working directory (if present), and process
// environment variables. A missing config file is only an error when the
// path was explicitly requested.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case os.IsNotExist(err) && !explicit:
			// Optional default file; fall through to env.
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	// .env is optional; godotenv never overrides variables already set in
	// the process environment.
	_ = godotenv.Load()

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() {
	setString(&c.Odoo.URL, EnvOdooURL)
	setString(&c.Odoo.Database, EnvOdooDatabase)
	setString(&c.Odoo.Username, EnvOdooUsername)
	setString(&c.Odoo.Password, EnvOdooPassword)
	setInt(&c.Odoo.TimeoutSeconds, EnvTimeoutSeconds)

	setString(&c.Reconcile.CutoffDate, EnvCutoffDate)
	setInt(&c.Reconcile.BatchSize, EnvBatchSize)
	setInt(&c.Reconcile.TopN, EnvTopN)
	setBool(&c.Reconcile.CommitEachBatch, EnvCommitEachBatch)

	setString(&c.Logging.Level, EnvLogLevel)
	setString(&c.Logging.File, EnvLogFile)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

// Cutoff parses the configured cutoff date.
func (c *Config) Cutoff() (time.Time, error) {
	t, err := time.Parse(cutoffLayout, c.Reconcile.CutoffDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid cutoff date %q (want YYYY-MM-DD): %w", c.Reconcile.CutoffDate, err)
	}
	return t, nil
}

// Validate checks the reconciliation and logging parameters. Connection
// settings are checked separately because read-only inspection of a plan
// artifact does not need them.
func (c *Config) Validate() error {
	if _, err := c.Cutoff(); err != nil {
		return err
	}
	if c.Reconcile.BatchSize < batch.MinSize || c.Reconcile.BatchSize > batch.MaxSize {
		return fmt.Errorf("batch_size must be between %d and %d, got %d",
			batch.MinSize, batch.MaxSize, c.Reconcile.BatchSize)
	}
	if c.Reconcile.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0, got %d", c.Reconcile.TopN)
	}
	if c.Odoo.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be > 0, got %d", c.Odoo.TimeoutSeconds)
	}
	return nil
}

// ValidateConnection checks that everything needed to reach the ERP is set.
func (c *Config) ValidateConnection() error {
	var missing []string
	if c.Odoo.URL == "" {
		missing = append(missing, "odoo.url ("+EnvOdooURL+")")
	}
	if c.Odoo.Database == "" {
		missing = append(missing, "odoo.database ("+EnvOdooDatabase+")")
	}
	if c.Odoo.Username == "" {
		missing = append(missing, "odoo.username ("+EnvOdooUsername+")")
	}
	if c.Odoo.Password == "" {
		missing = append(missing, "odoo.password ("+EnvOdooPassword+")")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing ERP connection settings: %v", missing)
	}
	return nil
}

// Save writes the configuration as YAML to path. The file is created with
// 0600 because the odoo section is credential-adjacent.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	header := []byte("# stockfix configuration.\n# The ERP password is read from " + EnvOdooPassword + "; avoid storing it here.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Global configuration, set once by the root command and read by
// subcommands.
var (
	global   *Config      //nolint:gochecknoglobals // set once at startup
	globalMu sync.RWMutex //nolint:gochecknoglobals // protects global
)

// SetGlobal stores the configuration for the lifetime of a CLI invocation.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = cfg
}

// Global returns the stored configuration, or defaults when none was set.
func Global() *Config {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return Default()
	}
	return global
}

// ResetGlobalForTest clears the stored configuration.
func ResetGlobalForTest() {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = nil
}
