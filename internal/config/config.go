package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/daotrack/governance-indexer/internal/domain"
	"github.com/daotrack/governance-indexer/internal/governor"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // Maximum amount of time a connection may be reused (e.g., "5m", "1h")
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // Maximum amount of time a connection may be idle (e.g., "10m", "30m")
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	StreamName     string        `mapstructure:"stream_name"`
	ConsumerName   string        `mapstructure:"consumer_name"`
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	ConnectionName string        `mapstructure:"connection_name"`
	AckWait        time.Duration `mapstructure:"ack_wait"`
	MaxDeliver     int           `mapstructure:"max_deliver"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    int           `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int           `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int           `mapstructure:"idle_timeout"`  // in seconds
	ParamsCacheTTL time.Duration `mapstructure:"params_cache_ttl"`
}

// AggregationConfig holds cross-DAO aggregation configuration
type AggregationConfig struct {
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	Concurrency int           `mapstructure:"concurrency"`
}

// DaoConfig describes one registered DAO: its governor family, static
// governance parameters and the backend serving its day series
type DaoConfig struct {
	ID      string `mapstructure:"id"`
	Family  string `mapstructure:"family"`
	BaseURL string `mapstructure:"base_url"`

	// Governance parameters; amounts are decimal strings
	Quorum            string `mapstructure:"quorum"`
	ProposalThreshold string `mapstructure:"proposal_threshold"`
	VotingDelay       uint64 `mapstructure:"voting_delay"`
	VotingPeriod      uint64 `mapstructure:"voting_period"`
	TimelockDelay     uint64 `mapstructure:"timelock_delay"`
}

// AggregatorConfig holds configuration for the day-bucket aggregator
type AggregatorConfig struct {
	BaseConfig      `mapstructure:",squash"`
	Database        DatabaseConfig `mapstructure:"database"`
	Daos            []DaoConfig    `mapstructure:"daos"`
	RebuildInterval time.Duration  `mapstructure:"rebuild_interval"`
	RunOnce         bool           `mapstructure:"run_once"`
}

// IndexerConfig holds configuration for the event indexer
type IndexerConfig struct {
	BaseConfig `mapstructure:",squash"`
	Database   DatabaseConfig `mapstructure:"database"`
	NATS       NATSConfig     `mapstructure:"nats"`
	Daos       []DaoConfig    `mapstructure:"daos"`
}

// APIConfig holds configuration for the API server
type APIConfig struct {
	BaseConfig  `mapstructure:",squash"`
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Aggregation AggregationConfig `mapstructure:"aggregation"`
	Daos        []DaoConfig       `mapstructure:"daos"`
}

// LoadAPIConfig loads configuration for the API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.params_cache_ttl", "5m")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("aggregation.http_timeout", "10s")
	v.SetDefault("aggregation.concurrency", 8)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// LoadIndexerConfig loads configuration for the event indexer
func LoadIndexerConfig(configFile string, envPath string) (*IndexerConfig, error) {
	v := configureViper("indexer", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "GOVERNANCE_EVENTS")
	v.SetDefault("nats.consumer_name", "governance-indexer")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", 3)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config IndexerConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Daos) == 0 {
		return nil, errors.New("at least one dao must be configured")
	}

	return &config, nil
}

// LoadAggregatorConfig loads configuration for the day-bucket aggregator
func LoadAggregatorConfig(configFile string, envPath string) (*AggregatorConfig, error) {
	v := configureViper("aggregator", configFile, envPath)

	// Set defaults
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("rebuild_interval", "1h")
	v.SetDefault("run_once", false)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config AggregatorConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Daos) == 0 {
		return nil, errors.New("at least one dao must be configured")
	}

	return &config, nil
}

// BuildRegistry builds the governor registry from the configured DAOs
func BuildRegistry(daos []DaoConfig) (*governor.Registry, error) {
	governors := make(map[domain.DaoID]governor.Governor, len(daos))
	for _, dao := range daos {
		if dao.ID == "" {
			return nil, errors.New("dao id is required")
		}

		params := governor.Params{
			VotingDelay:   dao.VotingDelay,
			VotingPeriod:  dao.VotingPeriod,
			TimelockDelay: dao.TimelockDelay,
		}
		var err error
		if params.Quorum, err = parseAmount(dao.Quorum, "quorum", dao.ID); err != nil {
			return nil, err
		}
		if params.ProposalThreshold, err = parseAmount(dao.ProposalThreshold, "proposal_threshold", dao.ID); err != nil {
			return nil, err
		}

		gov, err := governor.New(domain.GovernorFamily(dao.Family), params)
		if err != nil {
			return nil, fmt.Errorf("failed to build governor for dao %s: %w", dao.ID, err)
		}
		governors[domain.DaoID(dao.ID)] = gov
	}
	return governor.NewRegistry(governors), nil
}

// AggregationRegistry maps configured DAOs to their backend base URLs,
// skipping DAOs with no backend
func AggregationRegistry(daos []DaoConfig) map[domain.DaoID]string {
	registry := make(map[domain.DaoID]string, len(daos))
	for _, dao := range daos {
		if dao.BaseURL == "" {
			continue
		}
		registry[domain.DaoID(dao.ID)] = strings.TrimRight(dao.BaseURL, "/")
	}
	return registry
}

// parseAmount parses a decimal amount, treating empty as zero
func parseAmount(s, field, daoID string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("dao %s: %s is not a decimal integer: %q", daoID, field, s)
	}
	return v, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/, cmd/indexer/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("GOV_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	commonKeys := []string{
		"debug",
		"sentry_dsn",
		// Database
		"database.host",
		"database.port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.params_cache_ttl",
		// Aggregation
		"aggregation.http_timeout",
		"aggregation.concurrency",
		// Aggregator
		"rebuild_interval",
		"run_once",
	}

	for _, key := range commonKeys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
