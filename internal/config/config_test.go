package config

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daotrack/governance-indexer/internal/domain"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0600))
	return configFile
}

func TestLoadAPIConfig(t *testing.T) {
	tests := []struct {
		name        string
		configFile  string
		expectError bool
		validate    func(*testing.T, *APIConfig)
	}{
		{
			name: "valid config file",
			configFile: `
debug: true
sentry_dsn: "https://sentry.example.com"
server:
  host: 127.0.0.1
  port: 9090
  read_timeout: 15
  params_cache_ttl: "30s"
database:
  host: localhost
  port: 5432
  user: testuser
  password: testpass
  dbname: governance
  sslmode: require
aggregation:
  http_timeout: "3s"
  concurrency: 4
daos:
  - id: uni
    family: standard
    base_url: "https://uni.example.com/api"
    quorum: "40000000000000000000000000"
    voting_delay: 1
    voting_period: 40320
  - id: nouns
    family: nouns
    base_url: "https://nouns.example.com/api"
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				assert.True(t, cfg.Debug)
				assert.Equal(t, "https://sentry.example.com", cfg.SentryDSN)
				assert.Equal(t, "127.0.0.1", cfg.Server.Host)
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 15, cfg.Server.ReadTimeout)
				assert.Equal(t, "30s", cfg.Server.ParamsCacheTTL.String())
				assert.Equal(t, "governance", cfg.Database.DBName)
				assert.Equal(t, "require", cfg.Database.SSLMode)
				assert.Equal(t, "3s", cfg.Aggregation.HTTPTimeout.String())
				assert.Equal(t, 4, cfg.Aggregation.Concurrency)
				require.Len(t, cfg.Daos, 2)
				assert.Equal(t, "uni", cfg.Daos[0].ID)
				assert.Equal(t, "standard", cfg.Daos[0].Family)
				assert.Equal(t, uint64(40320), cfg.Daos[0].VotingPeriod)
			},
		},
		{
			name: "config with defaults",
			configFile: `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: governance
`,
			expectError: false,
			validate: func(t *testing.T, cfg *APIConfig) {
				// Check defaults
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 10, cfg.Server.ReadTimeout)
				assert.Equal(t, 120, cfg.Server.IdleTimeout)
				assert.Equal(t, "5m0s", cfg.Server.ParamsCacheTTL.String())
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, "10s", cfg.Aggregation.HTTPTimeout.String())
				assert.Equal(t, 8, cfg.Aggregation.Concurrency)
			},
		},
		{
			name: "invalid yaml",
			configFile: `
				server:
				  port: invalid
			`,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configFile := writeConfigFile(t, tt.configFile)

			cfg, err := LoadAPIConfig(configFile, "")

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
			} else {
				require.NoError(t, err)
				require.NotNil(t, cfg)
				if tt.validate != nil {
					tt.validate(t, cfg)
				}
			}
		})
	}
}

func TestLoadIndexerConfig(t *testing.T) {
	configFile := writeConfigFile(t, `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: governance
nats:
  url: "nats://localhost:4222"
daos:
  - id: uni
    family: standard
`)

	cfg, err := LoadIndexerConfig(configFile, "")
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, "GOVERNANCE_EVENTS", cfg.NATS.StreamName)
	assert.Equal(t, "governance-indexer", cfg.NATS.ConsumerName)
	assert.Equal(t, 10, cfg.NATS.MaxReconnects)
	assert.Equal(t, "2s", cfg.NATS.ReconnectWait.String())
	assert.Equal(t, "30s", cfg.NATS.AckWait.String())
	assert.Equal(t, 3, cfg.NATS.MaxDeliver)
	require.Len(t, cfg.Daos, 1)
}

func TestLoadIndexerConfigRequiresDaos(t *testing.T) {
	configFile := writeConfigFile(t, `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: governance
nats:
  url: "nats://localhost:4222"
`)

	cfg, err := LoadIndexerConfig(configFile, "")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "at least one dao")
}

func TestLoadAggregatorConfig(t *testing.T) {
	configFile := writeConfigFile(t, `
database:
  host: localhost
  user: testuser
  password: testpass
  dbname: governance
rebuild_interval: "15m"
daos:
  - id: uni
    family: standard
`)

	cfg, err := LoadAggregatorConfig(configFile, "")
	require.NoError(t, err)

	assert.Equal(t, "15m0s", cfg.RebuildInterval.String())
	assert.False(t, cfg.RunOnce)
}

func TestBuildRegistry(t *testing.T) {
	registry, err := BuildRegistry([]DaoConfig{
		{
			ID:                "uni",
			Family:            "standard",
			Quorum:            "40000000000000000000000000",
			ProposalThreshold: "1000",
			VotingDelay:       1,
			VotingPeriod:      40320,
			TimelockDelay:     172800,
		},
		{
			ID:     "ens",
			Family: "offchain",
		},
	})
	require.NoError(t, err)

	gov, err := registry.Lookup("uni")
	require.NoError(t, err)
	assert.Equal(t, domain.GovernorFamilyStandard, gov.Family())
	expected, _ := new(big.Int).SetString("40000000000000000000000000", 10)
	assert.Equal(t, expected, gov.GetQuorum())
	assert.Equal(t, uint64(40320), gov.GetVotingPeriod())

	// Empty amounts default to zero
	gov, err = registry.Lookup("ens")
	require.NoError(t, err)
	assert.Equal(t, "0", gov.GetQuorum().String())
}

func TestBuildRegistryRejectsBadInput(t *testing.T) {
	_, err := BuildRegistry([]DaoConfig{{ID: "uni", Family: "no-such-family"}})
	assert.Error(t, err)

	_, err = BuildRegistry([]DaoConfig{{ID: "", Family: "standard"}})
	assert.Error(t, err)

	_, err = BuildRegistry([]DaoConfig{{ID: "uni", Family: "standard", Quorum: "not-a-number"}})
	assert.Error(t, err)
}

func TestAggregationRegistry(t *testing.T) {
	registry := AggregationRegistry([]DaoConfig{
		{ID: "uni", BaseURL: "https://uni.example.com/api/"},
		{ID: "nouns", BaseURL: "https://nouns.example.com/api"},
		{ID: "local-only"},
	})

	assert.Len(t, registry, 2)
	assert.Equal(t, "https://uni.example.com/api", registry["uni"])
	assert.Equal(t, "https://nouns.example.com/api", registry["nouns"])
	assert.NotContains(t, registry, domain.DaoID("local-only"))
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "indexer",
		Password: "secret",
		DBName:   "governance",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=indexer password=secret dbname=governance sslmode=disable",
		cfg.DSN())
}
