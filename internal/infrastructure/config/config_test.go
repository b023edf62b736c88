package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, Username: "app", Database: "booking"},
		Search:   SearchConfig{Engine: EngineElasticsearch},
		Elasticsearch: ElasticsearchConfig{
			Addresses: []string{"http://localhost:9200"},
			Index:     "hotels",
		},
	}
}

func TestConfig_ValidateOK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_ValidateDatabaseHostRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	assert.ErrorContains(t, cfg.Validate(), "database host")
}

func TestConfig_ValidateEngineSettings(t *testing.T) {
	cfg := validConfig()
	cfg.Elasticsearch.Addresses = nil
	assert.ErrorContains(t, cfg.Validate(), "elasticsearch addresses")

	cfg = validConfig()
	cfg.Elasticsearch.Index = ""
	assert.ErrorContains(t, cfg.Validate(), "index name")

	cfg = validConfig()
	cfg.Search.Engine = "meilisearch"
	assert.ErrorContains(t, cfg.Validate(), "unknown search engine")
}

func TestConfig_ValidateDatabaseEngineNeedsNoElasticsearch(t *testing.T) {
	cfg := validConfig()
	cfg.Search.Engine = EngineDatabase
	cfg.Elasticsearch = ElasticsearchConfig{}

	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.EngineEnabled())
}

func TestConfig_ValidateAnalytics(t *testing.T) {
	cfg := validConfig()
	cfg.Analytics = AnalyticsConfig{Enabled: true, Queue: "search-events"}
	assert.ErrorContains(t, cfg.Validate(), "analytics URL")

	cfg.Analytics = AnalyticsConfig{Enabled: true, URL: "amqp://localhost:5672"}
	assert.ErrorContains(t, cfg.Validate(), "analytics queue")

	cfg.Analytics = AnalyticsConfig{Enabled: true, URL: "amqp://localhost:5672", Queue: "search-events"}
	require.NoError(t, cfg.Validate())
}

func TestConfig_ValidatePortRange(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "invalid server port")

	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "invalid server port")
}

func TestConfig_EngineEnabled(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.EngineEnabled())

	cfg.Search.Engine = ""
	assert.False(t, cfg.EngineEnabled())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		Username: "app",
		Password: "secret",
		Database: "booking",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=app password=secret dbname=booking sslmode=disable",
		cfg.DSN())
}

func TestAddressHelpers(t *testing.T) {
	assert.Equal(t, "redis:6379", (&RedisConfig{Host: "redis", Port: 6379}).Address())
	assert.Equal(t, "0.0.0.0:8080", (&ServerConfig{Host: "0.0.0.0", Port: 8080}).Address())
}
