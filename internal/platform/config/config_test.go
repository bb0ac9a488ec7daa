package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stargate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.TxTimeout)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Kafka.Brokers)
}

func TestLoadLayersYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
database:
  driver: postgres
  dsn: postgres://stargate@localhost/stargate
  tx_timeout: 2s
log:
  level: debug
  format: text
`)
	t.Setenv("STARGATE_HTTP_ADDR", ":7070")
	t.Setenv("STARGATE_KAFKA_BROKERS", " kafka-1:9092,kafka-2:9092,kafka-1:9092")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr, "env overrides yaml")
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Database.TxTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout, "unset values keep defaults")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{name: "unknown driver", env: map[string]string{"STARGATE_DB_DRIVER": "mysql"}, wantErr: "database.driver"},
		{name: "bad log format", env: map[string]string{"STARGATE_LOG_FORMAT": "xml"}, wantErr: "log.format"},
		{name: "unparseable duration", env: map[string]string{"STARGATE_DB_TX_TIMEOUT": "soon"}, wantErr: "parse env:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "got %v", err)
		})
	}
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: postgres\n  dsn: \"\"\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
