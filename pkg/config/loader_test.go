package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	// Topologia do deploy original
	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, "0.0.0.0", cfg.Service.BindAddress)
	assert.Equal(t, 4, cfg.Service.MaxConcurrent)
	assert.Equal(t, 180*time.Second, cfg.Service.GetTimeout())

	// Política de conversa com os bots
	assert.Equal(t, "@LEDERDATA_OFC_BOT", cfg.Relay.PrimaryBot)
	assert.Equal(t, "@lederdata_publico_bot", cfg.Relay.BackupBot)
	assert.Equal(t, 35*time.Second, cfg.Relay.PrimaryTimeout)
	assert.Equal(t, 18*time.Second, cfg.Relay.BackupTimeout)
	assert.Equal(t, 50*time.Second, cfg.Relay.BackupNormalTimeout)
	assert.Equal(t, 4500*time.Millisecond, cfg.Relay.QuietPeriod)
	assert.Equal(t, 3*time.Hour, cfg.Relay.BlockWindow)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, "local", cfg.Artifacts.Backend)
	assert.Equal(t, "env", cfg.Secrets.Provider)
}

func TestLoad_YAMLOverridesEnv(t *testing.T) {
	yamlContent := `
service:
  name: "consulta-test"
  runtime: "local"
  port: 9999
  max_concurrent: 2
  timeout: "30s"
cache:
  enabled: false
`
	tmp, err := os.CreateTemp("", "gateway_cfg_*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmp.Name())
	tmp.WriteString(yamlContent)
	tmp.Close()

	cfg, err := Load(tmp.Name())
	require.NoError(t, err)

	assert.Equal(t, "consulta-test", cfg.Service.Name)
	assert.Equal(t, 9999, cfg.Service.Port)
	assert.Equal(t, 2, cfg.Service.MaxConcurrent)
	assert.Equal(t, 30*time.Second, cfg.Service.GetTimeout())
	assert.False(t, cfg.Cache.Enabled)

	// O que o YAML não menciona continua vindo do ambiente/default
	assert.Equal(t, "@LEDERDATA_OFC_BOT", cfg.Relay.PrimaryBot)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/caminho/inexistente.yaml")
	require.Error(t, err)
}

func TestGetTimeout_Fallback(t *testing.T) {
	s := ServiceDetails{Timeout: "não-é-duração"}
	assert.Equal(t, 180*time.Second, s.GetTimeout())

	s = ServiceDetails{Timeout: "-5s"}
	assert.Equal(t, 180*time.Second, s.GetTimeout())
}
