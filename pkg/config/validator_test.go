package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *ServiceConfig {
	return &ServiceConfig{
		Service: ServiceDetails{
			Name:          "consulta-gateway",
			Runtime:       "local",
			Port:          8080,
			MaxConcurrent: 4,
			Timeout:       "180s",
		},
		Relay: RelayConf{
			PrimaryBot: "@LEDERDATA_OFC_BOT",
			BackupBot:  "@lederdata_publico_bot",
		},
		Cache:     CacheConf{Enabled: true, Backend: "file", Dir: "cache"},
		Artifacts: ArtifactsConf{Backend: "local", Dir: "downloads"},
		Secrets:   SecretsConf{Provider: "env"},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, NewValidator().Validate(validConfig()))
}

func TestValidate_RuntimeInvalido(t *testing.T) {
	cfg := validConfig()
	cfg.Service.Runtime = "kubernetes"

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Runtime")
}

func TestValidate_RedisSemAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Backend = "redis"

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestValidate_DynamoSemTabela(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Backend = "dynamodb"

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dynamo.table")
}

func TestValidate_S3SemBucket(t *testing.T) {
	cfg := validConfig()
	cfg.Artifacts.Backend = "s3"

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
}

func TestValidate_SecretsSemEndereco(t *testing.T) {
	cfg := validConfig()
	cfg.Secrets.Provider = "ssm"
	require.Error(t, NewValidator().Validate(cfg))

	cfg = validConfig()
	cfg.Secrets.Provider = "secrets_manager"
	require.Error(t, NewValidator().Validate(cfg))

	cfg = validConfig()
	cfg.Secrets.Provider = "secrets_manager"
	cfg.Secrets.SecretID = "consulta/relay"
	require.NoError(t, NewValidator().Validate(cfg))
}

func TestValidate_BotsIguais(t *testing.T) {
	cfg := validConfig()
	cfg.Relay.BackupBot = cfg.Relay.PrimaryBot

	err := NewValidator().Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary_bot")
}

func TestValidate_CacheDesabilitadoNaoExigeBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.Backend = "redis" // sem addr, mas cache desligado

	require.NoError(t, NewValidator().Validate(cfg))
}
