package config

import "time"

// ServiceConfig representa a configuração completa do gateway. Pode vir de um
// arquivo YAML (CONFIG_FILE_PATH), de variáveis de ambiente, ou dos dois.
type ServiceConfig struct {
	Service   ServiceDetails `yaml:"service" validate:"required"`
	Relay     RelayConf      `yaml:"relay" validate:"required"`
	Cache     CacheConf      `yaml:"cache"`
	Artifacts ArtifactsConf  `yaml:"artifacts"`
	Secrets   SecretsConf    `yaml:"secrets"`
	Ops       OpsConf        `yaml:"ops"`
}

// ServiceDetails contém os metadados e parâmetros de runtime do serviço.
// Os defaults reproduzem a topologia do deploy original: porta 8080 em todas
// as interfaces, 4 requisições simultâneas, timeout de 180s por requisição.
type ServiceDetails struct {
	Name          string `yaml:"name" env:"SERVICE_NAME" envDefault:"consulta-gateway" validate:"required,hostname_rfc1123"`
	Runtime       string `yaml:"runtime" env:"RUNTIME" envDefault:"local" validate:"required,oneof=local lambda"`
	BindAddress   string `yaml:"bind_address" env:"BIND_ADDRESS" envDefault:"0.0.0.0"`
	Port          int    `yaml:"port" env:"PORT" envDefault:"8080" validate:"required_if=Runtime local"`
	PublicURL     string `yaml:"public_url" env:"PUBLIC_URL"`
	MaxConcurrent int    `yaml:"max_concurrent" env:"MAX_CONCURRENT" envDefault:"4" validate:"gte=1"`
	Timeout       string `yaml:"timeout" env:"REQUEST_TIMEOUT" envDefault:"180s"` // Ex: "180s", "2m"

	Logging LoggingConf `yaml:"logging"`
	Metrics MetricsConf `yaml:"metrics"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled" env:"LOG_ENABLED" envDefault:"true"`
	Level   string `yaml:"level" env:"LOG_LEVEL" envDefault:"info" validate:"omitempty,oneof=debug info warn error"`
	Format  string `yaml:"format" env:"LOG_FORMAT" envDefault:"json" validate:"omitempty,oneof=json console"`
}

type MetricsConf struct {
	Datadog DatadogConf `yaml:"datadog"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace" env:"DD_NAMESPACE" envDefault:"consulta_gateway."`
}

// RelayConf descreve a sessão com a ponte de mensagens e a política de
// conversa com os bots de consulta. Os timeouts e a janela de bloqueio vêm
// do comportamento observado em produção: o bot principal responde em até
// 35s; o de respaldo, acionado após anti-spam, em 18s; um principal sem
// resposta fica bloqueado por 3 horas.
type RelayConf struct {
	BridgeURL   string `yaml:"bridge_url" env:"RELAY_BRIDGE_URL"`
	BridgeToken string `yaml:"-" env:"RELAY_BRIDGE_TOKEN"`
	Session     string `yaml:"-" env:"SESSION_STRING"`

	PrimaryBot string `yaml:"primary_bot" env:"PRIMARY_BOT" envDefault:"@LEDERDATA_OFC_BOT" validate:"required"`
	BackupBot  string `yaml:"backup_bot" env:"BACKUP_BOT" envDefault:"@lederdata_publico_bot" validate:"required"`

	PrimaryTimeout      time.Duration `yaml:"-" env:"RELAY_TIMEOUT_PRIMARY" envDefault:"35s"`
	BackupTimeout       time.Duration `yaml:"-" env:"RELAY_TIMEOUT_BACKUP" envDefault:"18s"`
	BackupNormalTimeout time.Duration `yaml:"-" env:"RELAY_TIMEOUT_BACKUP_NORMAL" envDefault:"50s"`
	QuietPeriod         time.Duration `yaml:"-" env:"RELAY_QUIET_PERIOD" envDefault:"4500ms"`
	BlockWindow         time.Duration `yaml:"-" env:"RELAY_BLOCK_WINDOW" envDefault:"3h"`
}

type CacheConf struct {
	Enabled bool          `yaml:"enabled" env:"CACHE_ENABLED" envDefault:"true"`
	Backend string        `yaml:"backend" env:"CACHE_BACKEND" envDefault:"file" validate:"omitempty,oneof=file redis dynamodb"`
	Dir     string        `yaml:"dir" env:"CACHE_DIR" envDefault:"cache"`
	TTL     time.Duration `yaml:"-" env:"CACHE_TTL" envDefault:"0"` // 0 = sem expiração

	Redis  RedisConf  `yaml:"redis"`
	Dynamo DynamoConf `yaml:"dynamo"`
}

type RedisConf struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"-" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type DynamoConf struct {
	Table  string `yaml:"table" env:"DYNAMO_TABLE"`
	Region string `yaml:"region" env:"DYNAMO_REGION"`
}

type ArtifactsConf struct {
	Backend string `yaml:"backend" env:"ARTIFACTS_BACKEND" envDefault:"local" validate:"omitempty,oneof=local s3"`
	Dir     string `yaml:"dir" env:"DOWNLOAD_DIR" envDefault:"downloads"`

	S3 S3Conf `yaml:"s3"`
}

type S3Conf struct {
	Bucket string `yaml:"bucket" env:"ARTIFACTS_S3_BUCKET"`
	Prefix string `yaml:"prefix" env:"ARTIFACTS_S3_PREFIX"`
	Region string `yaml:"region" env:"ARTIFACTS_S3_REGION"`
}

// SecretsConf define de onde vêm as credenciais da ponte (token e session
// string): direto do ambiente, de um parâmetro SSM ou de um secret no
// Secrets Manager.
type SecretsConf struct {
	Provider string `yaml:"provider" env:"SECRETS_PROVIDER" envDefault:"env" validate:"omitempty,oneof=env ssm secrets_manager"`
	Region   string `yaml:"region" env:"SECRETS_REGION"`
	SSMPath  string `yaml:"ssm_path" env:"SECRETS_SSM_PATH"`
	SecretID string `yaml:"secret_id" env:"SECRETS_SECRET_ID"`
}

type OpsConf struct {
	SQSQueueURL string `yaml:"sqs_queue_url" env:"OPS_SQS_QUEUE_URL"`
	Region      string `yaml:"region" env:"OPS_SQS_REGION"`
}

// GetTimeout converte o timeout do serviço, com fallback no valor do deploy
// original (180s).
func (s ServiceDetails) GetTimeout() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil || d <= 0 {
		return 180 * time.Second
	}
	return d
}
