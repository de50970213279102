package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *ServiceConfig) error {
	if err := cv.validate.Struct(cfg); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Field(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *ServiceConfig) error {
	// 1. Backend de cache exige os parâmetros do backend escolhido
	if cfg.Cache.Enabled {
		switch cfg.Cache.Backend {
		case "redis":
			if cfg.Cache.Redis.Addr == "" {
				return fmt.Errorf("cache redis habilitado sem 'redis.addr' (REDIS_ADDR)")
			}
		case "dynamodb":
			if cfg.Cache.Dynamo.Table == "" {
				return fmt.Errorf("cache dynamodb habilitado sem 'dynamo.table' (DYNAMO_TABLE)")
			}
		}
	}

	// 2. Artefatos no S3 exigem bucket
	if cfg.Artifacts.Backend == "s3" && cfg.Artifacts.S3.Bucket == "" {
		return fmt.Errorf("artifacts s3 habilitado sem 's3.bucket' (ARTIFACTS_S3_BUCKET)")
	}

	// 3. Provedor de secrets exige o endereço do segredo
	switch cfg.Secrets.Provider {
	case "ssm":
		if cfg.Secrets.SSMPath == "" {
			return fmt.Errorf("secrets provider 'ssm' sem 'ssm_path' (SECRETS_SSM_PATH)")
		}
	case "secrets_manager":
		if cfg.Secrets.SecretID == "" {
			return fmt.Errorf("secrets provider 'secrets_manager' sem 'secret_id' (SECRETS_SECRET_ID)")
		}
	}

	// 4. Os dois bots não podem ser o mesmo: o failover perderia sentido
	if cfg.Relay.PrimaryBot == cfg.Relay.BackupBot {
		return fmt.Errorf("primary_bot e backup_bot não podem ser iguais: '%s'", cfg.Relay.PrimaryBot)
	}

	return nil
}
