package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/consultape/consulta-gateway/pkg/awsconf"
	"github.com/consultape/consulta-gateway/pkg/config"
)

// SSMClient é o subconjunto da API usado pelo resolver; interface para mock.
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// SecretsManagerClient idem, para o Secrets Manager.
type SecretsManagerClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// credentialPayload é o JSON guardado no parâmetro/secret.
type credentialPayload struct {
	BridgeToken string `json:"bridge_token"`
	Session     string `json:"session_string"`
}

// Resolve preenche as credenciais da ponte na configuração. Com provider
// "env" nada é feito: os valores já vieram do ambiente.
func Resolve(ctx context.Context, cfg *config.ServiceConfig) error {
	switch cfg.Secrets.Provider {
	case "", "env":
		return nil

	case "ssm":
		awsCfg, err := awsconf.Load(ctx, cfg.Secrets.Region)
		if err != nil {
			return fmt.Errorf("erro ao carregar config AWS para secrets: %w", err)
		}
		return resolveSSM(ctx, ssm.NewFromConfig(awsCfg), cfg)

	case "secrets_manager":
		awsCfg, err := awsconf.Load(ctx, cfg.Secrets.Region)
		if err != nil {
			return fmt.Errorf("erro ao carregar config AWS para secrets: %w", err)
		}
		return resolveSecretsManager(ctx, secretsmanager.NewFromConfig(awsCfg), cfg)

	default:
		return fmt.Errorf("provedor de secrets desconhecido: %s", cfg.Secrets.Provider)
	}
}

func resolveSSM(ctx context.Context, client SSMClient, cfg *config.ServiceConfig) error {
	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(cfg.Secrets.SSMPath),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return fmt.Errorf("erro ao buscar parâmetro %s no SSM: %w", cfg.Secrets.SSMPath, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return fmt.Errorf("parâmetro %s veio vazio", cfg.Secrets.SSMPath)
	}
	return apply(*out.Parameter.Value, cfg)
}

func resolveSecretsManager(ctx context.Context, client SecretsManagerClient, cfg *config.ServiceConfig) error {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(cfg.Secrets.SecretID),
	})
	if err != nil {
		return fmt.Errorf("erro ao buscar secret %s: %w", cfg.Secrets.SecretID, err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("secret %s veio vazio", cfg.Secrets.SecretID)
	}
	return apply(*out.SecretString, cfg)
}

func apply(raw string, cfg *config.ServiceConfig) error {
	var payload credentialPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("credenciais com JSON inválido: %w", err)
	}

	if payload.BridgeToken != "" {
		cfg.Relay.BridgeToken = payload.BridgeToken
	}
	if payload.Session != "" {
		cfg.Relay.Session = payload.Session
	}
	return nil
}
