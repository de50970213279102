package cache

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/consultape/consulta-gateway/pkg/awsconf"
	"github.com/consultape/consulta-gateway/pkg/config"
)

// New cria o backend de cache configurado.
func New(ctx context.Context, cfg config.CacheConf) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.Dir)

	case "redis":
		return NewRedisStore(cfg.Redis, cfg.TTL), nil

	case "dynamodb":
		awsCfg, err := awsconf.Load(ctx, cfg.Dynamo.Region)
		if err != nil {
			return nil, fmt.Errorf("erro ao carregar config AWS para o cache: %w", err)
		}
		return NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.Dynamo.Table, cfg.TTL), nil

	default:
		return nil, fmt.Errorf("backend de cache desconhecido: %s", cfg.Backend)
	}
}
