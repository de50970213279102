package artifacts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/consultape/consulta-gateway/pkg/awsconf"
	"github.com/consultape/consulta-gateway/pkg/config"
)

// New cria o backend de artefatos configurado.
func New(ctx context.Context, cfg config.ArtifactsConf) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.Dir)

	case "s3":
		awsCfg, err := awsconf.Load(ctx, cfg.S3.Region)
		if err != nil {
			return nil, fmt.Errorf("erro ao carregar config AWS para artefatos: %w", err)
		}
		return NewS3Store(s3.NewFromConfig(awsCfg), cfg.S3), nil

	default:
		return nil, fmt.Errorf("backend de artefatos desconhecido: %s", cfg.Backend)
	}
}
