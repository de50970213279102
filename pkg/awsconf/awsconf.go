package awsconf

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

var (
	cfg  aws.Config
	once sync.Once
	err  error
)

// Load carrega a configuração da AWS (env vars, profile, IAM role) de forma
// lazy-singleton. Todos os clientes AWS do gateway (dynamo, s3, sqs, ssm,
// secrets manager) compartilham a mesma config.
func Load(ctx context.Context, region string) (aws.Config, error) {
	once.Do(func() {
		opts := []func(*config.LoadOptions) error{}
		if region != "" {
			opts = append(opts, config.WithRegion(region))
		}
		cfg, err = config.LoadDefaultConfig(ctx, opts...)
	})
	return cfg, err
}
