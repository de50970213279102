package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/consultape/consulta-gateway/pkg/artifacts"
	"github.com/consultape/consulta-gateway/pkg/awsconf"
	"github.com/consultape/consulta-gateway/pkg/cache"
	"github.com/consultape/consulta-gateway/pkg/config"
	"github.com/consultape/consulta-gateway/pkg/gateway"
	"github.com/consultape/consulta-gateway/pkg/logger"
	"github.com/consultape/consulta-gateway/pkg/metrics"
	"github.com/consultape/consulta-gateway/pkg/relay"
	"github.com/consultape/consulta-gateway/pkg/secrets"
	"github.com/consultape/consulta-gateway/pkg/transport"
)

var (
	configPath string
	// Variáveis injetáveis para mocking
	serverStarter = transport.StartHTTPServer
	lambdaStarter = lambda.Start
)

func init() {
	// O arquivo YAML é opcional: sem ele, a configuração vem toda do ambiente
	configPath = os.Getenv("CONFIG_FILE_PATH")
}

func main() {
	if err := run(context.Background(), configPath); err != nil {
		log.Fatalf("FATAL: %v", err)
	}
}

// run contém a lógica principal testável
func run(ctx context.Context, cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logg := logger.Configure(cfg.Service.Name, cfg.Service.Logging)

	provider, err := metrics.Setup(cfg.Service.Metrics)
	if err != nil {
		return err
	}

	if err := secrets.Resolve(ctx, cfg); err != nil {
		return err
	}

	cacheStore, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		return err
	}

	artifactStore, err := artifacts.New(ctx, cfg.Artifacts)
	if err != nil {
		return err
	}

	session := relay.NewBridge(cfg.Relay)
	svc := gateway.New(cfg, logg, session, cacheStore, artifactStore, provider)
	router := transport.NewRouter(cfg, svc, artifactStore, provider)

	if cfg.Ops.SQSQueueURL != "" {
		awsCfg, err := awsconf.Load(ctx, cfg.Ops.Region)
		if err != nil {
			return fmt.Errorf("erro ao configurar fila de operações: %w", err)
		}
		listener := transport.NewOpsListener(sqs.NewFromConfig(awsCfg), cfg.Ops.SQSQueueURL, svc)
		go listener.Start(ctx)
	}

	logg.Info().
		Str("runtime", cfg.Service.Runtime).
		Str("primary_bot", cfg.Relay.PrimaryBot).
		Str("backup_bot", cfg.Relay.BackupBot).
		Msg("Gateway de consultas inicializado")

	switch cfg.Service.Runtime {
	case "local":
		return serverStarter(cfg, router)
	case "lambda":
		lambdaStarter(transport.NewLambdaHandler(router).Handle)
		return nil
	default:
		return fmt.Errorf("runtime desconhecido: %s", cfg.Service.Runtime)
	}
}
