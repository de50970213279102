package transport

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SQSClient define a interface necessária para o listener (permite mocking).
type SQSClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// OpsGateway são as ações operacionais que o listener pode disparar.
type OpsGateway interface {
	PurgeCache(ctx context.Context) error
	Unblock(bot string)
}

// opsCommand é o corpo das mensagens da fila de operações.
type opsCommand struct {
	Action string `json:"action"` // "purge_cache" | "unblock"
	Bot    string `json:"bot,omitempty"`
}

// OpsListener consome a fila SQS de operações: limpeza de cache e
// desbloqueio manual de bots, sem reiniciar o serviço.
type OpsListener struct {
	client   SQSClient
	queueURL string
	svc      OpsGateway
	logger   zerolog.Logger
}

func NewOpsListener(client SQSClient, queueURL string, svc OpsGateway) *OpsListener {
	return &OpsListener{
		client:   client,
		queueURL: queueURL,
		svc:      svc,
		logger:   log.With().Str("component", "ops_listener").Logger(),
	}
}

// Start inicia o consumo da fila (bloqueante).
func (l *OpsListener) Start(ctx context.Context) {
	if l.queueURL == "" {
		l.logger.Warn().Msg("URL da fila SQS não configurada. Ações operacionais desativadas.")
		return
	}

	l.logger.Info().Str("queue", l.queueURL).Msg("Monitorando fila SQS de operações")

	for {
		select {
		case <-ctx.Done():
			l.logger.Info().Msg("Parando monitoramento SQS")
			return
		default:
			out, err := l.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
				QueueUrl:            aws.String(l.queueURL),
				MaxNumberOfMessages: 1,
				WaitTimeSeconds:     20, // long polling
			})

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error().Err(err).Msg("Erro no SQS. Retentando em 5s...")
				time.Sleep(5 * time.Second)
				continue
			}

			for _, msg := range out.Messages {
				l.handle(ctx, aws.ToString(msg.Body))

				_, _ = l.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
					QueueUrl:      aws.String(l.queueURL),
					ReceiptHandle: msg.ReceiptHandle,
				})
			}
		}
	}
}

func (l *OpsListener) handle(ctx context.Context, body string) {
	var cmd opsCommand
	if err := json.Unmarshal([]byte(body), &cmd); err != nil {
		l.logger.Error().Err(err).Msg("Mensagem de operação com JSON inválido")
		return
	}

	switch cmd.Action {
	case "purge_cache":
		if err := l.svc.PurgeCache(ctx); err != nil {
			l.logger.Error().Err(err).Msg("Falha ao limpar o cache")
			return
		}
		l.logger.Info().Msg("Cache limpo via fila de operações")

	case "unblock":
		l.svc.Unblock(cmd.Bot)
		l.logger.Info().Str("bot", cmd.Bot).Msg("Bot desbloqueado via fila de operações")

	default:
		l.logger.Warn().Str("action", cmd.Action).Msg("Ação de operação desconhecida")
	}
}
