package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/consultape/consulta-gateway/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Bridge fala com a ponte de mensagens via HTTP: envio de comandos, long
// polling de updates e download de mídia. O client é reutilizado para
// aproveitar pooling de conexões.
type Bridge struct {
	baseURL string
	token   string
	session string
	client  *http.Client
	logger  zerolog.Logger
}

func NewBridge(cfg config.RelayConf) *Bridge {
	return &Bridge{
		baseURL: strings.TrimRight(cfg.BridgeURL, "/"),
		token:   cfg.BridgeToken,
		session: cfg.Session,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: log.With().Str("component", "relay_bridge").Logger(),
	}
}

func (b *Bridge) Send(ctx context.Context, bot, text string) error {
	payload, err := json.Marshal(map[string]string{
		"bot":  bot,
		"text": text,
	})
	if err != nil {
		return fmt.Errorf("erro ao montar payload de envio: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/send", bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("erro ao criar request de envio: %w", err)
	}
	b.decorate(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("falha na conexão com a ponte: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("ponte retornou erro no envio: %d", resp.StatusCode)
	}
	return nil
}

func (b *Bridge) Listen(bot string) (<-chan Message, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan Message, 16)

	go func() {
		defer close(out)
		var offset int64

		for {
			msgs, err := b.poll(ctx, bot, offset)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				b.logger.Error().Err(err).Str("bot", bot).Msg("Erro no polling da ponte. Retentando em 2s...")
				select {
				case <-time.After(2 * time.Second):
					continue
				case <-ctx.Done():
					return
				}
			}

			for _, msg := range msgs {
				if msg.ID >= offset {
					offset = msg.ID + 1
				}
				select {
				case out <- msg:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, cancel
}

func (b *Bridge) poll(ctx context.Context, bot string, offset int64) ([]Message, error) {
	q := url.Values{}
	q.Set("bot", bot)
	q.Set("offset", strconv.FormatInt(offset, 10))
	q.Set("wait", "20") // long polling

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/updates?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar request de polling: %w", err)
	}
	b.decorate(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha no polling da ponte: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("ponte retornou erro no polling: %d", resp.StatusCode)
	}

	var msgs []Message
	if err := json.NewDecoder(resp.Body).Decode(&msgs); err != nil {
		return nil, fmt.Errorf("erro ao decodificar updates: %w", err)
	}
	return msgs, nil
}

func (b *Bridge) Download(ctx context.Context, msg Message) ([]byte, string, error) {
	if msg.Media == nil {
		return nil, "", fmt.Errorf("mensagem %d não possui mídia", msg.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"/media/"+url.PathEscape(msg.Media.ID), nil)
	if err != nil {
		return nil, "", fmt.Errorf("erro ao criar request de mídia: %w", err)
	}
	b.decorate(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("falha ao baixar mídia %s: %w", msg.Media.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("ponte retornou erro na mídia %s: %d", msg.Media.ID, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("erro ao ler mídia %s: %w", msg.Media.ID, err)
	}

	return data, Extension(msg.Media), nil
}

// Extension decide a extensão do arquivo salvo: PDF quando a mídia declara
// pdf, senão JPG, como no serviço original.
func Extension(media *Media) string {
	if media != nil && strings.Contains(strings.ToLower(media.Kind), "pdf") {
		return ".pdf"
	}
	return ".jpg"
}

func (b *Bridge) decorate(req *http.Request) {
	req.Header.Set("User-Agent", "ConsultaGateway/Bridge")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}
	if b.session != "" {
		req.Header.Set("X-Relay-Session", b.session)
	}
}
