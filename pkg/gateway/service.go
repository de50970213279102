package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/consultape/consulta-gateway/pkg/artifacts"
	"github.com/consultape/consulta-gateway/pkg/cache"
	"github.com/consultape/consulta-gateway/pkg/config"
	"github.com/consultape/consulta-gateway/pkg/metrics"
	"github.com/consultape/consulta-gateway/pkg/parser"
	"github.com/consultape/consulta-gateway/pkg/relay"
	"github.com/consultape/consulta-gateway/pkg/responder"
	"github.com/rs/zerolog"
)

// Service orquestra uma consulta de ponta a ponta: cache, escolha do bot
// (principal ou respaldo), coleta das respostas, montagem do envelope e
// persistência dos anexos.
type Service struct {
	cfg       *config.ServiceConfig
	log       zerolog.Logger
	session   relay.Session
	cache     cache.Store
	artifacts artifacts.Store
	tracker   *FailureTracker
	metrics   metrics.Provider
}

func New(cfg *config.ServiceConfig, log zerolog.Logger, session relay.Session, cacheStore cache.Store, artifactStore artifacts.Store, provider metrics.Provider) *Service {
	if provider == nil {
		provider = &metrics.NoopProvider{}
	}
	return &Service{
		cfg:       cfg,
		log:       log,
		session:   session,
		cache:     cacheStore,
		artifacts: artifactStore,
		tracker:   NewFailureTracker(cfg.Relay.BlockWindow),
		metrics:   provider,
	}
}

// collected carrega uma mensagem recebida junto com sua versão limpa.
type collected struct {
	msg     relay.Message
	cleaned parser.Cleaned
}

// Query executa o comando no bot e devolve o envelope da resposta. Somente
// envelopes de sucesso vão para o cache.
func (s *Service) Query(ctx context.Context, command, param string) responder.Result {
	s.metrics.Count("query", 1, []string{"command:" + command})

	key := cache.Key(command, param)
	if s.cacheEnabled() {
		if raw, err := s.cache.Get(ctx, key); err == nil {
			var cached responder.Result
			if err := json.Unmarshal(raw, &cached); err == nil {
				s.log.Debug().Str("command", command).Str("param", param).Msg("usando respuesta en caché")
				s.metrics.Count("cache.hit", 1, []string{"command:" + command})
				return cached
			}
		}
		s.metrics.Count("cache.miss", 1, []string{"command:" + command})
	}

	result := s.consult(ctx, command, param)

	if result.IsSuccess() && s.cacheEnabled() {
		if raw, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, key, raw); err != nil {
				s.log.Warn().Err(err).Str("command", command).Msg("falha ao gravar no cache")
			}
		}
	}

	return result
}

func (s *Service) cacheEnabled() bool {
	return s.cfg.Cache.Enabled && s.cache != nil
}

func (s *Service) consult(ctx context.Context, command, param string) responder.Result {
	full := command
	if param != "" {
		full = fmt.Sprintf("%s %s", command, param)
	}

	bot := s.cfg.Relay.PrimaryBot
	useBackup := false
	timeout := s.cfg.Relay.PrimaryTimeout

	if s.tracker.Blocked(bot) {
		bot = s.cfg.Relay.BackupBot
		useBackup = true
		timeout = s.cfg.Relay.BackupNormalTimeout
	}

	msgs, antiSpam, err := s.collect(ctx, bot, full, timeout)
	if err != nil {
		return responder.Error(err.Error())
	}

	// A repetição no respaldo só vale quando a rejeição veio do principal.
	if antiSpam && !useBackup {
		s.log.Warn().Str("bot", bot).Msg("anti-spam detectado, usando bot de respaldo")
		s.metrics.Count("bot.failover", 1, []string{"reason:anti_spam"})

		bot = s.cfg.Relay.BackupBot
		useBackup = true

		msgs, _, err = s.collect(ctx, bot, full, s.cfg.Relay.BackupTimeout)
		if err != nil {
			return responder.Error(err.Error())
		}
	}

	if len(msgs) == 0 && !useBackup {
		s.tracker.RecordFailure(s.cfg.Relay.PrimaryBot)
		s.metrics.Count("bot.no_response", 1, []string{"bot:primary"})
		return responder.Error("No se obtuvo respuesta del bot principal.")
	}

	if len(msgs) == 0 {
		s.metrics.Count("bot.no_response", 1, []string{"bot:backup"})
		return responder.Error("No se obtuvo respuesta del bot.")
	}

	return s.assemble(ctx, msgs)
}

// collect envia o comando e acumula as respostas do bot até que (a) o
// timeout geral expire, (b) passe o período de silêncio depois da primeira
// mensagem, ou (c) chegue uma resposta terminal (anti-spam ou "sin
// resultados"). A rejeição anti-spam nunca entra como conteúdo.
func (s *Service) collect(ctx context.Context, bot, text string, timeout time.Duration) ([]collected, bool, error) {
	ch, stop := s.session.Listen(bot)
	defer stop()

	if err := s.session.Send(ctx, bot, text); err != nil {
		return nil, false, fmt.Errorf("error enviando comando al bot: %w", err)
	}

	overall := time.NewTimer(timeout)
	defer overall.Stop()

	// O timer de silêncio só é armado depois da primeira mensagem.
	var quiet *time.Timer
	var quietC <-chan time.Time
	defer func() {
		if quiet != nil {
			quiet.Stop()
		}
	}()

	var out []collected
	for {
		select {
		case <-ctx.Done():
			return out, false, ctx.Err()

		case <-overall.C:
			return out, false, nil

		case <-quietC:
			return out, false, nil

		case msg, ok := <-ch:
			if !ok {
				return out, false, nil
			}

			if parser.IsAntiSpam(msg.Text) {
				return out, true, nil
			}
			if parser.IsImmediateNotFound(msg.Text) {
				return out, false, nil
			}

			out = append(out, collected{msg: msg, cleaned: parser.Clean(msg.Text)})

			if quiet == nil {
				quiet = time.NewTimer(s.cfg.Relay.QuietPeriod)
				quietC = quiet.C
			} else {
				if !quiet.Stop() {
					select {
					case <-quiet.C:
					default:
					}
				}
				quiet.Reset(s.cfg.Relay.QuietPeriod)
			}
		}
	}
}

// assemble transforma as mensagens coletadas no envelope final: baixa os
// anexos, combina os textos, estrutura os registros e anexa os metadados.
func (s *Service) assemble(ctx context.Context, msgs []collected) responder.Result {
	for _, m := range msgs {
		if parser.IsWrongFormat(m.cleaned.Text) {
			return responder.Error("Formato incorrecto.")
		}
	}

	for _, m := range msgs {
		if m.cleaned.Fields.NotFound {
			return responder.Error("No se encontraron resultados.")
		}
	}

	var urls []interface{}
	for _, m := range msgs {
		if m.msg.Media == nil {
			continue
		}
		data, ext, err := s.session.Download(ctx, m.msg)
		if err != nil {
			s.log.Warn().Err(err).Int64("message_id", m.msg.ID).Msg("error descargando archivo")
			continue
		}
		name := artifacts.FileName(m.msg.ID, ext)
		if err := s.artifacts.Save(ctx, name, data); err != nil {
			s.log.Warn().Err(err).Str("file", name).Msg("falha ao gravar anexo")
			continue
		}
		urls = append(urls, map[string]interface{}{
			"url":  s.fileURL(name),
			"type": "document",
		})
	}

	var parts []string
	for _, m := range msgs {
		if m.cleaned.Text != "" {
			parts = append(parts, m.cleaned.Text)
		}
	}
	combined := strings.TrimSpace(strings.Join(parts, "\n\n"))

	parsed := parser.Parse(combined)

	fields := map[string]interface{}{}
	for _, m := range msgs {
		if m.cleaned.Fields.PhotoType != "" {
			if _, ok := fields["photo_type"]; !ok {
				fields["photo_type"] = m.cleaned.Fields.PhotoType
			}
		}
	}

	data := map[string]interface{}{}
	switch {
	case len(parsed) > 1:
		records := make([]interface{}, 0, len(parsed))
		for _, r := range parsed {
			records = append(records, map[string]interface{}(r))
		}
		data["denuncias"] = records
		for k, v := range fields {
			data[k] = v
		}

	case len(parsed) == 1:
		for k, v := range fields {
			data[k] = v
		}
		for k, v := range parsed[0] {
			data[k] = v
		}

	default:
		for k, v := range fields {
			data[k] = v
		}
	}

	if len(urls) > 0 {
		data["urls"] = urls
	}

	return responder.Success(data, combined)
}

func (s *Service) fileURL(name string) string {
	base := strings.TrimRight(s.cfg.Service.PublicURL, "/")
	return base + "/files/" + name
}

// Status devolve o snapshot operacional exposto em GET /status.
func (s *Service) Status() map[string]interface{} {
	primary := s.cfg.Relay.PrimaryBot
	blocked := s.tracker.Blocked(primary)

	st := map[string]interface{}{
		"status": "online",
		"bots": map[string]string{
			"primary": primary,
			"backup":  s.cfg.Relay.BackupBot,
		},
		"primary_blocked": blocked,
		"cache_enabled":   s.cfg.Cache.Enabled,
		"cache_backend":   s.cfg.Cache.Backend,
	}
	if until, ok := s.tracker.BlockedUntil(primary); ok {
		st["primary_blocked_until"] = until.UTC().Format(time.RFC3339)
	}
	return st
}

// PurgeCache descarta todas as respostas em cache (ação operacional).
func (s *Service) PurgeCache(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Purge(ctx)
}

// Unblock remove o bloqueio de um bot antes da janela expirar.
func (s *Service) Unblock(bot string) {
	if bot == "" {
		bot = s.cfg.Relay.PrimaryBot
	}
	s.tracker.Unblock(bot)
}
