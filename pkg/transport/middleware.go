package transport

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/consultape/consulta-gateway/pkg/metrics"
	"github.com/consultape/consulta-gateway/pkg/responder"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
	ContextKeyCorrID    = "correlation_id"
)

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, fmt.Sprintf("%d", duration.Milliseconds()))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// ObservabilityMiddleware injeta o correlation ID no contexto, loga a
// requisição completa e emite as métricas de latência e status.
func ObservabilityMiddleware(provider metrics.Provider) func(http.Handler) http.Handler {
	if provider == nil {
		provider = &metrics.NoopProvider{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			corrID := r.Header.Get(HeaderCorrelationID)
			if corrID == "" {
				corrID = uuid.NewString()
			}
			w.Header().Set(HeaderCorrelationID, corrID)

			logger := log.With().Str("correlation_id", corrID).Logger()
			ctx := logger.WithContext(r.Context())
			ctx = context.WithValue(ctx, ContextKeyCorrID, corrID)

			wrapper := &responseWriterWrapper{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				startTime:      start,
			}

			next.ServeHTTP(wrapper, r.WithContext(ctx))

			latency := time.Since(start).Milliseconds()
			tags := []string{
				"method:" + r.Method,
				"path:" + r.URL.Path,
				"status:" + strconv.Itoa(wrapper.statusCode),
			}
			provider.Count("http.request", 1, tags)
			provider.Histogram("http.request.latency_ms", float64(latency), tags)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", wrapper.statusCode).
				Int64("latency_ms", latency).
				Msg("request completed")
		})
	}
}

// ConcurrencyMiddleware limita o número de requisições atendidas ao mesmo
// tempo. Quem chega com as vagas ocupadas espera na fila; só desiste se o
// contexto da requisição for cancelado.
func ConcurrencyMiddleware(max int, provider metrics.Provider) func(http.Handler) http.Handler {
	if max <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if provider == nil {
		provider = &metrics.NoopProvider{}
	}

	slots := make(chan struct{}, max)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case slots <- struct{}{}:
				provider.Gauge("http.in_flight", float64(len(slots)), nil)
				defer func() {
					<-slots
					provider.Gauge("http.in_flight", float64(len(slots)), nil)
				}()
				next.ServeHTTP(w, r)

			case <-r.Context().Done():
				responder.WriteResult(w, http.StatusServiceUnavailable,
					responder.Error("Servicio saturado. Intente nuevamente."))
			}
		})
	}
}

// TimeoutMiddleware impõe o prazo máximo de atendimento por requisição.
// Handlers que respeitam o contexto devolvem 504 quando o prazo estoura.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
