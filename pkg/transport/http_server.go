package transport

import (
	"fmt"
	"net/http"

	"github.com/consultape/consulta-gateway/pkg/artifacts"
	"github.com/consultape/consulta-gateway/pkg/config"
	"github.com/consultape/consulta-gateway/pkg/metrics"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// NewRouter monta o roteador com todas as rotas do gateway e a cadeia de
// middlewares: observabilidade, limite de concorrência e prazo máximo por
// requisição.
func NewRouter(cfg *config.ServiceConfig, svc Gateway, files artifacts.Store, provider metrics.Provider) *mux.Router {
	h := NewHandlers(svc, files)

	r := mux.NewRouter()
	r.Use(ObservabilityMiddleware(provider))
	r.Use(ConcurrencyMiddleware(cfg.Service.MaxConcurrent, provider))
	r.Use(TimeoutMiddleware(cfg.Service.GetTimeout()))

	r.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/status", h.StatusHandler).Methods(http.MethodGet)
	r.HandleFunc("/files/{filename}", h.FilesHandler).Methods(http.MethodGet)

	for _, rt := range queryRoutes {
		r.HandleFunc(rt.path, h.queryHandler(rt)).Methods(http.MethodGet)
	}
	r.HandleFunc("/fisnm", h.FisnmHandler).Methods(http.MethodGet)
	r.HandleFunc("/command", h.CommandHandler).Methods(http.MethodGet)

	return r
}

// StartHTTPServer sobe o servidor local (bloqueante).
func StartHTTPServer(cfg *config.ServiceConfig, handler http.Handler) error {
	addr := fmt.Sprintf("%s:%d", cfg.Service.BindAddress, cfg.Service.Port)
	log.Info().Str("addr", addr).Msg("Servidor HTTP ouvindo")

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}
	return server.ListenAndServe()
}
