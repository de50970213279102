package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/consultape/consulta-gateway/pkg/artifacts"
	"github.com/consultape/consulta-gateway/pkg/responder"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Gateway é o que o transporte precisa do serviço de consultas.
type Gateway interface {
	Query(ctx context.Context, command, param string) responder.Result
	Status() map[string]interface{}
}

// Handlers concentra as rotas HTTP do gateway.
type Handlers struct {
	svc      Gateway
	files    artifacts.Store
	validate *validator.Validate
}

func NewHandlers(svc Gateway, files artifacts.Store) *Handlers {
	return &Handlers{
		svc:      svc,
		files:    files,
		validate: validator.New(),
	}
}

// queryRoute descreve um endpoint de consulta: o parâmetro esperado, a regra
// de validação e as mensagens devolvidas ao cliente.
type queryRoute struct {
	path       string
	command    string
	param      string
	rule       string
	missingMsg string
	invalidMsg string
}

var queryRoutes = []queryRoute{
	{
		path: "/rqh", command: "/rqh", param: "dni",
		rule:       "numeric,len=8",
		missingMsg: "Parámetro 'dni' requerido",
		invalidMsg: "DNI inválido. Debe tener 8 dígitos numéricos.",
	},
	{
		path: "/dend", command: "/dend", param: "dni",
		rule:       "numeric,len=8",
		missingMsg: "Parámetro 'dni' requerido",
		invalidMsg: "DNI inválido. Debe tener 8 dígitos numéricos.",
	},
	{
		path: "/dence", command: "/dence", param: "ce",
		rule:       "min=6,max=12",
		missingMsg: "Parámetro 'ce' requerido",
		invalidMsg: "Carnet de extranjería inválido. Debe tener entre 6 y 12 caracteres.",
	},
	{
		path: "/denpas", command: "/denpas", param: "pasaporte",
		rule:       "min=6,max=12",
		missingMsg: "Parámetro 'pasaporte' requerido",
		invalidMsg: "Pasaporte inválido. Debe tener entre 6 y 12 caracteres.",
	},
	{
		path: "/denci", command: "/denci", param: "ci",
		rule:       "min=6,max=12",
		missingMsg: "Parámetro 'ci' requerido",
		invalidMsg: "Cédula de identidad inválida. Debe tener entre 6 y 12 caracteres.",
	},
	{
		path: "/denp", command: "/denp", param: "placa",
		rule:       "min=5,max=7",
		missingMsg: "Parámetro 'placa' requerido",
		invalidMsg: "Placa inválida. Debe tener entre 5 y 7 caracteres.",
	},
	{
		path: "/denar", command: "/denar", param: "serie",
		rule:       "min=5,max=13",
		missingMsg: "Parámetro 'serie' requerido",
		invalidMsg: "Serie de armamento inválida. Debe tener entre 5 y 13 caracteres.",
	},
	{
		path: "/dencl", command: "/dencl", param: "clave",
		rule:       "min=5,max=11",
		missingMsg: "Parámetro 'clave' requerido",
		invalidMsg: "Clave de denuncia inválida. Debe tener entre 5 y 11 caracteres.",
	},
	{
		path: "/fis", command: "/fis", param: "dni",
		rule:       "numeric,len=8",
		missingMsg: "Parámetro 'dni' requerido",
		invalidMsg: "DNI inválido. Debe tener 8 dígitos numéricos.",
	},
	{
		path: "/fisruc", command: "/fisruc", param: "ruc",
		rule:       "numeric,len=11",
		missingMsg: "Parámetro 'ruc' requerido",
		invalidMsg: "RUC inválido. Debe tener 11 dígitos numéricos.",
	},
}

func (h *Handlers) queryHandler(rt queryRoute) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		value := r.URL.Query().Get(rt.param)
		if value == "" {
			responder.WriteResult(w, http.StatusBadRequest, responder.Error(rt.missingMsg))
			return
		}
		if err := h.validate.Var(value, rt.rule); err != nil {
			responder.WriteResult(w, http.StatusBadRequest, responder.Error(rt.invalidMsg))
			return
		}
		h.respond(w, r, rt.command, value)
	}
}

// FisnmHandler consulta por nome completo. Os três campos viram um único
// parâmetro no formato "nombres|paterno|materno".
func (h *Handlers) FisnmHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	nombres := q.Get("nombres")
	paterno := q.Get("paterno")
	materno := q.Get("materno")

	if nombres == "" && paterno == "" && materno == "" {
		responder.WriteResult(w, http.StatusBadRequest,
			responder.Error("Se requiere al menos un parámetro: 'nombres', 'paterno' o 'materno'"))
		return
	}

	param := fmt.Sprintf("%s|%s|%s", nombres, paterno, materno)
	h.respond(w, r, "/nm", param)
}

// CommandHandler repassa um comando arbitrário ao bot, sem validação de
// formato do parâmetro.
func (h *Handlers) CommandHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cmd := q.Get("cmd")
	if cmd == "" {
		responder.WriteResult(w, http.StatusBadRequest, responder.Error("Parámetro 'cmd' requerido"))
		return
	}
	h.respond(w, r, cmd, q.Get("param"))
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, command, param string) {
	result := h.svc.Query(r.Context(), command, param)

	if errors.Is(r.Context().Err(), context.DeadlineExceeded) {
		responder.WriteResult(w, http.StatusGatewayTimeout,
			responder.Error("Tiempo de espera agotado."))
		return
	}

	responder.WriteResult(w, http.StatusOK, result)
}

func (h *Handlers) HealthHandler(w http.ResponseWriter, r *http.Request) {
	responder.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handlers) StatusHandler(w http.ResponseWriter, r *http.Request) {
	responder.WriteJSON(w, http.StatusOK, h.svc.Status())
}

// FilesHandler serve os anexos baixados dos bots (PDFs e fotos).
func (h *Handlers) FilesHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["filename"]

	rc, err := h.files.Open(r.Context(), name)
	if err != nil {
		if errors.Is(err, artifacts.ErrNotFound) {
			responder.WriteResult(w, http.StatusNotFound, responder.Error("Archivo no encontrado"))
			return
		}
		log.Ctx(r.Context()).Error().Err(err).Str("file", name).Msg("erro ao abrir anexo")
		responder.WriteResult(w, http.StatusInternalServerError, responder.Error("Error interno"))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentTypeFor(name))
	if _, err := io.Copy(w, rc); err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("file", name).Msg("erro ao enviar anexo")
	}
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
