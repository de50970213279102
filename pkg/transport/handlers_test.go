package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/consultape/consulta-gateway/pkg/artifacts"
	"github.com/consultape/consulta-gateway/pkg/config"
	"github.com/consultape/consulta-gateway/pkg/responder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGateway struct {
	lastCommand string
	lastParam   string
	result      responder.Result
	delay       time.Duration
}

func (s *stubGateway) Query(ctx context.Context, command, param string) responder.Result {
	s.lastCommand = command
	s.lastParam = param
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
		}
	}
	return s.result
}

func (s *stubGateway) Status() map[string]interface{} {
	return map[string]interface{}{"status": "online"}
}

func testRouter(t *testing.T, svc Gateway) (http.Handler, artifacts.Store) {
	t.Helper()

	cfg := &config.ServiceConfig{}
	cfg.Service.MaxConcurrent = 4
	cfg.Service.Timeout = "2s"

	store, err := artifacts.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return NewRouter(cfg, svc, store, nil), store
}

func doGet(t *testing.T, handler http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) responder.Result {
	t.Helper()
	var result responder.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestHealth(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	rec := doGet(t, router, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestStatus(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	rec := doGet(t, router, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "online")
}

func TestConsulta_ParametroAusente(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	rec := doGet(t, router, "/rqh")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parámetro 'dni' requerido", decodeResult(t, rec).Message)
}

func TestConsulta_DNIInvalido(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	for _, dni := range []string{"123", "123456789", "abcdefgh"} {
		rec := doGet(t, router, "/rqh?dni="+dni)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "dni=%s", dni)
		assert.Equal(t, "DNI inválido. Debe tener 8 dígitos numéricos.", decodeResult(t, rec).Message)
	}
}

func TestConsulta_Valida(t *testing.T) {
	svc := &stubGateway{result: responder.Success(map[string]interface{}{"DNI": "12345678"}, "DNI : 12345678")}
	router, _ := testRouter(t, svc)

	rec := doGet(t, router, "/rqh?dni=12345678")
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeResult(t, rec)
	assert.Equal(t, "success", result.Status)
	assert.Equal(t, "/rqh", svc.lastCommand)
	assert.Equal(t, "12345678", svc.lastParam)
}

func TestConsulta_RUCInvalido(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	rec := doGet(t, router, "/fisruc?ruc=123")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "RUC inválido. Debe tener 11 dígitos numéricos.", decodeResult(t, rec).Message)
}

func TestConsulta_PlacaForaDoTamanho(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	rec := doGet(t, router, "/denp?placa=ab")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Placa inválida. Debe tener entre 5 y 7 caracteres.", decodeResult(t, rec).Message)
}

func TestFisnm_SemParametros(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	rec := doGet(t, router, "/fisnm")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Se requiere al menos un parámetro: 'nombres', 'paterno' o 'materno'", decodeResult(t, rec).Message)
}

func TestFisnm_MontaParametroComposto(t *testing.T) {
	svc := &stubGateway{result: responder.Success(nil, "")}
	router, _ := testRouter(t, svc)

	rec := doGet(t, router, "/fisnm?paterno=PEREZ")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "/nm", svc.lastCommand)
	assert.Equal(t, "|PEREZ|", svc.lastParam)
}

func TestCommand_Passthrough(t *testing.T) {
	svc := &stubGateway{result: responder.Success(nil, "")}
	router, _ := testRouter(t, svc)

	rec := doGet(t, router, "/command?cmd=/sunat&param=20123456789")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/sunat", svc.lastCommand)
	assert.Equal(t, "20123456789", svc.lastParam)

	rec = doGet(t, router, "/command")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Parámetro 'cmd' requerido", decodeResult(t, rec).Message)
}

func TestFiles_ServeAnexo(t *testing.T) {
	router, store := testRouter(t, &stubGateway{})
	require.NoError(t, store.Save(context.Background(), "1712345678_7.pdf", []byte("%PDF-1.4")))

	rec := doGet(t, router, "/files/1712345678_7.pdf")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4", rec.Body.String())
}

func TestFiles_NaoEncontrado(t *testing.T) {
	router, _ := testRouter(t, &stubGateway{})

	rec := doGet(t, router, "/files/nao_existe.jpg")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Archivo no encontrado", decodeResult(t, rec).Message)
}

func TestConsulta_PrazoEstourado(t *testing.T) {
	cfg := &config.ServiceConfig{}
	cfg.Service.MaxConcurrent = 4
	cfg.Service.Timeout = "30ms"

	store, err := artifacts.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	svc := &stubGateway{
		delay:  200 * time.Millisecond,
		result: responder.Error("context deadline exceeded"),
	}
	router := NewRouter(cfg, svc, store, nil)

	rec := doGet(t, router, "/rqh?dni=12345678")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "Tiempo de espera agotado.", decodeResult(t, rec).Message)
}
