package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// LambdaHandler adapta eventos do API Gateway para o roteador HTTP. A mesma
// cadeia de rotas e middlewares atende os dois runtimes.
type LambdaHandler struct {
	router http.Handler
}

func NewLambdaHandler(router http.Handler) *LambdaHandler {
	return &LambdaHandler{router: router}
}

// proxyResponseWriter captura a resposta do roteador para devolver ao API
// Gateway.
type proxyResponseWriter struct {
	headers http.Header
	body    bytes.Buffer
	status  int
}

func newProxyResponseWriter() *proxyResponseWriter {
	return &proxyResponseWriter{headers: make(http.Header), status: http.StatusOK}
}

func (w *proxyResponseWriter) Header() http.Header { return w.headers }

func (w *proxyResponseWriter) Write(b []byte) (int, error) { return w.body.Write(b) }

func (w *proxyResponseWriter) WriteHeader(code int) { w.status = code }

// Handle processa a requisição vinda do API Gateway.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()

	corrID := req.Headers[HeaderCorrelationID]
	if corrID == "" {
		corrID = req.Headers["X-Correlation-Id"]
	}
	if corrID == "" {
		corrID = uuid.NewString()
	}

	logger := log.With().Str("correlation_id", corrID).Logger()
	ctx = logger.WithContext(ctx)

	httpReq, err := h.buildRequest(ctx, req)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusBadRequest,
			Body:       `{"status":"error","message":"Solicitud inválida"}`,
		}, nil
	}
	httpReq.Header.Set(HeaderCorrelationID, corrID)

	rec := newProxyResponseWriter()
	h.router.ServeHTTP(rec, httpReq)

	logger.Info().
		Str("method", req.HTTPMethod).
		Str("path", req.Path).
		Int("status", rec.status).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("lambda request completed")

	headers := make(map[string]string, len(rec.headers)+1)
	for k, v := range rec.headers {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	headers[HeaderCorrelationID] = corrID

	return events.APIGatewayProxyResponse{
		StatusCode: rec.status,
		Headers:    headers,
		Body:       rec.body.String(),
	}, nil
}

func (h *LambdaHandler) buildRequest(ctx context.Context, req events.APIGatewayProxyRequest) (*http.Request, error) {
	u := url.URL{Path: req.Path}

	q := u.Query()
	for k, v := range req.QueryStringParameters {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	method := req.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), strings.NewReader(req.Body))
	if err != nil {
		return nil, err
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	return httpReq, nil
}
