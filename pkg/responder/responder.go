package responder

import (
	"encoding/json"
	"net/http"
)

// Result é o envelope de resposta da API, idêntico ao contrato original:
// sucesso → {"status":"success","data":{...},"raw_message":"..."}
// erro    → {"status":"error","message":"..."}
type Result struct {
	Status     string                 `json:"status"`
	Data       map[string]interface{} `json:"data,omitempty"`
	RawMessage string                 `json:"raw_message,omitempty"`
	Message    string                 `json:"message,omitempty"`
}

// MarshalJSON garante a forma do contrato: sucesso sempre carrega "data"
// (um objeto, mesmo vazio) e "raw_message"; erro só carrega "message".
func (r Result) MarshalJSON() ([]byte, error) {
	if r.IsSuccess() {
		data := r.Data
		if data == nil {
			data = map[string]interface{}{}
		}
		return json.Marshal(struct {
			Status     string                 `json:"status"`
			Data       map[string]interface{} `json:"data"`
			RawMessage string                 `json:"raw_message"`
		}{r.Status, data, r.RawMessage})
	}

	return json.Marshal(struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}{r.Status, r.Message})
}

func Success(data map[string]interface{}, raw string) Result {
	return Result{Status: "success", Data: data, RawMessage: raw}
}

func Error(msg string) Result {
	return Result{Status: "error", Message: msg}
}

func (r Result) IsSuccess() bool {
	return r.Status == "success"
}

// WriteJSON serializa qualquer payload com o Content-Type correto.
func WriteJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// WriteResult escreve o envelope no status HTTP informado.
func WriteResult(w http.ResponseWriter, code int, result Result) {
	WriteJSON(w, code, result)
}
