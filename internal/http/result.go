package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/apperr"
)

// result is the JSON envelope of successful responses.
type result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result{Code: 0, Message: "ok", Data: data})
}

// writeErr maps the error onto its HTTP status and serializes the typed
// error body. Unknown errors become opaque 500s and are logged with cause.
func writeErr(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	appErr := apperr.From(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(appErr)
}

// readBody decodes the JSON request body into dst.
func readBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("request body is not valid JSON")
	}
	return nil
}
