package api

import (
	"encoding/json"
	"net/http"

	"github.com/skovmand/advent-of-code-2017/internal/engine"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

// statusFor maps an outcome kind to its HTTP status.
func statusFor(kind string) int {
	switch kind {
	case "ok":
		return http.StatusOK
	case "parse_error", "duplicate_name", "dangling_child", "multiple_parents",
		"no_root", "multiple_roots", "cycle", "weight_overflow":
		return http.StatusBadRequest
	case "queue_full":
		return http.StatusTooManyRequests
	case "timeout":
		return http.StatusGatewayTimeout
	case "canceled":
		return http.StatusServiceUnavailable
	case "internal":
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

// batchResponse summarises a batch run.
type batchResponse struct {
	Total   int              `json:"total"`
	OK      int              `json:"ok"`
	Failed  int              `json:"failed"`
	Results []*engine.Result `json:"results"`
}
