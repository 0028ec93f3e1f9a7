package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]int{
		"ok":                  http.StatusOK,
		"parse_error":         http.StatusBadRequest,
		"cycle":               http.StatusBadRequest,
		"weight_overflow":     http.StatusBadRequest,
		"undiagnosable":       http.StatusUnprocessableEntity,
		"depth_exceeded":      http.StatusUnprocessableEntity,
		"non_positive_weight": http.StatusUnprocessableEntity,
		"queue_full":          http.StatusTooManyRequests,
		"timeout":             http.StatusGatewayTimeout,
		"canceled":            http.StatusServiceUnavailable,
		"internal":            http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, statusFor(kind), kind)
	}
}
