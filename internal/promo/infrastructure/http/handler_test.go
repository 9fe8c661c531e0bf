package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dmehra2102/bookit/internal/promo/application"
)

func TestValidate(t *testing.T) {
	r := chi.NewRouter()
	NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), application.NewService()).Register(r)

	tests := []struct {
		body   string
		status int
		want   string
	}{
		{`{"code":"save10"}`, http.StatusOK, `{"code":"SAVE10","discount":"10","type":"percentage","valid":true}`},
		{`{"code":"NOPE"}`, http.StatusNotFound, `{"error":{"kind":"promo_not_found","message":"invalid promo code"}}`},
		{`{}`, http.StatusBadRequest, `{"error":{"kind":"invalid_request","message":"code is required"}}`},
		{`{"code":1}`, http.StatusBadRequest, `{"error":{"kind":"invalid_request","message":"invalid request body"}}`},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/promo/validate", strings.NewReader(tt.body)))
		assert.Equal(t, tt.status, rec.Code, tt.body)
		assert.JSONEq(t, tt.want, rec.Body.String(), tt.body)
	}
}
