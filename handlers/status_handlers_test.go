package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHome(t *testing.T) {
	r := gin.New()
	r.GET("/", Home)

	w := serve(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bienvenue sur le serveur Pokemon!", w.Body.String())
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		ping     func(ctx context.Context) error
		wantCode int
		wantBody string
	}{
		{
			name:     "no ping",
			wantCode: http.StatusOK,
			wantBody: `{"status":"UP"}`,
		},
		{
			name:     "database reachable",
			ping:     func(ctx context.Context) error { return nil },
			wantCode: http.StatusOK,
			wantBody: `{"status":"UP"}`,
		},
		{
			name:     "database down",
			ping:     func(ctx context.Context) error { return errors.New("connection refused") },
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"DOWN","details":"database unreachable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/health", NewHealthHandler(tt.ping).Health)

			w := serve(r, http.MethodGet, "/health", "")
			assert.Equal(t, tt.wantCode, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
