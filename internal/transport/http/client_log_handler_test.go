package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "moonlight/internal/errors"
	"moonlight/internal/shared/testutil"
)

func TestClientLogHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantLevel  slog.Level
		wantLogged string
	}{
		{
			name:       "error entry",
			body:       `{"level":"error","message":"chart failed","source":"app.js","data":{"metric":"GHI"}}`,
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelError,
			wantLogged: "chart failed",
		},
		{
			name:       "unknown level logs as info",
			body:       `{"level":"trace","message":"page loaded"}`,
			wantStatus: http.StatusOK,
			wantLevel:  slog.LevelInfo,
			wantLogged: "page loaded",
		},
		{
			name:       "malformed json",
			body:       `{"level":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty message",
			body:       `{"level":"info","message":"  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "oversized body",
			body:       `{"message":"` + strings.Repeat("x", maxClientLogBytes) + `"}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, records := testutil.NewTestLogger(t)
			h := NewClientLogHandler(logger, apierrors.NewErrorHandler(logger, false))

			req := httptest.NewRequest(http.MethodPost, "/api/logs", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			h.Handle(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantLogged != "" {
				testutil.AssertLogContains(t, records, tt.wantLevel, tt.wantLogged)
			}
		})
	}
}
