package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/api/shared"
	"github.com/yaninavoda/afterparty-streetcode-sub000/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	var logs bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seen string
	handler := NewTraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	t.Run("generates an id", func(t *testing.T) {
		logs.Reset()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/terms", nil))

		assert.Len(t, seen, 32)
		assert.Equal(t, seen, rec.Header().Get(shared.TraceIDHeader))
		assert.Contains(t, logs.String(), `"msg":"inside handler"`)
		assert.Contains(t, logs.String(), `"trace_id":"`+seen+`"`)
	})

	t.Run("reuses a valid client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/terms", nil)
		req.Header.Set(shared.TraceIDHeader, "client-trace-7")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-trace-7", seen)
		assert.Equal(t, "client-trace-7", rec.Header().Get(shared.TraceIDHeader))
	})

	t.Run("replaces an unsafe client id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/terms", nil)
		req.Header.Set(shared.TraceIDHeader, "bad id\r\n")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Len(t, seen, 32)
	})
}
