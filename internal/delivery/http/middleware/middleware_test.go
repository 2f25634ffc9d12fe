package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_LevelFollowsStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mw := Logger(zap.New(core))

	for _, status := range []int{http.StatusOK, http.StatusNotFound, http.StatusBadGateway} {
		h := mw(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/cart?x=1", nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, int64(http.StatusNotFound), fields["status"])
	assert.Equal(t, "/api/cart", fields["path"])
	assert.Equal(t, "x=1", fields["query"])
}

func TestLogger_KeepsIncomingRequestID(t *testing.T) {
	h := Logger(nil)(func(w http.ResponseWriter, r *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
}

func TestIsOriginAllowed(t *testing.T) {
	allowed := []string{"http://localhost:5173", "*.cameroonmark.cm"}

	assert.True(t, isOriginAllowed("http://localhost:5173", allowed))
	assert.True(t, isOriginAllowed("https://shop.cameroonmark.cm", allowed))
	assert.False(t, isOriginAllowed("https://evilcameroonmark.cm", allowed))
	assert.False(t, isOriginAllowed("", allowed))
}
