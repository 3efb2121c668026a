package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestContext() echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestFromContext_ScopedLogger(t *testing.T) {
	c := newTestContext()
	scoped := zap.NewNop().With(zap.String("request_id", "abc"))
	c.Set("logger", scoped)

	if got := FromContext(c); got != scoped {
		t.Error("expected the request-scoped logger back unchanged")
	}
}

func TestFromContext_Fallbacks(t *testing.T) {
	core, recorded := observer.New(zap.InfoLevel)
	prev := log
	log = zap.New(core)
	defer func() { log = prev }()

	lastRequestID := func(t *testing.T, c echo.Context) string {
		t.Helper()
		FromContext(c).Info("ping")
		entries := recorded.TakeAll()
		if len(entries) == 0 {
			t.Fatal("no log entry recorded")
		}
		for _, f := range entries[len(entries)-1].Context {
			if f.Key == "request_id" {
				return f.String
			}
		}
		return ""
	}

	t.Run("context value", func(t *testing.T) {
		c := newTestContext()
		c.Set("request_id", "ctx-id")
		if got := lastRequestID(t, c); got != "ctx-id" {
			t.Errorf("expected ctx-id, got %q", got)
		}
	})

	t.Run("header", func(t *testing.T) {
		c := newTestContext()
		c.Request().Header.Set(RequestIDKey, "hdr-id")
		if got := lastRequestID(t, c); got != "hdr-id" {
			t.Errorf("expected hdr-id, got %q", got)
		}
	})

	t.Run("missing everywhere", func(t *testing.T) {
		c := newTestContext()
		if got := lastRequestID(t, c); got != "unknown" {
			t.Errorf("expected unknown, got %q", got)
		}
	})
}
