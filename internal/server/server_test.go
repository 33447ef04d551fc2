package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

type routeHandler struct {
	registered bool
}

func (h *routeHandler) Register(e *echo.Echo) {
	h.registered = true
	e.GET("/registered", func(c echo.Context) error {
		return c.String(http.StatusOK, "yes")
	})
}

func TestNewRegistersHandlers(t *testing.T) {
	t.Parallel()

	h := &routeHandler{}
	srv := New(nil, "", []Handler{h, nil})

	if !h.registered {
		t.Fatal("handler was not registered")
	}
	if srv.addr != ":8080" {
		t.Fatalf("expected default addr, got %q", srv.addr)
	}

	req := httptest.NewRequest(http.MethodGet, "/registered", nil)
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("registered route not served: %d", rec.Code)
	}
}
