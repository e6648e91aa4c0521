package http_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/stockflow-api/internal/interfaces/http"
	"github.com/jhoicas/stockflow-api/pkg/logger"
)

type observation struct {
	method string
	path   string
	status int
}

type observerSpy struct {
	mu  sync.Mutex
	obs []observation
}

func (o *observerSpy) ObserveHTTP(method, path string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.obs = append(o.obs, observation{method, path, status})
}

func TestRequestMetrics_UsaPatronDeRuta(t *testing.T) {
	spy := &observerSpy{}
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(apphttp.RequestMetrics(spy, logger.NewWithWriter(&buf, "error")))
	app.Get("/api/products/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/boom", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusInternalServerError, "falla") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/products/abc", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	resp.Body.Close()

	require.Len(t, spy.obs, 2)
	assert.Equal(t, observation{http.MethodGet, "/api/products/:id", http.StatusNoContent}, spy.obs[0])
	assert.Equal(t, http.StatusInternalServerError, spy.obs[1].status)
	assert.Contains(t, buf.String(), "/boom", "los 5xx se registran en el log")
}
