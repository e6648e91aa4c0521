package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockflow-api/pkg/logger"
)

// HTTPObserver recibe la duración y el status de cada petición (implementado por metrics.Metrics).
type HTTPObserver interface {
	ObserveHTTP(method, path string, status int, elapsed time.Duration)
}

// RequestMetrics mide cada petición y la registra en el log. La ruta se toma del patrón
// registrado (/api/products/:id) para no crear una serie por id.
func RequestMetrics(obs HTTPObserver, log *logger.Logger) fiber.Handler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if obs != nil {
			obs.ObserveHTTP(c.Method(), path, status, elapsed)
		}
		ev := log.Debug()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", path).
			Int("status", status).
			Dur("elapsed", elapsed).
			Str("request_id", requestID(c)).
			Msg("http request")
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if v, ok := c.Locals("requestid").(string); ok {
		return v
	}
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
