package middleware

import (
	"errors"
	"time"

	apperrors "pollos-admin/pkg/errors"
	"pollos-admin/pkg/logger"
	"pollos-admin/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// RequestContext seeds the request's context logger with the id assigned by
// the requestid middleware, which must run first.
func RequestContext(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, _ := c.Locals("requestid").(string)
		if id == "" {
			id = c.GetRespHeader(fiber.HeaderXRequestID)
		}
		c.SetUserContext(log.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

// Metrics observes the duration of every request by route pattern.
func Metrics(rec *metrics.Recorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = apperrors.MetadataFor(apperrors.CodeOf(err)).HTTPStatus
			}
		}
		rec.ObserveRequest(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
