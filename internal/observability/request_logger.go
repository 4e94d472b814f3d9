package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// ErrorCodeLocal is the fiber local under which the error middleware stores
// the code of the error it rendered.
const ErrorCodeLocal = "observability.error_code"

// RequestLogger logs one line per request and feeds metrics. It must wrap the
// error middleware to see the final status. Strings taken from the request
// are copied since fasthttp reuses their buffers.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		elapsed := time.Since(start)

		method := utils.CopyString(c.Method())
		status := c.Response().StatusCode()
		code, _ := c.Locals(ErrorCodeLocal).(string)
		metrics.Observe(Sample{
			Method:    method,
			Route:     c.Route().Path,
			Status:    status,
			Latency:   elapsed,
			ErrorCode: code,
		})

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", utils.CopyString(c.Path())),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.IP()),
		}
		if code != "" {
			fields = append(fields, zap.String("error_code", code))
		}
		logger.Info("request", fields...)
		return err
	}
}
