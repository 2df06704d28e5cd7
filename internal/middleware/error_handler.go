package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"botsales-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const errorLogSize = 50

// ErrorLogEntry is one item of the health error log.
type ErrorLogEntry struct {
	Time    time.Time `json:"time"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
	TraceID string    `json:"trace_id,omitempty"`
}

// NewErrorHandler returns the global error handler. Server errors are logged and
// pushed onto the Redis error log (newest first, capped) when rdb is set.
func NewErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("Request failed")
			if rdb != nil {
				recordError(rdb, ErrorLogEntry{
					Time:    time.Now().UTC(),
					Method:  c.Method(),
					Path:    c.Path(),
					Status:  code,
					Message: err.Error(),
					TraceID: GetTraceID(c),
				})
			}
		}
		return response.Error(c, message, code, nil)
	}
}

func recordError(rdb *redis.Client, e ErrorLogEntry) {
	b, _ := json.Marshal(e)
	ctx := context.Background()
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, KeyErrorLog, b)
	pipe.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to record error log entry")
	}
}
