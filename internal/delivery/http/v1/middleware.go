package v1

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDCtxKey = "request_id"
	loggerCtxKey    = "logger"
)

func (h *handlerImpl) HandleRequestID(c *gin.Context) {
	requestID := c.GetHeader(requestIDHeader)
	if requestID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to generate request id")
			id = uuid.New()
		}
		requestID = id.String()
	}

	c.Set(requestIDCtxKey, requestID)
	c.Set(loggerCtxKey, h.logger.With().
		Str("request_id", requestID).
		Logger())
	c.Header(requestIDHeader, requestID)
	c.Next()
}

func (h *handlerImpl) HandleRequestLogging(c *gin.Context) {
	start := time.Now()
	path := c.Request.URL.Path
	method := c.Request.Method

	c.Next()

	logger := requestLogger(c, h.logger)
	status := c.Writer.Status()

	var event *zerolog.Event
	switch {
	case status >= http.StatusInternalServerError:
		event = logger.Error()
	case status >= http.StatusBadRequest:
		event = logger.Warn()
	default:
		event = logger.Info()
	}
	event.
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Str("client_ip", c.ClientIP()).
		Msg("handled request")
}

// NewCORSMiddleware allows any method and header, but only from the given origins.
func NewCORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowHeaders:  []string{"*"},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	})
}

// requestLogger returns the logger tagged by HandleRequestID or the fallback.
func requestLogger(c *gin.Context, fallback zerolog.Logger) *zerolog.Logger {
	value, exists := c.Get(loggerCtxKey)
	if exists {
		if logger, ok := value.(zerolog.Logger); ok {
			return &logger
		}
	}
	return &fallback
}
