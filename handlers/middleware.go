package handlers

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"layer-backend/errs"
	"layer-backend/metrics"
	"layer-backend/models"
	"layer-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	requestIDHeader = "X-Request-ID"

	ctxLoggerKey  = "logger"
	ctxSessionKey = "session"
)

// RequestLogger tags each request with an id, stores a request-scoped logger
// in the context and logs one line when the handler returns.
func RequestLogger(base *zap.Logger) gin.HandlerFunc {
	if base == nil {
		base = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(requestIDHeader, rid)

		logger := base.With(zap.String("request_id", rid))
		c.Set(ctxLoggerKey, logger)

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if status >= http.StatusInternalServerError {
			logger.Error("http request failed", fields...)
			return
		}
		logger.Info("http request served", fields...)
	}
}

// loggerFrom returns the request-scoped logger, or a no-op logger outside RequestLogger.
func loggerFrom(c *gin.Context) *zap.Logger {
	if v, ok := c.Get(ctxLoggerKey); ok {
		if logger, ok := v.(*zap.Logger); ok {
			return logger
		}
	}
	return zap.NewNop()
}

// Recovery turns a panic into a logged 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				loggerFrom(c).Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL",
						"message": "internal server error",
					},
				})
			}
		}()
		c.Next()
	}
}

// CORS applies the configured origin policy with go-chi/cors. A "*" entry
// reflects the caller's origin so credentialed requests still work. Preflights
// are answered here and never reach the route handlers.
func CORS(origins []string) gin.HandlerFunc {
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if slices.Contains(origins, "*") {
		opts.AllowedOrigins = nil
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	}
	handler := cors.Handler(opts)

	return func(c *gin.Context) {
		passed := false
		handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			passed = true
		})).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.AbortWithStatus(c.Writer.Status())
			return
		}
		c.Next()
	}
}

// Metrics records request counts and latency by route template.
func Metrics(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Authenticator resolves a bearer token to the signed-in user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's session for the handlers behind it.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondError(c, errs.New(errs.KindUnauthorized, "UNAUTHORIZED", "Missing bearer token"))
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			respondError(c, err)
			return
		}

		c.Set(ctxSessionKey, service.Session{UserID: user.ID, Plan: user.Plan})
		c.Next()
	}
}

// sessionFrom returns the session stored by RequireAuth. The zero Session is
// rejected by every service call.
func sessionFrom(c *gin.Context) service.Session {
	if v, ok := c.Get(ctxSessionKey); ok {
		if sess, ok := v.(service.Session); ok {
			return sess
		}
	}
	return service.Session{}
}
