package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"chainhistory-api/internal/apierror"
	"chainhistory-api/internal/service"
)

// HistoryService is the part of service.Service the handlers call.
type HistoryService interface {
	TransactionHistory(ctx context.Context, input service.HistoryInput) (service.HistoryOutput, error)
	LatestBlock(ctx context.Context) (service.BlockOutput, error)
	AddressLimit() int
	AuthEnabled() bool
	ValidateAccessToken(token string) error
}

type Handler struct {
	service         HistoryService
	apiErrorCounter metric.Int64Counter
}

type ProblemDetails struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

const (
	problemContentType      = "application/problem+json"
	problemTypeValidation   = "/problems/validation-error"
	problemTypeNotFound     = "/problems/not-found"
	problemTypeUnauthorized = "/problems/unauthorized"
	problemTypeUnavailable  = "/problems/unavailable"
	problemTypeInternal     = "/problems/internal-error"
)

const (
	headerRequestID    = "X-Request-ID"
	headerAddressLimit = "X-Address-Limit"
	defaultServiceName = "chainhistory-api"
)

func NewRouter(service HistoryService, serviceName string) *gin.Engine {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = defaultServiceName
	}

	router := gin.New()
	h := newHandler(service, slog.Default())
	router.Use(
		requestid.New(requestid.WithGenerator(newRequestID)),
		panicRecoveryMiddleware(slog.Default()),
		otelgin.Middleware(serviceName),
		requestObservabilityMiddleware(slog.Default()),
	)

	v1 := router.Group("/api").Group("/v1")
	v1.GET("/health", h.health)
	v1.GET("/errors", h.listErrorKinds)

	data := v1.Group("")
	if service.AuthEnabled() {
		data.Use(h.requireAuth())
	}
	data.GET("/block/latest", h.latestBlock)
	data.POST("/transaction/history", h.transactionHistory)

	return router
}

func newHandler(service HistoryService, logger *slog.Logger) *Handler {
	counter, err := otel.Meter("chainhistory-api/http").Int64Counter(
		"chainhistory.api.error.count",
		metric.WithDescription("Client-facing registry errors returned, by code"),
	)
	if err != nil {
		logger.Error("create api error counter", "error", err)
	}
	return &Handler{service: service, apiErrorCounter: counter}
}

func newRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func requestObservabilityMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	meter := otel.Meter("chainhistory-api/http")
	requestCounter, requestCounterErr := meter.Int64Counter(
		"chainhistory.http.server.request.count",
		metric.WithDescription("HTTP requests handled by the API"),
	)
	if requestCounterErr != nil {
		logger.Error("create request counter", "error", requestCounterErr)
	}

	requestDuration, requestDurationErr := meter.Float64Histogram(
		"chainhistory.http.server.request.duration",
		metric.WithUnit("ms"),
		metric.WithDescription("HTTP request duration in milliseconds"),
	)
	if requestDurationErr != nil {
		logger.Error("create request duration histogram", "error", requestDurationErr)
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		durationMs := float64(time.Since(start)) / float64(time.Millisecond)

		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		}
		if requestCounter != nil {
			requestCounter.Add(c.Request.Context(), 1, metric.WithAttributes(attrs...))
		}
		if requestDuration != nil {
			requestDuration.Record(c.Request.Context(), durationMs, metric.WithAttributes(attrs...))
		}

		logAttrs := append([]any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", durationMs,
			"request_id", c.Writer.Header().Get(headerRequestID),
			"client_ip", c.ClientIP(),
		}, spanLogAttrs(c.Request.Context())...)
		if len(c.Errors) > 0 {
			lastErr := c.Errors.Last().Err
			logAttrs = append(logAttrs, "error", lastErr.Error(), "error_type", classifyErrorType(lastErr))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.ErrorContext(c.Request.Context(), "http request", logAttrs...)
		case status >= http.StatusBadRequest:
			logger.WarnContext(c.Request.Context(), "http request", logAttrs...)
		default:
			logger.InfoContext(c.Request.Context(), "http request", logAttrs...)
		}
	}
}

func panicRecoveryMiddleware(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			err := fmt.Errorf("panic recovered: %v", recovered)
			_ = c.Error(err)
			markSpanError(c.Request.Context(), err, "panic")

			logAttrs := append([]any{
				"panic", recovered,
				"stack_trace", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"request_id", requestid.Get(c),
			}, spanLogAttrs(c.Request.Context())...)
			logger.ErrorContext(c.Request.Context(), "panic recovered", logAttrs...)

			writeProblemResponse(c, http.StatusInternalServerError, problemTypeInternal, "Internal Server Error", "internal server error")
		}()

		c.Next()
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) listErrorKinds(c *gin.Context) {
	c.JSON(http.StatusOK, apierror.Catalog())
}

func (h *Handler) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawAuthorization := strings.TrimSpace(c.GetHeader("Authorization"))
		if rawAuthorization == "" {
			writeProblemResponse(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", "missing bearer token")
			return
		}

		prefix := "Bearer "
		if !strings.HasPrefix(rawAuthorization, prefix) {
			writeProblemResponse(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", "invalid authorization header")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(rawAuthorization, prefix))
		if err := h.service.ValidateAccessToken(token); err != nil {
			writeProblemResponse(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", "invalid token")
			return
		}

		c.Next()
	}
}

func (h *Handler) latestBlock(c *gin.Context) {
	block, err := h.service.LatestBlock(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, block)
}

func (h *Handler) transactionHistory(c *gin.Context) {
	var input service.HistoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		writeProblemResponse(c, http.StatusBadRequest, problemTypeValidation, "Validation Error", fmt.Sprintf("invalid request body: %s", err.Error()))
		return
	}

	output, err := h.service.TransactionHistory(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if apiErr, ok := apierror.As(err); ok {
		h.writeAPIError(c, apiErr)
		return
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		writeProblemResponse(c, http.StatusBadRequest, problemTypeValidation, "Validation Error", err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeProblemResponse(c, http.StatusNotFound, problemTypeNotFound, "Not Found", err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		writeProblemResponse(c, http.StatusUnauthorized, problemTypeUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, service.ErrUnavailable):
		_ = c.Error(err)
		writeProblemResponse(c, http.StatusServiceUnavailable, problemTypeUnavailable, "Service Unavailable", "service temporarily unavailable")
	default:
		_ = c.Error(err)
		markSpanError(c.Request.Context(), err, classifyErrorType(err))
		logAttrs := append([]any{
			"error", err.Error(),
			"error_type", classifyErrorType(err),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", requestid.Get(c),
		}, spanLogAttrs(c.Request.Context())...)
		slog.ErrorContext(c.Request.Context(), "internal server error", logAttrs...)
		writeProblemResponse(c, http.StatusInternalServerError, problemTypeInternal, "Internal Server Error", "internal server error")
	}
}

// writeAPIError answers with the registry result as the whole body so that
// clients can switch on the numeric code.
func (h *Handler) writeAPIError(c *gin.Context, apiErr *apierror.Error) {
	if h.apiErrorCounter != nil {
		h.apiErrorCounter.Add(c.Request.Context(), 1, metric.WithAttributes(
			attribute.Int("error.code", apiErr.Code()),
			attribute.String("error.kind", apiErr.Kind().String()),
		))
	}
	if apiErr.Kind() == apierror.KindAddressLimitExceeded {
		c.Header(headerAddressLimit, strconv.Itoa(h.service.AddressLimit()))
	}
	if requestID := requestid.Get(c); requestID != "" {
		c.Header(headerRequestID, requestID)
	}
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, apiErr.Result())
}

func writeProblemResponse(c *gin.Context, status int, problemType string, title string, detail string) {
	if problemType == "" {
		problemType = "about:blank"
	}
	if title == "" {
		title = http.StatusText(status)
	}

	requestID := requestid.Get(c)
	if requestID != "" {
		c.Header(headerRequestID, requestID)
	}

	c.Header("Content-Type", problemContentType)
	c.AbortWithStatusJSON(status, ProblemDetails{
		Type:      problemType,
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  c.Request.URL.Path,
		RequestID: requestID,
	})
}

func markSpanError(ctx context.Context, err error, errorType string) {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.type", errorType),
	)
}

func spanLogAttrs(ctx context.Context) []any {
	spanContext := trace.SpanFromContext(ctx).SpanContext()
	if !spanContext.IsValid() {
		return nil
	}
	return []any{
		"trace_id", spanContext.TraceID().String(),
		"span_id", spanContext.SpanID().String(),
	}
}

func classifyErrorType(err error) string {
	if err == nil {
		return "unknown"
	}
	root := err
	for {
		unwrapped := errors.Unwrap(root)
		if unwrapped == nil {
			break
		}
		root = unwrapped
	}
	return fmt.Sprintf("%T", root)
}
