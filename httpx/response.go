package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/errcode"
	"github.com/snacktrack/snacktrack-api/logger"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MessageResponse is returned by endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message"`
}

// OK writes data as a 200 JSON body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Detail aborts with {"detail": msg}.
func Detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: msg})
}

// NoRouteHandler is registered with engine.NoRoute.
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, ErrNotFound)
	}
}

// NoMethodHandler is registered with engine.NoMethod.
func NoMethodHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, ErrMethodNotAllowed)
	}
}

// HandleError renders err and aborts the chain. A LayeredError keeps its status and
// message; anything else becomes a 500 without leaking the cause.
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	ctx := c.Request.Context()
	log := logger.GetLogger("httpx")

	layered, ok := errcode.As(err)
	if !ok {
		log.ErrorCtx(ctx, "unhandled error",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Detail: ErrInternal.Message()})
		return
	}

	policy := errorLogPolicyFrom(c)
	if policy.shouldLog(layered.HTTPStatus()) {
		fields := []zap.Field{
			zap.Int("error_code", layered.Code()),
			zap.String("error_msg", layered.Message()),
			zap.Int("status", layered.HTTPStatus()),
			zap.String("path", c.Request.URL.Path),
		}
		if policy.chain {
			fields = append(fields, zap.String("error_chain", layered.String()))
		}
		switch policy.level {
		case "warn":
			log.WarnCtx(ctx, "request failed", fields...)
		case "info":
			log.InfoCtx(ctx, "request failed", fields...)
		default:
			log.ErrorCtx(ctx, "request failed", fields...)
		}
	}

	body := ErrorResponse{Detail: layered.Message()}
	if fields, ok := layered.Data()["fields"].(map[string]string); ok && len(fields) > 0 {
		body.Fields = fields
	}
	c.AbortWithStatusJSON(layered.HTTPStatus(), body)
}
