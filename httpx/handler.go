package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/snacktrack/snacktrack-api/validator"
)

// HandlerFunc is a typed handler. Req fields may carry uri, form and json tags.
type HandlerFunc[Req any, Resp any] func(c *gin.Context, req *Req) (*Resp, error)

// Wrap parses and validates Req, calls handler and writes the result as JSON.
func Wrap[Req any, Resp any](handler HandlerFunc[Req, Resp]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Req
		if err := Parse(c, &req); err != nil {
			HandleError(c, err)
			return
		}
		if v, ok := any(&req).(validator.Validatable); ok {
			if err := validator.ValidateRequest(v); err != nil {
				HandleError(c, err)
				return
			}
		}

		resp, err := handler(c, &req)
		if err != nil {
			HandleError(c, err)
			return
		}
		OK(c, resp)
	}
}
