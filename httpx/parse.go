package httpx

import (
	"github.com/gin-gonic/gin"
)

// Parse binds path, query and JSON body into req, in that order.
// Binding failures become ErrMalformedRequest.
func Parse(c *gin.Context, req any) error {
	if len(c.Params) > 0 {
		if err := c.ShouldBindUri(req); err != nil {
			return ErrMalformedRequest.Wrapf(err, "Invalid path parameter")
		}
	}
	if len(c.Request.URL.RawQuery) > 0 {
		if err := c.ShouldBindQuery(req); err != nil {
			return ErrMalformedRequest.Wrapf(err, "Invalid query parameter")
		}
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(req); err != nil {
			return ErrMalformedRequest.Wrapf(err, "Invalid request body")
		}
	}
	return nil
}

// BindJSON decodes a JSON body that is not an object, such as a list of ids.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return ErrMalformedRequest.Wrapf(err, "Invalid request body")
	}
	return nil
}
