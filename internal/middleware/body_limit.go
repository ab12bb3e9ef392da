package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/portfolio-showcase/portfolio-api/internal/modules/serializer"
)

const MsgBodyTooLarge = "request body too large"

// BodyLimit caps the request body at n bytes.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, serializer.Err(MsgBodyTooLarge, nil))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
