package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const REQUEST_ID_HEADER = "X-Request-ID"

func SecureHeaders(ctx *gin.Context) {
	ctx.Header("X-Frame-Options", "DENY")
	ctx.Header("X-Content-Type-Options", "nosniff")
	ctx.Header("Referrer-Policy", "strict-origin")
	ctx.Header("X-XSS-Protection", "1; mode=block")
	ctx.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	ctx.Next()
}

// RequestID propagates the caller's X-Request-ID or mints a new one.
func RequestID(ctx *gin.Context) {
	id := ctx.GetHeader(REQUEST_ID_HEADER)
	if id == "" || len(id) > 64 {
		id = uuid.NewString()
	}
	ctx.Set("request_id", id)
	ctx.Header(REQUEST_ID_HEADER, id)
	ctx.Next()
}
