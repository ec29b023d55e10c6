// Package response builds the JSON envelope shared by every endpoint:
// {"success": bool, "message"?: string, ...payload}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const MsgInternal = "Internal server error"

// Body merges payload into the envelope. Payload keys never override
// "success" or "message".
func Body(success bool, msg string, payload gin.H) gin.H {
	out := make(gin.H, len(payload)+2)
	for k, v := range payload {
		out[k] = v
	}
	out["success"] = success
	if msg != "" {
		out["message"] = msg
	} else {
		delete(out, "message")
	}
	return out
}

// OK 成功响应
func OK(c *gin.Context, status int, msg string, payload gin.H) {
	c.JSON(status, Body(true, msg, payload))
}

// Fail 失败响应
func Fail(c *gin.Context, status int, msg string) {
	c.JSON(status, Body(false, msg, nil))
}

// Abort 失败并终止后续中间件
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Body(false, msg, nil))
}

func Internal(c *gin.Context) { Abort(c, http.StatusInternalServerError, MsgInternal) }
