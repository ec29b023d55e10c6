// Package ez registers typed actions on gin route groups: bind input, call
// the handler, map the result or error onto the response envelope.
package ez

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"court-admin/internal/domain"
	mdw "court-admin/internal/transport/http/middleware"
	resp "court-admin/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.FormFile 取
)

// Reply is a successful result. Status defaults to 200; Data keys are
// merged into the envelope next to "success".
type Reply struct {
	Status  int
	Message string
	Data    gin.H
}

// Action 动作定义：I 入参
type Action[I any] struct {
	Method  string // "GET" | "POST" | "PUT" | "DELETE"
	Path    string // 例："/auth/login"、"/staff/:id/status"
	Binder  Binder // 绑定方式
	Auth    bool   // 是否要求登录（检查 userId）
	Handler func(c *gin.Context, in *I) (Reply, error)
}

// StatusOf maps an error onto an HTTP status.
func StatusOf(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindConflict:
		return http.StatusBadRequest
	case domain.KindNotFound, domain.KindTypeMismatch:
		return http.StatusNotFound
	case domain.KindAuth:
		return http.StatusUnauthorized
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// WriteError writes err as an envelope. Internal errors are logged with the
// request id and never leak their detail to the caller.
func WriteError(c *gin.Context, l *zap.Logger, err error) {
	status := StatusOf(err)
	var de *domain.Error
	switch {
	case errors.As(err, &de):
		resp.Fail(c, status, de.Msg)
	case status == http.StatusGatewayTimeout:
		l.Warn("request timed out", zap.String("rid", c.GetString(mdw.KeyRequestID)), zap.String("path", c.FullPath()))
		resp.Fail(c, status, "Request timeout")
	default:
		l.Error("request failed",
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		resp.Fail(c, status, resp.MsgInternal)
	}
}

// bindError turns binder failures into a readable validation message.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		switch fe.Tag() {
		case "required":
			return domain.Validation(fmt.Sprintf("%s is required", fe.Field()))
		case "min":
			return domain.Validation(fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param()))
		case "max":
			return domain.Validation(fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param()))
		default:
			return domain.Validation(fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return domain.Validation("Invalid request body")
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any](e EZ, a Action[I]) {
	h := func(c *gin.Context) {
		// 1) 鉴权
		if a.Auth && c.GetString(mdw.KeyUserID) == "" {
			resp.Fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			WriteError(c, e.log, bindError(bindErr))
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			WriteError(c, e.log, err)
			return
		}
		status := out.Status
		if status == 0 {
			status = http.StatusOK
		}
		resp.OK(c, status, out.Message, out.Data)
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
