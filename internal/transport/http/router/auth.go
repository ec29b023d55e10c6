package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-admin/internal/service"
	"court-admin/internal/transport/http/ez"
	mdw "court-admin/internal/transport/http/middleware"
)

type authRoutes struct {
	svc *service.Services
	log *zap.Logger
}

func (m authRoutes) Mount(pub, _ *gin.RouterGroup) {
	g := pub.Group("/auth")
	e := ez.New(g, m.log)

	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	// 登录单独按 IP 限速，防爆破
	g.Use(mdw.PerIP(5, 10))
	ez.RegisterAction(e, ez.Action[loginIn]{
		Method: http.MethodPost,
		Path:   "/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (ez.Reply, error) {
			tok, u, err := m.svc.Users.Login(c.Request.Context(), in.Username, in.Password)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Login successful", Data: gin.H{
				"token": tok,
				"user":  gin.H{"id": u.ID, "username": u.Username, "name": u.Name, "role": u.Role},
			}}, nil
		},
	})

	// verify 不挂鉴权中间件，自己解析 token
	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/verify",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			u, err := m.svc.Users.Authenticate(c.Request.Context(), mdw.BearerToken(c))
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Data: gin.H{"user": u.Ref()}}, nil
		},
	})
}
