package router

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-admin/internal/domain"
	"court-admin/internal/service"
	"court-admin/internal/transport/http/ez"
	mdw "court-admin/internal/transport/http/middleware"
	resp "court-admin/internal/transport/http/response"
)

type settingRoutes struct {
	svc *service.Services
	log *zap.Logger
}

type profileIn struct {
	Name            string `json:"name"`
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (m settingRoutes) Mount(pub, authed *gin.RouterGroup) {
	e := ez.New(authed.Group("/settings"), m.log)

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/profile",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			// Auth 已经按 token 读出当前用户
			if u := mdw.CurrentUser(c); u != nil {
				return ez.Reply{Data: gin.H{"user": u}}, nil
			}
			u, err := m.svc.Users.Get(c.Request.Context(), actor(c))
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Data: gin.H{"user": u}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[profileIn]{
		Method: http.MethodPut,
		Path:   "/profile",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *profileIn) (ez.Reply, error) {
			u, err := m.svc.Users.UpdateProfile(c.Request.Context(), actor(c), service.ProfileUpdate{
				Name:            in.Name,
				Username:        in.Username,
				CurrentPassword: in.CurrentPassword,
				NewPassword:     in.NewPassword,
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Profile updated successfully", Data: gin.H{"user": u}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodPost,
		Path:   "/logo",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			fh, err := c.FormFile("logo")
			if err != nil {
				return ez.Reply{}, domain.Validation("No logo file provided")
			}
			f, err := fh.Open()
			if err != nil {
				return ez.Reply{}, err
			}
			defer f.Close()
			// 多读 1 字节用于判断是否超限
			data, err := io.ReadAll(io.LimitReader(f, service.MaxLogoBytes+1))
			if err != nil {
				return ez.Reply{}, err
			}
			url, err := m.svc.Settings.UploadLogo(c.Request.Context(), fh.Header.Get("Content-Type"), data)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Logo uploaded successfully", Data: gin.H{"logo": url}}, nil
		},
	})

	// 登录页也要显示 logo，读取失败时返回 null 而不是报错
	pub.GET("/settings/logo", func(c *gin.Context) {
		logo, err := m.svc.Settings.Logo(c.Request.Context())
		if err != nil {
			m.log.Warn("logo lookup failed", zap.Error(err))
			logo = nil
		}
		resp.OK(c, http.StatusOK, "", gin.H{"logo": logo})
	})
}
