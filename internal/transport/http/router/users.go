package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-admin/internal/service"
	"court-admin/internal/transport/http/ez"
)

type userRoutes struct {
	svc *service.Services
	log *zap.Logger
}

func (m userRoutes) Mount(_, authed *gin.RouterGroup) {
	e := ez.New(authed.Group("/users"), m.log)

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			users, err := m.svc.Users.ListActive(c.Request.Context())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Data: gin.H{"users": users}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			u, err := m.svc.Users.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Data: gin.H{"user": u}}, nil
		},
	})

	type createIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[createIn]{
		Method: http.MethodPost,
		Path:   "",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *createIn) (ez.Reply, error) {
			u, err := m.svc.Users.Create(c.Request.Context(), in.Username, in.Password, in.Name)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{
				Status:  http.StatusCreated,
				Message: "User created successfully",
				Data:    gin.H{"user": u.Ref()},
			}, nil
		},
	})

	type updateIn struct {
		Name     *string `json:"name"`
		IsActive *bool   `json:"isActive"`
	}
	ez.RegisterAction(e, ez.Action[updateIn]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *updateIn) (ez.Reply, error) {
			u, err := m.svc.Users.Update(c.Request.Context(), c.Param("id"), in.Name, in.IsActive)
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "User updated successfully", Data: gin.H{"user": gin.H{
				"id": u.ID, "username": u.Username, "name": u.Name, "isActive": u.IsActive,
			}}}, nil
		},
	})
}
