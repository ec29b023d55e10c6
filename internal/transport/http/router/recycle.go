package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-admin/internal/service"
	"court-admin/internal/transport/http/ez"
)

type recycleRoutes struct {
	svc *service.Services
	log *zap.Logger
}

func (m recycleRoutes) Mount(_, authed *gin.RouterGroup) {
	e := ez.New(authed.Group("/staff/recycle-bin"), m.log)
	bin := m.svc.RecycleBin

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/all",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			items, err := bin.List(c.Request.Context())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Data: gin.H{"items": items}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodPost,
		Path:   "/restore/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			entry, err := bin.Restore(c.Request.Context(), c.Param("id"))
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Restored successfully", Data: gin.H{
				"entityType": entry.EntityType,
				"entityId":   entry.EntityID,
			}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodDelete,
		Path:   "/permanent/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			if err := bin.Purge(c.Request.Context(), c.Param("id")); err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Permanently deleted"}, nil
		},
	})
}
