package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-admin/internal/domain"
	"court-admin/internal/service"
	"court-admin/internal/transport/http/ez"
)

type courtRoutes struct {
	svc *service.Services
	log *zap.Logger
}

type courtIn struct {
	Name        string `json:"name" binding:"required"`
	Location    string `json:"location"`
	Address     string `json:"address"`
	ContactInfo string `json:"contactInfo"`
	Description string `json:"description"`
}

func (in courtIn) details() domain.CourtDetails {
	return domain.CourtDetails{
		Name:        in.Name,
		Location:    in.Location,
		Address:     in.Address,
		ContactInfo: in.ContactInfo,
		Description: in.Description,
	}
}

type courtPatchIn struct {
	Name           *string `json:"name"`
	Location       *string `json:"location"`
	Address        *string `json:"address"`
	ContactInfo    *string `json:"contactInfo"`
	Description    *string `json:"description"`
	CircuitCourtID *string `json:"circuitCourtId"`
}

func (in courtPatchIn) patch() domain.CourtPatch {
	return domain.CourtPatch{
		Name:        in.Name,
		Location:    in.Location,
		Address:     in.Address,
		ContactInfo: in.ContactInfo,
		Description: in.Description,
	}
}

func (m courtRoutes) Mount(_, authed *gin.RouterGroup) {
	e := ez.New(authed.Group("/courts"), m.log)
	courts := m.svc.Courts
	bin := m.svc.RecycleBin

	list := func(path, key string, load func(c *gin.Context) (any, error)) {
		ez.RegisterAction(e, ez.Action[struct{}]{
			Method: http.MethodGet,
			Path:   path,
			Binder: ez.BindNone,
			Auth:   true,
			Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
				v, err := load(c)
				if err != nil {
					return ez.Reply{}, err
				}
				return ez.Reply{Data: gin.H{key: v}}, nil
			},
		})
	}
	list("/all", "courts", func(c *gin.Context) (any, error) { return courts.All(c.Request.Context()) })
	list("/circuit", "courts", func(c *gin.Context) (any, error) { return courts.Circuits(c.Request.Context()) })
	list("/circuit/:id/magisterial", "courts", func(c *gin.Context) (any, error) {
		return courts.MagisterialByCircuit(c.Request.Context(), c.Param("id"))
	})
	list("/magisterial", "courts", func(c *gin.Context) (any, error) { return courts.Magisterial(c.Request.Context()) })
	list("/department", "departments", func(c *gin.Context) (any, error) { return courts.Departments(c.Request.Context()) })
	list("/:id", "court", func(c *gin.Context) (any, error) { return courts.Get(c.Request.Context(), c.Param("id")) })

	// --- 创建 ---
	ez.RegisterAction(e, ez.Action[courtIn]{
		Method: http.MethodPost,
		Path:   "/circuit",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *courtIn) (ez.Reply, error) {
			court, err := courts.CreateCircuit(c.Request.Context(), in.details())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Status: http.StatusCreated, Message: "Circuit court created", Data: gin.H{"court": court}}, nil
		},
	})

	type magisterialIn struct {
		courtIn
		CircuitCourtID string `json:"circuitCourtId" binding:"required"`
	}
	ez.RegisterAction(e, ez.Action[magisterialIn]{
		Method: http.MethodPost,
		Path:   "/magisterial",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *magisterialIn) (ez.Reply, error) {
			court, err := courts.CreateMagisterial(c.Request.Context(), in.CircuitCourtID, in.details())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Status: http.StatusCreated, Message: "Magisterial court created", Data: gin.H{"court": court}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[courtIn]{
		Method: http.MethodPost,
		Path:   "/department",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *courtIn) (ez.Reply, error) {
			dept, err := courts.CreateDepartment(c.Request.Context(), in.details())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Status: http.StatusCreated, Message: "Department created", Data: gin.H{"department": dept}}, nil
		},
	})

	// --- 更新 ---
	update := func(path, msg, key string, run func(c *gin.Context, in *courtPatchIn) (*domain.CourtView, error)) {
		ez.RegisterAction(e, ez.Action[courtPatchIn]{
			Method: http.MethodPut,
			Path:   path,
			Binder: ez.BindJSON,
			Auth:   true,
			Handler: func(c *gin.Context, in *courtPatchIn) (ez.Reply, error) {
				v, err := run(c, in)
				if err != nil {
					return ez.Reply{}, err
				}
				return ez.Reply{Message: msg, Data: gin.H{key: v}}, nil
			},
		})
	}
	update("/:id", "Court updated", "court", func(c *gin.Context, in *courtPatchIn) (*domain.CourtView, error) {
		return courts.Update(c.Request.Context(), c.Param("id"), in.patch())
	})
	update("/magisterial/:id", "Court updated", "court", func(c *gin.Context, in *courtPatchIn) (*domain.CourtView, error) {
		return courts.UpdateMagisterial(c.Request.Context(), c.Param("id"), in.CircuitCourtID, in.patch())
	})
	update("/department/:id", "Department updated", "department", func(c *gin.Context, in *courtPatchIn) (*domain.CourtView, error) {
		return courts.UpdateDepartment(c.Request.Context(), c.Param("id"), in.patch())
	})

	// --- 删除（进回收站） ---
	remove := func(path, msg string, run func(c *gin.Context) (*service.CascadeResult, error)) {
		ez.RegisterAction(e, ez.Action[struct{}]{
			Method: http.MethodDelete,
			Path:   path,
			Binder: ez.BindNone,
			Auth:   true,
			Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
				res, err := run(c)
				if err != nil {
					return ez.Reply{}, err
				}
				return ez.Reply{Message: msg, Data: gin.H{"removed": res}}, nil
			},
		})
	}
	remove("/circuit/:id", "Circuit court moved to recycle bin", func(c *gin.Context) (*service.CascadeResult, error) {
		return bin.DeleteCircuitCourt(c.Request.Context(), c.Param("id"), actor(c))
	})
	remove("/magisterial/:id", "Magisterial court moved to recycle bin", func(c *gin.Context) (*service.CascadeResult, error) {
		return bin.DeleteMagisterialCourt(c.Request.Context(), c.Param("id"), actor(c))
	})
	remove("/department/:id", "Department moved to recycle bin", func(c *gin.Context) (*service.CascadeResult, error) {
		return bin.DeleteDepartment(c.Request.Context(), c.Param("id"), actor(c))
	})
}
