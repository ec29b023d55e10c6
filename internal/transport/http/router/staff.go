package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-admin/internal/domain"
	"court-admin/internal/service"
	"court-admin/internal/transport/http/ez"
)

type staffRoutes struct {
	svc *service.Services
	log *zap.Logger
}

// staffQuery is the optional filter the staff screens send; the frontend
// passes the literal "undefined" for unset selects.
type staffQuery struct {
	CourtID   string `form:"courtId"`
	CourtType string `form:"courtType"`
	Search    string `form:"search"`
}

func queryValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "undefined" || v == "null" {
		return ""
	}
	return v
}

func (q staffQuery) filter(status domain.EmploymentStatus) domain.StaffFilter {
	return domain.StaffFilter{
		CourtID:   queryValue(q.CourtID),
		CourtType: domain.CourtType(queryValue(q.CourtType)),
		Search:    queryValue(q.Search),
		Status:    status,
	}
}

type staffIn struct {
	Name             string                  `json:"name" binding:"required"`
	Position         string                  `json:"position" binding:"required"`
	CourtID          string                  `json:"courtId" binding:"required"`
	Phone            string                  `json:"phone"`
	Education        string                  `json:"education" binding:"required"`
	Area             string                  `json:"area" binding:"required"`
	EmploymentStatus domain.EmploymentStatus `json:"employmentStatus"`
	HireDate         *jsonDate               `json:"hireDate"`
	RetirementDate   *jsonDate               `json:"retirementDate"`
	DismissalDate    *jsonDate               `json:"dismissalDate"`
	LeaveStartDate   *jsonDate               `json:"leaveStartDate"`
	LeaveEndDate     *jsonDate               `json:"leaveEndDate"`
}

func (in staffIn) staff() *domain.Staff {
	st := &domain.Staff{
		Name:             in.Name,
		Position:         in.Position,
		CourtID:          in.CourtID,
		Phone:            in.Phone,
		Education:        in.Education,
		Area:             in.Area,
		EmploymentStatus: in.EmploymentStatus,
		RetirementDate:   in.RetirementDate.ptr(),
		DismissalDate:    in.DismissalDate.ptr(),
		LeaveStartDate:   in.LeaveStartDate.ptr(),
		LeaveEndDate:     in.LeaveEndDate.ptr(),
	}
	if t := in.HireDate.ptr(); t != nil {
		st.HireDate = *t
	}
	return st
}

type staffPatchIn struct {
	Name             *string                  `json:"name"`
	Position         *string                  `json:"position"`
	CourtID          *string                  `json:"courtId"`
	Phone            *string                  `json:"phone"`
	Education        *string                  `json:"education"`
	Area             *string                  `json:"area"`
	EmploymentStatus *domain.EmploymentStatus `json:"employmentStatus"`
	HireDate         *jsonDate                `json:"hireDate"`
	RetirementDate   *jsonDate                `json:"retirementDate"`
	DismissalDate    *jsonDate                `json:"dismissalDate"`
	LeaveStartDate   *jsonDate                `json:"leaveStartDate"`
	LeaveEndDate     *jsonDate                `json:"leaveEndDate"`
}

func (in staffPatchIn) patch() domain.StaffPatch {
	return domain.StaffPatch{
		Name:             in.Name,
		Position:         in.Position,
		CourtID:          in.CourtID,
		Phone:            in.Phone,
		Education:        in.Education,
		Area:             in.Area,
		EmploymentStatus: in.EmploymentStatus,
		HireDate:         in.HireDate.ptr(),
		RetirementDate:   in.RetirementDate.ptr(),
		DismissalDate:    in.DismissalDate.ptr(),
		LeaveStartDate:   in.LeaveStartDate.ptr(),
		LeaveEndDate:     in.LeaveEndDate.ptr(),
	}
}

type statusIn struct {
	Status         domain.EmploymentStatus `json:"status" binding:"required"`
	RetirementDate *jsonDate               `json:"retirementDate"`
	DismissalDate  *jsonDate               `json:"dismissalDate"`
	LeaveStartDate *jsonDate               `json:"leaveStartDate"`
	LeaveEndDate   *jsonDate               `json:"leaveEndDate"`
}

func (m staffRoutes) Mount(pub, authed *gin.RouterGroup) {
	staff := m.svc.Staff

	// 统计接口不需要登录
	ez.RegisterAction(ez.New(pub.Group("/staff"), m.log), ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/statistics",
		Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			st, err := staff.Statistics(c.Request.Context())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Data: gin.H{"statistics": st}}, nil
		},
	})

	e := ez.New(authed.Group("/staff"), m.log)

	list := func(path string, build func(c *gin.Context, q *staffQuery) domain.StaffFilter) {
		ez.RegisterAction(e, ez.Action[staffQuery]{
			Method: http.MethodGet,
			Path:   path,
			Binder: ez.BindQuery,
			Auth:   true,
			Handler: func(c *gin.Context, q *staffQuery) (ez.Reply, error) {
				rows, err := staff.List(c.Request.Context(), build(c, q))
				if err != nil {
					return ez.Reply{}, err
				}
				return ez.Reply{Data: gin.H{"staff": rows}}, nil
			},
		})
	}
	byStatus := func(s domain.EmploymentStatus) func(*gin.Context, *staffQuery) domain.StaffFilter {
		return func(_ *gin.Context, q *staffQuery) domain.StaffFilter { return q.filter(s) }
	}
	list("/all", byStatus(""))
	list("/active", byStatus(domain.StatusActive))
	list("/retired", byStatus(domain.StatusRetired))
	list("/dismissed", byStatus(domain.StatusDismissed))
	list("/on-leave", byStatus(domain.StatusOnLeave))
	list("/status/:status", func(c *gin.Context, q *staffQuery) domain.StaffFilter {
		f := q.filter(domain.EmploymentStatus(c.Param("status")))
		f.SortByName = true
		return f
	})
	list("/court/:courtId", func(c *gin.Context, q *staffQuery) domain.StaffFilter {
		f := q.filter("")
		f.CourtID = c.Param("courtId")
		return f
	})

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodGet,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			v, err := staff.Get(c.Request.Context(), c.Param("id"))
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Data: gin.H{"staff": v}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[staffIn]{
		Method: http.MethodPost,
		Path:   "/add",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *staffIn) (ez.Reply, error) {
			v, err := staff.Create(c.Request.Context(), in.staff())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Status: http.StatusCreated, Message: "Staff member added", Data: gin.H{"staff": v}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[staffPatchIn]{
		Method: http.MethodPut,
		Path:   "/:id",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *staffPatchIn) (ez.Reply, error) {
			v, err := staff.Update(c.Request.Context(), c.Param("id"), in.patch())
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Staff member updated", Data: gin.H{"staff": v}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[statusIn]{
		Method: http.MethodPut,
		Path:   "/:id/status",
		Binder: ez.BindJSON,
		Auth:   true,
		Handler: func(c *gin.Context, in *statusIn) (ez.Reply, error) {
			v, err := staff.ChangeStatus(c.Request.Context(), c.Param("id"), in.Status, domain.StatusDates{
				RetirementDate: in.RetirementDate.ptr(),
				DismissalDate:  in.DismissalDate.ptr(),
				LeaveStartDate: in.LeaveStartDate.ptr(),
				LeaveEndDate:   in.LeaveEndDate.ptr(),
			})
			if err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Employment status updated", Data: gin.H{"staff": v}}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}]{
		Method: http.MethodDelete,
		Path:   "/:id",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (ez.Reply, error) {
			if err := m.svc.RecycleBin.DeleteStaff(c.Request.Context(), c.Param("id"), actor(c)); err != nil {
				return ez.Reply{}, err
			}
			return ez.Reply{Message: "Moved to recycle bin"}, nil
		},
	})
}
