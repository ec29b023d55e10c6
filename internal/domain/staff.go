package domain

import "time"

type EmploymentStatus string

const (
	StatusActive    EmploymentStatus = "active"
	StatusRetired   EmploymentStatus = "retired"
	StatusDismissed EmploymentStatus = "dismissed"
	StatusOnLeave   EmploymentStatus = "on_leave"
)

var EmploymentStatuses = []EmploymentStatus{StatusActive, StatusRetired, StatusDismissed, StatusOnLeave}

func (s EmploymentStatus) Valid() bool {
	for _, v := range EmploymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Staff struct {
	ID               string           `gorm:"primaryKey;size:24" bson:"_id" json:"id"`
	Name             string           `gorm:"size:100;not null;index" bson:"name" json:"name"`
	Position         string           `gorm:"size:100;not null" bson:"position" json:"position"`
	CourtID          string           `gorm:"size:24;not null;index" bson:"court_id" json:"courtId"`
	CourtType        CourtType        `gorm:"size:16;not null;index" bson:"court_type" json:"courtType"`
	Phone            string           `gorm:"size:20" bson:"phone" json:"phone"`
	Education        string           `gorm:"size:100;not null" bson:"education" json:"education"`
	Area             string           `gorm:"size:100;not null" bson:"area" json:"area"`
	EmploymentStatus EmploymentStatus `gorm:"size:16;not null;default:active;index" bson:"employment_status" json:"employmentStatus"`
	HireDate         time.Time        `bson:"hire_date" json:"hireDate"`
	RetirementDate   *time.Time       `bson:"retirement_date,omitempty" json:"retirementDate,omitempty"`
	DismissalDate    *time.Time       `bson:"dismissal_date,omitempty" json:"dismissalDate,omitempty"`
	LeaveStartDate   *time.Time       `bson:"leave_start_date,omitempty" json:"leaveStartDate,omitempty"`
	LeaveEndDate     *time.Time       `bson:"leave_end_date,omitempty" json:"leaveEndDate,omitempty"`
	CreatedAt        time.Time        `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time        `bson:"updated_at" json:"updatedAt"`
}

func (Staff) TableName() string { return "staff" }

// StatusDates are the optional dates supplied with a status change.
type StatusDates struct {
	RetirementDate *time.Time
	DismissalDate  *time.Time
	LeaveStartDate *time.Time
	LeaveEndDate   *time.Time
}

// NormalizeDates clears every status date that does not belong to the
// current employment status. Repositories call it before each write.
func (s *Staff) NormalizeDates() {
	if s.EmploymentStatus == "" {
		s.EmploymentStatus = StatusActive
	}
	if s.EmploymentStatus != StatusRetired {
		s.RetirementDate = nil
	}
	if s.EmploymentStatus != StatusDismissed {
		s.DismissalDate = nil
	}
	if s.EmploymentStatus != StatusOnLeave {
		s.LeaveStartDate = nil
		s.LeaveEndDate = nil
	}
}

// UpdateEmploymentStatus moves the record to status, clearing all status
// dates first and then setting only the ones that apply. Missing required
// dates default to now.
func (s *Staff) UpdateEmploymentStatus(status EmploymentStatus, d StatusDates, now time.Time) error {
	if !status.Valid() {
		return Validation("Invalid status")
	}
	s.EmploymentStatus = status
	s.RetirementDate, s.DismissalDate, s.LeaveStartDate, s.LeaveEndDate = nil, nil, nil, nil

	orNow := func(t *time.Time) *time.Time {
		if t != nil {
			return t
		}
		n := now
		return &n
	}
	switch status {
	case StatusRetired:
		s.RetirementDate = orNow(d.RetirementDate)
	case StatusDismissed:
		s.DismissalDate = orNow(d.DismissalDate)
	case StatusOnLeave:
		s.LeaveStartDate = orNow(d.LeaveStartDate)
		s.LeaveEndDate = d.LeaveEndDate
	}
	return nil
}

func (s *Staff) Validate() error {
	switch {
	case s.Name == "":
		return Validation("Name is required")
	case s.Position == "":
		return Validation("Position is required")
	case s.Education == "":
		return Validation("Education is required")
	case s.Area == "":
		return Validation("Area is required")
	case !ValidID(s.CourtID):
		return Validation("Invalid court ID")
	case s.EmploymentStatus != "" && !s.EmploymentStatus.Valid():
		return Validation("Invalid status")
	case len(s.Phone) > 20:
		return Validation("Phone must be at most 20 characters")
	}
	return nil
}

// StaffView is a staff record with its court reference expanded.
type StaffView struct {
	Staff
	Court *CourtRef `json:"court"`
}

type StaffFilter struct {
	CourtID    string
	CourtIDs   []string
	CourtType  CourtType
	Status     EmploymentStatus
	Search     string
	SortByName bool
}

type StaffStatistics struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Retired   int64 `json:"retired"`
	Dismissed int64 `json:"dismissed"`
	OnLeave   int64 `json:"on_leave"`
}

// NewStaffStatistics folds per-status counts into the statistics shape.
// Unknown statuses are ignored.
func NewStaffStatistics(counts map[EmploymentStatus]int64) StaffStatistics {
	var st StaffStatistics
	for status, n := range counts {
		switch status {
		case StatusActive:
			st.Active = n
		case StatusRetired:
			st.Retired = n
		case StatusDismissed:
			st.Dismissed = n
		case StatusOnLeave:
			st.OnLeave = n
		default:
			continue
		}
		st.Total += n
	}
	return st
}

// StaffPatch carries optional field updates; nil fields are left alone.
// A status change through a patch does not touch dates beyond the usual
// normalization; use UpdateEmploymentStatus for transitions.
type StaffPatch struct {
	Name             *string
	Position         *string
	CourtID          *string
	Phone            *string
	Education        *string
	Area             *string
	EmploymentStatus *EmploymentStatus
	HireDate         *time.Time
	RetirementDate   *time.Time
	DismissalDate    *time.Time
	LeaveStartDate   *time.Time
	LeaveEndDate     *time.Time
}

func (p StaffPatch) Apply(s *Staff) {
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&s.Name, p.Name)
	set(&s.Position, p.Position)
	set(&s.CourtID, p.CourtID)
	set(&s.Phone, p.Phone)
	set(&s.Education, p.Education)
	set(&s.Area, p.Area)
	if p.EmploymentStatus != nil {
		s.EmploymentStatus = *p.EmploymentStatus
	}
	if p.HireDate != nil {
		s.HireDate = *p.HireDate
	}
	if p.RetirementDate != nil {
		s.RetirementDate = p.RetirementDate
	}
	if p.DismissalDate != nil {
		s.DismissalDate = p.DismissalDate
	}
	if p.LeaveStartDate != nil {
		s.LeaveStartDate = p.LeaveStartDate
	}
	if p.LeaveEndDate != nil {
		s.LeaveEndDate = p.LeaveEndDate
	}
}
