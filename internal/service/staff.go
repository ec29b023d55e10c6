package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"court-admin/internal/domain"
)

type StaffService struct {
	repos domain.Repositories
	log   *zap.Logger
	now   func() time.Time
}

func NewStaffService(repos domain.Repositories, l *zap.Logger) *StaffService {
	if l == nil {
		l = zap.NewNop()
	}
	return &StaffService{repos: repos, log: l, now: time.Now}
}

// attachCourt checks that the staff's court exists and copies its type.
func (s *StaffService) attachCourt(ctx context.Context, st *domain.Staff) (*domain.Court, error) {
	if !domain.ValidID(st.CourtID) {
		return nil, domain.Validation("Invalid court ID")
	}
	c, err := s.repos.Courts.FindByID(ctx, st.CourtID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.Validation("Court not found")
	}
	st.CourtType = c.Type
	return c, nil
}

func trimStaff(st *domain.Staff) {
	st.Name = strings.TrimSpace(st.Name)
	st.Position = strings.TrimSpace(st.Position)
	st.Phone = strings.TrimSpace(st.Phone)
	st.Education = strings.TrimSpace(st.Education)
	st.Area = strings.TrimSpace(st.Area)
}

func (s *StaffService) Create(ctx context.Context, st *domain.Staff) (*domain.StaffView, error) {
	st.ID = ""
	trimStaff(st)
	if st.HireDate.IsZero() {
		st.HireDate = s.now()
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	court, err := s.attachCourt(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Staff.Create(ctx, st); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("Staff already exists", err)
		}
		return nil, err
	}
	s.log.Info("staff created", zap.String("staff_id", st.ID), zap.String("court_id", st.CourtID))
	return &domain.StaffView{Staff: *st, Court: court.Ref()}, nil
}

func (s *StaffService) find(ctx context.Context, id string) (*domain.Staff, error) {
	if err := domain.RequireID(id, "staff"); err != nil {
		return nil, err
	}
	st, err := s.repos.Staff.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.NotFound("Staff not found")
	}
	return st, nil
}

func (s *StaffService) save(ctx context.Context, st *domain.Staff) (*domain.StaffView, error) {
	if err := st.Validate(); err != nil {
		return nil, err
	}
	court, err := s.attachCourt(ctx, st)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Staff.Update(ctx, st); err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.NotFound("Staff not found")
		}
		return nil, err
	}
	return &domain.StaffView{Staff: *st, Court: court.Ref()}, nil
}

func (s *StaffService) Update(ctx context.Context, id string, p domain.StaffPatch) (*domain.StaffView, error) {
	st, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Apply(st)
	trimStaff(st)
	return s.save(ctx, st)
}

// ChangeStatus runs an employment status transition.
func (s *StaffService) ChangeStatus(ctx context.Context, id string, status domain.EmploymentStatus, d domain.StatusDates) (*domain.StaffView, error) {
	st, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	from := st.EmploymentStatus
	if err := st.UpdateEmploymentStatus(status, d, s.now()); err != nil {
		return nil, err
	}
	v, err := s.save(ctx, st)
	if err != nil {
		return nil, err
	}
	s.log.Info("staff status changed",
		zap.String("staff_id", st.ID),
		zap.String("from", string(from)),
		zap.String("to", string(status)),
	)
	return v, nil
}

func (s *StaffService) Get(ctx context.Context, id string) (*domain.StaffView, error) {
	st, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.expand(ctx, []domain.Staff{*st})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns staff matching f with their courts expanded.
func (s *StaffService) List(ctx context.Context, f domain.StaffFilter) ([]domain.StaffView, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, domain.Validation("Invalid status")
	}
	if f.CourtID != "" && !domain.ValidID(f.CourtID) {
		return nil, domain.Validation("Invalid court ID")
	}
	if f.CourtType != "" && !f.CourtType.Valid() {
		return nil, domain.Validation("Invalid court type")
	}
	staff, err := s.repos.Staff.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	return s.expand(ctx, staff)
}

// expand resolves court references with a single batched lookup.
func (s *StaffService) expand(ctx context.Context, staff []domain.Staff) ([]domain.StaffView, error) {
	seen := map[string]struct{}{}
	var ids []string
	for _, st := range staff {
		if _, ok := seen[st.CourtID]; !ok && st.CourtID != "" {
			seen[st.CourtID] = struct{}{}
			ids = append(ids, st.CourtID)
		}
	}
	courts := map[string]*domain.CourtRef{}
	if len(ids) > 0 {
		found, err := s.repos.Courts.Find(ctx, domain.CourtFilter{IDs: ids})
		if err != nil {
			return nil, err
		}
		for i := range found {
			courts[found[i].ID] = found[i].Ref()
		}
	}
	out := make([]domain.StaffView, len(staff))
	for i, st := range staff {
		out[i] = domain.StaffView{Staff: st, Court: courts[st.CourtID]}
	}
	return out, nil
}

func (s *StaffService) Statistics(ctx context.Context) (domain.StaffStatistics, error) {
	counts, err := s.repos.Staff.CountByStatus(ctx)
	if err != nil {
		return domain.StaffStatistics{}, err
	}
	return domain.NewStaffStatistics(counts), nil
}
