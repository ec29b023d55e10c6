package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

type StaffRepo struct{ db *gorm.DB }

func NewStaffRepo(db *gorm.DB) *StaffRepo { return &StaffRepo{db: db} }

func (r *StaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	if s.ID == "" {
		s.ID = utils.NewID()
	}
	s.NormalizeDates()
	return wrapError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *StaffRepo) FindByID(ctx context.Context, id string) (*domain.Staff, error) {
	return first[domain.Staff](r.db.WithContext(ctx), "id = ?", id)
}

func (r *StaffRepo) scope(q *gorm.DB, f domain.StaffFilter) *gorm.DB {
	if f.CourtID != "" {
		q = q.Where("court_id = ?", f.CourtID)
	}
	if len(f.CourtIDs) > 0 {
		q = q.Where("court_id IN ?", f.CourtIDs)
	}
	if f.CourtType != "" {
		q = q.Where("court_type = ?", f.CourtType)
	}
	if f.Status != "" {
		q = q.Where("employment_status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(position) LIKE ?", like, like)
	}
	return q
}

func (r *StaffRepo) Find(ctx context.Context, f domain.StaffFilter) ([]domain.Staff, error) {
	q := r.scope(r.db.WithContext(ctx).Model(&domain.Staff{}), f)
	if f.SortByName {
		q = q.Order("name asc")
	} else {
		q = q.Order("created_at asc")
	}
	staff := []domain.Staff{}
	err := q.Find(&staff).Error
	return staff, err
}

func (r *StaffRepo) Count(ctx context.Context, f domain.StaffFilter) (int64, error) {
	var n int64
	err := r.scope(r.db.WithContext(ctx).Model(&domain.Staff{}), f).Count(&n).Error
	return n, err
}

func (r *StaffRepo) CountByStatus(ctx context.Context) (map[domain.EmploymentStatus]int64, error) {
	var rows []struct {
		Status domain.EmploymentStatus
		N      int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Staff{}).
		Select("employment_status AS status, COUNT(*) AS n").
		Group("employment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[domain.EmploymentStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *StaffRepo) Update(ctx context.Context, s *domain.Staff) error {
	s.NormalizeDates()
	return updateAll(r.db.WithContext(ctx), s.ID, s)
}

func (r *StaffRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteByID[domain.Staff](r.db.WithContext(ctx), id)
}

func (r *StaffRepo) DeleteMany(ctx context.Context, f domain.StaffFilter) (int64, error) {
	if f.CourtID == "" && len(f.CourtIDs) == 0 && f.CourtType == "" && f.Status == "" {
		return 0, errors.New("repo: refusing to delete staff without a filter")
	}
	res := r.scope(r.db.WithContext(ctx), f).Delete(&domain.Staff{})
	return res.RowsAffected, res.Error
}
