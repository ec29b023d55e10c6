package repo

import (
	"context"

	"gorm.io/gorm"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

type CourtRepo struct{ db *gorm.DB }

func NewCourtRepo(db *gorm.DB) *CourtRepo { return &CourtRepo{db: db} }

func (r *CourtRepo) Create(ctx context.Context, c *domain.Court) error {
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	return wrapError(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CourtRepo) FindByID(ctx context.Context, id string) (*domain.Court, error) {
	return first[domain.Court](r.db.WithContext(ctx), "id = ?", id)
}

func (r *CourtRepo) Find(ctx context.Context, f domain.CourtFilter) ([]domain.Court, error) {
	q := r.db.WithContext(ctx).Model(&domain.Court{})
	if len(f.IDs) > 0 {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.CircuitCourtID != "" {
		q = q.Where("circuit_court_id = ?", f.CircuitCourtID)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	courts := []domain.Court{}
	err := q.Order("created_at asc").Find(&courts).Error
	return courts, err
}

func (r *CourtRepo) Update(ctx context.Context, c *domain.Court) error {
	return updateAll(r.db.WithContext(ctx), c.ID, c)
}

func (r *CourtRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteByID[domain.Court](r.db.WithContext(ctx), id)
}
