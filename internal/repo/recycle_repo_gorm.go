package repo

import (
	"context"

	"gorm.io/gorm"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

type RecycleBinRepo struct{ db *gorm.DB }

func NewRecycleBinRepo(db *gorm.DB) *RecycleBinRepo { return &RecycleBinRepo{db: db} }

func (r *RecycleBinRepo) Create(ctx context.Context, e *domain.RecycleEntry) error {
	if e.ID == "" {
		e.ID = utils.NewID()
	}
	return wrapError(r.db.WithContext(ctx).Create(e).Error)
}

func (r *RecycleBinRepo) FindByID(ctx context.Context, id string) (*domain.RecycleEntry, error) {
	return first[domain.RecycleEntry](r.db.WithContext(ctx), "id = ?", id)
}

func (r *RecycleBinRepo) List(ctx context.Context) ([]domain.RecycleEntry, error) {
	entries := []domain.RecycleEntry{}
	err := r.db.WithContext(ctx).Order("deleted_at desc").Order("id desc").Find(&entries).Error
	return entries, err
}

func (r *RecycleBinRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteByID[domain.RecycleEntry](r.db.WithContext(ctx), id)
}
