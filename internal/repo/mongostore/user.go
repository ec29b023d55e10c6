package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

type UserRepo struct{ s *Store }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return insertOne(ctx, r.s.col(ColUsers), u)
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.s.col(ColUsers), bson.D{{Key: "_id", Value: id}})
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.s.col(ColUsers), bson.D{{Key: "username", Value: username}})
}

func (r *UserRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}
	return findMany[domain.User](ctx, r.s.col(ColUsers), bson.D{{Key: "_id", Value: idsFilter(ids)}})
}

func (r *UserRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findMany[domain.User](ctx, r.s.col(ColUsers), bson.D{{Key: "is_active", Value: true}}, opts)
}

func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now()
	return replaceByID(ctx, r.s.col(ColUsers), u.ID, u)
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	return r.s.col(ColUsers).CountDocuments(ctx, bson.D{})
}
