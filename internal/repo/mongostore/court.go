package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

type CourtRepo struct{ s *Store }

func (r *CourtRepo) Create(ctx context.Context, c *domain.Court) error {
	if c.ID == "" {
		c.ID = utils.NewID()
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = now
	}
	return insertOne(ctx, r.s.col(ColCourts), c)
}

func (r *CourtRepo) FindByID(ctx context.Context, id string) (*domain.Court, error) {
	return findOne[domain.Court](ctx, r.s.col(ColCourts), bson.D{{Key: "_id", Value: id}})
}

func (r *CourtRepo) Find(ctx context.Context, f domain.CourtFilter) ([]domain.Court, error) {
	filter := bson.D{}
	if len(f.IDs) > 0 {
		filter = append(filter, bson.E{Key: "_id", Value: idsFilter(f.IDs)})
	}
	if f.Type != "" {
		filter = append(filter, bson.E{Key: "type", Value: f.Type})
	}
	if f.CircuitCourtID != "" {
		filter = append(filter, bson.E{Key: "circuit_court_id", Value: f.CircuitCourtID})
	}
	if f.ActiveOnly {
		filter = append(filter, bson.E{Key: "is_active", Value: true})
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	return findMany[domain.Court](ctx, r.s.col(ColCourts), filter, opts)
}

func (r *CourtRepo) Update(ctx context.Context, c *domain.Court) error {
	c.UpdatedAt = time.Now()
	return replaceByID(ctx, r.s.col(ColCourts), c.ID, c)
}

func (r *CourtRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s.col(ColCourts), id)
}
