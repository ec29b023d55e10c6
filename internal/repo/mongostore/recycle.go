package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

// recycleDoc stores the snapshot as an embedded document rather than an
// opaque JSON blob so it stays queryable from the mongo shell.
type recycleDoc struct {
	ID         string            `bson:"_id"`
	EntityType domain.EntityType `bson:"entity_type"`
	EntityID   string            `bson:"entity_id"`
	Data       bson.D            `bson:"data"`
	DeletedBy  *string           `bson:"deleted_by,omitempty"`
	DeletedAt  time.Time         `bson:"deleted_at"`
}

func toRecycleDoc(e *domain.RecycleEntry) (*recycleDoc, error) {
	var data bson.D
	if err := bson.UnmarshalExtJSON(e.Data, false, &data); err != nil {
		return nil, fmt.Errorf("mongostore: encode snapshot: %w", err)
	}
	return &recycleDoc{
		ID:         e.ID,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Data:       data,
		DeletedBy:  e.DeletedBy,
		DeletedAt:  e.DeletedAt,
	}, nil
}

func (d *recycleDoc) entry() (*domain.RecycleEntry, error) {
	data, err := bson.MarshalExtJSON(d.Data, false, false)
	if err != nil {
		return nil, fmt.Errorf("mongostore: decode snapshot %s: %w", d.ID, err)
	}
	return &domain.RecycleEntry{
		ID:         d.ID,
		EntityType: d.EntityType,
		EntityID:   d.EntityID,
		Data:       data,
		DeletedBy:  d.DeletedBy,
		DeletedAt:  d.DeletedAt,
	}, nil
}

type RecycleBinRepo struct{ s *Store }

func (r *RecycleBinRepo) Create(ctx context.Context, e *domain.RecycleEntry) error {
	if e.ID == "" {
		e.ID = utils.NewID()
	}
	if e.DeletedAt.IsZero() {
		e.DeletedAt = time.Now()
	}
	doc, err := toRecycleDoc(e)
	if err != nil {
		return err
	}
	return insertOne(ctx, r.s.col(ColRecycleBin), doc)
}

func (r *RecycleBinRepo) FindByID(ctx context.Context, id string) (*domain.RecycleEntry, error) {
	doc, err := findOne[recycleDoc](ctx, r.s.col(ColRecycleBin), bson.D{{Key: "_id", Value: id}})
	if err != nil || doc == nil {
		return nil, err
	}
	return doc.entry()
}

func (r *RecycleBinRepo) List(ctx context.Context) ([]domain.RecycleEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}, {Key: "_id", Value: -1}})
	docs, err := findMany[recycleDoc](ctx, r.s.col(ColRecycleBin), bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.RecycleEntry, 0, len(docs))
	for i := range docs {
		e, err := docs[i].entry()
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, nil
}

func (r *RecycleBinRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s.col(ColRecycleBin), id)
}
