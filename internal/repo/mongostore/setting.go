package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"court-admin/internal/domain"
)

type SettingRepo struct{ s *Store }

func (r *SettingRepo) Get(ctx context.Context, key string) (*domain.Setting, error) {
	return findOne[domain.Setting](ctx, r.s.col(ColSettings), bson.D{{Key: "key", Value: key}})
}

func (r *SettingRepo) Upsert(ctx context.Context, s *domain.Setting) error {
	now := time.Now()
	update := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "value", Value: s.Value},
			{Key: "mime_type", Value: s.MimeType},
			{Key: "updated_at", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: now}}},
	}
	_, err := r.s.col(ColSettings).UpdateOne(ctx, bson.D{{Key: "key", Value: s.Key}}, update,
		options.UpdateOne().SetUpsert(true))
	return wrapError(err)
}
