// Package mongostore implements the domain repositories on MongoDB.
//
// Documents use string _id values holding 24-hex object ids, so the same
// identifiers work for the gorm backend and for restores from the recycle bin.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"court-admin/internal/domain"
)

const (
	ColUsers      = "users"
	ColCourts     = "courts"
	ColStaff      = "staff"
	ColRecycleBin = "recycle_bin"
	ColSettings   = "settings"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects, pings and ensures indexes.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection { return s.db.Collection(name) }

// Repositories exposes the store through the domain repository interfaces.
func (s *Store) Repositories() domain.Repositories {
	return domain.Repositories{
		Users:      &UserRepo{s: s},
		Courts:     &CourtRepo{s: s},
		Staff:      &StaffRepo{s: s},
		RecycleBin: &RecycleBinRepo{s: s},
		Settings:   &SettingRepo{s: s},
	}
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}
	indexes := []idx{
		{ColUsers, bson.D{{Key: "username", Value: 1}}, true},

		{ColCourts, bson.D{{Key: "type", Value: 1}}, false},
		{ColCourts, bson.D{{Key: "circuit_court_id", Value: 1}}, false},

		{ColStaff, bson.D{{Key: "court_id", Value: 1}, {Key: "employment_status", Value: 1}}, false},
		{ColStaff, bson.D{{Key: "court_type", Value: 1}}, false},
		{ColStaff, bson.D{{Key: "employment_status", Value: 1}}, false},
		{ColStaff, bson.D{{Key: "name", Value: 1}}, false},

		{ColRecycleBin, bson.D{{Key: "deleted_at", Value: -1}}, false},

		{ColSettings, bson.D{{Key: "key", Value: 1}}, true},
	}
	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("mongostore: create index on %s: %w", i.col, err)
		}
	}
	return nil
}
