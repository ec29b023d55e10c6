package mongostore

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

type StaffRepo struct{ s *Store }

func staffFilter(f domain.StaffFilter) bson.D {
	filter := bson.D{}
	if f.CourtID != "" {
		filter = append(filter, bson.E{Key: "court_id", Value: f.CourtID})
	}
	if len(f.CourtIDs) > 0 {
		filter = append(filter, bson.E{Key: "court_id", Value: idsFilter(f.CourtIDs)})
	}
	if f.CourtType != "" {
		filter = append(filter, bson.E{Key: "court_type", Value: f.CourtType})
	}
	if f.Status != "" {
		filter = append(filter, bson.E{Key: "employment_status", Value: f.Status})
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		re := bson.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: re}},
			bson.D{{Key: "position", Value: re}},
		}})
	}
	return filter
}

func (r *StaffRepo) Create(ctx context.Context, s *domain.Staff) error {
	if s.ID == "" {
		s.ID = utils.NewID()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}
	s.NormalizeDates()
	return insertOne(ctx, r.s.col(ColStaff), s)
}

func (r *StaffRepo) FindByID(ctx context.Context, id string) (*domain.Staff, error) {
	return findOne[domain.Staff](ctx, r.s.col(ColStaff), bson.D{{Key: "_id", Value: id}})
}

func (r *StaffRepo) Find(ctx context.Context, f domain.StaffFilter) ([]domain.Staff, error) {
	sort := bson.D{{Key: "created_at", Value: 1}}
	if f.SortByName {
		sort = bson.D{{Key: "name", Value: 1}}
	}
	return findMany[domain.Staff](ctx, r.s.col(ColStaff), staffFilter(f), options.Find().SetSort(sort))
}

func (r *StaffRepo) Count(ctx context.Context, f domain.StaffFilter) (int64, error) {
	return r.s.col(ColStaff).CountDocuments(ctx, staffFilter(f))
}

func (r *StaffRepo) CountByStatus(ctx context.Context) (map[domain.EmploymentStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$employment_status"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.s.col(ColStaff).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status domain.EmploymentStatus `bson:"_id"`
		Count  int64                   `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make(map[domain.EmploymentStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *StaffRepo) Update(ctx context.Context, s *domain.Staff) error {
	s.UpdatedAt = time.Now()
	s.NormalizeDates()
	return replaceByID(ctx, r.s.col(ColStaff), s.ID, s)
}

func (r *StaffRepo) DeleteByID(ctx context.Context, id string) error {
	return deleteByID(ctx, r.s.col(ColStaff), id)
}

func (r *StaffRepo) DeleteMany(ctx context.Context, f domain.StaffFilter) (int64, error) {
	filter := staffFilter(f)
	if len(filter) == 0 {
		return 0, errors.New("mongostore: refusing to delete staff without a filter")
	}
	res, err := r.s.col(ColStaff).DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
