package domain

import "context"

// Repositories return (nil, nil) from Find* lookups when the record is
// absent, ErrDuplicate on unique-key violations, ErrNoRecord from DeleteByID
// and Update when nothing matched, and raw storage errors otherwise.

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByIDs(ctx context.Context, ids []string) ([]User, error)
	ListActive(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Count(ctx context.Context) (int64, error)
}

type CourtRepository interface {
	// Create inserts c; a non-empty c.ID is kept as is.
	Create(ctx context.Context, c *Court) error
	FindByID(ctx context.Context, id string) (*Court, error)
	Find(ctx context.Context, f CourtFilter) ([]Court, error)
	Update(ctx context.Context, c *Court) error
	DeleteByID(ctx context.Context, id string) error
}

type StaffRepository interface {
	// Create inserts s; a non-empty s.ID is kept as is.
	Create(ctx context.Context, s *Staff) error
	FindByID(ctx context.Context, id string) (*Staff, error)
	Find(ctx context.Context, f StaffFilter) ([]Staff, error)
	Count(ctx context.Context, f StaffFilter) (int64, error)
	CountByStatus(ctx context.Context) (map[EmploymentStatus]int64, error)
	Update(ctx context.Context, s *Staff) error
	DeleteByID(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, f StaffFilter) (int64, error)
}

type RecycleBinRepository interface {
	Create(ctx context.Context, e *RecycleEntry) error
	FindByID(ctx context.Context, id string) (*RecycleEntry, error)
	// List returns all entries, newest first.
	List(ctx context.Context) ([]RecycleEntry, error)
	DeleteByID(ctx context.Context, id string) error
}

type SettingRepository interface {
	Get(ctx context.Context, key string) (*Setting, error)
	Upsert(ctx context.Context, s *Setting) error
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Users      UserRepository
	Courts     CourtRepository
	Staff      StaffRepository
	RecycleBin RecycleBinRepository
	Settings   SettingRepository
}
