package mongostore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

// testStore 使用独立测试库，未设置 MONGO_TEST_URI 时跳过
func testStore(t *testing.T) *Store {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}
	s, err := NewStore(context.Background(), uri, "court_admin_test")
	if err != nil {
		t.Skipf("MongoDB not available: %v", err)
	}
	ctx := context.Background()
	require.NoError(t, s.db.Drop(ctx))
	require.NoError(t, s.ensureIndexes(ctx))
	t.Cleanup(func() {
		_ = s.db.Drop(context.Background())
		_ = s.Close()
	})
	return s
}

var _ domain.StaffRepository = (*StaffRepo)(nil)

func TestUserRepoDuplicate(t *testing.T) {
	r := testStore(t).Repositories().Users
	ctx := context.Background()

	u := &domain.User{Username: "alice", PasswordHash: "h", Name: "Alice", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, r.Create(ctx, u))
	err := r.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h", Name: "Again"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	missing, err := r.FindByID(ctx, utils.NewID())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStaffRepoSearchAndCounts(t *testing.T) {
	r := testStore(t).Repositories().Staff
	ctx := context.Background()
	court := utils.NewID()

	for _, s := range []*domain.Staff{
		{Name: "Adam Judge", Position: "Judge", EmploymentStatus: domain.StatusActive},
		{Name: "Zoe", Position: "Court Clerk (senior)", EmploymentStatus: domain.StatusActive},
		{Name: "Mary", Position: "Registrar", EmploymentStatus: domain.StatusRetired},
	} {
		s.CourtID, s.CourtType, s.Education, s.Area, s.HireDate = court, domain.CourtCircuit, "LLB", "North", time.Now()
		require.NoError(t, r.Create(ctx, s))
	}

	hits, err := r.Find(ctx, domain.StaffFilter{Search: "clerk (SEN"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Zoe", hits[0].Name)

	sorted, err := r.Find(ctx, domain.StaffFilter{CourtID: court, Status: domain.StatusActive, SortByName: true})
	require.NoError(t, err)
	require.Len(t, sorted, 2)
	assert.Equal(t, "Adam Judge", sorted[0].Name)

	counts, err := r.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[domain.StatusActive])
	assert.EqualValues(t, 1, counts[domain.StatusRetired])

	_, err = r.DeleteMany(ctx, domain.StaffFilter{})
	assert.Error(t, err)
	n, err := r.DeleteMany(ctx, domain.StaffFilter{CourtID: court})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestRecycleBinSnapshotRoundTrip(t *testing.T) {
	repos := testStore(t).Repositories()
	ctx := context.Background()

	c := domain.NewCircuitCourt(domain.CourtDetails{Name: "Circuit A", Location: "Town"})
	require.NoError(t, repos.Courts.Create(ctx, c))

	e, err := domain.NewRecycleEntry(domain.EntityCourt, c.ID, c, "", time.Now())
	require.NoError(t, err)
	require.NoError(t, repos.RecycleBin.Create(ctx, e))

	got, err := repos.RecycleBin.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.EntityCourt, got.EntityType)
	assert.Nil(t, got.DeletedBy)
	assert.JSONEq(t, string(e.Data), string(got.Data))

	list, err := repos.RecycleBin.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repos.RecycleBin.DeleteByID(ctx, e.ID))
	assert.ErrorIs(t, repos.RecycleBin.DeleteByID(ctx, e.ID), domain.ErrNoRecord)
}

func TestSettingUpsert(t *testing.T) {
	r := testStore(t).Repositories().Settings
	ctx := context.Background()

	require.NoError(t, r.Upsert(ctx, &domain.Setting{Key: domain.SettingLogo, Value: "AAA", MimeType: "image/png"}))
	require.NoError(t, r.Upsert(ctx, &domain.Setting{Key: domain.SettingLogo, Value: "BBB", MimeType: "image/webp"}))
	got, err := r.Get(ctx, domain.SettingLogo)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "BBB", got.Value)
	assert.Equal(t, "image/webp", got.MimeType)
}
