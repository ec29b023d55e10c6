package repo

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-admin/internal/core/database"
	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

// newTestRepos opens a private in-memory sqlite database per test.
func newTestRepos(t *testing.T) domain.Repositories {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewRepositories(db)
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t).Users

	u := &domain.User{Username: "alice", PasswordHash: "h", Name: "Alice", Role: domain.RoleAdmin, IsActive: true}
	require.NoError(t, r.Create(ctx, u))
	assert.True(t, domain.ValidID(u.ID))

	err := r.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h", Name: "Other", Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := r.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)

	missing, err := r.FindByID(ctx, utils.NewID())
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, r.Create(ctx, &domain.User{Username: "bob", PasswordHash: "h", Name: "Bob", Role: domain.RoleAdmin, IsActive: false}))
	active, err := r.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "alice", active[0].Username)

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	got.Name = "Alice B"
	require.NoError(t, r.Update(ctx, got))
	again, err := r.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice B", again.Name)

	assert.ErrorIs(t, r.Update(ctx, &domain.User{ID: utils.NewID(), Username: "ghost", Name: "G"}), domain.ErrNoRecord)
}

func TestCourtRepoFindAndKeepID(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t).Courts

	circuit := domain.NewCircuitCourt(domain.CourtDetails{Name: "Circuit A"})
	require.NoError(t, r.Create(ctx, circuit))
	m := domain.NewMagisterialCourt(circuit.ID, domain.CourtDetails{Name: "Mag 1"})
	m.ID = utils.NewID()
	want := m.ID
	require.NoError(t, r.Create(ctx, m))
	assert.Equal(t, want, m.ID)

	inactive := domain.NewDepartment(domain.CourtDetails{Name: "Dept"})
	inactive.IsActive = false
	require.NoError(t, r.Create(ctx, inactive))
	got, err := r.FindByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	children, err := r.Find(ctx, domain.CourtFilter{Type: domain.CourtMagisterial, CircuitCourtID: circuit.ID})
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, want, children[0].ID)

	active, err := r.Find(ctx, domain.CourtFilter{ActiveOnly: true})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	byIDs, err := r.Find(ctx, domain.CourtFilter{IDs: []string{circuit.ID, inactive.ID}})
	require.NoError(t, err)
	assert.Len(t, byIDs, 2)

	assert.ErrorIs(t, r.Create(ctx, m), domain.ErrDuplicate)

	require.NoError(t, r.DeleteByID(ctx, m.ID))
	assert.ErrorIs(t, r.DeleteByID(ctx, m.ID), domain.ErrNoRecord)
}

func TestStaffRepoFilters(t *testing.T) {
	ctx := context.Background()
	repos := newTestRepos(t)
	r := repos.Staff

	c1, c2 := utils.NewID(), utils.NewID()
	add := func(name, position, court string, status domain.EmploymentStatus) *domain.Staff {
		s := &domain.Staff{
			Name: name, Position: position, CourtID: court, CourtType: domain.CourtMagisterial,
			Education: "LLB", Area: "North", EmploymentStatus: status, HireDate: time.Now(),
		}
		if status == domain.StatusRetired {
			now := time.Now()
			s.RetirementDate = &now
			s.DismissalDate = &now // 非当前状态的日期会被清空
		}
		require.NoError(t, r.Create(ctx, s))
		return s
	}
	add("Zoe Clerk", "Clerk", c1, domain.StatusActive)
	add("Adam Judge", "Judge", c1, domain.StatusActive)
	retired := add("Mary", "Registrar", c2, domain.StatusRetired)

	got, err := r.FindByID(ctx, retired.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RetirementDate)
	assert.Nil(t, got.DismissalDate)

	byCourt, err := r.Find(ctx, domain.StaffFilter{CourtID: c1, SortByName: true})
	require.NoError(t, err)
	require.Len(t, byCourt, 2)
	assert.Equal(t, "Adam Judge", byCourt[0].Name)
	assert.Equal(t, "Zoe Clerk", byCourt[1].Name)

	search, err := r.Find(ctx, domain.StaffFilter{Search: "JUDGE"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "Adam Judge", search[0].Name)

	n, err := r.Count(ctx, domain.StaffFilter{CourtIDs: []string{c1, c2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	counts, err := r.CountByStatus(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[domain.StatusActive])
	assert.EqualValues(t, 1, counts[domain.StatusRetired])

	_, err = r.DeleteMany(ctx, domain.StaffFilter{})
	assert.Error(t, err)

	removed, err := r.DeleteMany(ctx, domain.StaffFilter{CourtID: c1})
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	left, err := r.Find(ctx, domain.StaffFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestRecycleBinRepoNewestFirst(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t).RecycleBin

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	older, err := domain.NewRecycleEntry(domain.EntityStaff, utils.NewID(), map[string]string{"name": "a"}, "", base)
	require.NoError(t, err)
	newer, err := domain.NewRecycleEntry(domain.EntityCourt, utils.NewID(), map[string]string{"name": "b"}, utils.NewID(), base.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, r.Create(ctx, older))
	require.NoError(t, r.Create(ctx, newer))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Nil(t, list[1].DeletedBy)

	got, err := r.FindByID(ctx, newer.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b"}`, string(got.Data))

	require.NoError(t, r.DeleteByID(ctx, newer.ID))
	assert.ErrorIs(t, r.DeleteByID(ctx, newer.ID), domain.ErrNoRecord)
}

func TestSettingRepoUpsert(t *testing.T) {
	ctx := context.Background()
	r := newTestRepos(t).Settings

	none, err := r.Get(ctx, domain.SettingLogo)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, r.Upsert(ctx, &domain.Setting{Key: domain.SettingLogo, Value: "AAA", MimeType: "image/png"}))
	require.NoError(t, r.Upsert(ctx, &domain.Setting{Key: domain.SettingLogo, Value: "BBB", MimeType: "image/gif"}))

	got, err := r.Get(ctx, domain.SettingLogo)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "BBB", got.Value)
	assert.Equal(t, "data:image/gif;base64,BBB", got.DataURL())
}
