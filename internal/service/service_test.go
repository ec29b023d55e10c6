package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"court-admin/internal/core/auth"
	"court-admin/internal/core/database"
	"court-admin/internal/domain"
	"court-admin/internal/repo"
	"court-admin/pkg/utils"
)

// 测试里降低 bcrypt 成本
func init() { utils.BcryptCost = bcrypt.MinCost }

type fixture struct {
	repos domain.Repositories
	svc   *Services
}

// newFixture builds every service over a private in-memory sqlite database.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.NewGorm(database.Opts{
		Driver:   "sqlite",
		DSN:      "file:svc_" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repos := repo.NewRepositories(db)
	j := auth.NewTokens("test-secret", "test", time.Hour)
	return &fixture{repos: repos, svc: New(repos, j, nil, time.Minute, zaptest.NewLogger(t))}
}

func (f *fixture) circuit(t *testing.T, name string) *domain.Court {
	t.Helper()
	c, err := f.svc.Courts.CreateCircuit(context.Background(), domain.CourtDetails{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) magisterial(t *testing.T, circuitID, name string) *domain.Court {
	t.Helper()
	c, err := f.svc.Courts.CreateMagisterial(context.Background(), circuitID, domain.CourtDetails{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) staff(t *testing.T, courtID, name string) *domain.StaffView {
	t.Helper()
	v, err := f.svc.Staff.Create(context.Background(), &domain.Staff{
		Name:      name,
		Position:  "Clerk",
		CourtID:   courtID,
		Education: "Diploma",
		Area:      "Central",
	})
	require.NoError(t, err)
	return v
}

func (f *fixture) user(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := f.svc.Users.Create(context.Background(), username, "secret123", "Test "+username)
	require.NoError(t, err)
	return u
}
