// Package service holds the business operations behind the HTTP actions
// and the maintenance CLI. Services return *domain.Error for expected
// failures and wrapped storage errors otherwise.
package service

import (
	"time"

	"go.uber.org/zap"

	"court-admin/internal/core/auth"
	"court-admin/internal/core/cache"
	"court-admin/internal/domain"
)

type Services struct {
	Users      *UserService
	Courts     *CourtService
	Staff      *StaffService
	RecycleBin *RecycleBin
	Settings   *SettingService
}

func New(repos domain.Repositories, j *auth.Tokens, c *cache.Cache, cacheTTL time.Duration, l *zap.Logger) *Services {
	return &Services{
		Users:      NewUserService(repos.Users, j, l),
		Courts:     NewCourtService(repos, l),
		Staff:      NewStaffService(repos, l),
		RecycleBin: NewRecycleBin(repos, l),
		Settings:   NewSettingService(repos.Settings, c, cacheTTL, l),
	}
}
