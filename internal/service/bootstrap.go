package service

import (
	"context"

	"go.uber.org/zap"

	"court-admin/internal/domain"
)

// SeedAdmin is the account created on first start.
type SeedAdmin struct {
	Username string
	Password string
	Name     string
}

// Bootstrap creates the seed admin when no user exists yet. It is safe to
// run on every start. It reports whether a user was created.
func Bootstrap(ctx context.Context, users *UserService, seed SeedAdmin, l *zap.Logger) (bool, error) {
	if l == nil {
		l = zap.NewNop()
	}
	n, err := users.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		l.Info("users present, skip seeding", zap.Int64("count", n))
		return false, nil
	}
	u, err := users.Create(ctx, seed.Username, seed.Password, seed.Name)
	if domain.KindOf(err) == domain.KindConflict {
		// 另一个实例先建好了
		return false, nil
	}
	if err != nil {
		return false, err
	}
	l.Info("seed admin created", zap.String("username", u.Username))
	return true, nil
}
