package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"court-admin/internal/core/auth"
	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]{3,50}$`)

const minPasswordLen = 6

type UserService struct {
	users domain.UserRepository
	jwt   *auth.Tokens
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, j *auth.Tokens, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, jwt: j, log: l}
}

func normalizeUsername(u string) string { return strings.ToLower(strings.TrimSpace(u)) }

// Login checks the credentials and issues a bearer token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	username = normalizeUsername(username)
	if len(username) < 3 {
		return "", nil, domain.Validation("Username must be at least 3 characters long")
	}
	if len(password) < minPasswordLen {
		return "", nil, domain.Validation("Password must be at least 6 characters long")
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if u == nil || !u.IsActive {
		return "", nil, domain.Unauthorized("Invalid username or account deactivated")
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return "", nil, domain.Unauthorized("Invalid username or password")
	}
	tok, err := s.jwt.Issue(u.ID, u.Role)
	if err != nil {
		return "", nil, err
	}
	s.log.Info("user logged in", zap.String("user_id", u.ID))
	return tok, u, nil
}

// Authenticate resolves a bearer token to an active user.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.Unauthorized("Access token required")
	}
	claims, err := s.jwt.Verify(token)
	if errors.Is(err, auth.ErrTokenExpired) {
		return nil, domain.Unauthorized("Token expired. Please login again.")
	}
	if err != nil {
		return nil, domain.Unauthorized("Invalid token")
	}
	if !domain.ValidID(claims.UID) {
		return nil, domain.Unauthorized("Invalid token")
	}
	u, err := s.users.FindByID(ctx, claims.UID)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.IsActive {
		return nil, domain.Unauthorized("Invalid token or user not found")
	}
	return u, nil
}

func (s *UserService) ListActive(ctx context.Context) ([]domain.User, error) {
	return s.users.ListActive(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if err := domain.RequireID(id, "user"); err != nil {
		return nil, err
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.NotFound("User not found")
	}
	return u, nil
}

func validateName(name string) error {
	if utf8.RuneCountInString(name) < 2 {
		return domain.Validation("Name must be at least 2 characters long")
	}
	if utf8.RuneCountInString(name) > 100 {
		return domain.Validation("Name must be at most 100 characters long")
	}
	return nil
}

// Create adds an admin user. Usernames are stored lowercased.
func (s *UserService) Create(ctx context.Context, username, password, name string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	name = strings.TrimSpace(name)
	if !usernameRe.MatchString(username) {
		return nil, domain.Validation("Username must be 3-50 letters and numbers")
	}
	if len(password) < minPasswordLen {
		return nil, domain.Validation("Password must be at least 6 characters long")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Username:     strings.ToLower(username),
		PasswordHash: hash,
		Name:         name,
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("Username already exists", err)
		}
		return nil, err
	}
	s.log.Info("user created", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return u, nil
}

// Update changes the display name and active flag.
func (s *UserService) Update(ctx context.Context, id string, name *string, isActive *bool) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil && strings.TrimSpace(*name) != "" {
		n := strings.TrimSpace(*name)
		if err := validateName(n); err != nil {
			return nil, err
		}
		u.Name = n
	}
	if isActive != nil {
		u.IsActive = *isActive
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	return u, nil
}

// ProfileUpdate is a self-service change; empty fields are left alone.
type ProfileUpdate struct {
	Name            string
	Username        string
	CurrentPassword string
	NewPassword     string
}

func (s *UserService) UpdateProfile(ctx context.Context, uid string, in ProfileUpdate) (*domain.User, error) {
	u, err := s.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	if n := strings.TrimSpace(in.Name); n != "" {
		if err := validateName(n); err != nil {
			return nil, err
		}
		u.Name = n
	}
	if un := strings.TrimSpace(in.Username); un != "" {
		if !usernameRe.MatchString(un) {
			return nil, domain.Validation("Username must be 3-50 letters and numbers")
		}
		u.Username = strings.ToLower(un)
	}
	if in.NewPassword != "" {
		if len(in.NewPassword) < minPasswordLen {
			return nil, domain.Validation("Password must be at least 6 characters long")
		}
		if in.CurrentPassword == "" {
			return nil, domain.Validation("Current password is required")
		}
		if !utils.CheckPassword(in.CurrentPassword, u.PasswordHash) {
			return nil, domain.Validation("Current password is incorrect")
		}
		hash, err := utils.HashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("Username already exists", err)
		}
		if errors.Is(err, domain.ErrNoRecord) {
			return nil, domain.NotFound("User not found")
		}
		return nil, err
	}
	s.log.Info("profile updated", zap.String("user_id", u.ID))
	return u, nil
}
