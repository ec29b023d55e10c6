package service

import (
	"context"
	"encoding/base64"
	"time"

	"go.uber.org/zap"

	"court-admin/internal/core/cache"
	"court-admin/internal/domain"
)

const (
	// MaxLogoBytes is the upload limit for the logo image.
	MaxLogoBytes = 2 << 20

	logoCacheKey = "settings:logo"
)

var logoTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/svg+xml": true,
	"image/webp":    true,
}

type SettingService struct {
	repo domain.SettingRepository
	logo cache.JSON[domain.Setting]
	log  *zap.Logger
}

// NewSettingService takes an optional cache; nil reads the store every time.
func NewSettingService(repo domain.SettingRepository, c *cache.Cache, ttl time.Duration, l *zap.Logger) *SettingService {
	if l == nil {
		l = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SettingService{repo: repo, logo: cache.NewJSON[domain.Setting](c, logoCacheKey, ttl), log: l}
}

// UploadLogo stores the image base64 encoded and returns its data URL.
func (s *SettingService) UploadLogo(ctx context.Context, mimeType string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.Validation("No logo file provided")
	}
	if !logoTypes[mimeType] {
		return "", domain.Validation("Invalid file type. Please upload an image (JPEG, PNG, GIF, SVG, WEBP).")
	}
	if len(data) > MaxLogoBytes {
		return "", domain.Validation("File size must be less than 2MB")
	}
	st := &domain.Setting{
		Key:      domain.SettingLogo,
		Value:    base64.StdEncoding.EncodeToString(data),
		MimeType: mimeType,
	}
	if err := s.repo.Upsert(ctx, st); err != nil {
		return "", err
	}
	if err := s.logo.Invalidate(ctx); err != nil {
		s.log.Warn("logo cache invalidation failed", zap.Error(err))
	}
	s.log.Info("logo updated", zap.String("mime_type", mimeType), zap.Int("bytes", len(data)))
	return st.DataURL(), nil
}

// Logo returns the logo data URL, or nil when none is stored.
func (s *SettingService) Logo(ctx context.Context) (*string, error) {
	st, err := s.logo.Get(ctx, func(ctx context.Context) (*domain.Setting, error) {
		return s.repo.Get(ctx, domain.SettingLogo)
	})
	if err != nil {
		return nil, err
	}
	if st == nil || st.Value == "" {
		return nil, nil
	}
	u := st.DataURL()
	return &u, nil
}
