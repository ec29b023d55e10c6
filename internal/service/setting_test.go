package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-admin/internal/domain"
)

func TestLogoUploadAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	logo, err := f.svc.Settings.Logo(ctx)
	require.NoError(t, err)
	assert.Nil(t, logo)

	url, err := f.svc.Settings.UploadLogo(ctx, "image/png", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	logo, err = f.svc.Settings.Logo(ctx)
	require.NoError(t, err)
	require.NotNil(t, logo)
	assert.Equal(t, url, *logo)
}

func TestLogoRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Settings.UploadLogo(ctx, "application/pdf", []byte("x"))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.svc.Settings.UploadLogo(ctx, "image/png", nil)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.svc.Settings.UploadLogo(ctx, "image/png", make([]byte, MaxLogoBytes+1))
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}
