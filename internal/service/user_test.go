package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-admin/internal/domain"
)

func TestLoginAndAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Clerk01")
	assert.Equal(t, "clerk01", u.Username)

	tok, got, err := f.svc.Users.Login(ctx, " CLERK01 ", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, tok)

	who, err := f.svc.Users.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, who.ID)

	_, _, err = f.svc.Users.Login(ctx, "clerk01", "wrongpass")
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	_, _, err = f.svc.Users.Login(ctx, "ab", "secret123")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, _, err = f.svc.Users.Login(ctx, "nobody", "secret123")
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))

	_, err = f.svc.Users.Authenticate(ctx, "")
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	_, err = f.svc.Users.Authenticate(ctx, "not.a.token")
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))

	// 停用后旧 token 失效
	off := false
	_, err = f.svc.Users.Update(ctx, u.ID, nil, &off)
	require.NoError(t, err)
	_, err = f.svc.Users.Authenticate(ctx, tok)
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
	_, _, err = f.svc.Users.Login(ctx, "clerk01", "secret123")
	assert.Equal(t, domain.KindAuth, domain.KindOf(err))
}

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "alice")

	_, err := f.svc.Users.Create(ctx, "ALICE", "secret123", "Other Alice")
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	_, err = f.svc.Users.Create(ctx, "bad name", "secret123", "Bad")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.svc.Users.Create(ctx, "bob", "123", "Bob")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.svc.Users.Create(ctx, "bob", "secret123", "B")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	active, err := f.svc.Users.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")
	f.user(t, "bob")

	_, err := f.svc.Users.UpdateProfile(ctx, u.ID, ProfileUpdate{NewPassword: "newsecret"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.svc.Users.UpdateProfile(ctx, u.ID, ProfileUpdate{CurrentPassword: "wrong!!", NewPassword: "newsecret"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = f.svc.Users.UpdateProfile(ctx, u.ID, ProfileUpdate{Username: "bob"})
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	got, err := f.svc.Users.UpdateProfile(ctx, u.ID, ProfileUpdate{
		Name:            "Alice Smith",
		CurrentPassword: "secret123",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", got.Name)

	_, _, err = f.svc.Users.Login(ctx, "alice", "newsecret")
	assert.NoError(t, err)
}

func TestBootstrapIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seed := SeedAdmin{Username: "admin", Password: "admin123", Name: "System Administrator"}

	created, err := Bootstrap(ctx, f.svc.Users, seed, nil)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = Bootstrap(ctx, f.svc.Users, seed, nil)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := f.repos.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
