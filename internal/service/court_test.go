package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"court-admin/internal/domain"
	"court-admin/pkg/utils"
)

func TestCreateMagisterialNeedsCircuit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dept, err := f.svc.Courts.CreateDepartment(ctx, domain.CourtDetails{Name: "Dept"})
	require.NoError(t, err)

	for _, parent := range []string{"", "xyz", utils.NewID(), dept.ID} {
		_, err := f.svc.Courts.CreateMagisterial(ctx, parent, domain.CourtDetails{Name: "M"})
		assert.Equal(t, domain.KindValidation, domain.KindOf(err), parent)
	}

	_, err = f.svc.Courts.CreateCircuit(ctx, domain.CourtDetails{Name: "   "})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestCourtListingsWithCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.circuit(t, "Circuit")
	m := f.magisterial(t, c.ID, "Mag")
	f.staff(t, c.ID, "a")
	f.staff(t, m.ID, "b")
	f.staff(t, m.ID, "c")

	circuits, err := f.svc.Courts.Circuits(ctx)
	require.NoError(t, err)
	require.Len(t, circuits, 1)
	assert.EqualValues(t, 1, circuits[0].StaffCount)
	assert.Nil(t, circuits[0].CircuitCourt)

	mags, err := f.svc.Courts.Magisterial(ctx)
	require.NoError(t, err)
	require.Len(t, mags, 1)
	assert.EqualValues(t, 2, mags[0].StaffCount)
	require.NotNil(t, mags[0].CircuitCourt)
	assert.Equal(t, "Circuit", *mags[0].CircuitCourt)

	byCircuit, err := f.svc.Courts.MagisterialByCircuit(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, byCircuit, 1)

	_, err = f.svc.Courts.MagisterialByCircuit(ctx, "bad")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	all, err := f.svc.Courts.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOrphanMagisterialShowsNullParent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.circuit(t, "Circuit")
	m := f.magisterial(t, c.ID, "Mag")
	require.NoError(t, f.repos.Courts.DeleteByID(ctx, c.ID))

	mags, err := f.svc.Courts.Magisterial(ctx)
	require.NoError(t, err)
	require.Len(t, mags, 1)
	assert.Nil(t, mags[0].CircuitCourt)
	assert.Nil(t, mags[0].CircuitCourtID)

	v, err := f.svc.Courts.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Nil(t, v.CircuitCourt)
}

func TestUpdateCourts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c1 := f.circuit(t, "One")
	c2 := f.circuit(t, "Two")
	m := f.magisterial(t, c1.ID, "Mag")

	name := "Mag Renamed"
	v, err := f.svc.Courts.UpdateMagisterial(ctx, m.ID, &c2.ID, domain.CourtPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Mag Renamed", v.Name)
	require.NotNil(t, v.CircuitCourt)
	assert.Equal(t, c2.ID, v.CircuitCourt.ID)

	bad := utils.NewID()
	_, err = f.svc.Courts.UpdateMagisterial(ctx, m.ID, &bad, domain.CourtPatch{})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = f.svc.Courts.UpdateDepartment(ctx, c1.ID, domain.CourtPatch{})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	loc := "Harbour"
	v, err = f.svc.Courts.Update(ctx, c1.ID, domain.CourtPatch{Location: &loc})
	require.NoError(t, err)
	assert.Equal(t, "Harbour", v.Location)
	assert.Equal(t, "One", v.Name)

	_, err = f.svc.Courts.Get(ctx, utils.NewID())
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}
