package modal

import (
	"context"
	"errors"
	"testing"

	"admin/internal/app/asset"
	"admin/internal/app/ds"
	"admin/internal/app/form"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanModal(reloads *int) *Controller[ds.CorporatePlan] {
	assets := form.Assets{Encoder: asset.NewEncoder(0), Origin: "https://cms.example.com"}
	return New(form.CorporatePlans, assets, func(context.Context) { *reloads++ })
}

func TestController_InitialStateClosed(t *testing.T) {
	var reloads int
	c := newPlanModal(&reloads)

	assert.Equal(t, StateClosed, c.State())
	assert.False(t, c.IsOpen())
	assert.Nil(t, c.Form())
	assert.Equal(t, ModeNone, c.Mode())
}

func TestController_OpenCreateResetsForm(t *testing.T) {
	var reloads int
	c := newPlanModal(&reloads)
	ctx := context.Background()

	require.NoError(t, c.OpenCreate(ctx))
	assert.True(t, c.IsOpen())
	assert.Equal(t, ModeCreate, c.Mode())
	assert.Empty(t, c.TargetID())
	require.NotNil(t, c.Form())
	assert.Equal(t, ds.CurrencyUSD, c.Form().Values().Currency)

	c.Form().Update(func(p *ds.CorporatePlan) { p.Name = "draft" })
	require.NoError(t, c.Cancel(ctx))
	assert.Nil(t, c.Form())
	assert.Zero(t, reloads)

	require.NoError(t, c.OpenCreate(ctx))
	assert.Empty(t, c.Form().Values().Name)
}

func TestController_OpenEditHydrates(t *testing.T) {
	var reloads int
	c := newPlanModal(&reloads)
	plan := ds.CorporatePlan{Meta: ds.Meta{ID: "p-9"}, Name: "Gold", Features: []string{"x"}}

	require.NoError(t, c.OpenEdit(context.Background(), plan))
	assert.Equal(t, ModeEdit, c.Mode())
	assert.Equal(t, "p-9", c.TargetID())

	target, ok := c.Target()
	require.True(t, ok)
	assert.Equal(t, "Gold", target.Name)
	assert.Equal(t, "Gold", c.Form().Values().Name)
	assert.Equal(t, []string{"x"}, c.Form().Values().Features)
}

func TestController_SubmitFailedKeepsForm(t *testing.T) {
	var reloads int
	c := newPlanModal(&reloads)
	ctx := context.Background()

	require.NoError(t, c.OpenCreate(ctx))
	c.Form().Update(func(p *ds.CorporatePlan) { p.Name = "Keep me" })
	f := c.Form()

	boom := errors.New("name already taken")
	require.NoError(t, c.SubmitFailed(ctx, boom))

	assert.True(t, c.IsOpen())
	assert.Equal(t, ModeCreate, c.Mode())
	assert.Same(t, f, c.Form())
	assert.Equal(t, "Keep me", c.Form().Values().Name)
	assert.ErrorIs(t, c.Err(), boom)
	assert.Zero(t, reloads)
}

func TestController_SubmitSucceededClosesAndReloads(t *testing.T) {
	var reloads int
	c := newPlanModal(&reloads)
	ctx := context.Background()

	require.NoError(t, c.OpenEdit(ctx, ds.CorporatePlan{Meta: ds.Meta{ID: "1"}}))
	require.NoError(t, c.SubmitFailed(ctx, errors.New("first try")))
	require.NoError(t, c.SubmitSucceeded(ctx))

	assert.False(t, c.IsOpen())
	assert.Nil(t, c.Form())
	assert.NoError(t, c.Err())
	assert.Equal(t, 1, reloads)
	_, ok := c.Target()
	assert.False(t, ok)
}

func TestController_RejectsInvalidTransitions(t *testing.T) {
	var reloads int
	c := newPlanModal(&reloads)
	ctx := context.Background()

	assert.Error(t, c.Cancel(ctx))
	assert.Error(t, c.SubmitSucceeded(ctx))
	assert.Error(t, c.SubmitFailed(ctx, errors.New("x")))

	require.NoError(t, c.OpenCreate(ctx))
	assert.Error(t, c.OpenCreate(ctx))
	assert.Error(t, c.OpenEdit(ctx, ds.CorporatePlan{}))
	assert.Equal(t, ModeCreate, c.Mode())
}
