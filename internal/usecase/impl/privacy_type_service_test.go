package impl

import (
	"context"
	"testing"

	"rentalhub/internal/domain/entity"
	domainerrors "rentalhub/internal/domain/errors"
	"rentalhub/internal/errors"
	"rentalhub/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrivacyTypeService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.privacyTypes.CreatePrivacyType(ctx, &usecase.CreatePrivacyTypeInput{Name: "  Payment data "})
	require.NoError(t, err)
	location, err := env.privacyTypes.CreatePrivacyType(ctx, &usecase.CreatePrivacyTypeInput{Name: "Location data"})
	require.NoError(t, err)
	assert.True(t, location.IsActive)

	_, err = env.privacyTypes.CreatePrivacyType(ctx, &usecase.CreatePrivacyTypeInput{Name: "Location data"})
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))

	_, err = env.privacyTypes.CreatePrivacyType(ctx, &usecase.CreatePrivacyTypeInput{Name: " "})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	types, err := env.privacyTypes.ListPrivacyTypes(ctx, false)
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "Location data", types[0].Name)
	assert.Equal(t, "Payment data", types[1].Name)
}

func TestPrivacyTypeService_DeactivateCascadesToDocuments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	privacyType, err := env.privacyTypes.CreatePrivacyType(ctx, &usecase.CreatePrivacyTypeInput{Name: "Location data"})
	require.NoError(t, err)
	document := createPolicy(t, env, privacyType.Scope(), termsPayload)
	require.True(t, document.IsActive)

	updated, err := env.privacyTypes.SetPrivacyTypeActive(ctx, privacyType.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	active, err := env.policies.GetActivePolicy(ctx, privacyType.Scope())
	require.NoError(t, err)
	assert.Equal(t, entity.PolicySourceNone, active.Source)

	onlyActive, err := env.privacyTypes.ListPrivacyTypes(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, onlyActive)

	_, err = env.privacyTypes.SetPrivacyTypeActive(ctx, privacyType.ID, true)
	require.NoError(t, err)
	_, err = env.policies.ActivatePolicy(ctx, privacyType.Scope(), document.ID)
	require.NoError(t, err)
}

func TestPrivacyTypeService_SetActiveUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.privacyTypes.SetPrivacyTypeActive(context.Background(), uuid.New(), false)
	assert.True(t, errors.Is(err, domainerrors.ErrPrivacyTypeNotFound))
}
