package sharing

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"birthdays/internal/models"
	"birthdays/internal/validation"
)

func boolPtr(v bool) *bool { return &v }

func TestOwner_Preferences(t *testing.T) {
	h := newHarness(t, 10)
	owner := uuid.New()
	ctx := context.Background()

	pref, err := h.owner.Preferences(ctx, owner)
	require.NoError(t, err)
	assert.True(t, pref.EmailNotifications)
	assert.False(t, pref.SummaryNotifications)

	pref, err = h.owner.UpdatePreferences(ctx, owner, boolPtr(false), nil)
	require.NoError(t, err)
	assert.False(t, pref.EmailNotifications)
	assert.False(t, pref.SummaryNotifications)

	pref, err = h.owner.UpdatePreferences(ctx, owner, nil, boolPtr(true))
	require.NoError(t, err)
	assert.False(t, pref.EmailNotifications, "unset flags keep their value")
	assert.Equal(t, models.DispatchSummary, pref.Mode())

	// Turning immediate email on while summaries are on names no single mode
	_, err = h.owner.UpdatePreferences(ctx, owner, boolPtr(true), nil)
	require.ErrorIs(t, err, ErrValidation)
	fields := AsError(err).Fields
	assert.True(t, fields.Has("emailNotifications"))
	assert.True(t, fields.Has("summaryNotifications"))

	pref, err = h.owner.Preferences(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, models.DispatchSummary, pref.Mode(), "rejected update must not be saved")

	pref, err = h.owner.UpdatePreferences(ctx, owner, boolPtr(true), boolPtr(false))
	require.NoError(t, err)
	assert.Equal(t, models.DispatchImmediate, pref.Mode())

	_, err = h.owner.Preferences(ctx, uuid.Nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestOwner_Birthdays(t *testing.T) {
	h := newHarness(t, 10)
	owner := uuid.New()
	ctx := context.Background()

	_, err := h.owner.CreateBirthday(ctx, owner, validation.BirthdayInput{Name: " ", Date: "1800-01-01"})
	require.ErrorIs(t, err, ErrValidation)
	fields := AsError(err).Fields
	assert.True(t, fields.Has("name"))
	assert.True(t, fields.Has("date"))

	b, err := h.owner.CreateBirthday(ctx, owner, validation.BirthdayInput{Name: "Grace", Date: "1906-12-09"})
	require.NoError(t, err)
	assert.Equal(t, owner, b.OwnerID)

	_, err = h.owner.DeleteBirthday(ctx, uuid.New(), b.ID)
	assert.ErrorIs(t, err, ErrNotFound, "other owners cannot see the birthday")

	deleted, err := h.owner.DeleteBirthday(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, deleted.ID)
	list, err := h.owner.ListBirthdays(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
}
