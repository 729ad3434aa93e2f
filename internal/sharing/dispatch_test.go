package sharing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"birthdays/internal/models"
)

func TestDispatcher_Modes(t *testing.T) {
	tests := []struct {
		name       string
		pref       *models.NotificationPreference // nil means never saved
		wantMode   models.DispatchMode
		wantNotify int
		wantMarked int
	}{
		{"defaults", nil, models.DispatchImmediate, 1, 0},
		{"email only", &models.NotificationPreference{EmailNotifications: true}, models.DispatchImmediate, 1, 0},
		{"summary only", &models.NotificationPreference{SummaryNotifications: true}, models.DispatchSummary, 0, 1},
		{"both flags", &models.NotificationPreference{EmailNotifications: true, SummaryNotifications: true}, models.DispatchImmediate, 1, 0},
		{"neither", &models.NotificationPreference{}, models.DispatchNone, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			notifier := &recordingNotifier{}
			d := NewDispatcher(store, store, notifier)

			owner := uuid.New()
			if tt.pref != nil {
				tt.pref.UserID = owner
				require.NoError(t, store.UpsertNotificationPreference(context.Background(), tt.pref))
			}

			link := &models.SharingLink{ID: uuid.New(), OwnerID: owner}
			sub := &models.Submission{ID: uuid.New(), LinkID: link.ID, Name: "Ada"}

			mode, err := d.OnNewPendingSubmission(context.Background(), link, sub)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, mode)
			assert.Equal(t, tt.wantNotify, notifier.count())
			assert.Len(t, store.markedIDs(), tt.wantMarked)
		})
	}
}

func TestDispatcher_Errors(t *testing.T) {
	link := &models.SharingLink{ID: uuid.New(), OwnerID: uuid.New()}
	sub := &models.Submission{ID: uuid.New(), LinkID: link.ID}

	t.Run("preference lookup", func(t *testing.T) {
		store := newMemStore()
		store.prefErr = errStoreDown
		d := NewDispatcher(store, store, &recordingNotifier{})

		_, err := d.OnNewPendingSubmission(context.Background(), link, sub)
		assert.ErrorIs(t, err, errStoreDown)
	})

	t.Run("notifier", func(t *testing.T) {
		store := newMemStore()
		d := NewDispatcher(store, store, &recordingNotifier{err: errors.New("smtp")})

		mode, err := d.OnNewPendingSubmission(context.Background(), link, sub)
		assert.Error(t, err)
		assert.Equal(t, models.DispatchImmediate, mode)
	})

	t.Run("summary mark", func(t *testing.T) {
		store := newMemStore()
		store.markErr = errStoreDown
		require.NoError(t, store.UpsertNotificationPreference(context.Background(), &models.NotificationPreference{
			UserID:               link.OwnerID,
			SummaryNotifications: true,
		}))
		d := NewDispatcher(store, store, nil)

		_, err := d.OnNewPendingSubmission(context.Background(), link, sub)
		assert.ErrorIs(t, err, errStoreDown)
	})
}

func TestDispatcher_NilNotifier(t *testing.T) {
	store := newMemStore()
	d := NewDispatcher(store, store, nil)
	link := &models.SharingLink{ID: uuid.New(), OwnerID: uuid.New()}

	mode, err := d.OnNewPendingSubmission(context.Background(), link, &models.Submission{ID: uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, models.DispatchImmediate, mode)
}

func TestDispatcher_WaitDrainsBackgroundWork(t *testing.T) {
	store := newMemStore()
	notifier := &recordingNotifier{}
	d := NewDispatcher(store, store, notifier)
	link := &models.SharingLink{ID: uuid.New(), OwnerID: uuid.New()}

	for range 20 {
		d.Dispatch(context.Background(), link, &models.Submission{ID: uuid.New()})
	}
	d.Wait()

	assert.Equal(t, 20, notifier.count())
}
