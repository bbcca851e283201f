package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whosnight/models"
)

func TestAppendAssignsServerTimestamp(t *testing.T) {
	db := openTestDB(t)
	audit := NewActionLogger(db, testLogger())

	entry := models.ActionLogEntry{
		UserID: momID,
		Action: models.ActionCreateEvent,
		// A client-supplied timestamp is ignored.
		Timestamp: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	audit.Append(&entry)

	require.NotZero(t, entry.ID)
	assert.WithinDuration(t, time.Now().UTC(), entry.Timestamp, 5*time.Second)
}

func TestForEntityNewestFirst(t *testing.T) {
	db := openTestDB(t)
	audit := NewActionLogger(db, testLogger())

	kind := models.KindEvent
	for _, action := range []models.Action{models.ActionCreateEvent, models.ActionAcceptEvent, models.ActionCancelEvent} {
		audit.Append(&models.ActionLogEntry{
			UserID:     momID,
			Action:     action,
			EntityType: &kind,
			EntityID:   Pointer(uint(7)),
		})
	}
	// Unrelated entity stays out of the trail.
	audit.Append(&models.ActionLogEntry{
		UserID:     momID,
		Action:     models.ActionCreateEvent,
		EntityType: &kind,
		EntityID:   Pointer(uint(8)),
	})

	entries, err := audit.ForEntity(kind, 7)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, models.ActionCancelEvent, entries[0].Action)
	assert.Equal(t, models.ActionAcceptEvent, entries[1].Action)
	assert.Equal(t, models.ActionCreateEvent, entries[2].Action)
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].Timestamp.After(entries[i-1].Timestamp))
	}
}

func TestForUserIncludesRequestedBy(t *testing.T) {
	db := openTestDB(t)
	audit := NewActionLogger(db, testLogger())

	// Mom accepted something dad requested: both should see it.
	audit.Append(&models.ActionLogEntry{
		UserID:      momID,
		Action:      models.ActionAcceptTask,
		RequestedBy: Pointer(dadID),
	})
	audit.Append(&models.ActionLogEntry{
		UserID: teenID,
		Action: models.ActionCreateTask,
	})

	momEntries, err := audit.ForUser(momID)
	require.NoError(t, err)
	require.Len(t, momEntries, 1)

	dadEntries, err := audit.ForUser(dadID)
	require.NoError(t, err)
	require.Len(t, dadEntries, 1)
	assert.Equal(t, models.ActionAcceptTask, dadEntries[0].Action)
}

func TestGetMissingEntry(t *testing.T) {
	db := openTestDB(t)
	audit := NewActionLogger(db, testLogger())

	_, err := audit.Get(123)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
