package utils

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whosnight/models"
)

const (
	momID  uint = 1
	dadID  uint = 2
	teenID uint = 3
)

func TestTransitionAccept(t *testing.T) {
	approval, db := newTestApproval(t)

	task := models.Task{Title: "buy cleats", DueDate: "2025-06-20", Status: models.StatusPending, CreatedBy: dadID}
	require.NoError(t, db.Create(&task).Error)

	entity, err := approval.Transition(models.KindTask, task.ID, momID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, entity.GetStatus())

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, models.StatusConfirmed, stored.Status)

	var entries []models.ActionLogEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, models.ActionAcceptTask, entry.Action)
	assert.Equal(t, momID, entry.UserID)
	require.NotNil(t, entry.RequestedBy)
	assert.Equal(t, dadID, *entry.RequestedBy)
	require.NotNil(t, entry.ApprovedBy)
	assert.Equal(t, momID, *entry.ApprovedBy)
	assert.False(t, entry.Timestamp.IsZero())

	// The snapshot captures the pre-transition state.
	var snapshot models.Task
	require.NoError(t, json.Unmarshal(entry.PreviousState, &snapshot))
	assert.Equal(t, models.StatusPending, snapshot.Status)
}

func TestTransitionDecline(t *testing.T) {
	approval, db := newTestApproval(t)

	event := models.Event{Title: "recital", Date: "2025-06-21", Status: models.StatusPending, CreatedBy: momID}
	require.NoError(t, db.Create(&event).Error)

	entity, err := approval.Transition(models.KindEvent, event.ID, dadID, models.StatusDeclined)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, entity.GetStatus())

	var entry models.ActionLogEntry
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, models.ActionDeclineEvent, entry.Action)
}

func TestTransitionRejectsSelfReview(t *testing.T) {
	approval, db := newTestApproval(t)

	expense := models.Expense{Description: "groceries", AmountCents: 4200, Date: "2025-06-01", PaidBy: dadID, Status: models.StatusPending, CreatedBy: dadID}
	require.NoError(t, db.Create(&expense).Error)

	_, err := approval.Transition(models.KindExpense, expense.ID, dadID, models.StatusConfirmed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))

	var stored models.Expense
	require.NoError(t, db.First(&stored, expense.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)

	// A rejected transition writes no audit entry.
	var count int64
	require.NoError(t, db.Model(&models.ActionLogEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransitionRejectsNonPending(t *testing.T) {
	approval, db := newTestApproval(t)

	task := models.Task{Title: "mow lawn", DueDate: "2025-06-22", Status: models.StatusDeclined, CreatedBy: dadID}
	require.NoError(t, db.Create(&task).Error)

	_, err := approval.Transition(models.KindTask, task.ID, momID, models.StatusConfirmed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestTransitionMissingEntity(t *testing.T) {
	approval, _ := newTestApproval(t)

	_, err := approval.Transition(models.KindTask, 9999, momID, models.StatusConfirmed)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCancelEventRequiresReason(t *testing.T) {
	approval, db := newTestApproval(t)

	event := models.Event{Title: "picnic", Date: "2025-06-22", Status: models.StatusConfirmed, CreatedBy: momID}
	require.NoError(t, db.Create(&event).Error)

	_, err := approval.CancelEvent(event.ID, momID, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestCancelEventStoresReason(t *testing.T) {
	approval, db := newTestApproval(t)

	event := models.Event{Title: "picnic", Date: "2025-06-22", Status: models.StatusConfirmed, CreatedBy: momID}
	require.NoError(t, db.Create(&event).Error)

	cancelled, err := approval.CancelEvent(event.ID, momID, "rained out")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	var entry models.ActionLogEntry
	require.NoError(t, db.Where("action = ?", models.ActionCancelEvent).First(&entry).Error)
	require.NotNil(t, entry.Reason)
	assert.Equal(t, "rained out", *entry.Reason)
	assert.Contains(t, entry.Details, "rained out")
}

func TestAcceptAllConfirmsOnlyOthersPending(t *testing.T) {
	approval, db := newTestApproval(t)

	mine := models.Task{Title: "mine", DueDate: "2025-06-23", Status: models.StatusPending, CreatedBy: momID}
	theirsPending := models.Task{Title: "theirs pending", DueDate: "2025-06-23", Status: models.StatusPending, CreatedBy: dadID}
	theirsDeclined := models.Task{Title: "theirs declined", DueDate: "2025-06-23", Status: models.StatusDeclined, CreatedBy: dadID}
	require.NoError(t, db.Create(&mine).Error)
	require.NoError(t, db.Create(&theirsPending).Error)
	require.NoError(t, db.Create(&theirsDeclined).Error)

	counts, err := approval.AcceptAll(momID, []models.EntityKind{models.KindTask})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.KindTask])

	var stored models.Task
	require.NoError(t, db.First(&stored, theirsPending.ID).Error)
	assert.Equal(t, models.StatusConfirmed, stored.Status)

	// The actor's own task and the already-declined one are untouched.
	stored = models.Task{}
	require.NoError(t, db.First(&stored, mine.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	stored = models.Task{}
	require.NoError(t, db.First(&stored, theirsDeclined.ID).Error)
	assert.Equal(t, models.StatusDeclined, stored.Status)

	// One aggregate entry, not one per task.
	var entries []models.ActionLogEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionAcceptAll, entries[0].Action)
	assert.Contains(t, entries[0].Details, "task=1")
	assert.Nil(t, entries[0].PreviousState)
}

func TestAcceptAllMultipleKinds(t *testing.T) {
	approval, db := newTestApproval(t)

	require.NoError(t, db.Create(&models.Event{Title: "a", Date: "2025-07-01", Status: models.StatusPending, CreatedBy: dadID}).Error)
	require.NoError(t, db.Create(&models.Event{Title: "b", Date: "2025-07-02", Status: models.StatusPending, CreatedBy: dadID}).Error)
	require.NoError(t, db.Create(&models.Expense{Description: "c", AmountCents: 100, Date: "2025-07-03", PaidBy: dadID, Status: models.StatusPending, CreatedBy: dadID}).Error)

	counts, err := approval.AcceptAll(momID, []models.EntityKind{models.KindEvent, models.KindExpense})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[models.KindEvent])
	assert.Equal(t, int64(1), counts[models.KindExpense])
}

func TestPendingForExcludesOwnItems(t *testing.T) {
	approval, db := newTestApproval(t)

	assignment := models.CalendarAssignment{Date: "2025-06-15", AssignedTo: momID, Status: models.StatusPending, CreatedBy: dadID}
	require.NoError(t, db.Create(&assignment).Error)

	items, err := approval.PendingFor(momID)
	require.NoError(t, err)
	require.Len(t, items.Assignments, 1)
	assert.Equal(t, assignment.ID, items.Assignments[0].ID)

	items, err = approval.PendingFor(dadID)
	require.NoError(t, err)
	assert.Empty(t, items.Assignments)
	assert.Empty(t, items.Events)
	assert.Empty(t, items.Tasks)
	assert.Empty(t, items.Expenses)
}

func TestUndoRestoresSnapshot(t *testing.T) {
	approval, db := newTestApproval(t)

	task := models.Task{Title: "old title", DueDate: "2025-06-24", Status: models.StatusPending, CreatedBy: dadID}
	require.NoError(t, db.Create(&task).Error)

	_, err := approval.Transition(models.KindTask, task.ID, momID, models.StatusConfirmed)
	require.NoError(t, err)

	var acceptEntry models.ActionLogEntry
	require.NoError(t, db.Where("action = ?", models.ActionAcceptTask).First(&acceptEntry).Error)

	// The original requester (dad) undoes the acceptance.
	undone, err := approval.Undo(acceptEntry.ID, dadID)
	require.NoError(t, err)
	assert.Equal(t, models.ActionUndone, undone.Action)
	require.NotNil(t, undone.UndoesLogID)
	assert.Equal(t, acceptEntry.ID, *undone.UndoesLogID)

	var stored models.Task
	require.NoError(t, db.First(&stored, task.ID).Error)
	assert.Equal(t, models.StatusPending, stored.Status)
	assert.Equal(t, "old title", stored.Title)

	// Exactly one compensating entry was appended.
	var count int64
	require.NoError(t, db.Model(&models.ActionLogEntry{}).Where("action = ?", models.ActionUndone).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUndoRejectsMissingSnapshot(t *testing.T) {
	approval, _ := newTestApproval(t)

	entry := models.ActionLogEntry{UserID: dadID, Action: models.ActionCreateTask}
	approval.Audit.Append(&entry)
	require.NotZero(t, entry.ID)

	_, err := approval.Undo(entry.ID, dadID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotUndoable))
}

func TestUndoRejectsSecondUndo(t *testing.T) {
	approval, db := newTestApproval(t)

	task := models.Task{Title: "laundry", DueDate: "2025-06-25", Status: models.StatusPending, CreatedBy: dadID}
	require.NoError(t, db.Create(&task).Error)
	_, err := approval.Transition(models.KindTask, task.ID, momID, models.StatusConfirmed)
	require.NoError(t, err)

	var acceptEntry models.ActionLogEntry
	require.NoError(t, db.Where("action = ?", models.ActionAcceptTask).First(&acceptEntry).Error)

	_, err = approval.Undo(acceptEntry.ID, dadID)
	require.NoError(t, err)

	_, err = approval.Undo(acceptEntry.ID, dadID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotUndoable))
}

func TestUndoRejectsUndoingAnUndo(t *testing.T) {
	approval, db := newTestApproval(t)

	task := models.Task{Title: "dishes", DueDate: "2025-06-26", Status: models.StatusPending, CreatedBy: dadID}
	require.NoError(t, db.Create(&task).Error)
	_, err := approval.Transition(models.KindTask, task.ID, momID, models.StatusConfirmed)
	require.NoError(t, err)

	var acceptEntry models.ActionLogEntry
	require.NoError(t, db.Where("action = ?", models.ActionAcceptTask).First(&acceptEntry).Error)

	undone, err := approval.Undo(acceptEntry.ID, dadID)
	require.NoError(t, err)

	_, err = approval.Undo(undone.ID, dadID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotUndoable))
}

func TestUndoRejectsStranger(t *testing.T) {
	approval, db := newTestApproval(t)

	task := models.Task{Title: "trash", DueDate: "2025-06-27", Status: models.StatusPending, CreatedBy: dadID}
	require.NoError(t, db.Create(&task).Error)
	_, err := approval.Transition(models.KindTask, task.ID, momID, models.StatusConfirmed)
	require.NoError(t, err)

	var acceptEntry models.ActionLogEntry
	require.NoError(t, db.Where("action = ?", models.ActionAcceptTask).First(&acceptEntry).Error)

	// Neither the approver nor the requester.
	_, err = approval.Undo(acceptEntry.ID, teenID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestUndoMissingEntry(t *testing.T) {
	approval, _ := newTestApproval(t)

	_, err := approval.Undo(4242, momID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
