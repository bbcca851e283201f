package utils

import (
	"encoding/json"
	"fmt"
	"log"

	"gorm.io/gorm"

	"whosnight/models"
)

// Approval drives the status state machine shared by all four entity kinds
// (pending -> confirmed | declined, and for events pending/confirmed ->
// cancelled), plus the undo path that replays a captured snapshot.
//
// The entity update and the audit write are two independent statements. If
// the log write fails after the status update committed, the trail is short
// one line; availability wins over audit completeness here.
type Approval struct {
	DB     *gorm.DB
	Audit  *ActionLogger
	Logger *log.Logger
}

func NewApproval(db *gorm.DB, audit *ActionLogger, logger *log.Logger) *Approval {
	return &Approval{
		DB:     db,
		Audit:  audit,
		Logger: logger,
	}
}

// PendingItems is the aggregate a reviewer polls: everything pending that
// somebody else created.
type PendingItems struct {
	Assignments []models.CalendarAssignment `json:"assignments"`
	Events      []models.Event              `json:"events"`
	Tasks       []models.Task               `json:"tasks"`
	Expenses    []models.Expense            `json:"expenses"`
}

// newEntity returns an empty record of the given kind for GORM to fill.
func newEntity(kind models.EntityKind) models.Approvable {
	switch kind {
	case models.KindCalendarAssignment:
		return &models.CalendarAssignment{}
	case models.KindEvent:
		return &models.Event{}
	case models.KindTask:
		return &models.Task{}
	default:
		return &models.Expense{}
	}
}

func (a *Approval) load(kind models.EntityKind, id uint) (models.Approvable, error) {
	entity := newEntity(kind)
	if err := a.DB.First(entity, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: %s %d", ErrNotFound, kind, id)
		}
		return nil, err
	}
	return entity, nil
}

// Snapshot serializes the entity as it is right now, for later undo.
func Snapshot(entity models.Approvable) []byte {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil
	}
	return data
}

// Transition moves a pending entity to confirmed or declined. The actor must
// not be the creator: the store enforces the no-self-accept rule, not just
// the UI.
func (a *Approval) Transition(kind models.EntityKind, id uint, actorID uint, target models.Status) (models.Approvable, error) {
	if target != models.StatusConfirmed && target != models.StatusDeclined {
		return nil, fmt.Errorf("%w: cannot transition to %q", ErrInvalidInput, target)
	}

	entity, err := a.load(kind, id)
	if err != nil {
		return nil, err
	}
	if entity.GetStatus() != models.StatusPending {
		return nil, fmt.Errorf("%w: %s %d is %s, not pending", ErrInvalidInput, kind, id, entity.GetStatus())
	}
	if entity.GetCreatedBy() == actorID {
		return nil, fmt.Errorf("%w: cannot review your own change", ErrUnauthorized)
	}

	snapshot := Snapshot(entity)
	entity.SetStatus(target)
	if err := a.DB.Save(entity).Error; err != nil {
		return nil, fmt.Errorf("failed to update %s status: %w", kind, err)
	}

	action := models.AcceptAction(kind)
	verb := "accepted"
	if target == models.StatusDeclined {
		action = models.DeclineAction(kind)
		verb = "declined"
	}
	a.Audit.Append(&models.ActionLogEntry{
		UserID:        actorID,
		Action:        action,
		EntityType:    Pointer(kind),
		EntityID:      Pointer(id),
		Details:       fmt.Sprintf("%s %s #%d", verb, kind, id),
		PreviousState: snapshot,
		RequestedBy:   Pointer(entity.GetCreatedBy()),
		ApprovedBy:    Pointer(actorID),
	})

	return entity, nil
}

// CancelEvent moves a pending or confirmed event to cancelled. Events are
// the only kind that supports cancellation, and the reason is mandatory; it
// is stored structurally and echoed into the display text.
func (a *Approval) CancelEvent(id uint, actorID uint, reason string) (*models.Event, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: cancellation reason is required", ErrInvalidInput)
	}

	entity, err := a.load(models.KindEvent, id)
	if err != nil {
		return nil, err
	}
	event := entity.(*models.Event)
	if event.Status != models.StatusPending && event.Status != models.StatusConfirmed {
		return nil, fmt.Errorf("%w: event %d is %s and cannot be cancelled", ErrInvalidInput, id, event.Status)
	}

	snapshot := Snapshot(event)
	event.Status = models.StatusCancelled
	if err := a.DB.Save(event).Error; err != nil {
		return nil, fmt.Errorf("failed to cancel event: %w", err)
	}

	a.Audit.Append(&models.ActionLogEntry{
		UserID:        actorID,
		Action:        models.ActionCancelEvent,
		EntityType:    Pointer(models.KindEvent),
		EntityID:      Pointer(id),
		Details:       fmt.Sprintf("cancelled event #%d (%s). Reason: %s", id, event.Title, reason),
		Reason:        Pointer(reason),
		PreviousState: snapshot,
	})

	return event, nil
}

// AcceptAll bulk-confirms every pending entity of the requested kinds that
// the actor did not create. One aggregate audit entry summarizes the counts;
// there is deliberately no per-entity entry and no snapshot, so a bulk
// accept is not undoable.
//
// Kinds are processed in order with no cross-kind transaction: if a later
// batch fails after an earlier one committed, the earlier confirmations
// stand.
func (a *Approval) AcceptAll(actorID uint, kinds []models.EntityKind) (map[models.EntityKind]int64, error) {
	counts := make(map[models.EntityKind]int64, len(kinds))
	var failed error

	for _, kind := range kinds {
		res := a.DB.Model(newEntity(kind)).
			Where("status = ? AND created_by <> ?", models.StatusPending, actorID).
			Update("status", models.StatusConfirmed)
		if res.Error != nil {
			failed = fmt.Errorf("failed to accept pending %s records: %w", kind, res.Error)
			break
		}
		counts[kind] = res.RowsAffected
	}

	if len(counts) > 0 {
		details := "accepted all pending items:"
		for _, kind := range kinds {
			if n, ok := counts[kind]; ok {
				details += fmt.Sprintf(" %s=%d", kind, n)
			}
		}
		a.Audit.Append(&models.ActionLogEntry{
			UserID:  actorID,
			Action:  models.ActionAcceptAll,
			Details: details,
		})
	}

	return counts, failed
}

// PendingFor computes the review queue for a user: all pending entities of
// each kind that someone else created. Pull-only; callers poll it.
func (a *Approval) PendingFor(userID uint) (*PendingItems, error) {
	items := &PendingItems{
		Assignments: []models.CalendarAssignment{},
		Events:      []models.Event{},
		Tasks:       []models.Task{},
		Expenses:    []models.Expense{},
	}

	pending := a.DB.Where("status = ? AND created_by <> ?", models.StatusPending, userID)
	if err := pending.Session(&gorm.Session{}).Order("date ASC").Find(&items.Assignments).Error; err != nil {
		return nil, err
	}
	if err := pending.Session(&gorm.Session{}).Order("date ASC").Find(&items.Events).Error; err != nil {
		return nil, err
	}
	if err := pending.Session(&gorm.Session{}).Order("due_date ASC").Find(&items.Tasks).Error; err != nil {
		return nil, err
	}
	if err := pending.Session(&gorm.Session{}).Order("created_at DESC").Find(&items.Expenses).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Undo restores the entity referenced by a log entry to the snapshot taken
// before that action, and appends exactly one compensating "undone" entry.
// An action can be undone at most once: the structured UndoesLogID reference
// on the compensating entry is the marker.
func (a *Approval) Undo(logID uint, actorID uint) (*models.ActionLogEntry, error) {
	entry, err := a.Audit.Get(logID)
	if err != nil {
		return nil, err
	}

	if entry.PreviousState == nil {
		return nil, fmt.Errorf("%w: log entry %d has no captured state", ErrNotUndoable, logID)
	}
	if entry.Action == models.ActionUndone {
		return nil, fmt.Errorf("%w: cannot undo an undo", ErrNotUndoable)
	}

	var alreadyUndone int64
	if err := a.DB.Model(&models.ActionLogEntry{}).
		Where("undoes_log_id = ?", logID).
		Count(&alreadyUndone).Error; err != nil {
		return nil, err
	}
	if alreadyUndone > 0 {
		return nil, fmt.Errorf("%w: log entry %d was already undone", ErrNotUndoable, logID)
	}

	// Only whoever performed or requested the original action may undo it.
	if entry.UserID != actorID && (entry.RequestedBy == nil || *entry.RequestedBy != actorID) {
		return nil, fmt.Errorf("%w: only the original requester may undo this action", ErrUnauthorized)
	}

	if entry.EntityType == nil || entry.EntityID == nil {
		return nil, fmt.Errorf("%w: log entry %d references no entity", ErrNotUndoable, logID)
	}

	entity := newEntity(*entry.EntityType)
	if err := a.DB.First(entity, *entry.EntityID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: %s %d", ErrNotFound, *entry.EntityType, *entry.EntityID)
		}
		return nil, err
	}

	restored := newEntity(*entry.EntityType)
	if err := json.Unmarshal(entry.PreviousState, restored); err != nil {
		return nil, fmt.Errorf("%w: captured state is unreadable", ErrNotUndoable)
	}
	if err := a.DB.Save(restored).Error; err != nil {
		return nil, fmt.Errorf("failed to restore previous state: %w", err)
	}

	undoneEntry := &models.ActionLogEntry{
		UserID:      actorID,
		Action:      models.ActionUndone,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Details:     fmt.Sprintf("undid %s (log #%d)", entry.Action, entry.ID),
		UndoesLogID: Pointer(entry.ID),
	}
	a.Audit.Append(undoneEntry)

	return undoneEntry, nil
}
