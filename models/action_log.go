package models

import (
	"time"
)

// Action is the closed set of audit tags. New tags must be added here so the
// undo bookkeeping can never be broken by a typo in a free-form string.
type Action string

const (
	ActionCreateAssignment  Action = "create_calendar_assignment"
	ActionUpdateAssignment  Action = "update_calendar_assignment"
	ActionAcceptAssignment  Action = "accept_calendar_assignment"
	ActionDeclineAssignment Action = "decline_calendar_assignment"
	ActionCreateEvent       Action = "create_event"
	ActionAcceptEvent       Action = "accept_event"
	ActionDeclineEvent      Action = "decline_event"
	ActionCancelEvent       Action = "cancel_event"
	ActionCreateTask        Action = "create_task"
	ActionAcceptTask        Action = "accept_task"
	ActionDeclineTask       Action = "decline_task"
	ActionCompleteTask      Action = "complete_task"
	ActionCreateExpense     Action = "create_expense"
	ActionAcceptExpense     Action = "accept_expense"
	ActionDeclineExpense    Action = "decline_expense"
	ActionAcceptAll         Action = "accept_all"
	ActionUpdatePermissions Action = "update_permissions"
	ActionCreateInvitation  Action = "create_family_invitation"
	ActionUseInvitation     Action = "use_family_invitation"
	ActionCreateShareLink   Action = "create_share_link"
	ActionUndone            Action = "undone"
)

// CreateAction returns the create tag for a kind.
func CreateAction(kind EntityKind) Action {
	switch kind {
	case KindCalendarAssignment:
		return ActionCreateAssignment
	case KindEvent:
		return ActionCreateEvent
	case KindTask:
		return ActionCreateTask
	default:
		return ActionCreateExpense
	}
}

// AcceptAction returns the accept tag for a kind.
func AcceptAction(kind EntityKind) Action {
	switch kind {
	case KindCalendarAssignment:
		return ActionAcceptAssignment
	case KindEvent:
		return ActionAcceptEvent
	case KindTask:
		return ActionAcceptTask
	default:
		return ActionAcceptExpense
	}
}

// DeclineAction returns the decline tag for a kind.
func DeclineAction(kind EntityKind) Action {
	switch kind {
	case KindCalendarAssignment:
		return ActionDeclineAssignment
	case KindEvent:
		return ActionDeclineEvent
	case KindTask:
		return ActionDeclineTask
	default:
		return ActionDeclineExpense
	}
}

// ActionLogEntry is one line of the family audit trail. Entries are
// append-only: nothing in the codebase updates or deletes them, which is why
// this model deliberately does not embed gorm.Model (no UpdatedAt, no soft
// delete).
//
// An entry with a non-nil PreviousState can be undone at most once. The undo
// marker is the structured UndoesLogID reference on the compensating
// "undone" entry; Details carries a human-readable reference for display
// only.
type ActionLogEntry struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Action Action `gorm:"size:64;not null;index" json:"action"`

	// Weak reference to the affected entity. Not a foreign key: history for
	// an entity outlives any future schema change to the entity tables.
	EntityType *EntityKind `gorm:"size:32;index:idx_action_logs_entity" json:"entity_type,omitempty"`
	EntityID   *uint       `gorm:"index:idx_action_logs_entity" json:"entity_id,omitempty"`

	Details string  `gorm:"size:1000" json:"details"`
	Reason  *string `gorm:"size:500" json:"reason,omitempty"`

	// JSON snapshot of the entity before this mutation; nil for actions that
	// are not undoable (creates, aggregate accept-all, log-only actions).
	PreviousState []byte `gorm:"type:jsonb" json:"previous_state,omitempty"`

	RequestedBy *uint `gorm:"index" json:"requested_by,omitempty"`
	ApprovedBy  *uint `json:"approved_by,omitempty"`

	// Set only on "undone" entries: the ID of the entry this one reverses.
	UndoesLogID *uint `gorm:"index" json:"undoes_log_id,omitempty"`

	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
