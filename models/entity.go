package models

import (
	"gorm.io/gorm"
)

// Status is the approval state shared by every reviewable entity kind.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusDeclined  Status = "declined"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known approval states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

// EntityKind identifies which of the four reviewable tables a record lives in.
type EntityKind string

const (
	KindCalendarAssignment EntityKind = "calendar_assignment"
	KindEvent              EntityKind = "event"
	KindTask               EntityKind = "task"
	KindExpense            EntityKind = "expense"
)

// ParseEntityKind maps a path/body string onto a known kind. Clients send
// both the canonical names and the plural list names ("tasks", "events").
func ParseEntityKind(s string) (EntityKind, bool) {
	switch s {
	case string(KindCalendarAssignment), "assignments", "calendar_assignments":
		return KindCalendarAssignment, true
	case string(KindEvent), "events":
		return KindEvent, true
	case string(KindTask), "tasks":
		return KindTask, true
	case string(KindExpense), "expenses":
		return KindExpense, true
	}
	return "", false
}

// Approvable is implemented by every entity kind the approval engine can
// transition. Entities are never hard-deleted; cancellation is a status
// transition.
type Approvable interface {
	GetID() uint
	GetStatus() Status
	SetStatus(Status)
	GetCreatedBy() uint
	Kind() EntityKind
}

// CalendarAssignment records which parent has the kids for a given night.
// One row per date; re-posting the same date merges fields and resets the
// row to pending.
type CalendarAssignment struct {
	gorm.Model
	Date       string `gorm:"size:10;not null;uniqueIndex" json:"date"` // YYYY-MM-DD
	AssignedTo uint   `gorm:"not null;index" json:"assigned_to"`
	Note       string `gorm:"size:500" json:"note"`
	Status     Status `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CreatedBy  uint   `gorm:"not null;index" json:"created_by"`
}

func (a *CalendarAssignment) GetID() uint        { return a.ID }
func (a *CalendarAssignment) GetStatus() Status  { return a.Status }
func (a *CalendarAssignment) SetStatus(s Status) { a.Status = s }
func (a *CalendarAssignment) GetCreatedBy() uint { return a.CreatedBy }
func (a *CalendarAssignment) Kind() EntityKind   { return KindCalendarAssignment }

// Event is a one-off family event on the shared calendar.
type Event struct {
	gorm.Model
	Title       string `gorm:"size:200;not null" json:"title"`
	Description string `gorm:"size:1000" json:"description"`
	Date        string `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	StartTime   string `gorm:"size:5" json:"start_time"`           // HH:MM
	EndTime     string `gorm:"size:5" json:"end_time"`
	Status      Status `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CreatedBy   uint   `gorm:"not null;index" json:"created_by"`
}

func (e *Event) GetID() uint        { return e.ID }
func (e *Event) GetStatus() Status  { return e.Status }
func (e *Event) SetStatus(s Status) { e.Status = s }
func (e *Event) GetCreatedBy() uint { return e.CreatedBy }
func (e *Event) Kind() EntityKind   { return KindEvent }

// Task is a shared to-do item. Completion is separate from approval: a task
// can be confirmed but not yet done.
type Task struct {
	gorm.Model
	Title     string `gorm:"size:200;not null" json:"title"`
	DueDate   string `gorm:"size:10;not null;index" json:"due_date"` // YYYY-MM-DD
	Completed bool   `gorm:"not null;default:false" json:"completed"`
	Status    Status `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CreatedBy uint   `gorm:"not null;index" json:"created_by"`
}

func (t *Task) GetID() uint        { return t.ID }
func (t *Task) GetStatus() Status  { return t.Status }
func (t *Task) SetStatus(s Status) { t.Status = s }
func (t *Task) GetCreatedBy() uint { return t.CreatedBy }
func (t *Task) Kind() EntityKind   { return KindTask }

// Expense is a shared cost to be split between the parents. Amount is stored
// in cents to avoid float drift.
type Expense struct {
	gorm.Model
	Description string `gorm:"size:500;not null" json:"description"`
	AmountCents int64  `gorm:"not null" json:"amount_cents"`
	Date        string `gorm:"size:10;not null;index" json:"date"` // YYYY-MM-DD
	PaidBy      uint   `gorm:"not null;index" json:"paid_by"`
	Status      Status `gorm:"size:16;not null;default:'pending';index" json:"status"`
	CreatedBy   uint   `gorm:"not null;index" json:"created_by"`
}

func (x *Expense) GetID() uint        { return x.ID }
func (x *Expense) GetStatus() Status  { return x.Status }
func (x *Expense) SetStatus(s Status) { x.Status = s }
func (x *Expense) GetCreatedBy() uint { return x.CreatedBy }
func (x *Expense) Kind() EntityKind   { return KindExpense }
