package models

import (
	"time"

	"gorm.io/gorm"
)

// TeenPermissions is one record per teen user, controlling which entity
// kinds the teen may create or modify. Created with read-only defaults the
// first time a teen needs evaluation; updated only by a parent.
type TeenPermissions struct {
	gorm.Model
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	CanModifyAssignments bool `gorm:"default:false" json:"can_modify_assignments"`
	CanAddEvents         bool `gorm:"default:false" json:"can_add_events"`
	CanAddTasks          bool `gorm:"default:false" json:"can_add_tasks"`
	CanAddExpenses       bool `gorm:"default:false" json:"can_add_expenses"`
	IsReadOnly           bool `gorm:"default:true" json:"is_read_only"`

	ModifiedBy uint      `json:"modified_by"`
	ModifiedAt time.Time `json:"modified_at"`
}

// BeforeSave keeps the record internally consistent: read-only and specific
// permissions are mutually exclusive. Enforced here rather than in handlers
// so no API path can persist a contradictory row.
func (p *TeenPermissions) BeforeSave(tx *gorm.DB) error {
	if p.CanModifyAssignments || p.CanAddEvents || p.CanAddTasks || p.CanAddExpenses {
		p.IsReadOnly = false
	}
	if p.IsReadOnly {
		p.CanModifyAssignments = false
		p.CanAddEvents = false
		p.CanAddTasks = false
		p.CanAddExpenses = false
	}
	return nil
}

// Allows reports whether the teen may create entities of the given kind.
func (p *TeenPermissions) Allows(kind EntityKind) bool {
	if p.IsReadOnly {
		return false
	}
	switch kind {
	case KindCalendarAssignment:
		return p.CanModifyAssignments
	case KindEvent:
		return p.CanAddEvents
	case KindTask:
		return p.CanAddTasks
	case KindExpense:
		return p.CanAddExpenses
	}
	return false
}
