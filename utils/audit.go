package utils

import (
	"log"
	"time"

	"gorm.io/gorm"

	"whosnight/models"
)

// ActionLogger appends and queries the family audit trail. Appends are
// best-effort: an entity mutation must never fail because its log line could
// not be written, so errors are logged and reported but not returned.
type ActionLogger struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewActionLogger(db *gorm.DB, logger *log.Logger) *ActionLogger {
	return &ActionLogger{
		DB:     db,
		Logger: logger,
	}
}

// Append writes one audit entry. The timestamp is assigned here, at write
// time; whatever the client thinks the time is does not matter. There is no
// dedup or idempotency key: a duplicate request produces a duplicate line.
func (al *ActionLogger) Append(entry *models.ActionLogEntry) {
	entry.Timestamp = time.Now().UTC()
	if err := al.DB.Create(entry).Error; err != nil {
		al.Logger.Printf("audit write failed (action=%s user=%d): %v", entry.Action, entry.UserID, err)
		CaptureError(err, "audit_write_failed", map[string]interface{}{
			"action":  string(entry.Action),
			"user_id": entry.UserID,
		})
	}
}

// ForEntity returns the audit trail of one entity, newest first.
func (al *ActionLogger) ForEntity(entityType models.EntityKind, entityID uint) ([]models.ActionLogEntry, error) {
	var entries []models.ActionLogEntry
	err := al.DB.
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// ForUser returns everything the user triggered or requested, newest first,
// for "my activity" views.
func (al *ActionLogger) ForUser(userID uint) ([]models.ActionLogEntry, error) {
	var entries []models.ActionLogEntry
	err := al.DB.
		Where("user_id = ? OR requested_by = ?", userID, userID).
		Order("timestamp DESC, id DESC").
		Find(&entries).Error
	return entries, err
}

// Get looks up a single entry by id.
func (al *ActionLogger) Get(id uint) (*models.ActionLogEntry, error) {
	var entry models.ActionLogEntry
	if err := al.DB.First(&entry, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}
