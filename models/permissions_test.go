package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, MigrateAll(db))
	return db
}

func TestTeenPermissionsSpecificClearsReadOnly(t *testing.T) {
	db := openTestDB(t)

	perms := TeenPermissions{UserID: 3, IsReadOnly: true, CanAddTasks: true}
	require.NoError(t, db.Create(&perms).Error)

	var stored TeenPermissions
	require.NoError(t, db.First(&stored, perms.ID).Error)
	assert.False(t, stored.IsReadOnly)
	assert.True(t, stored.CanAddTasks)
}

func TestTeenPermissionsReadOnlyClearsSpecific(t *testing.T) {
	db := openTestDB(t)

	perms := TeenPermissions{UserID: 3, CanAddEvents: true}
	require.NoError(t, db.Create(&perms).Error)

	perms.CanAddEvents = false
	perms.IsReadOnly = true
	perms.CanAddExpenses = false
	require.NoError(t, db.Save(&perms).Error)

	var stored TeenPermissions
	require.NoError(t, db.First(&stored, perms.ID).Error)
	assert.True(t, stored.IsReadOnly)
	assert.False(t, stored.CanAddEvents)
	assert.False(t, stored.CanAddExpenses)
	assert.False(t, stored.CanModifyAssignments)
	assert.False(t, stored.CanAddTasks)
}

func TestTeenPermissionsAllows(t *testing.T) {
	perms := TeenPermissions{CanAddTasks: true, CanAddEvents: true}
	assert.True(t, perms.Allows(KindTask))
	assert.True(t, perms.Allows(KindEvent))
	assert.False(t, perms.Allows(KindExpense))
	assert.False(t, perms.Allows(KindCalendarAssignment))

	readOnly := TeenPermissions{IsReadOnly: true}
	assert.False(t, readOnly.Allows(KindTask))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("deleted").Valid())
}

func TestParseEntityKindAliases(t *testing.T) {
	for raw, want := range map[string]EntityKind{
		"task":                 KindTask,
		"tasks":                KindTask,
		"events":               KindEvent,
		"expenses":             KindExpense,
		"assignments":          KindCalendarAssignment,
		"calendar_assignment":  KindCalendarAssignment,
		"calendar_assignments": KindCalendarAssignment,
	} {
		kind, ok := ParseEntityKind(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, kind)
	}

	_, ok := ParseEntityKind("unknown")
	assert.False(t, ok)
}
