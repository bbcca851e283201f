package utils

import (
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"whosnight/models"
)

// openTestDB gives every test its own in-memory database with the full
// schema migrated.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, models.MigrateAll(db))
	return db
}

func testLogger() *log.Logger {
	return log.New(os.Stdout, "TEST: ", log.LstdFlags)
}

func newTestApproval(t *testing.T) (*Approval, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	audit := NewActionLogger(db, testLogger())
	return NewApproval(db, audit, testLogger()), db
}
