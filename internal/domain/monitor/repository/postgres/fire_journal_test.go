package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Conte777/reaction-monitor/internal/domain/monitor/entities"
	monerrors "github.com/Conte777/reaction-monitor/internal/domain/monitor/errors"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection to :memory: would see its own empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entities.FireRecord{}))

	return db
}

func TestFireJournal_RecordAndList(t *testing.T) {
	journal := NewFireJournal(setupTestDB(t))
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, journal.Record(ctx, &entities.FireRecord{
			MonitorID: "m",
			Owner:     1,
			ChatID:    -100,
			MessageID: i + 1,
			Emoji:     "👍",
			Count:     i + 3,
			Threshold: 3,
			FiredAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
	require.NoError(t, journal.Record(ctx, &entities.FireRecord{Owner: 2, MessageID: 99, FiredAt: base}))

	records, err := journal.ListByOwner(ctx, 1, 3)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 5, records[0].MessageID)
	assert.Equal(t, 4, records[1].MessageID)
	assert.Equal(t, 3, records[2].MessageID)
	assert.Equal(t, "👍", records[0].Emoji)

	other, err := journal.ListByOwner(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, 99, other[0].MessageID)

	none, err := journal.ListByOwner(ctx, 3, 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFireJournal_Disabled(t *testing.T) {
	journal := NewFireJournal(nil)

	assert.NoError(t, journal.Record(context.Background(), &entities.FireRecord{}))

	_, err := journal.ListByOwner(context.Background(), 1, 10)
	assert.ErrorIs(t, err, monerrors.ErrHistoryDisabled)
}
