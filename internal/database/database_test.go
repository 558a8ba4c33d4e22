package database

import (
	"testing"

	"github.com/mx-space/dentalcare/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMemoryMigrates(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	for _, table := range []string{"users", "user_sessions", "daily_habits", "ai_checkups", "reminders"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestHabitUniquePerUserAndDate(t *testing.T) {
	db, err := OpenMemory()
	require.NoError(t, err)

	first := models.DailyHabit{UserID: "u1", Date: "2024-05-10", Brushed: true}
	require.NoError(t, db.Create(&first).Error)

	dup := models.DailyHabit{UserID: "u1", Date: "2024-05-10"}
	assert.Error(t, db.Create(&dup).Error)

	other := models.DailyHabit{UserID: "u2", Date: "2024-05-10"}
	assert.NoError(t, db.Create(&other).Error)
}
