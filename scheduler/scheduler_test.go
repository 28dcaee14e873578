package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDueForReminder(t *testing.T) {
	now := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

	assert.True(t, DueForReminder("2026-06-15", now), "event today is due")
	assert.True(t, DueForReminder("2026-06-16", now), "event tomorrow is due")
	assert.False(t, DueForReminder("2026-06-17", now), "event in two days is not yet due")
	assert.False(t, DueForReminder("2026-06-14", now), "past events get no reminders")
	assert.False(t, DueForReminder("not-a-date", now))
}
