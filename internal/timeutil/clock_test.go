package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func istClock(t *testing.T) *Clock {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return FixedClock(time.Date(2025, time.March, 15, 14, 0, 0, 0, loc))
}

func TestClock_NowIsFixed(t *testing.T) {
	c := istClock(t)

	assert.Equal(t, "2025-03-15", c.Today())
	assert.Equal(t, "14:00:00", c.NowTime())
	assert.Equal(t, "March 15, 2025", c.HumanDate(c.Now()))
	assert.Equal(t, "02:00 PM", c.HumanTime(c.Now()))
}

func TestClock_ParseSlot(t *testing.T) {
	c := istClock(t)

	cases := []struct {
		name string
		slot string
		want string // "15:04" в организационном поясе
	}{
		{"canonical", "04:00 PM", "16:00"},
		{"no leading zero", "4:00 PM", "16:00"},
		{"lowercase", "04:00 pm", "16:00"},
		{"lowercase no leading zero", "4:30 pm", "16:30"},
		{"surrounding spaces", " 11:15 AM ", "11:15"},
		{"noon", "12:00 PM", "12:00"},
		{"midnight", "12:00 AM", "00:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.ParseSlot("2025-03-15", tc.slot)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.Format("15:04"))
			assert.Equal(t, "2025-03-15", got.Format(DateLayout))
			assert.Equal(t, c.Location(), got.Location())
		})
	}
}

func TestClock_ParseSlotErrors(t *testing.T) {
	c := istClock(t)

	_, err := c.ParseSlot("2025-03-15", "half past two")
	assert.Error(t, err)

	_, err = c.ParseSlot("2025-03-15", "")
	assert.Error(t, err)

	_, err = c.ParseSlot("15-03-2025", "04:00 PM")
	assert.Error(t, err)
}

func TestNewClock_InvalidTimezone(t *testing.T) {
	_, err := NewClock("Mars/Olympus_Mons")
	assert.Error(t, err)
}
