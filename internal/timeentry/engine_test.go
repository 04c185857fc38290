package timeentry

import (
	"testing"
	"time"

	"go-timeclock/internal/schedule"

	"github.com/stretchr/testify/assert"
)

var manila = time.FixedZone("Asia/Manila", 8*60*60)

func weekdayPreset() schedule.TimePreset {
	return schedule.TimePreset{
		Name:               "Default Weekday",
		StartTime:          "08:00",
		EndTime:            "19:00",
		GracePeriodMinutes: 5,
	}
}

func TestComputeLateness_GraceBoundary(t *testing.T) {
	preset := weekdayPreset()

	// Exactly at the end of grace: five minutes counted, not late.
	atBoundary := time.Date(2025, 6, 2, 8, 5, 0, 0, manila)
	res, err := ComputeLateness(atBoundary, preset)
	assert.NoError(t, err)
	assert.False(t, res.IsLate)
	assert.Equal(t, 5, res.MinutesLate)

	// One second past the boundary tips into late.
	pastBoundary := time.Date(2025, 6, 2, 8, 5, 1, 0, manila)
	res, err = ComputeLateness(pastBoundary, preset)
	assert.NoError(t, err)
	assert.True(t, res.IsLate)
	assert.Equal(t, 5, res.MinutesLate)
}

func TestComputeLateness_EarlyArrival(t *testing.T) {
	res, err := ComputeLateness(time.Date(2025, 6, 2, 7, 50, 0, 0, manila), weekdayPreset())
	assert.NoError(t, err)
	assert.False(t, res.IsLate)
	assert.Equal(t, -10, res.MinutesLate)
}

func TestComputeLateness_Rounding(t *testing.T) {
	preset := weekdayPreset()
	cases := []struct {
		name    string
		sec     int
		minutes int
	}{
		{"just past five", 5*60 + 1, 5},
		{"half rounds up", 5*60 + 30, 6},
		{"just under half", 5*60 + 29, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := time.Date(2025, 6, 2, 8, 0, 0, 0, manila).Add(time.Duration(tc.sec) * time.Second)
			res, err := ComputeLateness(in, preset)
			assert.NoError(t, err)
			assert.Equal(t, tc.minutes, res.MinutesLate)
		})
	}
}

func TestComputeLateness_Deterministic(t *testing.T) {
	in := time.Date(2025, 6, 2, 9, 17, 42, 0, manila)
	first, err := ComputeLateness(in, weekdayPreset())
	assert.NoError(t, err)
	second, err := ComputeLateness(in, weekdayPreset())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputeLateness_BadPreset(t *testing.T) {
	_, err := ComputeLateness(time.Now(), schedule.TimePreset{StartTime: "not-a-clock"})
	assert.Error(t, err)

	_, err = ComputeLateness(time.Now(), schedule.TimePreset{StartTime: "08:00", GracePeriodMinutes: -1})
	assert.Error(t, err)
}

func TestComputeHoursWorked(t *testing.T) {
	in := time.Date(2025, 6, 2, 9, 0, 0, 0, manila)

	t.Run("open entry", func(t *testing.T) {
		assert.Nil(t, ComputeHoursWorked(in, nil))
	})

	t.Run("closed entry", func(t *testing.T) {
		out := time.Date(2025, 6, 2, 17, 30, 0, 0, manila)
		hours := ComputeHoursWorked(in, &out)
		if assert.NotNil(t, hours) {
			assert.Equal(t, 8.5, *hours)
		}
	})

	t.Run("two decimal rounding", func(t *testing.T) {
		out := in.Add(8*time.Hour + 20*time.Minute)
		hours := ComputeHoursWorked(in, &out)
		if assert.NotNil(t, hours) {
			assert.Equal(t, 8.33, *hours)
		}
	})

	t.Run("inverted interval passes through negative", func(t *testing.T) {
		out := in.Add(-8 * time.Hour)
		hours := ComputeHoursWorked(in, &out)
		if assert.NotNil(t, hours) {
			assert.Equal(t, -8.0, *hours)
		}
	})
}
