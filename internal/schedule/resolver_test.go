package schedule

import (
	"testing"
	"time"

	schedulerrors "go-timeclock/internal/schedule/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestResolve_OverrideWinsOverDefault(t *testing.T) {
	defaultID := uuid.New()
	overridePreset := TimePreset{ID: uuid.New(), Name: "Half Day", StartTime: "08:00", EndTime: "12:00"}
	group := &ScheduleGroup{
		DefaultPresetID: &defaultID,
		DefaultPreset:   &TimePreset{ID: defaultID, Name: "Regular", StartTime: "08:00", EndTime: "19:00"},
		Overrides: []DayOverride{
			{Day: DaySat, PresetID: overridePreset.ID, Preset: &overridePreset},
		},
	}

	preset, source, err := Resolve(group, DaySat)
	assert.NoError(t, err)
	assert.Equal(t, SourceDayOverride, source)
	assert.Equal(t, "Half Day", preset.Name)

	// A day without an override lands on the group default.
	preset, source, err = Resolve(group, DayMon)
	assert.NoError(t, err)
	assert.Equal(t, SourceGroupDefault, source)
	assert.Equal(t, "Regular", preset.Name)
}

func TestResolve_NoGroupUsesFallback(t *testing.T) {
	preset, source, err := Resolve(nil, DayThu)
	assert.NoError(t, err)
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, "08:00", preset.StartTime)
	assert.Equal(t, "19:00", preset.EndTime)
	assert.Equal(t, 5, preset.GracePeriodMinutes)
}

func TestResolve_GroupWithoutDefaultFallsThrough(t *testing.T) {
	group := &ScheduleGroup{ID: uuid.New()}
	preset, source, err := Resolve(group, DayFri)
	assert.NoError(t, err)
	assert.Equal(t, SourceFallback, source)
	assert.Equal(t, "19:00", preset.EndTime)
}

func TestResolve_DanglingOverride(t *testing.T) {
	group := &ScheduleGroup{
		Overrides: []DayOverride{
			{Day: DayMon, PresetID: uuid.New(), Preset: nil},
		},
	}
	_, _, err := Resolve(group, DayMon)
	assert.ErrorIs(t, err, schedulerrors.ErrDanglingOverride)
}

func TestFallbackPreset_WednesdayClosesEarly(t *testing.T) {
	wed := FallbackPreset(DayWed)
	assert.Equal(t, "17:00", wed.EndTime)

	for _, day := range []DayCode{DayMon, DayTue, DayThu, DayFri, DaySat, DaySun} {
		p := FallbackPreset(day)
		assert.Equal(t, "19:00", p.EndTime, "day %s", day)
		assert.Equal(t, "08:00", p.StartTime, "day %s", day)
	}
}

func TestDayCodeFor(t *testing.T) {
	// 2025-06-04 is a Wednesday.
	assert.Equal(t, DayWed, DayCodeFor(time.Date(2025, 6, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, DaySun, DayCodeFor(time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)))
}

func TestValidDayCode(t *testing.T) {
	assert.True(t, ValidDayCode("mon"))
	assert.True(t, ValidDayCode("sun"))
	assert.False(t, ValidDayCode("monday"))
	assert.False(t, ValidDayCode(""))
}

func TestTimePreset_Clocks(t *testing.T) {
	p := TimePreset{StartTime: "08:00", EndTime: "17:00:30"}

	start, err := p.StartClock()
	assert.NoError(t, err)
	assert.Equal(t, 8*time.Hour, start)

	end, err := p.EndClock()
	assert.NoError(t, err)
	assert.Equal(t, 17*time.Hour+30*time.Second, end)

	_, err = TimePreset{StartTime: "25:99"}.StartClock()
	assert.Error(t, err)
}
