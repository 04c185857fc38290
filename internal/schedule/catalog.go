package schedule

import "time"

// DayCode is the three-letter weekday key used across schedules
// ("mon".."sun").
type DayCode string

const (
	DayMon DayCode = "mon"
	DayTue DayCode = "tue"
	DayWed DayCode = "wed"
	DayThu DayCode = "thu"
	DayFri DayCode = "fri"
	DaySat DayCode = "sat"
	DaySun DayCode = "sun"
)

var dayCodes = map[time.Weekday]DayCode{
	time.Monday:    DayMon,
	time.Tuesday:   DayTue,
	time.Wednesday: DayWed,
	time.Thursday:  DayThu,
	time.Friday:    DayFri,
	time.Saturday:  DaySat,
	time.Sunday:    DaySun,
}

// DayCodeFor converts a calendar date to its day code.
func DayCodeFor(t time.Time) DayCode {
	return dayCodes[t.Weekday()]
}

// ValidDayCode reports whether s is one of the seven day codes.
func ValidDayCode(s string) bool {
	switch DayCode(s) {
	case DayMon, DayTue, DayWed, DayThu, DayFri, DaySat, DaySun:
		return true
	default:
		return false
	}
}

const fallbackGraceMinutes = 5

// FallbackPreset returns the hard-coded preset used when nothing else is
// configured for a day. Wednesday closes at 17:00, every other day at
// 19:00; both start at 08:00 with a five-minute grace period. The
// mid-week early close is long-standing business policy and must not be
// normalized away.
func FallbackPreset(day DayCode) TimePreset {
	if day == DayWed {
		return TimePreset{
			Name:               "Default Wednesday",
			StartTime:          "08:00",
			EndTime:            "17:00",
			GracePeriodMinutes: fallbackGraceMinutes,
		}
	}
	return TimePreset{
		Name:               "Default Weekday",
		StartTime:          "08:00",
		EndTime:            "19:00",
		GracePeriodMinutes: fallbackGraceMinutes,
	}
}
