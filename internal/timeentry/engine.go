package timeentry

import (
	"fmt"
	"math"
	"time"

	"go-timeclock/internal/schedule"
)

// LatenessResult is the derived pair written to an entry at clock-in.
// MinutesLate is the signed offset from the raw expected start (negative
// means early); IsLate is judged against the grace-adjusted deadline.
// The pair is always produced together by one evaluation.
type LatenessResult struct {
	IsLate      bool
	MinutesLate int
}

// ComputeLateness evaluates one clock-in instant against a resolved
// preset. Pure arithmetic over its inputs; callers are expected to have
// normalized timeIn into the canonical zone already, and the expected
// start is built in timeIn's own location so the two instants are never
// mixed across zones.
//
// Note the long-standing display quirk, kept on purpose: MinutesLate is
// measured from the un-adjusted expected start while IsLate honors the
// grace period, so arriving exactly at the grace boundary reports
// MinutesLate == grace with IsLate == false.
func ComputeLateness(timeIn time.Time, preset schedule.TimePreset) (LatenessResult, error) {
	startClock, err := preset.StartClock()
	if err != nil {
		return LatenessResult{}, err
	}
	if preset.GracePeriodMinutes < 0 {
		return LatenessResult{}, fmt.Errorf("negative grace period: %d", preset.GracePeriodMinutes)
	}

	year, month, day := timeIn.Date()
	expectedStart := time.Date(year, month, day, 0, 0, 0, 0, timeIn.Location()).Add(startClock)
	graceDeadline := expectedStart.Add(time.Duration(preset.GracePeriodMinutes) * time.Minute)

	return LatenessResult{
		IsLate:      timeIn.After(graceDeadline),
		MinutesLate: roundHalfUpMinutes(timeIn.Sub(expectedStart)),
	}, nil
}

// roundHalfUpMinutes converts a signed offset to whole minutes with
// halves rounding toward +infinity: 5m01s -> 5, 5m30s -> 6, -10m -> -10.
func roundHalfUpMinutes(d time.Duration) int {
	return int(math.Floor(d.Seconds()/60 + 0.5))
}

// ComputeHoursWorked derives elapsed hours for a closed entry, rounded to
// two decimals. Nil while the entry is open. Inverted ordering is not
// rejected here; an administrative edit may legitimately push a negative
// value through, and form-level validation owns rejecting it up front.
func ComputeHoursWorked(timeIn time.Time, timeOut *time.Time) *float64 {
	if timeOut == nil || timeIn.IsZero() || timeOut.IsZero() {
		return nil
	}
	hours := math.Round(timeOut.Sub(timeIn).Seconds()/3600*100) / 100
	if hours == 0 {
		hours = 0 // collapse -0
	}
	return &hours
}
