package schedule

import schedulerrors "go-timeclock/internal/schedule/errors"

// ResolutionSource tags which tier of the precedence chain produced a
// preset, so callers and admin views can audit payroll-affecting
// decisions.
type ResolutionSource string

const (
	SourceDayOverride  ResolutionSource = "day_override"
	SourceGroupDefault ResolutionSource = "group_default"
	SourceFallback     ResolutionSource = "fallback"
)

type resolutionStep func() (*TimePreset, ResolutionSource, error)

// Resolve walks the precedence chain for one (group, day) pair:
// day override, then group default, then the catalog fallback. Absence at
// a tier falls through; only a corrupt override (a row whose preset no
// longer exists) is an error, which callers treat as a soft failure.
// A nil group resolves straight to the fallback.
func Resolve(group *ScheduleGroup, day DayCode) (TimePreset, ResolutionSource, error) {
	steps := []resolutionStep{
		overrideStep(group, day),
		groupDefaultStep(group),
	}

	for _, step := range steps {
		preset, source, err := step()
		if err != nil {
			return TimePreset{}, source, err
		}
		if preset != nil {
			return *preset, source, nil
		}
	}

	return FallbackPreset(day), SourceFallback, nil
}

func overrideStep(group *ScheduleGroup, day DayCode) resolutionStep {
	return func() (*TimePreset, ResolutionSource, error) {
		if group == nil {
			return nil, SourceDayOverride, nil
		}
		for _, ov := range group.Overrides {
			if ov.Day != day {
				continue
			}
			if ov.Preset == nil {
				// Override row exists but its preset was deleted.
				return nil, SourceDayOverride, schedulerrors.ErrDanglingOverride
			}
			return ov.Preset, SourceDayOverride, nil
		}
		return nil, SourceDayOverride, nil
	}
}

func groupDefaultStep(group *ScheduleGroup) resolutionStep {
	return func() (*TimePreset, ResolutionSource, error) {
		if group == nil || group.DefaultPresetID == nil {
			return nil, SourceGroupDefault, nil
		}
		if group.DefaultPreset == nil {
			return nil, SourceGroupDefault, schedulerrors.ErrDanglingDefaultPreset
		}
		return group.DefaultPreset, SourceGroupDefault, nil
	}
}
