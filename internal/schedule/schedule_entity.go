package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimePreset is a named wall-clock window plus a grace period. Start and
// end are stored as "HH:MM" strings backed by a Postgres time column; no
// ordering constraint is enforced between them, so overnight shifts stay
// representable.
type TimePreset struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID          uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	Name               string         `gorm:"column:name;size:100;not null"`
	StartTime          string         `gorm:"column:start_time;type:time;not null"`
	EndTime            string         `gorm:"column:end_time;type:time;not null"`
	GracePeriodMinutes int            `gorm:"column:grace_period_minutes;not null;default:5"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	UpdatedAt          time.Time      `gorm:"column:updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (TimePreset) TableName() string {
	return "time_presets"
}

// StartClock parses the preset's start time as an offset from midnight.
func (p TimePreset) StartClock() (time.Duration, error) {
	return parseClock(p.StartTime)
}

// EndClock parses the preset's end time as an offset from midnight.
func (p TimePreset) EndClock() (time.Duration, error) {
	return parseClock(p.EndTime)
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		t, err = time.Parse("15:04", s)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// ScheduleGroup bundles an optional default preset with up to seven
// per-day overrides. Users reference a group; the group never references
// users back.
type ScheduleGroup struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	Name            string         `gorm:"column:name;size:100;not null"`
	DefaultPresetID *uuid.UUID     `gorm:"column:default_preset_id;type:uuid"`
	DefaultPreset   *TimePreset    `gorm:"foreignKey:DefaultPresetID;references:ID"`
	Overrides       []DayOverride  `gorm:"foreignKey:ScheduleGroupID;references:ID"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (ScheduleGroup) TableName() string {
	return "schedule_groups"
}

// DayOverride pins one weekday of a group to a specific preset. At most
// one override per (group, day) pair, enforced by a unique index.
type DayOverride struct {
	ID              uuid.UUID   `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	ScheduleGroupID uuid.UUID   `gorm:"column:schedule_group_id;type:uuid;not null;uniqueIndex:uq_day_overrides_group_day"`
	Day             DayCode     `gorm:"column:day;size:3;not null;uniqueIndex:uq_day_overrides_group_day"`
	PresetID        uuid.UUID   `gorm:"column:preset_id;type:uuid;not null"`
	Preset          *TimePreset `gorm:"foreignKey:PresetID;references:ID"`
	CreatedAt       time.Time   `gorm:"column:created_at"`
}

func (DayOverride) TableName() string {
	return "day_overrides"
}
