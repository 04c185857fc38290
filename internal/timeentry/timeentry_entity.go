package timeentry

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TimeEntry is one attendance record. HoursWorked is non-nil exactly when
// TimeOut is non-nil; IsLate and MinutesLate always come from the same
// engine evaluation. A partial unique index on (user_id, work_date)
// rejects a second same-day clock-in.
type TimeEntry struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID   uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	UserID      uuid.UUID      `gorm:"column:user_id;type:uuid;not null;index"`
	WorkDate    time.Time      `gorm:"column:work_date;type:date;not null;index"`
	TimeIn      time.Time      `gorm:"column:time_in;type:timestamptz;not null"`
	TimeOut     *time.Time     `gorm:"column:time_out;type:timestamptz"`
	HoursWorked *float64       `gorm:"column:hours_worked"`
	IsLate      bool           `gorm:"column:is_late;not null;default:false"`
	MinutesLate int            `gorm:"column:minutes_late;not null;default:0"`
	PhotoPath   *string        `gorm:"column:photo_path;size:255"`
	CreatedAt   time.Time      `gorm:"column:created_at"`
	UpdatedAt   time.Time      `gorm:"column:updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
	User        *UserRef       `gorm:"foreignKey:UserID;references:ID"`
}

func (TimeEntry) TableName() string {
	return "time_entries"
}

// Open reports whether the entry is still waiting for a clock-out.
func (e TimeEntry) Open() bool {
	return e.TimeOut == nil
}

type UserRef struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	EmployeeID string    `gorm:"column:employee_id"`
	FirstName  string    `gorm:"column:first_name"`
	Surname    string    `gorm:"column:surname"`
}

func (UserRef) TableName() string {
	return "users"
}
