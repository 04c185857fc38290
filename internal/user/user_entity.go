package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an employee account. EmployeeID is the six-digit badge number
// punched at the clock terminal, unique within a company. Pin holds a
// bcrypt hash; while FirstLogin is true the account still carries the
// provisioning PIN and must set a real one before clocking in.
type User struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID       uuid.UUID      `gorm:"column:company_id;type:uuid;not null;index"`
	EmployeeID      string         `gorm:"column:employee_id;type:varchar(6);not null"`
	FirstName       string         `gorm:"column:first_name;type:varchar(100);not null"`
	Surname         string         `gorm:"column:surname;type:varchar(100);not null"`
	Pin             string         `gorm:"column:pin;type:text;not null"`
	Role            string         `gorm:"column:role;type:varchar(50);default:EMPLOYEE"`
	FirstLogin      bool           `gorm:"column:first_login;default:true"`
	IsActive        bool           `gorm:"column:is_active;default:true"`
	BirthDate       *time.Time     `gorm:"column:birth_date;type:date"`
	DateHired       *time.Time     `gorm:"column:date_hired;type:date"`
	DepartmentID    *uuid.UUID     `gorm:"column:department_id;type:uuid"`
	PositionID      *uuid.UUID     `gorm:"column:position_id;type:uuid"`
	ScheduleGroupID *uuid.UUID     `gorm:"column:schedule_group_id;type:uuid"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`

	Department *DepartmentRef `gorm:"foreignKey:DepartmentID;references:ID"`
	Position   *PositionRef   `gorm:"foreignKey:PositionID;references:ID"`
}

func (User) TableName() string {
	return "users"
}

func (u User) FullName() string {
	return u.FirstName + " " + u.Surname
}

type DepartmentRef struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string    `gorm:"column:name"`
}

func (DepartmentRef) TableName() string {
	return "departments"
}

type PositionRef struct {
	ID   uuid.UUID `gorm:"primaryKey"`
	Name string    `gorm:"column:name"`
}

func (PositionRef) TableName() string {
	return "positions"
}
