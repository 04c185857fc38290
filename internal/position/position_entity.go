package position

import (
	"time"

	"github.com/google/uuid"
)

type Position struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	CompanyID    uuid.UUID `gorm:"column:company_id;type:uuid;not null;index"`
	DepartmentID uuid.UUID `gorm:"column:department_id;type:uuid;not null;index"`
	Name         string    `gorm:"column:name;type:varchar(100);not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Position) TableName() string {
	return "positions"
}
