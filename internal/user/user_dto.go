package user

type CreateUserRequest struct {
	EmployeeID      string  `json:"employee_id"`
	FirstName       string  `json:"first_name" binding:"required"`
	Surname         string  `json:"surname" binding:"required"`
	Role            string  `json:"role"`
	BirthDate       *string `json:"birth_date"`
	DateHired       *string `json:"date_hired"`
	DepartmentID    *string `json:"department_id"`
	PositionID      *string `json:"position_id"`
	ScheduleGroupID *string `json:"schedule_group_id"`
}

type UpdateUserRequest struct {
	FirstName    string  `json:"first_name" binding:"required"`
	Surname      string  `json:"surname" binding:"required"`
	Role         string  `json:"role"`
	BirthDate    *string `json:"birth_date"`
	DateHired    *string `json:"date_hired"`
	DepartmentID *string `json:"department_id"`
	PositionID   *string `json:"position_id"`
}

type AssignScheduleRequest struct {
	ScheduleGroupID *string `json:"schedule_group_id"`
}

type ToggleStatusRequest struct {
	IsActive bool `json:"is_active"`
}

type ResetPinRequest struct {
	Pin string `json:"pin" binding:"required"`
}

type UserResponse struct {
	ID              string  `json:"id"`
	CompanyID       string  `json:"company_id"`
	EmployeeID      string  `json:"employee_id"`
	FirstName       string  `json:"first_name"`
	Surname         string  `json:"surname"`
	FullName        string  `json:"full_name"`
	Role            string  `json:"role"`
	FirstLogin      bool    `json:"first_login"`
	IsActive        bool    `json:"is_active"`
	BirthDate       *string `json:"birth_date,omitempty"`
	DateHired       *string `json:"date_hired,omitempty"`
	DepartmentID    *string `json:"department_id,omitempty"`
	DepartmentName  string  `json:"department_name,omitempty"`
	PositionID      *string `json:"position_id,omitempty"`
	PositionName    string  `json:"position_name,omitempty"`
	ScheduleGroupID *string `json:"schedule_group_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
