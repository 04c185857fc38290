package timeentry

type ClockInRequest struct {
	PhotoPath *string `json:"photo_path"`
}

type ClockOutRequest struct {
	PhotoPath *string `json:"photo_path"`
}

// EditEntryRequest carries administrative corrections. Timestamps are
// RFC3339; omitted fields are left untouched.
type EditEntryRequest struct {
	TimeIn  *string `json:"time_in"`
	TimeOut *string `json:"time_out"`
}

type TimeEntryResponse struct {
	ID           string   `json:"id"`
	CompanyID    string   `json:"company_id"`
	UserID       string   `json:"user_id"`
	EmployeeID   string   `json:"employee_id,omitempty"`
	EmployeeName string   `json:"employee_name,omitempty"`
	WorkDate     string   `json:"work_date"`
	TimeIn       string   `json:"time_in"`
	TimeOut      *string  `json:"time_out,omitempty"`
	HoursWorked  *float64 `json:"hours_worked,omitempty"`
	IsLate       bool     `json:"is_late"`
	MinutesLate  int      `json:"minutes_late"`
	PhotoPath    *string  `json:"photo_path,omitempty"`
}
