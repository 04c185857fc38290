package auth

// LoginRequest is what the clock terminal posts. The terminal is bound
// to one company, so it always knows the company id.
type LoginRequest struct {
	CompanyID  string `json:"company_id" binding:"required,uuid"`
	EmployeeID string `json:"employee_id" binding:"required,len=6,numeric"`
	Pin        string `json:"pin" binding:"required"`
}

// SetPinRequest completes the first-login handshake: the account still
// carries the provisioning PIN and must pick a real one.
type SetPinRequest struct {
	CompanyID  string `json:"company_id" binding:"required,uuid"`
	EmployeeID string `json:"employee_id" binding:"required,len=6,numeric"`
	NewPin     string `json:"new_pin" binding:"required,len=4,numeric"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type AuthResponse struct {
	ID         string `json:"id"`
	CompanyID  string `json:"company_id"`
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	FirstLogin bool   `json:"first_login"`
}
