package company

type CreateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	LogoPath string `json:"logo_path"`
}

type UpdateCompanyRequest struct {
	Name     string `json:"name" binding:"required"`
	LogoPath string `json:"logo_path"`
}

type CompanyResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	LogoPath string `json:"logo_path,omitempty"`
}
