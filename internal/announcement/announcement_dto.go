package announcement

type CreateAnnouncementRequest struct {
	Content string `json:"content" binding:"required"`
}

type UpdateAnnouncementRequest struct {
	Content string `json:"content" binding:"required"`
}

type SetPostedRequest struct {
	Posted bool `json:"posted"`
}

type AnnouncementResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Content   string `json:"content"`
	Posted    bool   `json:"posted"`
	CreatedAt string `json:"created_at"`
}
