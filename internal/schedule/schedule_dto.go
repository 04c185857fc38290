package schedule

type CreatePresetRequest struct {
	Name               string `json:"name" binding:"required"`
	StartTime          string `json:"start_time" binding:"required"`
	EndTime            string `json:"end_time" binding:"required"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
}

type UpdatePresetRequest struct {
	Name               string `json:"name" binding:"required"`
	StartTime          string `json:"start_time" binding:"required"`
	EndTime            string `json:"end_time" binding:"required"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
}

type PresetResponse struct {
	ID                 string `json:"id,omitempty"`
	CompanyID          string `json:"company_id,omitempty"`
	Name               string `json:"name"`
	StartTime          string `json:"start_time"`
	EndTime            string `json:"end_time"`
	GracePeriodMinutes int    `json:"grace_period_minutes"`
}

type CreateGroupRequest struct {
	Name            string  `json:"name" binding:"required"`
	DefaultPresetID *string `json:"default_preset_id"`
}

type UpdateGroupRequest struct {
	Name            string  `json:"name" binding:"required"`
	DefaultPresetID *string `json:"default_preset_id"`
}

type SetOverrideRequest struct {
	Day      string `json:"day" binding:"required"`
	PresetID string `json:"preset_id" binding:"required,uuid"`
}

type OverrideResponse struct {
	Day      string          `json:"day"`
	PresetID string          `json:"preset_id"`
	Preset   *PresetResponse `json:"preset,omitempty"`
}

type GroupResponse struct {
	ID              string             `json:"id"`
	CompanyID       string             `json:"company_id"`
	Name            string             `json:"name"`
	DefaultPresetID *string            `json:"default_preset_id,omitempty"`
	DefaultPreset   *PresetResponse    `json:"default_preset,omitempty"`
	Overrides       []OverrideResponse `json:"overrides"`
}

// ResolvedScheduleResponse reports the effective preset for one user on
// one date plus which precedence tier produced it.
type ResolvedScheduleResponse struct {
	Day    string         `json:"day"`
	Source string         `json:"source"`
	Preset PresetResponse `json:"preset"`
}
