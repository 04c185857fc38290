package schedule

import (
	"context"
	"database/sql"

	"go-timeclock/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=schedule_repo.go -destination=mock/schedule_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreatePreset(ctx context.Context, p *TimePreset) error
	FindPresetsByCompany(ctx context.Context, companyID string) ([]TimePreset, error)
	FindPresetByIDAndCompany(ctx context.Context, companyID, id string) (*TimePreset, error)
	UpdatePreset(ctx context.Context, p *TimePreset) error
	DeletePreset(ctx context.Context, companyID, id string) error
	CountPresetReferences(ctx context.Context, presetID string) (int64, error)

	CreateGroup(ctx context.Context, g *ScheduleGroup) error
	FindGroupsByCompany(ctx context.Context, companyID string) ([]ScheduleGroup, error)
	FindGroupByIDAndCompany(ctx context.Context, companyID, id string) (*ScheduleGroup, error)
	UpdateGroup(ctx context.Context, g *ScheduleGroup) error
	DeleteGroup(ctx context.Context, companyID, id string) error

	UpsertOverride(ctx context.Context, ov *DayOverride) error
	DeleteOverride(ctx context.Context, groupID string, day DayCode) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	txDB := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	txDB.Statement.ConnPool = tx
	return &repository{db: txDB}
}

func (r *repository) CreatePreset(ctx context.Context, p *TimePreset) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindPresetsByCompany(ctx context.Context, companyID string) ([]TimePreset, error) {
	var presets []TimePreset
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("start_time ASC").
		Find(&presets).Error
	return presets, err
}

func (r *repository) FindPresetByIDAndCompany(ctx context.Context, companyID, id string) (*TimePreset, error) {
	var p TimePreset
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&p).Error
	return &p, err
}

func (r *repository) UpdatePreset(ctx context.Context, p *TimePreset) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) DeletePreset(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&TimePreset{}).Error
}

// CountPresetReferences counts groups and overrides still pointing at a
// preset. Deletion is refused while the count is non-zero so resolution
// never dereferences a missing preset in normal operation.
func (r *repository) CountPresetReferences(ctx context.Context, presetID string) (int64, error) {
	var groups, overrides int64
	if err := r.db.WithContext(ctx).
		Model(&ScheduleGroup{}).
		Where("default_preset_id = ?", presetID).
		Count(&groups).Error; err != nil {
		return 0, err
	}
	if err := r.db.WithContext(ctx).
		Model(&DayOverride{}).
		Where("preset_id = ?", presetID).
		Count(&overrides).Error; err != nil {
		return 0, err
	}
	return groups + overrides, nil
}

func (r *repository) CreateGroup(ctx context.Context, g *ScheduleGroup) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *repository) FindGroupsByCompany(ctx context.Context, companyID string) ([]ScheduleGroup, error) {
	var groups []ScheduleGroup
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("DefaultPreset").
		Preload("Overrides").
		Preload("Overrides.Preset").
		Order("name ASC").
		Find(&groups).Error
	return groups, err
}

func (r *repository) FindGroupByIDAndCompany(ctx context.Context, companyID, id string) (*ScheduleGroup, error) {
	var g ScheduleGroup
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("DefaultPreset").
		Preload("Overrides").
		Preload("Overrides.Preset").
		Where("id = ?", id).
		First(&g).Error
	return &g, err
}

func (r *repository) UpdateGroup(ctx context.Context, g *ScheduleGroup) error {
	return r.db.WithContext(ctx).
		Omit("DefaultPreset", "Overrides").
		Save(g).Error
}

func (r *repository) DeleteGroup(ctx context.Context, companyID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&ScheduleGroup{}).Error
}

func (r *repository) UpsertOverride(ctx context.Context, ov *DayOverride) error {
	// One override per (group, day); a repeated set replaces the preset.
	return r.db.WithContext(ctx).
		Where("schedule_group_id = ? AND day = ?", ov.ScheduleGroupID, ov.Day).
		Assign(map[string]any{"preset_id": ov.PresetID}).
		FirstOrCreate(ov).Error
}

func (r *repository) DeleteOverride(ctx context.Context, groupID string, day DayCode) error {
	res := r.db.WithContext(ctx).
		Where("schedule_group_id = ? AND day = ?", groupID, day).
		Delete(&DayOverride{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
