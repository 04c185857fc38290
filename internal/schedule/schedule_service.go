package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	schedulerrors "go-timeclock/internal/schedule/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const PresetAllKeyPrefix = "schedules:presets:"

func GetPresetAllKey(companyID string) string {
	return PresetAllKeyPrefix + companyID
}

// BindingSource looks up a user's optional schedule group. Implemented by
// the user repository; kept as a local interface so this package never
// imports the user module.
type BindingSource interface {
	GetScheduleGroupID(ctx context.Context, companyID, userID string) (*string, error)
}

//go:generate mockgen -source=schedule_service.go -destination=mock/schedule_service_mock.go -package=mock
type Service interface {
	CreatePreset(ctx context.Context, companyID string, req CreatePresetRequest) (PresetResponse, error)
	GetPresets(ctx context.Context, companyID string) ([]PresetResponse, error)
	GetPresetByID(ctx context.Context, companyID, id string) (PresetResponse, error)
	UpdatePreset(ctx context.Context, companyID, id string, req UpdatePresetRequest) (PresetResponse, error)
	DeletePreset(ctx context.Context, companyID, id string) error

	CreateGroup(ctx context.Context, companyID string, req CreateGroupRequest) (GroupResponse, error)
	GetGroups(ctx context.Context, companyID string) ([]GroupResponse, error)
	GetGroupByID(ctx context.Context, companyID, id string) (GroupResponse, error)
	UpdateGroup(ctx context.Context, companyID, id string, req UpdateGroupRequest) (GroupResponse, error)
	DeleteGroup(ctx context.Context, companyID, id string) error

	GroupExists(ctx context.Context, companyID, groupID string) (bool, error)

	SetOverride(ctx context.Context, companyID, groupID string, req SetOverrideRequest) (GroupResponse, error)
	RemoveOverride(ctx context.Context, companyID, groupID, day string) error

	// ResolveForUser returns the effective preset for a user on a date,
	// following override > group default > catalog fallback. Configuration
	// absence is not an error; only corrupt references fail.
	ResolveForUser(ctx context.Context, companyID, userID string, date time.Time) (TimePreset, ResolutionSource, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	bindings BindingSource
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, bindings BindingSource, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		bindings: bindings,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) CreatePreset(ctx context.Context, companyID string, req CreatePresetRequest) (PresetResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return PresetResponse{}, schedulerrors.ErrInvalidCompanyID
	}
	if err := validatePresetTimes(req.StartTime, req.EndTime, req.GracePeriodMinutes); err != nil {
		return PresetResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PresetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p := &TimePreset{
		ID:                 uuid.New(),
		CompanyID:          companyUUID,
		Name:               req.Name,
		StartTime:          req.StartTime,
		EndTime:            req.EndTime,
		GracePeriodMinutes: req.GracePeriodMinutes,
	}

	if err := qtx.CreatePreset(ctx, p); err != nil {
		return PresetResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PresetResponse{}, err
	}

	s.invalidatePresetCache(ctx, companyID)
	return mapPresetToResponse(*p), nil
}

func (s *service) GetPresets(ctx context.Context, companyID string) ([]PresetResponse, error) {
	cacheKey := GetPresetAllKey(companyID)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []PresetResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		presets, err := s.repo.FindPresetsByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}

		resp := make([]PresetResponse, len(presets))
		for i, p := range presets {
			resp[i] = mapPresetToResponse(p)
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 30*time.Minute)
			}
		}

		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]PresetResponse), nil
}

func (s *service) GetPresetByID(ctx context.Context, companyID, id string) (PresetResponse, error) {
	p, err := s.repo.FindPresetByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PresetResponse{}, schedulerrors.ErrPresetNotFound
		}
		return PresetResponse{}, err
	}
	return mapPresetToResponse(*p), nil
}

func (s *service) UpdatePreset(ctx context.Context, companyID, id string, req UpdatePresetRequest) (PresetResponse, error) {
	if err := validatePresetTimes(req.StartTime, req.EndTime, req.GracePeriodMinutes); err != nil {
		return PresetResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PresetResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindPresetByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PresetResponse{}, schedulerrors.ErrPresetNotFound
		}
		return PresetResponse{}, err
	}

	p.Name = req.Name
	p.StartTime = req.StartTime
	p.EndTime = req.EndTime
	p.GracePeriodMinutes = req.GracePeriodMinutes

	if err := qtx.UpdatePreset(ctx, p); err != nil {
		return PresetResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return PresetResponse{}, err
	}

	s.invalidatePresetCache(ctx, companyID)
	return mapPresetToResponse(*p), nil
}

func (s *service) DeletePreset(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	refs, err := qtx.CountPresetReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		s.logger.Warn("delete preset refused, still referenced",
			zap.String("preset_id", id),
			zap.Int64("references", refs),
		)
		return schedulerrors.ErrPresetInUse
	}

	if err := qtx.DeletePreset(ctx, companyID, id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidatePresetCache(ctx, companyID)
	return nil
}

func (s *service) CreateGroup(ctx context.Context, companyID string, req CreateGroupRequest) (GroupResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return GroupResponse{}, schedulerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GroupResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	g := &ScheduleGroup{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
	}

	if req.DefaultPresetID != nil {
		presetUUID, err := uuid.Parse(*req.DefaultPresetID)
		if err != nil {
			return GroupResponse{}, schedulerrors.ErrInvalidPresetID
		}
		if _, err := qtx.FindPresetByIDAndCompany(ctx, companyID, presetUUID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return GroupResponse{}, schedulerrors.ErrPresetNotFound
			}
			return GroupResponse{}, err
		}
		g.DefaultPresetID = &presetUUID
	}

	if err := qtx.CreateGroup(ctx, g); err != nil {
		return GroupResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return GroupResponse{}, err
	}

	return mapGroupToResponse(*g), nil
}

func (s *service) GetGroups(ctx context.Context, companyID string) ([]GroupResponse, error) {
	groups, err := s.repo.FindGroupsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = mapGroupToResponse(g)
	}
	return resp, nil
}

func (s *service) GetGroupByID(ctx context.Context, companyID, id string) (GroupResponse, error) {
	g, err := s.repo.FindGroupByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupResponse{}, schedulerrors.ErrGroupNotFound
		}
		return GroupResponse{}, err
	}
	return mapGroupToResponse(*g), nil
}

func (s *service) UpdateGroup(ctx context.Context, companyID, id string, req UpdateGroupRequest) (GroupResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GroupResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	g, err := qtx.FindGroupByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupResponse{}, schedulerrors.ErrGroupNotFound
		}
		return GroupResponse{}, err
	}

	g.Name = req.Name
	g.DefaultPresetID = nil
	if req.DefaultPresetID != nil {
		presetUUID, err := uuid.Parse(*req.DefaultPresetID)
		if err != nil {
			return GroupResponse{}, schedulerrors.ErrInvalidPresetID
		}
		if _, err := qtx.FindPresetByIDAndCompany(ctx, companyID, presetUUID.String()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return GroupResponse{}, schedulerrors.ErrPresetNotFound
			}
			return GroupResponse{}, err
		}
		g.DefaultPresetID = &presetUUID
	}

	if err := qtx.UpdateGroup(ctx, g); err != nil {
		return GroupResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return GroupResponse{}, err
	}

	return s.GetGroupByID(ctx, companyID, id)
}

func (s *service) DeleteGroup(ctx context.Context, companyID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindGroupByIDAndCompany(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedulerrors.ErrGroupNotFound
		}
		return err
	}

	if err := qtx.DeleteGroup(ctx, companyID, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) GroupExists(ctx context.Context, companyID, groupID string) (bool, error) {
	if _, err := uuid.Parse(groupID); err != nil {
		return false, nil
	}
	_, err := s.repo.FindGroupByIDAndCompany(ctx, companyID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) SetOverride(ctx context.Context, companyID, groupID string, req SetOverrideRequest) (GroupResponse, error) {
	if !ValidDayCode(req.Day) {
		return GroupResponse{}, schedulerrors.ErrInvalidDayCode
	}
	presetUUID, err := uuid.Parse(req.PresetID)
	if err != nil {
		return GroupResponse{}, schedulerrors.ErrInvalidPresetID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return GroupResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	g, err := qtx.FindGroupByIDAndCompany(ctx, companyID, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupResponse{}, schedulerrors.ErrGroupNotFound
		}
		return GroupResponse{}, err
	}
	if _, err := qtx.FindPresetByIDAndCompany(ctx, companyID, req.PresetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GroupResponse{}, schedulerrors.ErrPresetNotFound
		}
		return GroupResponse{}, err
	}

	ov := &DayOverride{
		ID:              uuid.New(),
		ScheduleGroupID: g.ID,
		Day:             DayCode(req.Day),
		PresetID:        presetUUID,
	}
	if err := qtx.UpsertOverride(ctx, ov); err != nil {
		return GroupResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return GroupResponse{}, err
	}

	s.logger.Info("day override set",
		zap.String("group_id", groupID),
		zap.String("day", req.Day),
		zap.String("preset_id", req.PresetID),
	)

	return s.GetGroupByID(ctx, companyID, groupID)
}

func (s *service) RemoveOverride(ctx context.Context, companyID, groupID, day string) error {
	if !ValidDayCode(day) {
		return schedulerrors.ErrInvalidDayCode
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindGroupByIDAndCompany(ctx, companyID, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedulerrors.ErrGroupNotFound
		}
		return err
	}

	if err := qtx.DeleteOverride(ctx, groupID, DayCode(day)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return schedulerrors.ErrOverrideNotFound
		}
		return err
	}

	return tx.Commit()
}

func (s *service) ResolveForUser(ctx context.Context, companyID, userID string, date time.Time) (TimePreset, ResolutionSource, error) {
	day := DayCodeFor(date)

	groupID, err := s.bindings.GetScheduleGroupID(ctx, companyID, userID)
	if err != nil {
		return TimePreset{}, SourceFallback, err
	}
	if groupID == nil {
		// User has no schedule group; catalog fallback applies.
		return FallbackPreset(day), SourceFallback, nil
	}

	group, err := s.repo.FindGroupByIDAndCompany(ctx, companyID, *groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Binding points at a removed group; degrade, don't fail.
			s.logger.Warn("schedule group missing for bound user, using fallback",
				zap.String("user_id", userID),
				zap.String("group_id", *groupID),
			)
			return FallbackPreset(day), SourceFallback, nil
		}
		return TimePreset{}, SourceFallback, err
	}

	return Resolve(group, day)
}

func (s *service) invalidatePresetCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetPresetAllKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate preset cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func validatePresetTimes(start, end string, grace int) error {
	if grace < 0 {
		return schedulerrors.ErrNegativeGrace
	}
	if _, err := parseClock(start); err != nil {
		return schedulerrors.ErrInvalidClockTime
	}
	if _, err := parseClock(end); err != nil {
		return schedulerrors.ErrInvalidClockTime
	}
	return nil
}

func mapPresetToResponse(p TimePreset) PresetResponse {
	resp := PresetResponse{
		Name:               p.Name,
		StartTime:          p.StartTime,
		EndTime:            p.EndTime,
		GracePeriodMinutes: p.GracePeriodMinutes,
	}
	if p.ID != uuid.Nil {
		resp.ID = p.ID.String()
	}
	if p.CompanyID != uuid.Nil {
		resp.CompanyID = p.CompanyID.String()
	}
	return resp
}

func mapGroupToResponse(g ScheduleGroup) GroupResponse {
	resp := GroupResponse{
		ID:        g.ID.String(),
		CompanyID: g.CompanyID.String(),
		Name:      g.Name,
		Overrides: make([]OverrideResponse, len(g.Overrides)),
	}
	if g.DefaultPresetID != nil {
		v := g.DefaultPresetID.String()
		resp.DefaultPresetID = &v
	}
	if g.DefaultPreset != nil {
		p := mapPresetToResponse(*g.DefaultPreset)
		resp.DefaultPreset = &p
	}
	for i, ov := range g.Overrides {
		o := OverrideResponse{
			Day:      string(ov.Day),
			PresetID: ov.PresetID.String(),
		}
		if ov.Preset != nil {
			p := mapPresetToResponse(*ov.Preset)
			o.Preset = &p
		}
		resp.Overrides[i] = o
	}
	return resp
}
