package timeentry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-timeclock/internal/events"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/schedule"
	"go-timeclock/internal/shared/contextutil"
	timeentryerrors "go-timeclock/internal/timeentry/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ScheduleResolver is the slice of the schedule service this package
// needs. Kept local so timeentry depends on behavior, not the module.
type ScheduleResolver interface {
	ResolveForUser(ctx context.Context, companyID, userID string, date time.Time) (schedule.TimePreset, schedule.ResolutionSource, error)
}

//go:generate mockgen -source=timeentry_service.go -destination=mock/timeentry_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, companyID, userID string, req ClockInRequest) (TimeEntryResponse, error)
	ClockOut(ctx context.Context, companyID, userID string, req ClockOutRequest) (TimeEntryResponse, error)
	Edit(ctx context.Context, companyID, entryID string, req EditEntryRequest) (TimeEntryResponse, error)
	GetToday(ctx context.Context, companyID string) ([]TimeEntryResponse, error)
	GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]TimeEntryResponse, error)
}

// TodaySheetKey is the cache key for a company's daily attendance sheet.
func TodaySheetKey(companyID string, date time.Time) string {
	return "timeentries:today:" + companyID + ":" + date.Format("2006-01-02")
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver ScheduleResolver
	outbox   kafka.OutboxRepository
	rdb      *redis.Client
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	resolver ScheduleResolver,
	outbox kafka.OutboxRepository,
	rdb *redis.Client,
	loc *time.Location,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("timeentry.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeentry.service")
	}
	if loc == nil {
		loc = time.Local
	}
	return &service{
		db:       db,
		repo:     repo,
		resolver: resolver,
		outbox:   outbox,
		rdb:      rdb,
		loc:      loc,
		logger:   l,
		now:      time.Now,
	}
}

func (s *service) ClockIn(ctx context.Context, companyID, userID string, req ClockInRequest) (TimeEntryResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidCompanyID
	}
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidUserID
	}

	now := s.now().In(s.loc)
	workDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	existing, err := s.repo.FindByUserAndDate(ctx, companyID, userID, workDate)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return TimeEntryResponse{}, err
	}
	if err == nil && existing != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrDuplicateEntry
	}

	lateness := s.evaluateLateness(ctx, companyID, userID, now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry := &TimeEntry{
		ID:          uuid.New(),
		CompanyID:   companyUUID,
		UserID:      userUUID,
		WorkDate:    workDate,
		TimeIn:      now,
		IsLate:      lateness.IsLate,
		MinutesLate: lateness.MinutesLate,
		PhotoPath:   req.PhotoPath,
	}

	if err := qtx.Create(ctx, entry); err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent clock-in on the same day.
			return TimeEntryResponse{}, timeentryerrors.ErrDuplicateEntry
		}
		return TimeEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.invalidateTodaySheet(ctx, companyID, workDate)

	s.logger.Info("clock-in recorded",
		zap.String("entry_id", entry.ID.String()),
		zap.String("user_id", userID),
		zap.Bool("is_late", entry.IsLate),
		zap.Int("minutes_late", entry.MinutesLate),
	)

	return mapEntryToResponse(*entry), nil
}

func (s *service) ClockOut(ctx context.Context, companyID, userID string, req ClockOutRequest) (TimeEntryResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidCompanyID
	}
	if _, err := uuid.Parse(userID); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidUserID
	}

	now := s.now().In(s.loc)
	workDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByUserAndDate(ctx, companyID, userID, workDate)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrNoOpenEntry
		}
		return TimeEntryResponse{}, err
	}
	if !entry.Open() {
		return TimeEntryResponse{}, timeentryerrors.ErrAlreadyClockedOut
	}
	if now.Before(entry.TimeIn) {
		return TimeEntryResponse{}, timeentryerrors.ErrClockOutBeforeClockIn
	}

	entry.TimeOut = &now
	entry.HoursWorked = ComputeHoursWorked(entry.TimeIn, entry.TimeOut)
	if req.PhotoPath != nil {
		entry.PhotoPath = req.PhotoPath
	}

	if err := qtx.Update(ctx, entry); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := s.enqueueEntryClosed(ctx, tx, entry); err != nil {
		return TimeEntryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.invalidateTodaySheet(ctx, companyID, workDate)

	return mapEntryToResponse(*entry), nil
}

func (s *service) Edit(ctx context.Context, companyID, entryID string, req EditEntryRequest) (TimeEntryResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return TimeEntryResponse{}, timeentryerrors.ErrInvalidCompanyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TimeEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry, err := qtx.FindByIDAndCompany(ctx, companyID, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TimeEntryResponse{}, timeentryerrors.ErrEntryNotFound
		}
		return TimeEntryResponse{}, err
	}

	prevWorkDate := entry.WorkDate

	if req.TimeIn != nil {
		in, err := time.Parse(time.RFC3339, *req.TimeIn)
		if err != nil {
			return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
		}
		entry.TimeIn = in.In(s.loc)
	}
	if req.TimeOut != nil {
		if *req.TimeOut == "" {
			entry.TimeOut = nil
		} else {
			out, err := time.Parse(time.RFC3339, *req.TimeOut)
			if err != nil {
				return TimeEntryResponse{}, timeentryerrors.ErrInvalidTimestamp
			}
			// Inverted intervals are allowed here. Only the clock-out
			// endpoint rejects them; a forced correction simply yields
			// negative hours.
			normalized := out.In(s.loc)
			entry.TimeOut = &normalized
		}
	}

	// Derived fields always follow the stored timestamps, so re-running
	// the same edit lands on the same state.
	if req.TimeIn != nil {
		entry.WorkDate = time.Date(
			entry.TimeIn.Year(), entry.TimeIn.Month(), entry.TimeIn.Day(),
			0, 0, 0, 0, s.loc,
		)
		lateness := s.evaluateLateness(ctx, companyID, entry.UserID.String(), entry.TimeIn)
		entry.IsLate = lateness.IsLate
		entry.MinutesLate = lateness.MinutesLate
	}
	entry.HoursWorked = ComputeHoursWorked(entry.TimeIn, entry.TimeOut)

	if err := qtx.Update(ctx, entry); err != nil {
		return TimeEntryResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TimeEntryResponse{}, err
	}

	s.invalidateTodaySheet(ctx, companyID, prevWorkDate)
	if !entry.WorkDate.Equal(prevWorkDate) {
		s.invalidateTodaySheet(ctx, companyID, entry.WorkDate)
	}

	s.logger.Info("time entry edited",
		zap.String("entry_id", entryID),
		zap.Bool("is_late", entry.IsLate),
	)

	return mapEntryToResponse(*entry), nil
}

func (s *service) GetToday(ctx context.Context, companyID string) ([]TimeEntryResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, timeentryerrors.ErrInvalidCompanyID
	}

	today := s.now().In(s.loc)
	cacheKey := TodaySheetKey(companyID, today)

	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Result()
		if err == nil {
			var resp []TimeEntryResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	rows, err := s.repo.FindByCompanyAndDate(ctx, companyID, today)
	if err != nil {
		return nil, err
	}

	resp := mapEntriesToResponse(rows)
	if s.rdb != nil {
		if jsonData, err := json.Marshal(resp); err == nil {
			// Short TTL; punches land all day long.
			s.rdb.Set(ctx, cacheKey, jsonData, time.Minute)
		}
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, companyID, actorID string, canReadAll bool) ([]TimeEntryResponse, error) {
	if _, err := uuid.Parse(companyID); err != nil {
		return nil, timeentryerrors.ErrInvalidCompanyID
	}

	var (
		rows []TimeEntry
		err  error
	)
	if canReadAll {
		rows, err = s.repo.FindAllByCompany(ctx, companyID)
	} else {
		rows, err = s.repo.FindAllByCompanyAndUser(ctx, companyID, actorID)
	}
	if err != nil {
		return nil, err
	}
	return mapEntriesToResponse(rows), nil
}

// evaluateLateness resolves the user's schedule and scores the clock-in.
// Resolution trouble must never block punching the clock, so any failure
// degrades to a not-late result and a diagnostic log line.
func (s *service) evaluateLateness(ctx context.Context, companyID, userID string, timeIn time.Time) LatenessResult {
	if s.resolver == nil {
		return LatenessResult{}
	}

	preset, source, err := s.resolver.ResolveForUser(ctx, companyID, userID, timeIn)
	if err != nil {
		s.logger.Error("schedule resolution failed, recording entry without lateness",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return LatenessResult{}
	}

	result, err := ComputeLateness(timeIn, preset)
	if err != nil {
		s.logger.Error("lateness computation failed, recording entry without lateness",
			zap.String("user_id", userID),
			zap.String("preset", preset.Name),
			zap.String("source", string(source)),
			zap.Error(err),
		)
		return LatenessResult{}
	}
	return result
}

func (s *service) enqueueEntryClosed(ctx context.Context, tx *sql.Tx, entry *TimeEntry) error {
	if s.outbox == nil {
		return nil
	}

	var hours float64
	if entry.HoursWorked != nil {
		hours = *entry.HoursWorked
	}

	event := events.TimeEntryClosedEvent{
		EventType:   "time_entry.closed",
		RequestID:   contextutil.GetRequestID(ctx),
		EntryID:     entry.ID.String(),
		CompanyID:   entry.CompanyID.String(),
		UserID:      entry.UserID.String(),
		WorkDate:    entry.WorkDate.Format("2006-01-02"),
		HoursWorked: hours,
		OccurredAt:  s.now().In(s.loc),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal entry closed event: %w", err)
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "time_entry",
		AggregateID:   entry.ID.String(),
		EventType:     event.EventType,
		Topic:         events.TimeEntryClosedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) invalidateTodaySheet(ctx context.Context, companyID string, date time.Time) {
	if s.rdb == nil {
		return
	}
	cacheKey := TodaySheetKey(companyID, date)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate today sheet cache",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapEntryToResponse(e TimeEntry) TimeEntryResponse {
	resp := TimeEntryResponse{
		ID:          e.ID.String(),
		CompanyID:   e.CompanyID.String(),
		UserID:      e.UserID.String(),
		WorkDate:    e.WorkDate.Format("2006-01-02"),
		TimeIn:      e.TimeIn.Format(time.RFC3339),
		HoursWorked: e.HoursWorked,
		IsLate:      e.IsLate,
		MinutesLate: e.MinutesLate,
		PhotoPath:   e.PhotoPath,
	}
	if e.TimeOut != nil {
		v := e.TimeOut.Format(time.RFC3339)
		resp.TimeOut = &v
	}
	if e.User != nil {
		resp.EmployeeID = e.User.EmployeeID
		resp.EmployeeName = e.User.FirstName + " " + e.User.Surname
	}
	return resp
}

func mapEntriesToResponse(rows []TimeEntry) []TimeEntryResponse {
	resp := make([]TimeEntryResponse, len(rows))
	for i, e := range rows {
		resp[i] = mapEntryToResponse(e)
	}
	return resp
}
