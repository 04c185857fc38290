package timeentry

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/schedule"
	timeentryerrors "go-timeclock/internal/timeentry/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn               func(ctx context.Context, e *TimeEntry) error
	findByIDAndCompanyFn   func(ctx context.Context, companyID, id string) (*TimeEntry, error)
	findByUserAndDateFn    func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error)
	findAllByCompanyFn     func(ctx context.Context, companyID string) ([]TimeEntry, error)
	findAllByUserFn        func(ctx context.Context, companyID, userID string) ([]TimeEntry, error)
	findByCompanyAndDateFn func(ctx context.Context, companyID string, date time.Time) ([]TimeEntry, error)
	findByCompanyBetweenFn func(ctx context.Context, companyID string, from, to time.Time) ([]TimeEntry, error)
	updateFn               func(ctx context.Context, e *TimeEntry) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, e *TimeEntry) error {
	return f.createFn(ctx, e)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) FindByUserAndDate(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
	return f.findByUserAndDateFn(ctx, companyID, userID, date)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]TimeEntry, error) {
	return f.findAllByCompanyFn(ctx, companyID)
}
func (f *fakeRepo) FindAllByCompanyAndUser(ctx context.Context, companyID, userID string) ([]TimeEntry, error) {
	return f.findAllByUserFn(ctx, companyID, userID)
}
func (f *fakeRepo) FindByCompanyAndDate(ctx context.Context, companyID string, date time.Time) ([]TimeEntry, error) {
	return f.findByCompanyAndDateFn(ctx, companyID, date)
}
func (f *fakeRepo) FindByCompanyBetween(ctx context.Context, companyID string, from, to time.Time) ([]TimeEntry, error) {
	return f.findByCompanyBetweenFn(ctx, companyID, from, to)
}
func (f *fakeRepo) Update(ctx context.Context, e *TimeEntry) error {
	return f.updateFn(ctx, e)
}

type fakeResolver struct {
	preset schedule.TimePreset
	source schedule.ResolutionSource
	err    error
}

func (f *fakeResolver) ResolveForUser(ctx context.Context, companyID, userID string, date time.Time) (schedule.TimePreset, schedule.ResolutionSource, error) {
	return f.preset, f.source, f.err
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error   { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func newTestService(t *testing.T, repo Repository, resolver ScheduleResolver, outbox kafka.OutboxRepository) (*service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	loc := time.FixedZone("Asia/Manila", 8*60*60)
	svc := NewService(db, repo, resolver, outbox, nil, loc).(*service)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	}
	return svc, mock, func() { db.Close() }
}

func TestService_ClockIn(t *testing.T) {
	companyID := uuid.New().String()
	userID := uuid.New().String()

	var created *TimeEntry
	repo := &fakeRepo{
		findByUserAndDateFn: func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, e *TimeEntry) error {
			created = e
			return nil
		},
	}
	resolver := &fakeResolver{
		preset: schedule.TimePreset{Name: "Regular", StartTime: "08:00", EndTime: "19:00", GracePeriodMinutes: 5},
		source: schedule.SourceGroupDefault,
	}

	svc, mock, closeDB := newTestService(t, repo, resolver, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockIn(context.Background(), companyID, userID, ClockInRequest{})
	assert.NoError(t, err)
	assert.True(t, resp.IsLate)
	assert.Equal(t, 60, resp.MinutesLate)
	assert.Equal(t, "2025-06-02", resp.WorkDate)
	assert.Nil(t, resp.HoursWorked)
	if assert.NotNil(t, created) {
		assert.Equal(t, created.ID.String(), resp.ID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_Duplicate(t *testing.T) {
	companyID := uuid.New().String()
	userID := uuid.New().String()

	repo := &fakeRepo{
		findByUserAndDateFn: func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
			return &TimeEntry{ID: uuid.New()}, nil
		},
	}

	svc, mock, closeDB := newTestService(t, repo, &fakeResolver{}, &fakeOutbox{})
	defer closeDB()

	_, err := svc.ClockIn(context.Background(), companyID, userID, ClockInRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrDuplicateEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_ResolutionFailureStillRecords(t *testing.T) {
	companyID := uuid.New().String()
	userID := uuid.New().String()

	repo := &fakeRepo{
		findByUserAndDateFn: func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(ctx context.Context, e *TimeEntry) error { return nil },
	}
	resolver := &fakeResolver{err: assert.AnError}

	svc, mock, closeDB := newTestService(t, repo, resolver, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockIn(context.Background(), companyID, userID, ClockInRequest{})
	assert.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.MinutesLate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut(t *testing.T) {
	companyID := uuid.New()
	userID := uuid.New()
	loc := time.FixedZone("Asia/Manila", 8*60*60)

	open := &TimeEntry{
		ID:        uuid.New(),
		CompanyID: companyID,
		UserID:    userID,
		WorkDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
		TimeIn:    time.Date(2025, 6, 2, 8, 0, 0, 0, loc),
	}
	repo := &fakeRepo{
		findByUserAndDateFn: func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
			return open, nil
		},
		updateFn: func(ctx context.Context, e *TimeEntry) error { return nil },
	}
	outbox := &fakeOutbox{}

	svc, mock, closeDB := newTestService(t, repo, &fakeResolver{}, outbox)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.ClockOut(context.Background(), companyID.String(), userID.String(), ClockOutRequest{})
	assert.NoError(t, err)
	if assert.NotNil(t, resp.HoursWorked) {
		assert.Equal(t, 1.0, *resp.HoursWorked)
	}

	// Closing the entry leaves exactly one event in the outbox.
	if assert.Len(t, outbox.events, 1) {
		assert.Equal(t, "time_entry.closed", outbox.events[0].EventType)
		assert.Equal(t, open.ID.String(), outbox.events[0].AggregateID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_NoOpenEntry(t *testing.T) {
	repo := &fakeRepo{
		findByUserAndDateFn: func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}

	svc, mock, closeDB := newTestService(t, repo, &fakeResolver{}, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ClockOut(context.Background(), uuid.NewString(), uuid.NewString(), ClockOutRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrNoOpenEntry)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_AlreadyClosed(t *testing.T) {
	loc := time.FixedZone("Asia/Manila", 8*60*60)
	out := time.Date(2025, 6, 2, 8, 30, 0, 0, loc)
	repo := &fakeRepo{
		findByUserAndDateFn: func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
			return &TimeEntry{ID: uuid.New(), TimeOut: &out}, nil
		},
	}

	svc, mock, closeDB := newTestService(t, repo, &fakeResolver{}, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ClockOut(context.Background(), uuid.NewString(), uuid.NewString(), ClockOutRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrAlreadyClockedOut)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_RejectsEntryAheadOfClock(t *testing.T) {
	loc := time.FixedZone("Asia/Manila", 8*60*60)
	repo := &fakeRepo{
		findByUserAndDateFn: func(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
			return &TimeEntry{
				ID:     uuid.New(),
				TimeIn: time.Date(2025, 6, 2, 10, 0, 0, 0, loc),
			}, nil
		},
	}

	svc, mock, closeDB := newTestService(t, repo, &fakeResolver{}, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.ClockOut(context.Background(), uuid.NewString(), uuid.NewString(), ClockOutRequest{})
	assert.ErrorIs(t, err, timeentryerrors.ErrClockOutBeforeClockIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Edit_RecomputesDerivedFields(t *testing.T) {
	loc := time.FixedZone("Asia/Manila", 8*60*60)
	entry := &TimeEntry{
		ID:          uuid.New(),
		CompanyID:   uuid.New(),
		UserID:      uuid.New(),
		WorkDate:    time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
		TimeIn:      time.Date(2025, 6, 2, 9, 0, 0, 0, loc),
		IsLate:      true,
		MinutesLate: 60,
	}
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*TimeEntry, error) {
			return entry, nil
		},
		updateFn: func(ctx context.Context, e *TimeEntry) error { return nil },
	}
	resolver := &fakeResolver{
		preset: schedule.TimePreset{Name: "Regular", StartTime: "08:00", EndTime: "19:00", GracePeriodMinutes: 5},
		source: schedule.SourceGroupDefault,
	}

	svc, mock, closeDB := newTestService(t, repo, resolver, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	newIn := time.Date(2025, 6, 2, 8, 2, 0, 0, loc).Format(time.RFC3339)
	newOut := time.Date(2025, 6, 2, 17, 2, 0, 0, loc).Format(time.RFC3339)
	resp, err := svc.Edit(context.Background(), entry.CompanyID.String(), entry.ID.String(), EditEntryRequest{
		TimeIn:  &newIn,
		TimeOut: &newOut,
	})
	assert.NoError(t, err)
	assert.False(t, resp.IsLate)
	assert.Equal(t, 2, resp.MinutesLate)
	if assert.NotNil(t, resp.HoursWorked) {
		assert.Equal(t, 9.0, *resp.HoursWorked)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Edit_AllowsInvertedInterval(t *testing.T) {
	loc := time.FixedZone("Asia/Manila", 8*60*60)
	entry := &TimeEntry{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		WorkDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
		TimeIn:    time.Date(2025, 6, 2, 17, 0, 0, 0, loc),
	}
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*TimeEntry, error) {
			return entry, nil
		},
		updateFn: func(ctx context.Context, e *TimeEntry) error { return nil },
	}

	svc, mock, closeDB := newTestService(t, repo, &fakeResolver{}, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	// A forced correction may place time_out before time_in; the edit
	// goes through and hours come out negative.
	before := time.Date(2025, 6, 2, 9, 0, 0, 0, loc).Format(time.RFC3339)
	resp, err := svc.Edit(context.Background(), entry.CompanyID.String(), entry.ID.String(), EditEntryRequest{
		TimeOut: &before,
	})
	assert.NoError(t, err)
	if assert.NotNil(t, resp.HoursWorked) {
		assert.Equal(t, -8.0, *resp.HoursWorked)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Edit_MovesWorkDateWithTimeIn(t *testing.T) {
	loc := time.FixedZone("Asia/Manila", 8*60*60)
	entry := &TimeEntry{
		ID:        uuid.New(),
		CompanyID: uuid.New(),
		UserID:    uuid.New(),
		WorkDate:  time.Date(2025, 6, 2, 0, 0, 0, 0, loc),
		TimeIn:    time.Date(2025, 6, 2, 9, 0, 0, 0, loc),
	}
	var saved *TimeEntry
	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, companyID, id string) (*TimeEntry, error) {
			return entry, nil
		},
		updateFn: func(ctx context.Context, e *TimeEntry) error {
			saved = e
			return nil
		},
	}
	resolver := &fakeResolver{
		preset: schedule.TimePreset{Name: "Regular", StartTime: "08:00", EndTime: "19:00", GracePeriodMinutes: 5},
		source: schedule.SourceGroupDefault,
	}

	svc, mock, closeDB := newTestService(t, repo, resolver, &fakeOutbox{})
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectCommit()

	newIn := time.Date(2025, 6, 3, 9, 0, 0, 0, loc).Format(time.RFC3339)
	resp, err := svc.Edit(context.Background(), entry.CompanyID.String(), entry.ID.String(), EditEntryRequest{
		TimeIn: &newIn,
	})
	assert.NoError(t, err)
	assert.Equal(t, "2025-06-03", resp.WorkDate)
	if assert.NotNil(t, saved) {
		assert.Equal(t, time.Date(2025, 6, 3, 0, 0, 0, 0, loc), saved.WorkDate)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetToday_UsesCache(t *testing.T) {
	companyID := uuid.NewString()

	var repoCalls int
	repo := &fakeRepo{
		findByCompanyAndDateFn: func(ctx context.Context, companyID string, date time.Time) ([]TimeEntry, error) {
			repoCalls++
			return []TimeEntry{}, nil
		},
	}

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()
	loc := time.FixedZone("Asia/Manila", 8*60*60)
	svc := NewService(db, repo, &fakeResolver{}, &fakeOutbox{}, rdb, loc).(*service)
	svc.now = func() time.Time {
		return time.Date(2025, 6, 2, 9, 0, 0, 0, loc)
	}

	cacheKey := TodaySheetKey(companyID, svc.now())
	empty, err := json.Marshal([]TimeEntryResponse{})
	assert.NoError(t, err)

	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSet(cacheKey, empty, time.Minute).SetVal("OK")
	redisMock.ExpectGet(cacheKey).SetVal(string(empty))

	_, err = svc.GetToday(context.Background(), companyID)
	assert.NoError(t, err)
	_, err = svc.GetToday(context.Background(), companyID)
	assert.NoError(t, err)

	assert.Equal(t, 1, repoCalls)
	assert.NoError(t, redisMock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetAll_ScopesByRole(t *testing.T) {
	companyID := uuid.NewString()
	actorID := uuid.NewString()

	var companyCalls, userCalls int
	repo := &fakeRepo{
		findAllByCompanyFn: func(ctx context.Context, companyID string) ([]TimeEntry, error) {
			companyCalls++
			return nil, nil
		},
		findAllByUserFn: func(ctx context.Context, companyID, userID string) ([]TimeEntry, error) {
			userCalls++
			assert.Equal(t, actorID, userID)
			return nil, nil
		},
	}

	svc, _, closeDB := newTestService(t, repo, &fakeResolver{}, &fakeOutbox{})
	defer closeDB()

	_, err := svc.GetAll(context.Background(), companyID, actorID, true)
	assert.NoError(t, err)
	_, err = svc.GetAll(context.Background(), companyID, actorID, false)
	assert.NoError(t, err)
	assert.Equal(t, 1, companyCalls)
	assert.Equal(t, 1, userCalls)
}
