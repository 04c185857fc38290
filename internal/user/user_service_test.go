package user

import (
	"context"
	"database/sql"
	"testing"

	"go-timeclock/internal/messaging/kafka"
	usererrors "go-timeclock/internal/user/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, u *User) error
	findByIDFn func(ctx context.Context, companyID, id string) (*User, error)
	updateFn   func(ctx context.Context, u *User) error
	deleteFn   func(ctx context.Context, companyID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	return f.createFn(ctx, u)
}
func (f *fakeRepo) FindByID(ctx context.Context, companyID, id string) (*User, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) FindByEmployeeID(ctx context.Context, companyID, employeeID string) (*User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]User, error) {
	return nil, nil
}
func (f *fakeRepo) Update(ctx context.Context, u *User) error {
	return f.updateFn(ctx, u)
}
func (f *fakeRepo) Delete(ctx context.Context, companyID, id string) error {
	return f.deleteFn(ctx, companyID, id)
}
func (f *fakeRepo) GetScheduleGroupID(ctx context.Context, companyID, userID string) (*string, error) {
	return nil, nil
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, companyID string, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeGroupChecker struct {
	exists bool
}

func (f *fakeGroupChecker) GroupExists(ctx context.Context, companyID, groupID string) (bool, error) {
	return f.exists, nil
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
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func TestService_Create_IssuesSequentialEmployeeID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	companyID := uuid.New().String()
	var created *User
	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error {
			created = u
			return nil
		},
	}
	counter := &fakeCounter{next: 41}
	outbox := &fakeOutbox{}

	svc := NewService(db, repo, counter, &fakeGroupChecker{exists: true}, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), companyID, CreateUserRequest{
		FirstName: "Maria",
		Surname:   "Santos",
	})
	assert.NoError(t, err)
	assert.Equal(t, "000042", resp.EmployeeID)
	assert.Equal(t, "EMPLOYEE", resp.Role)
	assert.True(t, resp.FirstLogin)

	// The fresh account carries the provisioning PIN.
	if assert.NotNil(t, created) {
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Pin), []byte(ProvisioningPin)))
	}

	if assert.Len(t, outbox.events, 1) {
		assert.Equal(t, "user_created", outbox.events[0].EventType)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_KeepsExplicitEmployeeID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, u *User) error { return nil },
	}
	svc := NewService(db, repo, &fakeCounter{}, &fakeGroupChecker{}, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), uuid.NewString(), CreateUserRequest{
		EmployeeID: "100500",
		FirstName:  "Juan",
		Surname:    "Reyes",
	})
	assert.NoError(t, err)
	assert.Equal(t, "100500", resp.EmployeeID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_UnknownScheduleGroup(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, &fakeGroupChecker{exists: false}, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectRollback()

	groupID := uuid.NewString()
	_, err = svc.Create(context.Background(), uuid.NewString(), CreateUserRequest{
		FirstName:       "Juan",
		Surname:         "Reyes",
		EmployeeID:      "100501",
		ScheduleGroupID: &groupID,
	})
	assert.ErrorIs(t, err, usererrors.ErrScheduleGroupNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_AssignSchedule_ClearsBinding(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	groupID := uuid.New()
	u := &User{
		ID:              uuid.New(),
		CompanyID:       uuid.New(),
		EmployeeID:      "000042",
		ScheduleGroupID: &groupID,
	}
	var updated *User
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*User, error) {
			return u, nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			updated = u
			return nil
		},
	}
	svc := NewService(db, repo, &fakeCounter{}, &fakeGroupChecker{exists: true}, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.AssignSchedule(context.Background(), u.CompanyID.String(), u.ID.String(), AssignScheduleRequest{
		ScheduleGroupID: nil,
	})
	assert.NoError(t, err)
	assert.Nil(t, resp.ScheduleGroupID)
	if assert.NotNil(t, updated) {
		assert.Nil(t, updated.ScheduleGroupID)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ResetPin_ReturnsToProvisioning(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	u := &User{
		ID:         uuid.New(),
		CompanyID:  uuid.New(),
		EmployeeID: "000042",
		FirstLogin: false,
	}
	var updated *User
	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, companyID, id string) (*User, error) {
			return u, nil
		},
		updateFn: func(ctx context.Context, u *User) error {
			updated = u
			return nil
		},
	}
	svc := NewService(db, repo, &fakeCounter{}, &fakeGroupChecker{}, &fakeOutbox{})

	err = svc.ResetPin(context.Background(), u.CompanyID.String(), u.ID.String())
	assert.NoError(t, err)
	if assert.NotNil(t, updated) {
		assert.True(t, updated.FirstLogin)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Pin), []byte(ProvisioningPin)))
	}
}

func TestService_Delete_NotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{
		deleteFn: func(ctx context.Context, companyID, id string) error {
			return gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, &fakeCounter{}, &fakeGroupChecker{}, &fakeOutbox{})

	err = svc.Delete(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
}
