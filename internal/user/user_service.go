package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-timeclock/internal/events"
	"go-timeclock/internal/messaging/kafka"
	"go-timeclock/internal/shared/apperror"
	"go-timeclock/internal/shared/contextutil"
	"go-timeclock/internal/shared/counter"
	usererrors "go-timeclock/internal/user/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProvisioningPin is the PIN every new account starts with. The first
// login forces a change before the account can punch the clock.
const ProvisioningPin = "0000"

// GroupChecker verifies that a schedule group exists before a user is
// bound to it. Satisfied by the schedule service.
type GroupChecker interface {
	GroupExists(ctx context.Context, companyID, groupID string) (bool, error)
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, companyID string) ([]UserResponse, error)
	GetByID(ctx context.Context, companyID, id string) (UserResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, companyID, id string) error

	AssignSchedule(ctx context.Context, companyID, id string, req AssignScheduleRequest) (UserResponse, error)
	ToggleStatus(ctx context.Context, companyID, id string, isActive bool) error
	ResetPin(ctx context.Context, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	groups  GroupChecker
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	groups GroupChecker,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		groups:  groups,
		outbox:  outbox,
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateUserRequest) (UserResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidCompanyID
	}

	s.logger.Debug("create user requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("employee_id", req.EmployeeID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if req.EmployeeID == "" {
		nextVal, err := s.counter.GetNextValue(ctx, companyID, "employee_id")
		if err != nil {
			s.logger.Error("issue employee id failed", zap.String("request_id", rid), zap.Error(err))
			return UserResponse{}, err
		}
		req.EmployeeID = fmt.Sprintf("%06d", nextVal)
	}

	hashedPin, err := bcrypt.GenerateFromPassword([]byte(ProvisioningPin), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	role := req.Role
	if role == "" {
		role = "EMPLOYEE"
	}

	u := &User{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: req.EmployeeID,
		FirstName:  req.FirstName,
		Surname:    req.Surname,
		Pin:        string(hashedPin),
		Role:       role,
		FirstLogin: true,
		IsActive:   true,
	}

	if u.BirthDate, err = parseOptionalDate(req.BirthDate, "birth_date"); err != nil {
		return UserResponse{}, err
	}
	if u.DateHired, err = parseOptionalDate(req.DateHired, "date_hired"); err != nil {
		return UserResponse{}, err
	}
	if u.DepartmentID, err = parseOptionalUUID(req.DepartmentID, "department_id"); err != nil {
		return UserResponse{}, err
	}
	if u.PositionID, err = parseOptionalUUID(req.PositionID, "position_id"); err != nil {
		return UserResponse{}, err
	}
	if req.ScheduleGroupID != nil {
		groupID, err := s.checkGroup(ctx, companyID, *req.ScheduleGroupID)
		if err != nil {
			return UserResponse{}, err
		}
		u.ScheduleGroupID = groupID
	}

	if err := qtx.Create(ctx, u); err != nil {
		if isUniqueViolation(err) {
			return UserResponse{}, usererrors.ErrEmployeeIDTaken
		}
		s.logger.Error("create user persist failed", zap.String("request_id", rid), zap.Error(err))
		return UserResponse{}, err
	}

	if err := s.enqueueUserCreated(ctx, tx, u, rid); err != nil {
		return UserResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("user created",
		zap.String("user_id", u.ID.String()),
		zap.String("employee_id", u.EmployeeID),
	)

	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context, companyID string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, companyID, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateUserRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	u.FirstName = req.FirstName
	u.Surname = req.Surname
	if req.Role != "" {
		u.Role = req.Role
	}
	if u.BirthDate, err = parseOptionalDate(req.BirthDate, "birth_date"); err != nil {
		return UserResponse{}, err
	}
	if u.DateHired, err = parseOptionalDate(req.DateHired, "date_hired"); err != nil {
		return UserResponse{}, err
	}
	if u.DepartmentID, err = parseOptionalUUID(req.DepartmentID, "department_id"); err != nil {
		return UserResponse{}, err
	}
	if u.PositionID, err = parseOptionalUUID(req.PositionID, "position_id"); err != nil {
		return UserResponse{}, err
	}

	if err := qtx.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	return mapToResponse(*u), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}
	return nil
}

// AssignSchedule binds or unbinds a user's schedule group. A nil group
// in the request clears the binding; resolution then falls back to the
// built-in defaults.
func (s *service) AssignSchedule(ctx context.Context, companyID, id string, req AssignScheduleRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.ScheduleGroupID == nil {
		u.ScheduleGroupID = nil
	} else {
		groupID, err := s.checkGroup(ctx, companyID, *req.ScheduleGroupID)
		if err != nil {
			return UserResponse{}, err
		}
		u.ScheduleGroupID = groupID
	}

	if err := qtx.Update(ctx, u); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}

	s.logger.Info("schedule binding changed",
		zap.String("user_id", id),
		zap.Any("schedule_group_id", req.ScheduleGroupID),
	)

	return mapToResponse(*u), nil
}

func (s *service) ToggleStatus(ctx context.Context, companyID, id string, isActive bool) error {
	u, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	u.IsActive = isActive
	return s.repo.Update(ctx, u)
}

// ResetPin puts the account back into provisioning state: PIN returns to
// the default and the next login must set a new one.
func (s *service) ResetPin(ctx context.Context, companyID, id string) error {
	u, err := s.repo.FindByID(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return usererrors.ErrUserNotFound
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(ProvisioningPin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.Pin = string(hashed)
	u.FirstLogin = true

	if err := s.repo.Update(ctx, u); err != nil {
		return err
	}

	s.logger.Info("pin reset to provisioning default", zap.String("user_id", id))
	return nil
}

func (s *service) checkGroup(ctx context.Context, companyID, groupID string) (*uuid.UUID, error) {
	parsed, err := uuid.Parse(groupID)
	if err != nil {
		return nil, usererrors.ErrInvalidScheduleGroup
	}
	if s.groups != nil {
		exists, err := s.groups.GroupExists(ctx, companyID, groupID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, usererrors.ErrScheduleGroupNotFound
		}
	}
	return &parsed, nil
}

func (s *service) enqueueUserCreated(ctx context.Context, tx *sql.Tx, u *User, rid string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.UserCreatedEvent{
		EventType:  "user_created",
		RequestID:  rid,
		UserID:     u.ID.String(),
		EmployeeID: u.EmployeeID,
		CompanyID:  u.CompanyID.String(),
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "user",
		AggregateID:   u.ID.String(),
		EventType:     event.EventType,
		Topic:         events.UserCreatedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func parseOptionalDate(s *string, field string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, apperror.InvalidField(field)
	}
	return &parsed, nil
}

func parseOptionalUUID(s *string, field string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(*s)
	if err != nil {
		return nil, apperror.InvalidField(field)
	}
	return &parsed, nil
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:         u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		EmployeeID: u.EmployeeID,
		FirstName:  u.FirstName,
		Surname:    u.Surname,
		FullName:   u.FullName(),
		Role:       u.Role,
		FirstLogin: u.FirstLogin,
		IsActive:   u.IsActive,
		CreatedAt:  u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if u.BirthDate != nil {
		v := u.BirthDate.Format("2006-01-02")
		resp.BirthDate = &v
	}
	if u.DateHired != nil {
		v := u.DateHired.Format("2006-01-02")
		resp.DateHired = &v
	}
	if u.DepartmentID != nil {
		v := u.DepartmentID.String()
		resp.DepartmentID = &v
	}
	if u.Department != nil {
		resp.DepartmentName = u.Department.Name
	}
	if u.PositionID != nil {
		v := u.PositionID.String()
		resp.PositionID = &v
	}
	if u.Position != nil {
		resp.PositionName = u.Position.Name
	}
	if u.ScheduleGroupID != nil {
		v := u.ScheduleGroupID.String()
		resp.ScheduleGroupID = &v
	}
	return resp
}
