package timeentry

import (
	"context"
	"database/sql"
	"time"

	"go-timeclock/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=timeentry_repo.go -destination=mock/timeentry_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, e *TimeEntry) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error)
	FindByUserAndDate(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error)
	FindAllByCompany(ctx context.Context, companyID string) ([]TimeEntry, error)
	FindAllByCompanyAndUser(ctx context.Context, companyID, userID string) ([]TimeEntry, error)
	FindByCompanyAndDate(ctx context.Context, companyID string, date time.Time) ([]TimeEntry, error)
	FindByCompanyBetween(ctx context.Context, companyID string, from, to time.Time) ([]TimeEntry, error)
	Update(ctx context.Context, e *TimeEntry) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx returns a repository whose statements run on the caller's
// transaction, so an entry update commits atomically with the outbox row.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	txDB := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	txDB.Statement.ConnPool = tx
	return &repository{db: txDB}
}

func (r *repository) Create(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("User").
		Where("id = ?", id).
		First(&e).Error
	return &e, err
}

func (r *repository) FindByUserAndDate(ctx context.Context, companyID, userID string, date time.Time) (*TimeEntry, error) {
	var e TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", userID).
		Where("work_date = ?", date.Format("2006-01-02")).
		First(&e).Error
	return &e, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("User").
		Order("work_date DESC, time_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAllByCompanyAndUser(ctx context.Context, companyID, userID string) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("user_id = ?", userID).
		Order("work_date DESC, time_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByCompanyAndDate(ctx context.Context, companyID string, date time.Time) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("User").
		Where("work_date = ?", date.Format("2006-01-02")).
		Order("time_in DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByCompanyBetween(ctx context.Context, companyID string, from, to time.Time) ([]TimeEntry, error) {
	var rows []TimeEntry
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Preload("User").
		Where("work_date BETWEEN ? AND ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("work_date ASC, time_in ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, e *TimeEntry) error {
	return r.db.WithContext(ctx).Save(e).Error
}
