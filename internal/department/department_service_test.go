package department

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, dept *Department) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]Department, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID string, id string) (*Department, error)
	updateFn             func(ctx context.Context, dept *Department) error
	deleteFn             func(ctx context.Context, companyID string, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, dept *Department) error {
	return f.createFn(ctx, dept)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]Department, error) {
	return f.findAllByCompanyFn(ctx, companyID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Department, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) Update(ctx context.Context, dept *Department) error {
	return f.updateFn(ctx, dept)
}
func (f *fakeRepo) Delete(ctx context.Context, companyID string, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func TestService_SeedStandard(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	companyID := uuid.New()
	var created []string
	repo := &fakeRepo{
		findAllByCompanyFn: func(ctx context.Context, companyID string) ([]Department, error) {
			// Two of the standard names already exist.
			return []Department{
				{ID: uuid.New(), Name: "Finance"},
				{ID: uuid.New(), Name: "Engineering"},
			}, nil
		},
		createFn: func(ctx context.Context, dept *Department) error {
			created = append(created, dept.Name)
			return nil
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err = svc.SeedStandard(context.Background(), companyID.String())
	assert.NoError(t, err)
	assert.Len(t, created, len(StandardDepartments)-2)
	assert.NotContains(t, created, "Finance")
	assert.NotContains(t, created, "Engineering")
	assert.Contains(t, created, "Human Resources")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, companyID string, id string) (*Department, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo)

	_, err = svc.GetByID(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, ErrDepartmentNotFound)
}

func TestService_CreateAndUpdate(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	companyID := uuid.New()
	dept := &Department{ID: uuid.New(), CompanyID: companyID, Name: "Ops"}
	repo := &fakeRepo{
		createFn: func(ctx context.Context, d *Department) error { return nil },
		findByIDAndCompanyFn: func(ctx context.Context, companyID string, id string) (*Department, error) {
			return dept, nil
		},
		updateFn: func(ctx context.Context, d *Department) error { return nil },
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), companyID.String(), CreateDepartmentRequest{Name: "Ops"})
	assert.NoError(t, err)
	assert.Equal(t, "Ops", resp.Name)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Update(context.Background(), companyID.String(), dept.ID.String(), UpdateDepartmentRequest{Name: "Operations"})
	assert.NoError(t, err)
	assert.Equal(t, "Operations", resp.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
