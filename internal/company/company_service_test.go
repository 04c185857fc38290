package company

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, c *Company) error
	findAllFn  func(ctx context.Context) ([]Company, error)
	findByIDFn func(ctx context.Context, id string) (*Company, error)
	updateFn   func(ctx context.Context, c *Company) error
	deleteFn   func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, c *Company) error {
	return f.createFn(ctx, c)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Company, error) {
	return f.findAllFn(ctx)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Company, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, c *Company) error {
	return f.updateFn(ctx, c)
}
func (f *fakeRepo) Delete(ctx context.Context, id string) error {
	return f.deleteFn(ctx, id)
}

func TestService_Create_LogoDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	var created *Company
	repo := &fakeRepo{
		createFn: func(ctx context.Context, c *Company) error {
			created = c
			return nil
		},
	}
	svc := NewService(db, repo)

	t.Run("known name gets its bundled logo", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := svc.Create(context.Background(), CreateCompanyRequest{Name: "SFGC"})
		assert.NoError(t, err)
		assert.Equal(t, "img/logos/sfgc.png", created.LogoPath)
	})

	t.Run("unknown name falls back to generic", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := svc.Create(context.Background(), CreateCompanyRequest{Name: "Acme"})
		assert.NoError(t, err)
		assert.Equal(t, genericLogoPath, created.LogoPath)
	})

	t.Run("explicit logo wins", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectCommit()
		_, err := svc.Create(context.Background(), CreateCompanyRequest{Name: "SFGC", LogoPath: "img/custom.png"})
		assert.NoError(t, err)
		assert.Equal(t, "img/custom.png", created.LogoPath)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_NameTaken(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, c *Company) error {
			return &pgconn.PgError{Code: "23505"}
		},
	}
	svc := NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.Create(context.Background(), CreateCompanyRequest{Name: "ASC"})
	assert.ErrorIs(t, err, ErrCompanyNameTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{
		findByIDFn: func(ctx context.Context, id string) (*Company, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo)

	_, err = svc.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}
