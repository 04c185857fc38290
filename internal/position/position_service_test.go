package position

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn             func(ctx context.Context, p *Position) error
	findAllByCompanyFn   func(ctx context.Context, companyID string) ([]Position, error)
	findByIDAndCompanyFn func(ctx context.Context, companyID string, id string) (*Position, error)
	updateFn             func(ctx context.Context, p *Position) error
	deleteFn             func(ctx context.Context, companyID string, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, p *Position) error {
	return f.createFn(ctx, p)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string) ([]Position, error) {
	return f.findAllByCompanyFn(ctx, companyID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID string, id string) (*Position, error) {
	return f.findByIDAndCompanyFn(ctx, companyID, id)
}
func (f *fakeRepo) Update(ctx context.Context, p *Position) error {
	return f.updateFn(ctx, p)
}
func (f *fakeRepo) Delete(ctx context.Context, companyID string, id string) error {
	return f.deleteFn(ctx, companyID, id)
}

func TestService_GetAll_CachesMasterData(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()
	companyID := uuid.New()
	cacheKey := GetPositionAllKey(companyID.String())

	positions := []Position{{
		ID:           uuid.New(),
		CompanyID:    companyID,
		DepartmentID: uuid.New(),
		Name:         "Payroll Officer",
	}}
	var repoCalls int
	repo := &fakeRepo{
		findAllByCompanyFn: func(ctx context.Context, companyID string) ([]Position, error) {
			repoCalls++
			return positions, nil
		},
	}

	expected := mapToListResponse(positions)
	payload, err := json.Marshal(expected)
	assert.NoError(t, err)

	redisMock.ExpectGet(cacheKey).RedisNil()
	redisMock.ExpectSet(cacheKey, payload, 30*time.Minute).SetVal("OK")
	redisMock.ExpectGet(cacheKey).SetVal(string(payload))

	svc := NewService(db, repo, rdb)

	first, err := svc.GetAll(context.Background(), companyID.String())
	assert.NoError(t, err)
	assert.Equal(t, expected, first)

	second, err := svc.GetAll(context.Background(), companyID.String())
	assert.NoError(t, err)
	assert.Equal(t, expected, second)

	assert.Equal(t, 1, repoCalls)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_Create_InvalidatesCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()
	companyID := uuid.New()

	repo := &fakeRepo{
		createFn: func(ctx context.Context, p *Position) error { return nil },
	}
	svc := NewService(db, repo, rdb)

	mock.ExpectBegin()
	mock.ExpectCommit()
	redisMock.ExpectDel(GetPositionAllKey(companyID.String())).SetVal(1)

	_, err = svc.Create(context.Background(), companyID.String(), CreatePositionRequest{
		Name:         "Cashier",
		DepartmentID: uuid.NewString(),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestService_GetByID_NotFound(t *testing.T) {
	db, _, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := &fakeRepo{
		findByIDAndCompanyFn: func(ctx context.Context, companyID string, id string) (*Position, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := NewService(db, repo, nil)

	_, err = svc.GetByID(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, ErrPositionNotFound)
}
