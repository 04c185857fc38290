package company

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go-timeclock/internal/shared/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// defaultLogos maps well-known company names to their bundled logo
// asset. Companies created without a logo_path fall back to this.
var defaultLogos = map[string]string{
	"ASC":       "img/logos/asc.png",
	"SFGC":      "img/logos/sfgc.png",
	"Accescorp": "img/logos/accescorp.png",
}

const genericLogoPath = "img/logos/generic.png"

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrCompanyNameTaken = apperror.New(
		apperror.CodeDuplicateEntry,
		"company name already in use",
		http.StatusConflict,
	)
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetAll(ctx context.Context) ([]CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c := &Company{
		ID:       uuid.New(),
		Name:     req.Name,
		LogoPath: resolveLogoPath(req.Name, req.LogoPath),
	}

	if err := qtx.Create(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return CompanyResponse{}, ErrCompanyNameTaken
		}
		return CompanyResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	return mapToResponse(*c), nil
}

func (s *service) GetAll(ctx context.Context) ([]CompanyResponse, error) {
	companies, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		resp[i] = mapToResponse(c)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}
	return mapToResponse(*c), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	c, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	c.Name = req.Name
	c.LogoPath = resolveLogoPath(req.Name, req.LogoPath)

	if err := qtx.Update(ctx, c); err != nil {
		if isUniqueViolation(err) {
			return CompanyResponse{}, ErrCompanyNameTaken
		}
		return CompanyResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	return mapToResponse(*c), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCompanyNotFound
		}
		return err
	}
	return nil
}

func resolveLogoPath(name, explicit string) string {
	if explicit != "" {
		return explicit
	}
	if path, ok := defaultLogos[name]; ok {
		return path
	}
	return genericLogoPath
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func mapToResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		LogoPath: c.LogoPath,
	}
}
