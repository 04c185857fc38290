package announcement

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"go-timeclock/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAnnouncementNotFound = apperror.New(
	apperror.CodeNotFound,
	"announcement not found",
	http.StatusNotFound,
)

//go:generate mockgen -source=announcement_service.go -destination=mock/announcement_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, companyID string, req CreateAnnouncementRequest) (AnnouncementResponse, error)
	GetAll(ctx context.Context, companyID string, postedOnly bool) ([]AnnouncementResponse, error)
	Update(ctx context.Context, companyID, id string, req UpdateAnnouncementRequest) (AnnouncementResponse, error)
	SetPosted(ctx context.Context, companyID, id string, posted bool) (AnnouncementResponse, error)
	Delete(ctx context.Context, companyID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, companyID string, req CreateAnnouncementRequest) (AnnouncementResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AnnouncementResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a := &Announcement{
		ID:        uuid.New(),
		CompanyID: uuid.MustParse(companyID),
		Content:   req.Content,
	}

	if err := qtx.Create(ctx, a); err != nil {
		return AnnouncementResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AnnouncementResponse{}, err
	}

	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, companyID string, postedOnly bool) ([]AnnouncementResponse, error) {
	rows, err := s.repo.FindAllByCompany(ctx, companyID, postedOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]AnnouncementResponse, len(rows))
	for i, a := range rows {
		resp[i] = mapToResponse(a)
	}
	return resp, nil
}

func (s *service) Update(ctx context.Context, companyID, id string, req UpdateAnnouncementRequest) (AnnouncementResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AnnouncementResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return AnnouncementResponse{}, err
	}

	a.Content = req.Content

	if err := qtx.Update(ctx, a); err != nil {
		return AnnouncementResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AnnouncementResponse{}, err
	}

	return mapToResponse(*a), nil
}

func (s *service) SetPosted(ctx context.Context, companyID, id string, posted bool) (AnnouncementResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AnnouncementResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AnnouncementResponse{}, ErrAnnouncementNotFound
		}
		return AnnouncementResponse{}, err
	}

	a.Posted = posted

	if err := qtx.Update(ctx, a); err != nil {
		return AnnouncementResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AnnouncementResponse{}, err
	}

	return mapToResponse(*a), nil
}

func (s *service) Delete(ctx context.Context, companyID, id string) error {
	if err := s.repo.Delete(ctx, companyID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAnnouncementNotFound
		}
		return err
	}
	return nil
}

func mapToResponse(a Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:        a.ID.String(),
		CompanyID: a.CompanyID.String(),
		Content:   a.Content,
		Posted:    a.Posted,
		CreatedAt: a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
