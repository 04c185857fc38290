package auth

import (
	"context"
	"errors"
	"os"
	"regexp"
	"time"

	autherrors "go-timeclock/internal/auth/errors"
	"go-timeclock/internal/user"
	usererrors "go-timeclock/internal/user/errors"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = time.Minute * 15
	refreshTokenTTL = time.Hour * 24 * 7
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	// Login exchanges an employee id and PIN for a token pair. While the
	// account is still on the provisioning PIN the call fails with
	// ErrPinChangeRequired and the terminal runs the set-pin handshake.
	Login(ctx context.Context, req LoginRequest) (accessToken, refreshToken string, resp AuthResponse, err error)

	// SetPin completes the first-login handshake and logs the user in.
	SetPin(ctx context.Context, req SetPinRequest) (accessToken, refreshToken string, resp AuthResponse, err error)

	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)

	GetMe(ctx context.Context, companyID, userID string) (*AuthResponse, error)
}

type service struct {
	users  user.Repository
	logger *zap.Logger
}

func NewService(users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, logger: l}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (string, string, AuthResponse, error) {
	u, err := s.users.FindByEmployeeID(ctx, req.CompanyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		return "", "", AuthResponse{}, err
	}
	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Pin), []byte(req.Pin)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if u.FirstLogin && req.Pin == user.ProvisioningPin {
		return "", "", mapToAuthResponse(*u), autherrors.ErrPinChangeRequired
	}

	return s.issueTokens(*u)
}

func (s *service) SetPin(ctx context.Context, req SetPinRequest) (string, string, AuthResponse, error) {
	if !pinPattern.MatchString(req.NewPin) {
		return "", "", AuthResponse{}, usererrors.ErrInvalidPin
	}

	u, err := s.users.FindByEmployeeID(ctx, req.CompanyID, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
		}
		return "", "", AuthResponse{}, err
	}
	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}
	if !u.FirstLogin {
		return "", "", AuthResponse{}, autherrors.ErrPinNotProvisioning
	}
	if req.NewPin == user.ProvisioningPin {
		return "", "", AuthResponse{}, usererrors.ErrInvalidPin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPin), bcrypt.DefaultCost)
	if err != nil {
		return "", "", AuthResponse{}, err
	}

	u.Pin = string(hashed)
	u.FirstLogin = false
	if err := s.users.Update(ctx, u); err != nil {
		return "", "", AuthResponse{}, err
	}

	s.logger.Info("first-login pin set", zap.String("user_id", u.ID.String()))

	return s.issueTokens(*u)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	companyID, _ := claims["company_id"].(string)
	if userID == "" || companyID == "" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.users.FindByID(ctx, companyID, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrUserNotFound
	}
	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrAccountDisabled
	}

	return s.issueTokens(*u)
}

func (s *service) GetMe(ctx context.Context, companyID, userID string) (*AuthResponse, error) {
	u, err := s.users.FindByID(ctx, companyID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, autherrors.ErrUserNotFound
		}
		return nil, err
	}

	resp := mapToAuthResponse(*u)
	return &resp, nil
}

func (s *service) issueTokens(u user.User) (string, string, AuthResponse, error) {
	accessToken, err := generateToken(u.ID.String(), u.CompanyID.String(), u.Role, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := generateToken(u.ID.String(), u.CompanyID.String(), u.Role, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	return accessToken, refreshToken, mapToAuthResponse(u), nil
}

func generateToken(userID, companyID, role string, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id":    userID,
		"company_id": companyID,
		"role":       role,
		"exp":        time.Now().Add(expiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToAuthResponse(u user.User) AuthResponse {
	return AuthResponse{
		ID:         u.ID.String(),
		CompanyID:  u.CompanyID.String(),
		EmployeeID: u.EmployeeID,
		FullName:   u.FullName(),
		Role:       u.Role,
		FirstLogin: u.FirstLogin,
	}
}
