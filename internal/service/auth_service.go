package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"catalog-console-be/internal/dto"
	"catalog-console-be/internal/entity"
	"catalog-console-be/internal/repository/specification"
	"catalog-console-be/internal/repository/unitofwork"
	"catalog-console-be/pkg/events"
	pktNats "catalog-console-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type IAuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest, ipAddress, userAgent string) (*dto.RefreshResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func hashToken(raw string) string {
	hasher := sha256.New()
	hasher.Write([]byte(raw))
	return hex.EncodeToString(hasher.Sum(nil))
}

func signAccessToken(user *entity.User, expiry time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(expiry)
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    user.Role,
		"exp":     expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Check if user exists
	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}

	// 2. Compare passwords
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. Check if user is blocked
	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	// 4. Generate JWT
	signedToken, expiresAt, err := signAccessToken(user, time.Hour)
	if err != nil {
		return nil, err
	}

	// 5. Issue refresh token, stored hashed
	rawRefreshToken := uuid.New().String()
	refreshTokenEntity := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(rawRefreshToken),
		ExpiresAt: time.Now().Add(time.Hour * 24 * 30),
		Revoked:   false,
		CreatedAt: time.Now(),
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.RefreshTokenRepository().Create(ctx, refreshTokenEntity); err != nil {
		return nil, fmt.Errorf("failed to create session: %v", err)
	}

	// PUBLISH EVENT
	if s.eventPublisher != nil {
		event := events.BaseEvent{
			Type: events.TypeUserLogin,
			Data: map[string]interface{}{
				"user_id": user.Id,
				"device":  userAgent,
				"time":    time.Now().Format(time.RFC822),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_LOGIN event: %v\n", err)
		}
	}

	return &dto.LoginResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
		ExpiresAt:    expiresAt,
		User: dto.UserInfo{
			Id:         user.Id,
			Email:      user.Email,
			FullName:   user.FullName,
			Role:       string(user.Role),
			Department: user.Department,
		},
	}, nil
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshRequest, ipAddress, userAgent string) (*dto.RefreshResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Look up the stored token by hash
	stored, err := uow.RefreshTokenRepository().FindOne(ctx,
		specification.ByTokenHash{Hash: hashToken(req.RefreshToken)},
		specification.UsableRefreshToken{Now: time.Now()},
	)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrInvalidCredentials
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: stored.UserId})
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	// 2. Rotate: revoke the used token, issue a new one
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.RefreshTokenRepository().Revoke(ctx, stored.Id); err != nil {
		return nil, err
	}

	rawRefreshToken := uuid.New().String()
	refreshTokenEntity := &entity.UserRefreshToken{
		Id:        uuid.New(),
		UserId:    user.Id,
		TokenHash: hashToken(rawRefreshToken),
		ExpiresAt: time.Now().Add(time.Hour * 24 * 30),
		Revoked:   false,
		CreatedAt: time.Now(),
		IpAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := uow.RefreshTokenRepository().Create(ctx, refreshTokenEntity); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	signedToken, expiresAt, err := signAccessToken(user, time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.RefreshResponse{
		AccessToken:  signedToken,
		RefreshToken: rawRefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	stored, err := uow.RefreshTokenRepository().FindOne(ctx,
		specification.ByTokenHash{Hash: hashToken(refreshToken)},
	)
	if err != nil || stored == nil {
		return nil
	}
	return uow.RefreshTokenRepository().Revoke(ctx, stored.Id)
}
