package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/domain/repository"
	"github.com/cityassist/backend/pkg/helpers"
)

// dummyHash is compared against on the unknown-email path so a login
// miss costs roughly the same as a password mismatch.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type AuthService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger}
}

type RegisterInput struct {
	Email           string
	Password        string
	Name            string
	Age             *int
	MedicalFlags    []string
	CommutePatterns []string
}

// AuthResult is returned by all three auth flows. Email and Name are
// empty on refresh, which does not re-read the user row.
type AuthResult struct {
	UserID             string
	Email              string
	Name               string
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// Register creates the user and issues the first token pair. The
// ExistsByEmail pre-check and the store's unique constraint both map to
// ErrEmailTaken; the constraint settles concurrent duplicates.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	exists, err := s.Repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		Email:                   in.Email,
		Name:                    in.Name,
		PasswordHash:            hash,
		Age:                     in.Age,
		MedicalFlags:            orEmptySlice(in.MedicalFlags),
		CommutePatterns:         orEmptySlice(in.CommutePatterns),
		NotificationPreferences: map[string]string{},
		AlertPreferences:        map[string]string{},
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("user registered")

	return s.issue(u.ID, u.Email, u.Name)
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			helpers.CompareHashAndPassword(dummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(u.ID, u.Email, u.Name)
}

// Refresh validates the refresh token and rotates the pair. The prior
// refresh token is not revoked and stays usable until its own expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(claims.UserID, "", "")
}

func (s *AuthService) issue(userID, email, name string) (*AuthResult, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("generate access token failed")
		return nil, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Error("generate refresh token failed")
		return nil, err
	}
	return &AuthResult{
		UserID:             userID,
		Email:              email,
		Name:               name,
		AccessToken:        access,
		AccessTokenExpiry:  aexp,
		RefreshToken:       refresh,
		RefreshTokenExpiry: rexp,
	}, nil
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
