package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/domain/repository"
)

type UserService struct {
	Repo   repository.UserRepository
	Logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, Logger: logger}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// UpdateProfileInput mirrors the wire shape: Name always overwrites,
// nil pointer fields keep the stored value, a present empty list
// replaces with empty.
type UpdateProfileInput struct {
	Name            string
	Age             *int
	MedicalFlags    *[]string
	CommutePatterns *[]string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.Repo.UpdateProfile(ctx, userID, repository.ProfileUpdate{
		Name:            in.Name,
		Age:             in.Age,
		MedicalFlags:    in.MedicalFlags,
		CommutePatterns: in.CommutePatterns,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"user_id": userID}).Info("profile updated")
	return u, nil
}

// UpdatePreferences overwrites both maps wholesale. Unlike
// UpdateProfile there is no present/absent guard: an empty or omitted
// map clears the stored one.
func (s *UserService) UpdatePreferences(ctx context.Context, userID string, notification, alert map[string]string) error {
	if notification == nil {
		notification = map[string]string{}
	}
	if alert == nil {
		alert = map[string]string{}
	}
	err := s.Repo.ReplacePreferences(ctx, userID, notification, alert)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

type Preferences struct {
	Notification map[string]string
	Alert        map[string]string
}

func (s *UserService) GetPreferences(ctx context.Context, userID string) (*Preferences, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Preferences{
		Notification: orEmptyMap(u.NotificationPreferences),
		Alert:        orEmptyMap(u.AlertPreferences),
	}, nil
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
