package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityassist/backend/internal/domain/entity"
)

func seedUser(t *testing.T, repo *memUserRepo) *entity.User {
	t.Helper()
	age := 34
	u := &entity.User{
		Email:                   "maria@example.com",
		Name:                    "Maria",
		PasswordHash:            "x",
		Age:                     &age,
		MedicalFlags:            []string{"asthma"},
		CommutePatterns:         []string{"weekday-transit"},
		NotificationPreferences: map[string]string{"email": "on"},
		AlertPreferences:        map[string]string{"flood": "high"},
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), testLogger())

	_, err := svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfileKeepsAbsentFields(t *testing.T) {
	repo := newMemUserRepo()
	u := seedUser(t, repo)
	svc := NewUserService(repo, testLogger())

	got, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{Name: "Maria G."})
	require.NoError(t, err)

	assert.Equal(t, "Maria G.", got.Name)
	require.NotNil(t, got.Age)
	assert.Equal(t, 34, *got.Age)
	assert.Equal(t, []string{"asthma"}, got.MedicalFlags)
	assert.Equal(t, []string{"weekday-transit"}, got.CommutePatterns)
}

func TestUpdateProfileReplacesPresentFields(t *testing.T) {
	repo := newMemUserRepo()
	u := seedUser(t, repo)
	svc := NewUserService(repo, testLogger())

	age := 35
	flags := []string{}
	got, err := svc.UpdateProfile(context.Background(), u.ID, UpdateProfileInput{
		Name:         "Maria",
		Age:          &age,
		MedicalFlags: &flags,
	})
	require.NoError(t, err)

	require.NotNil(t, got.Age)
	assert.Equal(t, 35, *got.Age)
	// A present empty list clears, unlike an absent one.
	assert.Empty(t, got.MedicalFlags)
	assert.Equal(t, []string{"weekday-transit"}, got.CommutePatterns)
}

func TestUpdateProfileIsIdempotent(t *testing.T) {
	repo := newMemUserRepo()
	u := seedUser(t, repo)
	svc := NewUserService(repo, testLogger())

	in := UpdateProfileInput{Name: "Maria G."}
	first, err := svc.UpdateProfile(context.Background(), u.ID, in)
	require.NoError(t, err)
	second, err := svc.UpdateProfile(context.Background(), u.ID, in)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, first.Age, second.Age)
	assert.Equal(t, first.MedicalFlags, second.MedicalFlags)
	assert.Equal(t, first.CommutePatterns, second.CommutePatterns)
}

func TestUpdateProfileNotFound(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), testLogger())

	_, err := svc.UpdateProfile(context.Background(), "missing", UpdateProfileInput{Name: "X"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdatePreferencesReplacesWholesale(t *testing.T) {
	repo := newMemUserRepo()
	u := seedUser(t, repo)
	svc := NewUserService(repo, testLogger())

	err := svc.UpdatePreferences(context.Background(), u.ID,
		map[string]string{"sms": "on"}, nil)
	require.NoError(t, err)

	prefs, err := svc.GetPreferences(context.Background(), u.ID)
	require.NoError(t, err)
	// The stored maps are gone entirely, not merged.
	assert.Equal(t, map[string]string{"sms": "on"}, prefs.Notification)
	assert.NotNil(t, prefs.Alert)
	assert.Empty(t, prefs.Alert)
}

func TestUpdatePreferencesEmptyClears(t *testing.T) {
	repo := newMemUserRepo()
	u := seedUser(t, repo)
	svc := NewUserService(repo, testLogger())

	err := svc.UpdatePreferences(context.Background(), u.ID, map[string]string{}, map[string]string{})
	require.NoError(t, err)

	prefs, err := svc.GetPreferences(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, prefs.Notification)
	assert.Empty(t, prefs.Alert)
}

func TestUpdatePreferencesNotFound(t *testing.T) {
	svc := NewUserService(newMemUserRepo(), testLogger())

	err := svc.UpdatePreferences(context.Background(), "missing", nil, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
