package entity

import (
	"time"
)

// User is the aggregate root for the user domain. PasswordHash holds a
// bcrypt hash and must never leave the service through a DTO.
type User struct {
	ID                      string
	Email                   string
	Name                    string
	PasswordHash            string
	Age                     *int
	MedicalFlags            []string
	CommutePatterns         []string
	NotificationPreferences map[string]string
	AlertPreferences        map[string]string
	CreatedAt               time.Time
	UpdatedAt               time.Time
}
