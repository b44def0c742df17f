package entity

import "time"

// Report statuses, in lifecycle order. A report starts as pending; the
// history of status changes lives in its timeline events.
const (
	ReportStatusPending    = "pending"
	ReportStatusInProgress = "in_progress"
	ReportStatusResolved   = "resolved"
	ReportStatusClosed     = "closed"
)

// Report is a civic issue filed by a user. Reports are read-only for
// the owner after creation; progress is appended as timeline events.
type Report struct {
	ID          string
	UserID      string
	Category    string
	Description string
	Latitude    float64
	Longitude   float64
	ImageURL    string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TimelineEvent is one append-only entry in a report's history.
type TimelineEvent struct {
	ID        string
	ReportID  string
	Status    string
	Message   string
	CreatedAt time.Time
}
