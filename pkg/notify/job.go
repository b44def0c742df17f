package notify

import "time"

// Job is the JSON payload put on the RabbitMQ queue when a report
// changes. The worker resolves the recipient's preferences before
// sending anything.
type Job struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ReportID  string    `json:"report_id"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
