package repository

import (
	"context"

	"github.com/cityassist/backend/internal/domain/entity"
)

// ListParams controls pagination for report listings. OrderBy must be a
// column reference already vetted by the caller; it is interpolated
// into SQL.
type ListParams struct {
	Limit   int
	Offset  int
	OrderBy string
}

// ReportRepository defines the persistence operations for reports and
// their timeline events.
type ReportRepository interface {
	// Create inserts the report together with its initial timeline
	// event in a single transaction, filling in generated fields.
	Create(ctx context.Context, r *entity.Report, first *entity.TimelineEvent) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	// ListByOwner returns one page of the owner's reports plus the
	// total count across all pages.
	ListByOwner(ctx context.Context, ownerID string, p ListParams) ([]entity.Report, int64, error)
	ListEvents(ctx context.Context, reportID string) ([]entity.TimelineEvent, error)
}
