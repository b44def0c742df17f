package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/domain/repository"
)

const reportColumns = `id, user_id, category, description, latitude, longitude,
	COALESCE(image_url, ''), status, created_at, updated_at`

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Create inserts the report and its first timeline event atomically.
func (r *ReportRepository) Create(ctx context.Context, rep *entity.Report, first *entity.TimelineEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var imageURL *string
	if rep.ImageURL != "" {
		imageURL = &rep.ImageURL
	}
	row := tx.QueryRow(ctx, `
		INSERT INTO reports (user_id, category, description, latitude, longitude, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, rep.UserID, rep.Category, rep.Description, rep.Latitude, rep.Longitude, imageURL, rep.Status)
	if err := row.Scan(&rep.ID, &rep.CreatedAt, &rep.UpdatedAt); err != nil {
		return err
	}

	first.ReportID = rep.ID
	row = tx.QueryRow(ctx, `
		INSERT INTO report_events (report_id, status, message)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, first.ReportID, first.Status, first.Message)
	if err := row.Scan(&first.ID, &first.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ReportRepository) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	rep := &entity.Report{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE id = $1
	`, id)
	if err := scanReport(row, rep); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rep, nil
}

func (r *ReportRepository) ListByOwner(ctx context.Context, ownerID string, p repository.ListParams) ([]entity.Report, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM reports WHERE user_id = $1`, ownerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := p.OrderBy
	if orderBy == "" {
		orderBy = "created_at DESC"
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		WHERE user_id = $1
		ORDER BY `+orderBy+`
		LIMIT $2 OFFSET $3
	`, ownerID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]entity.Report, 0, p.Limit)
	for rows.Next() {
		var rep entity.Report
		if err := scanReport(rows, &rep); err != nil {
			return nil, 0, err
		}
		out = append(out, rep)
	}
	return out, total, rows.Err()
}

func (r *ReportRepository) ListEvents(ctx context.Context, reportID string) ([]entity.TimelineEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, report_id, status, message, created_at
		FROM report_events
		WHERE report_id = $1
		ORDER BY created_at
	`, reportID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.TimelineEvent
	for rows.Next() {
		var ev entity.TimelineEvent
		if err := rows.Scan(&ev.ID, &ev.ReportID, &ev.Status, &ev.Message, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanReport(row pgx.Row, rep *entity.Report) error {
	return row.Scan(&rep.ID, &rep.UserID, &rep.Category, &rep.Description,
		&rep.Latitude, &rep.Longitude, &rep.ImageURL, &rep.Status,
		&rep.CreatedAt, &rep.UpdatedAt)
}

var _ repository.ReportRepository = (*ReportRepository)(nil)
