package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/domain/repository"
	"github.com/cityassist/backend/pkg/notify"
)

// ImageStore persists an uploaded report image and returns its URL.
type ImageStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// Notifier publishes report notification jobs. Satisfied by
// helpers.RabbitPublisher.
type Notifier interface {
	PublishJSON(ctx context.Context, body any) error
}

// ReportIndexer mirrors reports into a search index.
type ReportIndexer interface {
	IndexReport(ctx context.Context, rep *entity.Report) error
	Search(ctx context.Context, ownerID, q string, size int) ([]map[string]any, error)
}

type ReportService struct {
	Repo     repository.ReportRepository
	Users    repository.UserRepository
	Images   ImageStore
	Notifier Notifier
	Index    ReportIndexer
	Logger   *logrus.Logger
}

func NewReportService(repo repository.ReportRepository, users repository.UserRepository, images ImageStore, notifier Notifier, index ReportIndexer, logger *logrus.Logger) *ReportService {
	return &ReportService{Repo: repo, Users: users, Images: images, Notifier: notifier, Index: index, Logger: logger}
}

type CreateReportInput struct {
	Category    string
	Description string
	Latitude    float64
	Longitude   float64
}

// ImageUpload carries the optional multipart image part.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// Create persists a new pending report with its initial timeline event,
// then fans out to the search index and the notification queue. The
// fan-out is best-effort; a failure there never fails the request.
func (s *ReportService) Create(ctx context.Context, userID string, in CreateReportInput, image *ImageUpload) (*entity.Report, error) {
	rep := &entity.Report{
		UserID:      userID,
		Category:    in.Category,
		Description: in.Description,
		Latitude:    in.Latitude,
		Longitude:   in.Longitude,
		Status:      entity.ReportStatusPending,
	}

	if image != nil && s.Images != nil {
		url, err := s.uploadImage(ctx, userID, image)
		if err != nil {
			return nil, err
		}
		rep.ImageURL = url
	}

	first := &entity.TimelineEvent{
		Status:  entity.ReportStatusPending,
		Message: "Report submitted",
	}
	if err := s.Repo.Create(ctx, rep, first); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"report_id": rep.ID, "user_id": userID, "category": rep.Category}).Info("report created")

	s.notifyOwner(ctx, rep, first)
	if s.Index != nil {
		if err := s.Index.IndexReport(ctx, rep); err != nil {
			s.Logger.WithError(err).WithField("report_id", rep.ID).Warn("report index failed")
		}
	}
	return rep, nil
}

func (s *ReportService) uploadImage(ctx context.Context, userID string, image *ImageUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(image.Filename))
	objectPath := filepath.ToSlash(filepath.Join("reports", userID, uuid.NewString()+ext))
	url, err := s.Images.Upload(ctx, objectPath, image.ContentType, image.Reader)
	if err != nil {
		return "", fmt.Errorf("upload report image: %w", err)
	}
	return url, nil
}

func (s *ReportService) notifyOwner(ctx context.Context, rep *entity.Report, ev *entity.TimelineEvent) {
	if s.Notifier == nil {
		return
	}
	var email string
	if s.Users != nil {
		if u, err := s.Users.GetByID(ctx, rep.UserID); err == nil {
			email = u.Email
		}
	}
	job := notify.Job{
		UserID:    rep.UserID,
		Email:     email,
		ReportID:  rep.ID,
		Category:  rep.Category,
		Status:    ev.Status,
		Message:   ev.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Notifier.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("report_id", rep.ID).Warn("notify publish failed")
	}
}

// PageRequest is the parsed pageable query. Sort holds the whitelisted
// field name plus direction, e.g. "createdAt,desc".
type PageRequest struct {
	Page int
	Size int
	Sort string
}

// sortColumns maps the API's sort field names onto SQL columns. Only
// whitelisted fields ever reach the ORDER BY clause.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"category":  "category",
	"status":    "status",
}

// NormalizePage clamps paging values and resolves the sort expression,
// falling back to newest-first.
func NormalizePage(p PageRequest) (PageRequest, string) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = 20
	}
	if p.Size > 100 {
		p.Size = 100
	}

	field := "createdAt"
	dir := "desc"
	if p.Sort != "" {
		parts := strings.SplitN(p.Sort, ",", 2)
		if col, ok := sortColumns[parts[0]]; ok && col != "" {
			field = parts[0]
			if len(parts) == 2 && strings.EqualFold(parts[1], "asc") {
				dir = "asc"
			}
		}
	}
	p.Sort = field + "," + dir

	orderBy := sortColumns[field]
	if dir == "desc" {
		orderBy += " DESC"
	}
	// Secondary key keeps pagination stable when the sort field ties.
	if field != "createdAt" {
		orderBy += ", created_at DESC"
	}
	return p, orderBy
}

func (s *ReportService) ListByUser(ctx context.Context, userID string, p PageRequest) ([]entity.Report, int64, PageRequest, error) {
	p, orderBy := NormalizePage(p)
	items, total, err := s.Repo.ListByOwner(ctx, userID, repository.ListParams{
		Limit:   p.Size,
		Offset:  p.Page * p.Size,
		OrderBy: orderBy,
	})
	if err != nil {
		return nil, 0, p, err
	}
	return items, total, p, nil
}

// Get returns the report only when it belongs to userID; a report owned
// by someone else is indistinguishable from a missing one.
func (s *ReportService) Get(ctx context.Context, userID, reportID string) (*entity.Report, error) {
	if uuid.Validate(reportID) != nil {
		return nil, ErrReportNotFound
	}
	rep, err := s.Repo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	if rep.UserID != userID {
		return nil, ErrReportNotFound
	}
	return rep, nil
}

func (s *ReportService) Timeline(ctx context.Context, userID, reportID string) ([]entity.TimelineEvent, error) {
	if _, err := s.Get(ctx, userID, reportID); err != nil {
		return nil, err
	}
	return s.Repo.ListEvents(ctx, reportID)
}

// Search queries the report index scoped to the caller. Without an
// index configured it returns an empty result rather than an error.
func (s *ReportService) Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, userID, q, size)
}
