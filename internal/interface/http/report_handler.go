package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cityassist/backend/internal/application"
	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/interface/middleware"
	"github.com/cityassist/backend/pkg/response"
	"github.com/cityassist/backend/pkg/validation"
)

type ReportHandler struct {
	Svc    *application.ReportService
	Logger *logrus.Logger
}

func NewReportHandler(svc *application.ReportService, logger *logrus.Logger) *ReportHandler {
	return &ReportHandler{Svc: svc, Logger: logger}
}

type locationPayload struct {
	Lat float64 `json:"lat" binding:"latitude"`
	Lng float64 `json:"lng" binding:"longitude"`
}

type createReportRequest struct {
	Category    string           `json:"category" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Location    *locationPayload `json:"location" binding:"required"`
}

type reportResponse struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Location    locationPayload `json:"location"`
	ImageURL    string          `json:"image_url,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type timelineEventResponse struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func toReportResponse(r *entity.Report) reportResponse {
	return reportResponse{
		ID:          r.ID,
		Category:    r.Category,
		Description: r.Description,
		Location:    locationPayload{Lat: r.Latitude, Lng: r.Longitude},
		ImageURL:    r.ImageURL,
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Create POST /api/reports
// Multipart form: a required "data" part holding the report JSON and an
// optional "image" file part.
func (h *ReportHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	raw := c.PostForm("data")
	if raw == "" {
		response.Error(c, http.StatusBadRequest, "missing data part", nil)
		return
	}
	var req createReportRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := validation.Validate(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	var image *application.ImageUpload
	if fh, err := c.FormFile("image"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "unreadable image", nil)
			return
		}
		defer func() { _ = f.Close() }()
		image = &application.ImageUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
		}
	}

	rep, err := h.Svc.Create(c.Request.Context(), uid, application.CreateReportInput{
		Category:    req.Category,
		Description: req.Description,
		Latitude:    req.Location.Lat,
		Longitude:   req.Location.Lng, // Location is non-nil past validation
	}, image)
	if err != nil {
		h.Logger.WithError(err).Error("create report failed")
		response.Error(c, http.StatusInternalServerError, "create report failed", nil)
		return
	}
	response.Success(c, http.StatusCreated, toReportResponse(rep), "report created", nil)
}

// List GET /api/reports?page=&size=&sort=
func (h *ReportHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	sort := c.Query("sort")

	items, total, pageReq, err := h.Svc.ListByUser(c.Request.Context(), uid, application.PageRequest{
		Page: page,
		Size: size,
		Sort: sort,
	})
	if err != nil {
		h.Logger.WithError(err).Error("list reports failed")
		response.Error(c, http.StatusInternalServerError, "list reports failed", nil)
		return
	}

	views := make([]reportResponse, 0, len(items))
	for i := range items {
		views = append(views, toReportResponse(&items[i]))
	}
	meta := response.PageMeta{
		Page:          pageReq.Page,
		Size:          pageReq.Size,
		TotalElements: total,
		TotalPages:    int(math.Ceil(float64(total) / float64(pageReq.Size))),
		Sort:          pageReq.Sort,
	}
	response.Success(c, http.StatusOK, views, "reports", meta)
}

// Get GET /api/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	rep, err := h.Svc.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.notFoundOrInternal(c, err, "get report failed")
		return
	}
	response.Success(c, http.StatusOK, toReportResponse(rep), "report", nil)
}

// Timeline GET /api/reports/:id/timeline
func (h *ReportHandler) Timeline(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	events, err := h.Svc.Timeline(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		h.notFoundOrInternal(c, err, "get timeline failed")
		return
	}
	views := make([]timelineEventResponse, 0, len(events))
	for _, ev := range events {
		views = append(views, timelineEventResponse{
			ID:        ev.ID,
			Status:    ev.Status,
			Message:   ev.Message,
			Timestamp: ev.CreatedAt,
		})
	}
	response.Success(c, http.StatusOK, views, "timeline", nil)
}

// Search GET /api/reports/search?q=&size=
func (h *ReportHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	q := c.Query("q")
	if q == "" {
		response.Error(c, http.StatusBadRequest, "missing query", nil)
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), uid, q, size)
	if err != nil {
		h.Logger.WithError(err).Error("search reports failed")
		response.Error(c, http.StatusInternalServerError, "search failed", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

func (h *ReportHandler) notFoundOrInternal(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, application.ErrReportNotFound) {
		response.Error(c, http.StatusNotFound, "report not found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error(c, http.StatusInternalServerError, "internal error", nil)
}
