package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/cityassist/backend/internal/application"
	"github.com/cityassist/backend/internal/domain/entity"
	"github.com/cityassist/backend/internal/interface/middleware"
	"github.com/cityassist/backend/pkg/response"
	"github.com/cityassist/backend/pkg/validation"
)

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	Name            string    `json:"name" binding:"required"`
	Age             *int      `json:"age" binding:"omitempty,gte=0,lte=150"`
	MedicalFlags    *[]string `json:"medical_flags"`
	CommutePatterns *[]string `json:"commute_patterns"`
}

type preferencesRequest struct {
	NotificationPreferences map[string]string `json:"notification_preferences"`
	AlertPreferences        map[string]string `json:"alert_preferences"`
}

// profileResponse is the outward profile view. The password hash never
// appears here.
type profileResponse struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Age             *int      `json:"age"`
	MedicalFlags    []string  `json:"medical_flags"`
	CommutePatterns []string  `json:"commute_patterns"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toProfileResponse(u *entity.User) profileResponse {
	flags := u.MedicalFlags
	if flags == nil {
		flags = []string{}
	}
	patterns := u.CommutePatterns
	if patterns == nil {
		patterns = []string{}
	}
	return profileResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Age:             u.Age,
		MedicalFlags:    flags,
		CommutePatterns: patterns,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// GetProfile GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	u, err := h.Svc.GetProfile(c.Request.Context(), uid)
	if err != nil {
		h.notFoundOrInternal(c, err, "get profile failed")
		return
	}
	response.Success(c, http.StatusOK, toProfileResponse(u), "profile", nil)
}

// UpdateProfile PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.UpdateProfile(c.Request.Context(), uid, application.UpdateProfileInput{
		Name:            req.Name,
		Age:             req.Age,
		MedicalFlags:    req.MedicalFlags,
		CommutePatterns: req.CommutePatterns,
	})
	if err != nil {
		h.notFoundOrInternal(c, err, "update profile failed")
		return
	}
	response.Success(c, http.StatusOK, toProfileResponse(u), "profile updated", nil)
}

// GetPreferences GET /api/users/preferences
func (h *UserHandler) GetPreferences(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	p, err := h.Svc.GetPreferences(c.Request.Context(), uid)
	if err != nil {
		h.notFoundOrInternal(c, err, "get preferences failed")
		return
	}
	response.Success(c, http.StatusOK, preferencesRequest{
		NotificationPreferences: p.Notification,
		AlertPreferences:        p.Alert,
	}, "preferences", nil)
}

// UpdatePreferences PUT /api/users/preferences
// Both maps are replaced wholesale with whatever was supplied; omitting
// a map clears it, unlike the profile update's only-if-present rule.
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	var req preferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.UpdatePreferences(c.Request.Context(), uid, req.NotificationPreferences, req.AlertPreferences); err != nil {
		h.notFoundOrInternal(c, err, "update preferences failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true}, "preferences updated", nil)
}

func (h *UserHandler) notFoundOrInternal(c *gin.Context, err error, logMsg string) {
	if errors.Is(err, application.ErrUserNotFound) {
		response.Error(c, http.StatusNotFound, "user not found", nil)
		return
	}
	h.Logger.WithError(err).Error(logMsg)
	response.Error(c, http.StatusInternalServerError, "internal error", nil)
}
