package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/cityassist/backend/internal/interface/http"
	"github.com/cityassist/backend/internal/interface/middleware"
	"github.com/cityassist/backend/pkg/helpers"
)

// ReportModule mounts the authenticated report routes.
type ReportModule struct {
	Handler *handlers.ReportHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewReportModule(h *handlers.ReportHandler, jwt *helpers.JWTManager, rdb *redis.Client) *ReportModule {
	return &ReportModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *ReportModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.JWT))
	auth.Use(
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP()),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID()),
	)
	{
		// Creation carries an image upload; keep it tighter.
		createLimiter := middleware.RateLimit(m.RDB, 20, time.Minute, middleware.KeyByUserID())
		auth.POST("/reports", createLimiter, m.Handler.Create)
		auth.GET("/reports", m.Handler.List)
		auth.GET("/reports/search", m.Handler.Search)
		auth.GET("/reports/:id", m.Handler.Get)
		auth.GET("/reports/:id/timeline", m.Handler.Timeline)
	}
}
