package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/cityassist/backend/internal/interface/http"
	"github.com/cityassist/backend/internal/interface/middleware"
	"github.com/cityassist/backend/pkg/helpers"
)

// UserModule mounts the authenticated profile and preferences routes.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.BearerAuth(m.JWT))
	auth.Use(
		middleware.RateLimit(m.RDB, 300, time.Minute, middleware.KeyByIP()),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID()),
	)
	{
		auth.GET("/users/profile", m.Handler.GetProfile)
		auth.PUT("/users/profile", m.Handler.UpdateProfile)
		auth.GET("/users/preferences", m.Handler.GetPreferences)
		auth.PUT("/users/preferences", m.Handler.UpdatePreferences)
	}
}
