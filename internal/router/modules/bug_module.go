package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/bug-tracker-api/internal/container"
	repo "github.com/oksasatya/bug-tracker-api/internal/domain/repository"
	handlers "github.com/oksasatya/bug-tracker-api/internal/interface/http"
	"github.com/oksasatya/bug-tracker-api/internal/interface/middleware"
	"github.com/oksasatya/bug-tracker-api/pkg/helpers"
)

type BugModule struct {
	Handler *handlers.BugHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewBugModule(h *handlers.BugHandler, users repo.UserRepository, jwt *helpers.JWTManager) *BugModule {
	return &BugModule{Handler: h, Users: users, JWT: jwt}
}

func (m *BugModule) Register(rg *gin.RouterGroup) {
	mutateLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.POST("/bugs", mutateLimiter, m.Handler.Create)
		auth.GET("/bugs", m.Handler.List)
		auth.GET("/bugs/stats", m.Handler.Stats)
		auth.GET("/bugs/search", m.Handler.Search)
		auth.GET("/bugs/:id", m.Handler.Get)
		auth.PUT("/bugs/:id", mutateLimiter, m.Handler.Update)
		auth.DELETE("/bugs/:id", mutateLimiter, m.Handler.Delete)
	}
}
