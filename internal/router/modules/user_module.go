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

type UserModule struct {
	Handler *handlers.UserHandler
	Users   repo.UserRepository
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, users repo.UserRepository, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, Users: users, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/users/register", registerLimiter, m.Handler.Register)
	rg.POST("/users/login", loginLimiter, m.Handler.Login)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Users, m.JWT))
	{
		auth.GET("/users", m.Handler.ListUsers)
		auth.GET("/users/profile", m.Handler.GetProfile)
		auth.PUT("/users/profile", m.Handler.UpdateProfile)
	}
}
