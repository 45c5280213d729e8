package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	repo "github.com/oksasatya/lincup/internal/domain/repository"
	handlers "github.com/oksasatya/lincup/internal/interface/http"
	"github.com/oksasatya/lincup/internal/interface/middleware"
	"github.com/oksasatya/lincup/pkg/helpers"
)

// AuthModule serves account routes.
// Public: register, login, refresh, password reset. Protected: logout, me.
type AuthModule struct {
	Handler  *handlers.AuthHandler
	Sessions repo.SessionStore
	JWT      *helpers.JWTManager
	RDB      *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, sessions repo.SessionStore, jwt *helpers.JWTManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, Sessions: sessions, JWT: jwt, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rg.POST("/auth/register", middleware.RateLimit(m.RDB, middleware.PolicyRegister), m.Handler.Register)
	rg.POST("/auth/login", middleware.RateLimit(m.RDB, middleware.PolicyLogin), m.Handler.Login)
	rg.POST("/auth/refresh", middleware.RateLimit(m.RDB, middleware.PolicyRefresh), m.Handler.Refresh)
	rg.POST("/auth/password/reset", middleware.RateLimit(m.RDB, middleware.PolicyReset), m.Handler.RequestPasswordReset)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	{
		auth.POST("/auth/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
