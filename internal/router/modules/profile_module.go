package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	repo "github.com/oksasatya/lincup/internal/domain/repository"
	handlers "github.com/oksasatya/lincup/internal/interface/http"
	"github.com/oksasatya/lincup/internal/interface/middleware"
	"github.com/oksasatya/lincup/pkg/helpers"
)

type ProfileModule struct {
	Handler  *handlers.ProfileHandler
	Sessions repo.SessionStore
	JWT      *helpers.JWTManager
	RDB      *redis.Client
}

func NewProfileModule(h *handlers.ProfileHandler, sessions repo.SessionStore, jwt *helpers.JWTManager, rdb *redis.Client) *ProfileModule {
	return &ProfileModule{Handler: h, Sessions: sessions, JWT: jwt, RDB: rdb}
}

func (m *ProfileModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	{
		// each submission may call the generative model
		auth.POST("/me/profile", middleware.RateLimit(m.RDB, middleware.PolicyProfile), m.Handler.SubmitProfile)
		auth.GET("/clubs", m.Handler.Clubs)
	}
}
