package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	repo "github.com/oksasatya/lincup/internal/domain/repository"
	handlers "github.com/oksasatya/lincup/internal/interface/http"
	"github.com/oksasatya/lincup/internal/interface/middleware"
	"github.com/oksasatya/lincup/pkg/helpers"
)

// CourseModule serves the course catalog. All routes require a session.
type CourseModule struct {
	Handler  *handlers.CourseHandler
	Sessions repo.SessionStore
	JWT      *helpers.JWTManager
	RDB      *redis.Client
}

func NewCourseModule(h *handlers.CourseHandler, sessions repo.SessionStore, jwt *helpers.JWTManager, rdb *redis.Client) *CourseModule {
	return &CourseModule{Handler: h, Sessions: sessions, JWT: jwt, RDB: rdb}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.Sessions, m.JWT))
	auth.Use(middleware.RateLimit(m.RDB, middleware.PolicyCatalog))
	{
		auth.GET("/courses", m.Handler.List)
		auth.GET("/courses/suggest", m.Handler.Suggest)
		auth.GET("/courses/:id", m.Handler.Get)
		auth.POST("/courses", m.Handler.Create)
		auth.POST("/courses/export", middleware.RateLimit(m.RDB, middleware.PolicyExport), m.Handler.Export)
		auth.POST("/courses/:id/reviews", m.Handler.AddReview)
	}
}
