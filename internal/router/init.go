package router

import (
	"github.com/oksasatya/lincup/internal/application"
	"github.com/oksasatya/lincup/internal/container"
	"github.com/oksasatya/lincup/internal/infrastructure/search"
	handlers "github.com/oksasatya/lincup/internal/interface/http"
	"github.com/oksasatya/lincup/internal/router/modules"
	"github.com/oksasatya/lincup/pkg/helpers"
)

// Services groups the application services the HTTP modules are built from.
type Services struct {
	Auth    *application.AuthService
	Profile *application.ProfileService
	Catalog *application.CatalogService
}

// BuildServices wires services from the container. Optional infrastructure left nil
// in the container stays a nil interface so services can detect it.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	var pub application.JobPublisher
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	var rec application.Recommender
	if r := container.GetRecommender(); r != nil {
		rec = r
	}
	var index application.CourseIndex
	if es := container.GetES(); es != nil {
		index = search.NewCourseIndex(es, cfg.ESCoursesIndex)
	}
	var uploader application.ObjectUploader
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		uploader = &helpers.GCSUploader{Client: gcs, Bucket: cfg.GCSBucket}
	}

	return Services{
		Auth: application.NewAuthService(
			container.GetUserRepo(),
			container.GetSessions(),
			container.GetJWT(),
			pub,
			application.MailSettings{Enabled: cfg.MailSendEnabled, AppName: cfg.AppName, SupportURL: cfg.SupportURL},
			logger,
		),
		Profile: application.NewProfileService(container.GetUserRepo(), rec, cfg.RecommenderTimeout, logger),
		Catalog: application.NewCatalogService(container.GetCourseRepo(), index, uploader, logger),
	}
}

// InitModules builds all feature modules and registers them with the registry.
// Call once during startup, after the container is populated.
func InitModules(r *Registry, svc Services) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	rdb := container.GetRedis()
	sessions := container.GetSessions()
	jwt := container.GetJWT()

	r.Add(
		modules.NewAuthModule(handlers.NewAuthHandler(svc.Auth, logger, cfg.CookieDomain, cfg.CookieSecure), sessions, jwt, rdb),
		modules.NewProfileModule(handlers.NewProfileHandler(svc.Profile, logger), sessions, jwt, rdb),
		modules.NewCourseModule(handlers.NewCourseHandler(svc.Catalog, logger), sessions, jwt, rdb),
	)
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
