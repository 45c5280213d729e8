package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/oksasatya/lincup/config"
	"github.com/oksasatya/lincup/internal/application"
	"github.com/oksasatya/lincup/internal/container"
	"github.com/oksasatya/lincup/internal/domain/entity"
	repo "github.com/oksasatya/lincup/internal/domain/repository"
	pginfra "github.com/oksasatya/lincup/internal/infrastructure/postgres"
	"github.com/oksasatya/lincup/pkg/helpers"
)

type seedCourse struct {
	name, code string
	reviews    []application.ReviewInput
}

var demoCourses = []seedCourse{
	{"Introduction to Psychology", "PSYC 001", []application.ReviewInput{
		{Professor: "Dr. Reed", CourseLoad: entity.CourseLoadLight, IsAttendanceMandatory: true, Rating: 5, Experience: "Engaging lectures and fair exams."},
		{Professor: "Dr. Reed", CourseLoad: entity.CourseLoadMedium, HasExam: true, Rating: 4, Experience: "Lots of reading but worth it."},
	}},
	{"Data Structures", "CSE 017", []application.ReviewInput{
		{Professor: "Dr. Kim", CourseLoad: entity.CourseLoadHeavy, HasExam: true, Rating: 3, Experience: "Weekly projects keep you busy."},
	}},
	{"Organic Chemistry", "CHM 110", []application.ReviewInput{
		{Professor: "Dr. Patel", CourseLoad: entity.CourseLoadHeavy, HasExam: true, IsAttendanceMandatory: true, Rating: 2, Experience: "Brutal pace."},
		{Professor: "Dr. Patel", CourseLoad: entity.CourseLoadHeavy, HasExam: true, Rating: 1, Experience: "Start studying on day one."},
	}},
	{"Calculus I", "MATH 021", []application.ReviewInput{
		{Professor: "Dr. Lopez", CourseLoad: entity.CourseLoadMedium, HasExam: true, Rating: 4, Experience: "Clear explanations."},
	}},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)
	ctx := context.Background()

	rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil && cfg.StorageDriver == container.DriverRedis {
		logger.WithError(err).Fatal("failed to connect to redis")
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}
	if cfg.StorageDriver == container.DriverPostgres {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to postgres")
		}
		defer pool.Close()
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			logger.WithError(err).Fatal("migration failed")
		}
		container.SetPGPool(pool)
	}

	users, courses, err := container.NewRepositories(cfg.StorageDriver, container.GetPGPool(), rdb, "")
	if err != nil {
		logger.WithError(err).Fatal("storage")
	}

	email := "demo@lehigh.edu"
	password := "password123"
	if _, err := users.GetByEmail(ctx, email); errors.Is(err, repo.ErrNotFound) {
		hash, err := helpers.HashPassword(password)
		if err != nil {
			logger.WithError(err).Fatal("failed to hash password")
		}
		u := &entity.User{Email: email, PasswordHash: hash}
		if err := users.Create(ctx, u); err != nil {
			logger.WithError(err).Fatal("failed to seed user")
		}
		fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)
	} else if err != nil {
		logger.WithError(err).Fatal("failed to look up demo user")
	} else {
		fmt.Printf("demo user %s already exists\n", email)
	}

	existing, err := courses.List(ctx)
	if err != nil {
		logger.WithError(err).Fatal("failed to list courses")
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[c.Code] = true
	}

	catalog := application.NewCatalogService(courses, nil, nil, logger)
	for _, sc := range demoCourses {
		if seen[sc.code] {
			continue
		}
		sum, err := catalog.AddCourse(ctx, application.NewCourseInput{Name: sc.name, Code: sc.code, FirstReview: sc.reviews[0]})
		if err != nil {
			logger.WithError(err).Fatalf("failed to seed course %s", sc.code)
		}
		for _, rv := range sc.reviews[1:] {
			if sum, err = catalog.AddReview(ctx, sum.Course.ID, rv); err != nil {
				logger.WithError(err).Fatalf("failed to seed review for %s", sc.code)
			}
		}
		fmt.Printf("seeded course %s (%s): %d reviews, mean %s\n", sc.code, sc.name, sum.ReviewCount, sum.MeanDisplay)
	}
}
