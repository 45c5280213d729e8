package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/lincup/config"
	repo "github.com/oksasatya/lincup/internal/domain/repository"
	"github.com/oksasatya/lincup/internal/infrastructure/recommender"
	"github.com/oksasatya/lincup/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router wires modules from these singletons; optional ones may be nil.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client
	rabbitPub   *helpers.RabbitPublisher
	jwtManager  *helpers.JWTManager
	recClient   *recommender.Client

	users    repo.UserRepository
	courses  repo.CourseRepository
	sessions repo.SessionStore
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetGCS(s *storage.Client)                { gcsClient = s }
func GetGCS() *storage.Client                 { return gcsClient }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetRecommender(c *recommender.Client)    { recClient = c }
func GetRecommender() *recommender.Client     { return recClient }

func SetUserRepo(r repo.UserRepository)     { users = r }
func GetUserRepo() repo.UserRepository      { return users }
func SetCourseRepo(r repo.CourseRepository) { courses = r }
func GetCourseRepo() repo.CourseRepository  { return courses }
func SetSessions(s repo.SessionStore)       { sessions = s }
func GetSessions() repo.SessionStore        { return sessions }
