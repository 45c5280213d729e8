package container

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	repo "github.com/oksasatya/lincup/internal/domain/repository"
	"github.com/oksasatya/lincup/internal/infrastructure/kvstore"
	"github.com/oksasatya/lincup/internal/infrastructure/session"
	pginfra "github.com/oksasatya/lincup/internal/infrastructure/postgres"
)

const (
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	// DriverMemory keeps everything in process; for local runs and demos without postgres or redis
	DriverMemory = "memory"
)

// NewRepositories returns the user and course repositories for the configured storage driver.
func NewRepositories(driver string, pool *pgxpool.Pool, rdb *redis.Client, keyPrefix string) (repo.UserRepository, repo.CourseRepository, error) {
	switch driver {
	case DriverPostgres:
		if pool == nil {
			return nil, nil, fmt.Errorf("storage driver %q needs a postgres pool", driver)
		}
		return pginfra.NewUserRepository(pool), pginfra.NewCourseRepository(pool), nil
	case DriverRedis:
		if rdb == nil {
			return nil, nil, fmt.Errorf("storage driver %q needs a redis client", driver)
		}
		store := kvstore.NewRedisStore(rdb, keyPrefix)
		return kvstore.NewUserRepository(store), kvstore.NewCourseRepository(store), nil
	case DriverMemory:
		store := kvstore.NewMemoryStore()
		return kvstore.NewUserRepository(store), kvstore.NewCourseRepository(store), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}

// NewSessionStore uses redis when a client is available and a process-local store otherwise.
func NewSessionStore(rdb *redis.Client, ttl time.Duration) repo.SessionStore {
	if rdb == nil {
		return session.NewMemoryStore()
	}
	return session.NewRedisStore(rdb, ttl)
}
