package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/lincup/internal/interface/middleware"
	"github.com/oksasatya/lincup/pkg/metrics"
)

// DebugModule exposes expvar and Prometheus metrics to private networks only.
type DebugModule struct {
	RDB *redis.Client
}

func NewDebugModule(rdb *redis.Client) *DebugModule { return &DebugModule{RDB: rdb} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	private := middleware.Require(middleware.AllowPrivateIP())
	rl := middleware.RateLimit(m.RDB, middleware.PolicyDebug)
	rg.GET("/debug/vars", private, rl, gin.WrapH(expvar.Handler()))
	rg.GET("/metrics", private, rl, gin.WrapH(metrics.Handler()))
}
