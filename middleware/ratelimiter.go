package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/33kotidham/admin-gateway/utils"
)

// RateLimiter limits requests per client IP. Backed by Redis so limits
// hold across replicas; falls back to an in-memory store when Redis is
// not up.
func RateLimiter() gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  200,
	}

	var store limiter.Store
	if utils.RedisClient != nil {
		s, err := sredis.NewStoreWithOptions(utils.RedisClient, limiter.StoreOptions{
			Prefix: "admin_gateway_rl",
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis limiter store unavailable, using memory store")
			store = memory.NewStore()
		} else {
			store = s
		}
	} else {
		store = memory.NewStore()
	}

	return ginlimiter.NewMiddleware(limiter.New(store, rate))
}
