package middleware

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/anshupriya0510/EchoSkill-project/internal/request"
)

const defaultRatelimitRate = "5-S"

// RateLimit returns middleware that uses ulule/limiter backed by Redis.
// rate is in ulule's formatted style ("5-S", "100-M"). Uses
// request.ClientIP for the limit key so the limit is per caller, not per
// connection.
func RateLimit(redisClient *redis.Client, rate string) (func(http.Handler) http.Handler, error) {
	if rate == "" {
		rate = defaultRatelimitRate
	}
	parsed, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, err
	}
	instance := limiter.New(store, parsed)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
