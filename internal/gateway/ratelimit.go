package gateway

import (
	"net/http"
	"strconv"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/metrics"

	"github.com/rs/zerolog"
)

// RateLimit caps calls per X-Sharer-User-Id. Requests without a valid
// header pass through and are rejected by the route checks. A failing
// limiter lets the request through.
func RateLimit(cfg config.GatewayRateLimitCfg, limiter domain.RateLimiter, logger *zerolog.Logger, next http.Handler) http.Handler {
	if !cfg.Enabled || limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := api.CallerID(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		allowed, err := limiter.CheckRateLimit(r.Context(), userID, cfg.Limit, cfg.Window)
		if err != nil {
			logger.Warn().Err(err).Int64("user_id", userID).Msg("rate limit check failed")
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			metrics.IncRateLimited()
			logger.Debug().Int64("user_id", userID).Msg("rate limit exceeded")
			w.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
