package scheduler

import (
	"log/slog"
	"time"

	"orderbot/src-server/order"
	"orderbot/src-server/utils"
)

// SweepInterval is how often abandoned orders are looked for: a quarter of
// the max age, capped at 30 minutes.
func SweepInterval(maxAge time.Duration) time.Duration {
	return max(min(maxAge/4, 30*time.Minute), time.Second)
}

// OrderSweep evicts orders idle for longer than MAX_ORDER_AGE_HOURS until
// the app shuts down.
func OrderSweep(as *utils.AppState, interval time.Duration) {
	maxAge := as.Config.GetMaxOrderAge()
	slog.Debug("order sweeper started", "interval", interval, "max_age", maxAge)
	as.Orders.RunSweeper(as.Context(), interval, maxAge, func(o order.Order) {
		as.Metrics.OrdersAbandoned.Inc()
	})
}

// LimiterCleanup drops idle rate limiter buckets every interval.
func LimiterCleanup(as *utils.AppState, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-as.Context().Done():
			return
		case <-ticker.C:
			as.Limiter.Forget()
		}
	}
}
