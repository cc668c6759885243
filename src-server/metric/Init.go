package metric

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the bot exports.
type Metrics struct {
	OrdersStarted   prometheus.Counter
	OrdersCompleted prometheus.Counter
	OrdersAbandoned prometheus.Counter
	OrdersRejected  *prometheus.CounterVec
	EmailsSent      *prometheus.CounterVec
	EmailSend       prometheus.Histogram
	PendingOrders   prometheus.Gauge
	HeartbeatMicros prometheus.Gauge
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer to
// expose them through promhttp.Handler().
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OrdersStarted: f.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_orders_started_total",
			Help: "Order forms opened with /order_form",
		}),
		OrdersCompleted: f.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_orders_completed_total",
			Help: "Order forms submitted through the last step",
		}),
		OrdersAbandoned: f.NewCounter(prometheus.CounterOpts{
			Name: "orderbot_orders_abandoned_total",
			Help: "Pending orders evicted after sitting idle too long",
		}),
		OrdersRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbot_orders_rejected_total",
			Help: "Order form interactions refused, by reason",
		}, []string{"reason"}),
		EmailsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbot_emails_sent_total",
			Help: "Confirmation email attempts, by result",
		}, []string{"result"}),
		EmailSend: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "orderbot_email_send_seconds",
			Help:    "Duration of one SMTP transaction",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		PendingOrders: f.NewGauge(prometheus.GaugeOpts{
			Name: "orderbot_pending_orders",
			Help: "Order forms currently in progress",
		}),
		HeartbeatMicros: f.NewGauge(prometheus.GaugeOpts{
			Name: "orderbot_discord_heartbeat_latency_microsec",
			Help: "The latency of a discord heartbeat in microseconds",
		}),
	}
}

// ObserveEmail records one send attempt. result is a short label such as
// "ok" or "auth".
func (m *Metrics) ObserveEmail(d time.Duration, result string) {
	m.EmailSend.Observe(d.Seconds())
	m.EmailsSent.WithLabelValues(result).Inc()
}

// Sources are polled by Run on every tick.
type Sources struct {
	HeartbeatLatency func() time.Duration
	PendingOrders    func() int
}

// Run samples the gauges every interval until ctx is done.
func (m *Metrics) Run(ctx context.Context, interval time.Duration, src Sources) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("metric collector stopped")
			return
		case <-ticker.C:
			m.sample(src)
		}
	}
}

func (m *Metrics) sample(src Sources) {
	if src.HeartbeatLatency != nil {
		m.HeartbeatMicros.Set(float64(src.HeartbeatLatency().Microseconds()))
	}
	if src.PendingOrders != nil {
		m.PendingOrders.Set(float64(src.PendingOrders()))
	}
}
