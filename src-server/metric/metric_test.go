package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveEmail(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveEmail(200*time.Millisecond, "ok")
	m.ObserveEmail(time.Second, "auth")
	m.ObserveEmail(time.Second, "auth")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailsSent.WithLabelValues("ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EmailsSent.WithLabelValues("auth")))
}

func TestMetrics_Sample(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.sample(Sources{
		HeartbeatLatency: func() time.Duration { return 42 * time.Millisecond },
		PendingOrders:    func() int { return 3 },
	})

	assert.Equal(t, 42000.0, testutil.ToFloat64(m.HeartbeatMicros))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PendingOrders))
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
