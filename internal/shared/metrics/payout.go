package metrics

import "github.com/prometheus/client_golang/prometheus"

// Payout agrupa os coletores do payout-worker
type Payout struct {
	Settled    prometheus.Counter
	Failed     *prometheus.CounterVec
	QueueDepth prometheus.Gauge
	Duration   prometheus.Histogram

	Consumed       prometheus.Counter
	ConsumerErrors *prometheus.CounterVec
}

// NewPayout cria e registra os coletores no registry informado
func NewPayout(reg prometheus.Registerer) *Payout {
	m := &Payout{
		Settled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payout_settled_total",
			Help: "apostas liquidadas com sucesso",
		}),
		Failed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payout_failed_total",
			Help: "liquidações descartadas por estágio",
		}, []string{"stage"}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "payout_queue_depth",
			Help: "apostas aguardando liquidação",
		}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "payout_settle_duration_seconds",
			Help:    "tempo de cálculo + commit de uma liquidação",
			Buckets: prometheus.DefBuckets,
		}),
		Consumed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "payout_bet_closed_consumed_total",
			Help: "mensagens bet_closed consumidas",
		}),
		ConsumerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payout_consumer_errors_total",
			Help: "erros do consumer por fase",
		}, []string{"phase"}),
	}
	reg.MustRegister(m.Settled, m.Failed, m.QueueDepth, m.Duration, m.Consumed, m.ConsumerErrors)
	return m
}
