// Package metrics exposes Prometheus collectors: request-level counters for
// the HTTP layer and platform gauges refreshed by a background updater.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ossi-austria/amigo-server-sub000/internal/domain"
	"github.com/ossi-austria/amigo-server-sub000/internal/repository"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "amigo_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "amigo_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	accountsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amigo_accounts_total",
		Help: "Number of registered accounts.",
	})
	groupsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amigo_groups_total",
		Help: "Number of groups.",
	})
	personsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "amigo_persons_total",
		Help: "Number of persons across all groups.",
	})
	callsGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "amigo_calls_total",
		Help: "Number of calls by lifecycle state.",
	}, []string{"state"})
)

// Register adds all collectors to the registry. Call once at startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(RequestsTotal, RequestDuration, accountsGauge, groupsGauge, personsGauge, callsGauge)
}

// Updater refreshes the platform gauges from repository counts.
type Updater struct {
	accounts repository.AccountsRepository
	groups   repository.GroupsRepository
	persons  repository.PersonsRepository
	calls    repository.CallsRepository
	interval time.Duration
	log      *zap.Logger
}

func NewUpdater(
	accounts repository.AccountsRepository,
	groups repository.GroupsRepository,
	persons repository.PersonsRepository,
	calls repository.CallsRepository,
	interval time.Duration,
	log *zap.Logger,
) *Updater {
	return &Updater{
		accounts: accounts,
		groups:   groups,
		persons:  persons,
		calls:    calls,
		interval: interval,
		log:      log,
	}
}

// Run refreshes the gauges on a fixed interval until ctx is cancelled.
func (u *Updater) Run(ctx context.Context) {
	ticker := time.NewTicker(u.interval)
	defer ticker.Stop()

	u.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			u.log.Info("metrics updater stopped")
			return
		case <-ticker.C:
			u.refresh(ctx)
		}
	}
}

// allCallStates keeps every state series present so disappearing calls reset
// their gauge to zero.
var allCallStates = []domain.CallState{
	domain.CallStateCreated,
	domain.CallStateCalling,
	domain.CallStateAccepted,
	domain.CallStateDenied,
	domain.CallStateCancelled,
	domain.CallStateFinished,
	domain.CallStateTimeout,
}

func (u *Updater) refresh(ctx context.Context) {
	if n, err := u.accounts.CountAccounts(ctx); err == nil {
		accountsGauge.Set(float64(n))
	} else {
		u.log.Warn("failed to count accounts", zap.Error(err))
	}
	if n, err := u.groups.CountGroups(ctx); err == nil {
		groupsGauge.Set(float64(n))
	} else {
		u.log.Warn("failed to count groups", zap.Error(err))
	}
	if n, err := u.persons.CountPersons(ctx); err == nil {
		personsGauge.Set(float64(n))
	} else {
		u.log.Warn("failed to count persons", zap.Error(err))
	}
	counts, err := u.calls.CountCallsByState(ctx)
	if err != nil {
		u.log.Warn("failed to count calls", zap.Error(err))
		return
	}
	for _, state := range allCallStates {
		callsGauge.WithLabelValues(string(state)).Set(float64(counts[state]))
	}
}
