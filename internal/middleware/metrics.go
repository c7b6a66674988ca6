package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts failed Redis commands by command name. redis.Nil misses
// are not errors and are excluded at the hook.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campuslink_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// QuarantinedSubmissions counts payloads diverted to the quarantine store.
var QuarantinedSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "campuslink_quarantined_submissions_total",
	Help: "Total number of submissions rejected by the admission gate.",
}, []string{"kind"})
