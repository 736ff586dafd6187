// Package metrics declares the prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPRequests counts served HTTP requests by method and status code.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kweid_http_requests_total",
	Help: "Number of served HTTP requests, labelled by method and status.",
}, []string{"method", "status"})

// AuthorizationDenied counts denied suite actions by reason code.
var AuthorizationDenied = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "kweid_authorization_denied_total",
	Help: "Number of denied suite actions, labelled by reason code.",
}, []string{"code"})

// SuiteLimitRejections counts suite creations rejected by the
// entitlement guard.
var SuiteLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kweid_suite_limit_rejections_total",
	Help: "Number of suite creations rejected by the subscription limit.",
})

// TrialWritebacks counts trial flag write-backs to storage.
var TrialWritebacks = promauto.NewCounter(prometheus.CounterOpts{
	Name: "kweid_trial_writebacks_total",
	Help: "Number of recomputed trial statuses persisted back to storage.",
})
