package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	signInsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foyer_visitor_signins_total",
		Help: "Total number of visitor sign-ins",
	})
	signOutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foyer_visitor_signouts_total",
		Help: "Total number of visitor sign-outs",
	})
	notificationsSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foyer_notifications_sent_total",
		Help: "Total number of host notifications delivered",
	})
	notificationsFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "foyer_notifications_failed_total",
		Help: "Total number of host notifications that failed to deliver",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(signInsTotal, signOutsTotal, notificationsSentTotal, notificationsFailedTotal)
}

// IncSignIn increments the visitor sign-in counter.
func IncSignIn() { signInsTotal.Inc() }

// IncSignOut increments the visitor sign-out counter.
func IncSignOut() { signOutsTotal.Inc() }

// IncNotificationSent increments the delivered notifications counter.
func IncNotificationSent() { notificationsSentTotal.Inc() }

// IncNotificationFailed increments the failed notifications counter.
func IncNotificationFailed() { notificationsFailedTotal.Inc() }
