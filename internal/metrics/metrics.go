// Package metrics exposes the service's Prometheus counters. They are
// registered on the default registry and served through the /metrics
// route in the router.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Logins counts successful logins by role (CUSTOMER or STAFF).
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airline_logins_total",
		Help: "Successful logins by role.",
	}, []string{"role"})

	// Registrations counts successful account registrations by role.
	Registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airline_registrations_total",
		Help: "Successful registrations by role.",
	}, []string{"role"})

	// TicketsSold counts purchased tickets by airline.
	TicketsSold = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "airline_tickets_sold_total",
		Help: "Tickets sold by airline.",
	}, []string{"airline"})
)
