package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duckhub_requests_total",
		Help: "HTTP requests by method and path pattern.",
	}, []string{"method", "path"})

	ratingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "duckhub_ratings_total",
		Help: "Duck ratings submitted.",
	})

	badgeAwardsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duckhub_badge_awards_total",
		Help: "Badges awarded, by badge name.",
	}, []string{"badge"})

	purchasesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "duckhub_purchases_total",
		Help: "Store purchases, by item id.",
	}, []string{"item"})
)
