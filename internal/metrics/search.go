package metrics

import "github.com/prometheus/client_golang/prometheus"

// searchesTotal counts executed searches by record kind.
var searchesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "marketd",
		Name:      "searches_total",
		Help:      "Total number of executed searches",
	},
	[]string{"kind"},
)

func init() {
	prometheus.MustRegister(searchesTotal)
}

// ObserveSearch records one executed search for a record kind.
func ObserveSearch(kind string) {
	searchesTotal.WithLabelValues(kind).Inc()
}
