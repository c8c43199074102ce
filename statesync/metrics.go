package statesync

import "github.com/prometheus/client_golang/prometheus"

var (
	statesyncMtc = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abci_statesync",
			Help: "State sync stats",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(statesyncMtc)
}
