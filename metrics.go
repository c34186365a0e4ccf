package salesforecaster

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

type metrics struct {
	forecasts *prometheus.CounterVec
	duration  *prometheus.HistogramVec
}

// newMetrics registers the forecast collectors on reg. Collectors already registered by
// another forecaster on the same registry are shared.
func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	forecasts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "salesforecast",
		Name:      "forecasts_total",
		Help:      "Number of forecasts generated by method and outcome.",
	}, []string{"method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "salesforecast",
		Name:      "fit_duration_seconds",
		Help:      "Time spent fitting and forecasting by method.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	}, []string{"method"})

	var err error
	m := &metrics{}
	if m.forecasts, err = register(reg, forecasts); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *metrics) observe(method Method, elapsed time.Duration, err error) {
	outcome := outcomeSuccess
	if err != nil {
		outcome = outcomeFailure
	}
	m.forecasts.WithLabelValues(method.String(), outcome).Inc()
	m.duration.WithLabelValues(method.String()).Observe(elapsed.Seconds())
}
