package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CalcCollector bundles Prometheus metrics for link calculations. A CLI run
// has no scrape endpoint, so the registry is dumped with WriteTextfile for a
// node-exporter textfile collector to pick up.
type CalcCollector struct {
	gatherer prometheus.Gatherer

	Calculations        prometheus.Counter
	CalculationDuration prometheus.Histogram
	Resolutions         *prometheus.CounterVec
	MaxRange            prometheus.Histogram
	EndpointPower       *prometheus.GaugeVec
	CatalogAntennas     prometheus.Gauge
}

// NewCalcCollector registers calculation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewCalcCollector(reg prometheus.Registerer) (*CalcCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	calculations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "commnet_calculations_total",
		Help: "Total number of completed link range calculations.",
	}), "commnet_calculations_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "commnet_calculation_duration_seconds",
		Help:    "Wall time spent computing a link and its distance table.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}), "commnet_calculation_duration_seconds")
	if err != nil {
		return nil, err
	}

	resolutions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "commnet_antenna_resolutions_total",
		Help: "Antenna name lookups, labeled by endpoint side and result (ok or unknown).",
	}, []string{"side", "result"}), "commnet_antenna_resolutions_total")
	if err != nil {
		return nil, err
	}

	maxRange, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "commnet_max_range_meters",
		Help:    "Maximum link range of completed calculations in metres.",
		Buckets: prometheus.ExponentialBuckets(1e3, 10, 10),
	}), "commnet_max_range_meters")
	if err != nil {
		return nil, err
	}

	power, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "commnet_endpoint_effective_power",
		Help: "Effective power of the most recently computed endpoints, labeled by side.",
	}, []string{"side"}), "commnet_endpoint_effective_power")
	if err != nil {
		return nil, err
	}

	catalog, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "commnet_catalog_antennas",
		Help: "Number of distinct antennas in the loaded catalog.",
	}), "commnet_catalog_antennas")
	if err != nil {
		return nil, err
	}

	return &CalcCollector{
		gatherer:            gatherer,
		Calculations:        calculations,
		CalculationDuration: duration,
		Resolutions:         resolutions,
		MaxRange:            maxRange,
		EndpointPower:       power,
		CatalogAntennas:     catalog,
	}, nil
}

// ObserveResolution counts one antenna lookup for the given side.
func (c *CalcCollector) ObserveResolution(side string, found bool) {
	if c == nil || c.Resolutions == nil {
		return
	}
	result := "ok"
	if !found {
		result = "unknown"
	}
	c.Resolutions.WithLabelValues(side, result).Inc()
}

// ObserveCalculation records a completed calculation.
func (c *CalcCollector) ObserveCalculation(maxRange float64, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Calculations != nil {
		c.Calculations.Inc()
	}
	if c.CalculationDuration != nil {
		c.CalculationDuration.Observe(elapsed.Seconds())
	}
	if c.MaxRange != nil {
		c.MaxRange.Observe(maxRange)
	}
}

// SetEndpointPower publishes the effective power of one side.
func (c *CalcCollector) SetEndpointPower(side string, power float64) {
	if c == nil || c.EndpointPower == nil {
		return
	}
	c.EndpointPower.WithLabelValues(side).Set(power)
}

// SetCatalogSize publishes the catalog size.
func (c *CalcCollector) SetCatalogSize(n int) {
	if c == nil || c.CatalogAntennas == nil {
		return
	}
	c.CatalogAntennas.Set(float64(n))
}

// Gatherer returns the gatherer backing this collector.
func (c *CalcCollector) Gatherer() prometheus.Gatherer {
	if c == nil || c.gatherer == nil {
		return prometheus.DefaultGatherer
	}
	return c.gatherer
}

// WriteTextfile writes every gathered metric to path in the Prometheus text
// exposition format. The file is replaced atomically.
func (c *CalcCollector) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.Gatherer()); err != nil {
		return fmt.Errorf("write metrics textfile %q: %w", path, err)
	}
	return nil
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
