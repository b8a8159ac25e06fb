package linkcalc

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/commnet-calculator/core"
	"github.com/signalsfoundry/commnet-calculator/internal/logging"
	"github.com/signalsfoundry/commnet-calculator/internal/observability"
	"github.com/signalsfoundry/commnet-calculator/model"
)

// Side names one end of the link.
type Side string

const (
	SideFrom Side = "from"
	SideTo   Side = "to"
)

// Runner accumulates the two endpoints of a link and evaluates it against a
// distance table. It is not safe for concurrent use; the catalog it reads
// from may be shared.
type Runner struct {
	catalog   *core.Catalog
	distances []model.DistanceBucket

	from *core.Endpoint
	to   *core.Endpoint

	log     logging.Logger
	metrics *observability.CalcCollector
	tracer  trace.Tracer
	seed    bool
}

// Option customises a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default drops everything.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithMetrics records resolutions and calculations on c.
func WithMetrics(c *observability.CalcCollector) Option {
	return func(r *Runner) { r.metrics = c }
}

// WithTracer sets the tracer; the default is the global calculator tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Runner) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithDistances replaces the packaged distance table.
func WithDistances(d []model.DistanceBucket) Option {
	return func(r *Runner) { r.distances = append([]model.DistanceBucket(nil), d...) }
}

// WithCommandModuleSeed controls whether both endpoints start with the
// built-in Command Module. It is on by default.
func WithCommandModuleSeed(seed bool) Option {
	return func(r *Runner) { r.seed = seed }
}

// NewRunner builds a runner over catalog.
func NewRunner(catalog *core.Catalog, opts ...Option) *Runner {
	r := &Runner{
		catalog: catalog,
		log:     logging.Noop(),
		seed:    true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = observability.Tracer()
	}
	if r.distances == nil {
		r.distances = core.DefaultDistances()
	}
	r.from = r.newEndpoint()
	r.to = r.newEndpoint()
	r.metrics.SetCatalogSize(catalog.Len())
	return r
}

func (r *Runner) newEndpoint() *core.Endpoint {
	if r.seed {
		return core.NewVessel()
	}
	return core.NewEndpoint()
}

// AddFrom attaches the antennas named by a "[count:]name" specifier to the
// "from" endpoint.
func (r *Runner) AddFrom(ctx context.Context, specifier string) error {
	return r.add(ctx, SideFrom, r.from, specifier)
}

// AddTo attaches the antennas named by a "[count:]name" specifier to the
// "to" endpoint.
func (r *Runner) AddTo(ctx context.Context, specifier string) error {
	return r.add(ctx, SideTo, r.to, specifier)
}

func (r *Runner) add(ctx context.Context, side Side, e *core.Endpoint, specifier string) error {
	_, span := r.tracer.Start(ctx, "linkcalc.BuildEndpoint", trace.WithAttributes(
		attribute.String("side", string(side)),
		attribute.String("specifier", specifier),
	))
	defer span.End()

	count, name, err := ParseSpecifier(specifier)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	spec, err := r.catalog.Lookup(name)
	r.metrics.ObserveResolution(string(side), err == nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.log.Warn(ctx, "unknown antenna", logging.Side(string(side)), logging.String("name", name))
		return err
	}

	wasDSN := e.IsDSN()
	e.Add(spec, count)
	switch {
	case wasDSN:
		r.log.Debug(ctx, "endpoint is DSN; ignoring antenna",
			logging.Side(string(side)), logging.Antenna(spec.Name, count))
	case spec.IsDSN:
		r.log.Debug(ctx, "DSN antenna replaces endpoint antennas",
			logging.Side(string(side)), logging.Antenna(spec.Name, 1))
	default:
		r.log.Debug(ctx, "antenna added",
			logging.Side(string(side)), logging.Antenna(spec.Name, count))
	}
	span.SetAttributes(attribute.String("antenna", spec.Name), attribute.Int("count", count))
	return nil
}

// Endpoints returns copies of both endpoints as built so far.
func (r *Runner) Endpoints() (from, to *core.Endpoint) {
	return r.from.Clone(), r.to.Clone()
}

// Run evaluates the link. It fails only when an endpoint has no antennas,
// which can happen with the Command Module seed turned off.
func (r *Runner) Run(ctx context.Context) (*Output, error) {
	ctx, span := r.tracer.Start(ctx, "linkcalc.Run")
	defer span.End()
	start := time.Now()

	for _, ep := range []struct {
		side Side
		e    *core.Endpoint
	}{{SideFrom, r.from}, {SideTo, r.to}} {
		if ep.e.IsEmpty() {
			err := fmt.Errorf("%s endpoint: %w", ep.side, core.ErrEmptyEndpoint)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	fromPower := r.from.EffectivePower()
	toPower := r.to.EffectivePower()
	rng := core.RangeBetween(r.from, r.to)

	out := &Output{
		From:           endpointInfo(r.from, fromPower),
		To:             endpointInfo(r.to, toPower),
		MaxDistance:    rng.MaxDistance(),
		CatalogVersion: r.catalog.Version(),
		Strengths:      make([]SignalStrength, 0, len(r.distances)),
	}
	for _, d := range r.distances {
		out.Strengths = append(out.Strengths, SignalStrength{
			Section: d.Section,
			Min:     d.Min,
			Max:     d.Max,
			AtMin:   strength(rng, d.Min),
			AtMax:   strength(rng, d.Max),
		})
	}

	r.metrics.SetEndpointPower(string(SideFrom), fromPower)
	r.metrics.SetEndpointPower(string(SideTo), toPower)
	r.metrics.ObserveCalculation(out.MaxDistance, time.Since(start))

	span.SetAttributes(
		attribute.Float64("max_distance_m", out.MaxDistance),
		attribute.String("from.kind", out.From.Kind),
		attribute.String("to.kind", out.To.Kind),
	)
	r.log.Info(ctx, "link computed",
		logging.Distance("max_distance", out.MaxDistance),
		logging.Float("from_power", fromPower),
		logging.Float("to_power", toPower),
		logging.Int("buckets", len(out.Strengths)),
	)
	return out, nil
}

func strength(r core.Range, d float64) *float64 {
	s, ok := r.StrengthAt(d)
	if !ok {
		return nil
	}
	return &s
}

func endpointInfo(e *core.Endpoint, power float64) EndpointInfo {
	groups := e.Antennas()
	info := EndpointInfo{
		Kind:     e.Kind(),
		Power:    power,
		Antennas: make([]AntennaInfo, 0, len(groups)),
	}
	for _, g := range groups {
		info.Antennas = append(info.Antennas, AntennaInfo{
			Name:  g.Spec.Name,
			Count: g.Count,
			Power: g.Spec.Power,
			Relay: g.Spec.Relay,
		})
	}
	return info
}
