package core

import (
	"math"
	"sort"

	"github.com/signalsfoundry/commnet-calculator/model"
)

// Kind labels reported for endpoints.
const (
	KindDSN    = "DSN"
	KindVessel = "Vessel"
)

// Endpoint is one side of a link. It is either an open accumulator of
// (spec, count) entries or, once a DSN antenna is added, locked to that
// single antenna. Further adds to a locked endpoint do nothing.
//
// The zero value is an empty, unlocked endpoint.
type Endpoint struct {
	entries []model.AntennaCount

	// dsn is non-nil once locked; entries is nil from then on.
	dsn *model.AntennaSpec
}

// NewEndpoint returns an endpoint with no antennas.
func NewEndpoint() *Endpoint {
	return &Endpoint{}
}

// NewVessel returns an endpoint seeded with the built-in Command Module.
func NewVessel() *Endpoint {
	e := &Endpoint{}
	e.Add(CommandModule(), 1)
	return e
}

// Add attaches count units of spec. A DSN spec replaces everything attached
// so far with one unit of itself, whatever count says, and locks the
// endpoint. Otherwise a count below 1 is a no-op.
//
// Units merge into an existing entry only when its spec carries the same
// parameters; a same-named spec with different power or exponent gets its
// own entry.
func (e *Endpoint) Add(spec model.AntennaSpec, count int) {
	if e.dsn != nil {
		return
	}
	if spec.IsDSN {
		s := spec
		e.dsn = &s
		e.entries = nil
		return
	}
	if count < 1 {
		return
	}
	for i := range e.entries {
		if sameAntenna(e.entries[i].Spec, spec) {
			e.entries[i].Count += count
			return
		}
	}
	e.entries = append(e.entries, model.AntennaCount{Spec: spec, Count: count})
}

func sameAntenna(a, b model.AntennaSpec) bool {
	return a.Name == b.Name &&
		a.Power == b.Power &&
		a.Combinable == b.Combinable &&
		a.CombineExponent == b.CombineExponent &&
		a.Relay == b.Relay
}

// IsDSN reports whether a DSN antenna has locked the endpoint.
func (e *Endpoint) IsDSN() bool { return e.dsn != nil }

// Kind is "DSN" for locked endpoints and "Vessel" otherwise.
func (e *Endpoint) Kind() string {
	if e.IsDSN() {
		return KindDSN
	}
	return KindVessel
}

// Len returns the number of physical antenna units attached.
func (e *Endpoint) Len() int {
	if e.dsn != nil {
		return 1
	}
	n := 0
	for _, ac := range e.entries {
		n += ac.Count
	}
	return n
}

// IsEmpty reports whether no antenna is attached.
func (e *Endpoint) IsEmpty() bool { return e.Len() == 0 }

// Antennas groups the attached units by antenna name, ordered by name.
func (e *Endpoint) Antennas() []model.AntennaCount {
	if e.dsn != nil {
		return []model.AntennaCount{{Spec: *e.dsn, Count: 1}}
	}
	out := append([]model.AntennaCount(nil), e.entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Spec.Name < out[j].Spec.Name })
	return out
}

// Clone returns an independent copy of the endpoint.
func (e *Endpoint) Clone() *Endpoint {
	c := &Endpoint{entries: append([]model.AntennaCount(nil), e.entries...)}
	if e.dsn != nil {
		s := *e.dsn
		c.dsn = &s
	}
	return c
}

// EffectivePower combines the attached antennas:
//
//	P_max * (P_sum / P_max) ^ E
//
// where P_max is the strongest single unit, P_sum the sum over every unit,
// and E the power-weighted mean of the units' combine exponents.
//
// Calling it on an empty endpoint is a programming error and panics with
// ErrEmptyEndpoint. Loaded specs always have positive power; hand-built
// specs with zero power yield 0.
func (e *Endpoint) EffectivePower() float64 {
	if e.dsn != nil {
		return e.dsn.Power
	}
	if len(e.entries) == 0 {
		panic(ErrEmptyEndpoint)
	}

	var strongest, sum, weighted float64
	for _, ac := range e.entries {
		p := ac.Spec.Power
		if p > strongest {
			strongest = p
		}
		units := p * float64(ac.Count)
		sum += units
		weighted += units * ac.Spec.EffectiveExponent()
	}
	if strongest <= 0 {
		return 0
	}
	return strongest * math.Pow(sum/strongest, weighted/sum)
}

// RangeTo is shorthand for RangeBetween(e, other).
func (e *Endpoint) RangeTo(other *Endpoint) Range {
	return RangeBetween(e, other)
}
