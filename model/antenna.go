package model

// AntennaSpec describes one antenna part as it appears in the reference
// catalog. Specs are immutable once loaded.
type AntennaSpec struct {
	Name    string
	Aliases []string

	// Power is the nominal transmission power. Always positive.
	Power float64

	// Combinable marks antennas whose extra units add power. A
	// non-combinable antenna behaves as if CombineExponent were 0.
	Combinable bool
	// CombineExponent is in [0,1]; 0 means stacking gives nothing,
	// 1 means units add linearly.
	CombineExponent float64

	// Relay is informational only; it plays no part in the range math.
	Relay bool
	// IsDSN marks ground-station antennas. A DSN antenna always defines
	// its endpoint on its own.
	IsDSN bool
}

// EffectiveExponent returns the exponent used when combining this antenna
// with others on the same endpoint.
func (a AntennaSpec) EffectiveExponent() float64 {
	if !a.Combinable {
		return 0
	}
	return a.CombineExponent
}

// AntennaCount is a spec together with how many units of it are attached.
type AntennaCount struct {
	Spec  AntennaSpec
	Count int
}

// DistanceBucket is a named distance interval in metres, used only as a
// pair of query points against a computed range.
type DistanceBucket struct {
	Section string
	Min     float64
	Max     float64
}
