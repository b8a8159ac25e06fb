package linkcalc

// Output is the result of one link calculation.
type Output struct {
	From           EndpointInfo     `json:"from"`
	To             EndpointInfo     `json:"to"`
	MaxDistance    float64          `json:"max_distance_m"`
	CatalogVersion string           `json:"catalog_version,omitempty"`
	Strengths      []SignalStrength `json:"signal_strengths"`
}

// EndpointInfo summarises one endpoint.
type EndpointInfo struct {
	Kind     string        `json:"kind"` // "DSN" or "Vessel"
	Power    float64       `json:"effective_power"`
	Antennas []AntennaInfo `json:"antennas"`
}

// AntennaInfo is one antenna group on an endpoint.
type AntennaInfo struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Power float64 `json:"power"`
	Relay bool    `json:"relay"`
}

// SignalStrength holds the strength at both ends of a distance bucket.
// A nil value means no signal.
type SignalStrength struct {
	Section string   `json:"section"`
	Min     float64  `json:"min_m"`
	Max     float64  `json:"max_m"`
	AtMin   *float64 `json:"at_min"`
	AtMax   *float64 `json:"at_max"`
}
