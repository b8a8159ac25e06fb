package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/commnet-calculator/model"
)

// DefaultCombineExponent applies to records that leave combine_exp unset.
const DefaultCombineExponent = 0.75

// internal YAML shapes. Pointers tell "missing" apart from the zero value;
// unknown keys are ignored.
type antennaRecord struct {
	Name       *string   `yaml:"name"`
	Aliases    *[]string `yaml:"aliases"`
	Power      *float64  `yaml:"power"`
	Combine    *bool     `yaml:"combine"`
	CombineExp *float64  `yaml:"combine_exp"`
	Relay      *bool     `yaml:"relay"`
	IsDSN      *bool     `yaml:"is_dsn"`
}

type distanceRecord struct {
	Section *string  `yaml:"section"`
	Min     *float64 `yaml:"min"`
	Max     *float64 `yaml:"max"`
}

// decodeDocument unmarshals a single YAML (or JSON) sequence into out.
func decodeDocument(source string, data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty document")
		}
		return &DecodeError{Source: source, Index: -1, Err: err}
	}
	return nil
}

func decodeAntennas(data []byte) ([]model.AntennaSpec, error) {
	var records []*antennaRecord
	if err := decodeDocument("antennas", data, &records); err != nil {
		return nil, err
	}

	specs := make([]model.AntennaSpec, 0, len(records))
	for i, rec := range records {
		spec, err := rec.toSpec()
		if err != nil {
			var de *DecodeError
			if errors.As(err, &de) {
				de.Index = i
				return nil, de
			}
			return nil, &DecodeError{Source: "antennas", Index: i, Err: err}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func (r *antennaRecord) toSpec() (model.AntennaSpec, error) {
	missing := func(field string) error {
		return &DecodeError{Source: "antennas", Field: field, Err: errors.New("missing required field")}
	}
	invalid := func(field string, format string, args ...any) error {
		return &DecodeError{Source: "antennas", Field: field, Err: fmt.Errorf(format, args...)}
	}

	if r == nil {
		return model.AntennaSpec{}, &DecodeError{Source: "antennas", Err: errors.New("null record")}
	}
	switch {
	case r.Name == nil:
		return model.AntennaSpec{}, missing("name")
	case r.Aliases == nil:
		return model.AntennaSpec{}, missing("aliases")
	case r.Power == nil:
		return model.AntennaSpec{}, missing("power")
	case r.Combine == nil:
		return model.AntennaSpec{}, missing("combine")
	case r.Relay == nil:
		return model.AntennaSpec{}, missing("relay")
	}

	if *r.Name == "" {
		return model.AntennaSpec{}, invalid("name", "must not be empty")
	}
	if p := *r.Power; p <= 0 || math.IsInf(p, 0) || math.IsNaN(p) {
		return model.AntennaSpec{}, invalid("power", "must be a positive finite number, got %v", p)
	}

	exp := DefaultCombineExponent
	if r.CombineExp != nil {
		exp = *r.CombineExp
		if exp < 0 || exp > 1 || math.IsNaN(exp) {
			return model.AntennaSpec{}, invalid("combine_exp", "must be within [0,1], got %v", exp)
		}
	}

	isDSN := false
	if r.IsDSN != nil {
		isDSN = *r.IsDSN
	}

	return model.AntennaSpec{
		Name:            *r.Name,
		Aliases:         append([]string{}, (*r.Aliases)...),
		Power:           *r.Power,
		Combinable:      *r.Combine,
		CombineExponent: exp,
		Relay:           *r.Relay,
		IsDSN:           isDSN,
	}, nil
}

func decodeDistances(data []byte) ([]model.DistanceBucket, error) {
	var records []*distanceRecord
	if err := decodeDocument("distances", data, &records); err != nil {
		return nil, err
	}

	out := make([]model.DistanceBucket, 0, len(records))
	for i, rec := range records {
		missing := func(field string) error {
			return &DecodeError{Source: "distances", Index: i, Field: field, Err: errors.New("missing required field")}
		}
		switch {
		case rec == nil:
			return nil, &DecodeError{Source: "distances", Index: i, Err: errors.New("null record")}
		case rec.Section == nil:
			return nil, missing("section")
		case rec.Min == nil:
			return nil, missing("min")
		case rec.Max == nil:
			return nil, missing("max")
		}
		out = append(out, model.DistanceBucket{
			Section: *rec.Section,
			Min:     *rec.Min,
			Max:     *rec.Max,
		})
	}
	return out, nil
}
