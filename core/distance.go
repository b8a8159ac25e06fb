package core

import (
	"bytes"
	_ "embed"
	"io"

	"github.com/signalsfoundry/commnet-calculator/model"
)

var (
	//go:embed data/antennas.yaml
	embeddedAntennas []byte

	//go:embed data/distances.yaml
	embeddedDistances []byte
)

// DefaultCatalog returns a catalog loaded with the packaged antenna set.
// The packaged data is validated by tests, so a decode failure here is a
// build defect and panics.
func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(bytes.NewReader(embeddedAntennas))
	if err != nil {
		panic(err)
	}
	return c
}

// DefaultDistances returns the packaged distance table in file order.
func DefaultDistances() []model.DistanceBucket {
	d, err := decodeDistances(embeddedDistances)
	if err != nil {
		panic(err)
	}
	return d
}

// LoadDistances decodes a distance table. Buckets are query points only and
// are not checked against each other.
func LoadDistances(r io.Reader) ([]model.DistanceBucket, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecodeError{Source: "distances", Index: -1, Err: err}
	}
	return decodeDistances(data)
}
