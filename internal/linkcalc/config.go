// Package linkcalc wires the antenna catalog, endpoint model and range model
// into a single link calculation, the way the command line drives it.
package linkcalc

import (
	"fmt"
	"os"
	"strings"
)

// DefaultFrom is used for the "from" side when the caller gives no antennas.
const DefaultFrom = "DSN Lv.3"

// Output formats understood by the report package.
const (
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds the resolved settings for one run.
type Config struct {
	// From and To are "[count:]name" antenna specifiers.
	From []string
	To   []string

	// AntennasFile and DistancesFile replace the packaged reference data
	// when set.
	AntennasFile  string
	DistancesFile string

	// Output is "table" or "json".
	Output string

	// MetricsFile, when set, receives a Prometheus textfile dump.
	MetricsFile string

	// SeedCommandModule starts both endpoints with the built-in Command
	// Module antenna. The zero Config leaves it off; DefaultConfig turns it on.
	SeedCommandModule bool
}

// DefaultConfig returns the settings used when no flags are given.
func DefaultConfig() Config {
	return Config{SeedCommandModule: true}
}

// ApplyEnv fills unset file and output settings from COMMNET_* variables.
func (c Config) ApplyEnv() Config {
	if c.AntennasFile == "" {
		c.AntennasFile = os.Getenv("COMMNET_ANTENNAS_FILE")
	}
	if c.DistancesFile == "" {
		c.DistancesFile = os.Getenv("COMMNET_DISTANCES_FILE")
	}
	if c.Output == "" {
		c.Output = os.Getenv("COMMNET_OUTPUT")
	}
	if c.MetricsFile == "" {
		c.MetricsFile = os.Getenv("COMMNET_METRICS_FILE")
	}
	return c
}

// ApplyDefaults fills in values that are empty.
// An empty From list becomes DefaultFrom and an empty output format "table".
func (c Config) ApplyDefaults() Config {
	if len(c.From) == 0 {
		c.From = []string{DefaultFrom}
	}
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if c.Output == "" {
		c.Output = OutputTable
	}
	return c
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	switch c.Output {
	case OutputTable, OutputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want %q or %q)", c.Output, OutputTable, OutputJSON)
	}
}
