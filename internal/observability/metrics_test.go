package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestCalcCollectorRecordsCalculation(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCalcCollector(reg)
	if err != nil {
		t.Fatalf("NewCalcCollector: %v", err)
	}

	collector.ObserveResolution("from", true)
	collector.ObserveResolution("to", true)
	collector.ObserveResolution("to", false)
	collector.ObserveCalculation(3162.28, 2*time.Millisecond)

	if got := testutil.ToFloat64(collector.Calculations); got != 1 {
		t.Fatalf("commnet_calculations_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Resolutions.WithLabelValues("to", "unknown")); got != 1 {
		t.Fatalf("unknown resolutions for side=to = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.Resolutions.WithLabelValues("from", "ok")); got != 1 {
		t.Fatalf("ok resolutions for side=from = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "commnet_max_range_meters", nil); count != 1 {
		t.Fatalf("commnet_max_range_meters sample_count = %d, want 1", count)
	}
}

func TestCalcCollectorReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCalcCollector(reg)
	if err != nil {
		t.Fatalf("NewCalcCollector: %v", err)
	}
	second, err := NewCalcCollector(reg)
	if err != nil {
		t.Fatalf("second NewCalcCollector: %v", err)
	}

	first.ObserveCalculation(1, time.Millisecond)
	second.ObserveCalculation(1, time.Millisecond)

	if got := testutil.ToFloat64(first.Calculations); got != 2 {
		t.Fatalf("shared counter = %v, want 2", got)
	}
}

func TestCalcCollectorNilIsSafe(t *testing.T) {
	var c *CalcCollector
	c.ObserveResolution("from", true)
	c.ObserveCalculation(1, time.Second)
	c.SetEndpointPower("from", 1)
	c.SetCatalogSize(3)
}

func TestWriteTextfileExposesGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCalcCollector(reg)
	if err != nil {
		t.Fatalf("NewCalcCollector: %v", err)
	}
	collector.SetCatalogSize(13)
	collector.SetEndpointPower("from", 5000)

	path := filepath.Join(t.TempDir(), "commnet.prom")
	if err := collector.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	body := string(data)
	for _, want := range []string{
		"commnet_catalog_antennas 13",
		`commnet_endpoint_effective_power{side="from"} 5000`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in textfile output:\n%s", want, body)
		}
	}
}

func TestWriteTextfileEmptyPathIsNoop(t *testing.T) {
	collector, err := NewCalcCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewCalcCollector: %v", err)
	}
	if err := collector.WriteTextfile(""); err != nil {
		t.Fatalf("WriteTextfile(\"\") = %v, want nil", err)
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
