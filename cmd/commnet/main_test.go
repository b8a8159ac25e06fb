package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv keeps developer settings from leaking into CLI tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"COMMNET_ANTENNAS_FILE",
		"COMMNET_DISTANCES_FILE",
		"COMMNET_OUTPUT",
		"COMMNET_METRICS_FILE",
		"COMMNET_TRACING_ENABLED",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("COMMNET_LOG_LEVEL", "error")
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_DefaultTable(t *testing.T) {
	clearEnv(t)
	code, out, errOut := runCLI(t, "-to", "2:16")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errOut)
	}
	for _, want := range []string{
		"From:\n    DSN:\n        DSN Lv.3\n",
		"To:\n    Vessel:\n        Command Module\n        2x Communotron 16\n",
		"Max distance: ",
		"|          Section          |   @Min   |   @Max   |\n",
		"| Low Kerbin Orbit          |",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_ListAntennas(t *testing.T) {
	clearEnv(t)
	code, out, errOut := runCLI(t, "-antennas")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errOut)
	}
	for _, want := range []string{"Available antennas:", "Communotron 16", "Command Module", "catalog version: "} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q:\n%s", want, out)
		}
	}
}

func TestRun_UnknownAntennaSuggests(t *testing.T) {
	clearEnv(t)
	code, out, errOut := runCLI(t, "-to", "Communotron 61")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing", out)
	}
	if !strings.HasPrefix(errOut, "Error: unknown antenna: Communotron 61") {
		t.Errorf("stderr = %q", errOut)
	}
	if !strings.Contains(errOut, "did you mean") {
		t.Errorf("stderr has no suggestion: %q", errOut)
	}
}

func TestRun_JSONAndMetricsFile(t *testing.T) {
	clearEnv(t)
	metricsPath := filepath.Join(t.TempDir(), "commnet.prom")

	code, out, errOut := runCLI(t, "-from", "DSN1", "-to", "HG5", "-output", "JSON", "-metrics-file", metricsPath)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errOut)
	}

	var decoded struct {
		From struct {
			Kind string `json:"kind"`
		} `json:"from"`
		MaxDistance float64 `json:"max_distance_m"`
		Strengths   []any   `json:"signal_strengths"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if decoded.From.Kind != "DSN" || decoded.MaxDistance <= 0 || len(decoded.Strengths) == 0 {
		t.Errorf("decoded = %+v", decoded)
	}

	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("read metrics file: %v", err)
	}
	if !strings.Contains(string(data), "commnet_calculations_total 1") {
		t.Errorf("metrics file missing calculation counter:\n%s", data)
	}
}

func TestRun_CustomFiles(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	antennas := filepath.Join(dir, "antennas.yaml")
	distances := filepath.Join(dir, "distances.yaml")
	if err := os.WriteFile(antennas, []byte(`
- {name: Dish, aliases: [D], power: 1e6, combine: true, relay: false}
`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(distances, []byte(`
- {section: Nowhere, min: 0, max: 1e12}
`), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("COMMNET_DISTANCES_FILE", distances)

	code, out, errOut := runCLI(t,
		"-antennas-file", antennas,
		"-seed-command-module=false",
		"-from", "D", "-to", "D",
	)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr:\n%s", code, errOut)
	}
	if !strings.Contains(out, "Max distance: 1.00 Mm\n") {
		t.Errorf("unexpected max distance:\n%s", out)
	}
	if !strings.Contains(out, "| Nowhere                   |  100.0 % |       NA |\n") {
		t.Errorf("unexpected table:\n%s", out)
	}
}

func TestRun_EmptyEndpointWithoutSeed(t *testing.T) {
	clearEnv(t)
	code, _, errOut := runCLI(t, "-seed-command-module=false")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut, "to endpoint") {
		t.Errorf("stderr = %q, want the empty side named", errOut)
	}
}

func TestRun_BadInputs(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown output", []string{"-output", "xml"}, 1},
		{"bad specifier", []string{"-to", "-2:16"}, 1},
		{"missing file", []string{"-antennas-file", filepath.Join(t.TempDir(), "missing.yaml")}, 1},
		{"positional args", []string{"extra"}, 2},
		{"unknown flag", []string{"-nope"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out, _ := runCLI(t, tt.args...)
			if code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
			if out != "" {
				t.Errorf("stdout = %q, want nothing", out)
			}
		})
	}
}
