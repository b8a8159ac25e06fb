package linkcalc

import "testing"

func TestConfigApplyDefaults(t *testing.T) {
	cfg := DefaultConfig().ApplyDefaults()
	if len(cfg.From) != 1 || cfg.From[0] != DefaultFrom {
		t.Errorf("From = %v, want [%s]", cfg.From, DefaultFrom)
	}
	if cfg.Output != OutputTable {
		t.Errorf("Output = %q, want table", cfg.Output)
	}
	if !cfg.SeedCommandModule {
		t.Errorf("SeedCommandModule = false, want true by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestConfigKeepsExplicitValues(t *testing.T) {
	cfg := Config{From: []string{"HG5"}, Output: " JSON "}.ApplyDefaults()
	if cfg.From[0] != "HG5" || cfg.Output != OutputJSON {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestConfigValidateRejectsUnknownOutput(t *testing.T) {
	if err := (Config{Output: "xml"}).ApplyDefaults().Validate(); err == nil {
		t.Fatalf("Validate accepted xml output")
	}
}

func TestConfigApplyEnv(t *testing.T) {
	t.Setenv("COMMNET_ANTENNAS_FILE", "/tmp/a.yaml")
	t.Setenv("COMMNET_OUTPUT", "json")
	cfg := Config{DistancesFile: "d.yaml"}.ApplyEnv()
	if cfg.AntennasFile != "/tmp/a.yaml" || cfg.Output != "json" || cfg.DistancesFile != "d.yaml" {
		t.Fatalf("cfg = %+v", cfg)
	}
}
