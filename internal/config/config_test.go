package config

import (
	"os"
	"path/filepath"
	"testing"
)

const schemaPath = "../../schemas/bench.cue"

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bench.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeConfig(t, `
algorithms: [cubic, vegas]
profiles:
  - name: profile_1
    description: LTE (Low Latency)
    delay_ms: 5
    downlink_trace: traces/lte.down
    uplink_trace: traces/lte.up
timeout_seconds: 30
`)

	cfg, err := Load(path, schemaPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if len(cfg.Algorithms) != 2 || cfg.Algorithms[0] != "cubic" {
		t.Errorf("unexpected algorithms: %+v", cfg.Algorithms)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0].DelayMS != 5 {
		t.Errorf("unexpected profiles: %+v", cfg.Profiles)
	}
	if cfg.ResultsRoot != "." {
		t.Errorf("results root default = %q, want .", cfg.ResultsRoot)
	}
	if cfg.Runner.Command != "python3" {
		t.Errorf("runner default = %q, want python3", cfg.Runner.Command)
	}
	if cfg.Timeout().Seconds() != 30 {
		t.Errorf("timeout = %v, want 30s", cfg.Timeout())
	}
}

func TestLoadConfig_SchemaViolation(t *testing.T) {
	path := writeConfig(t, `
algorithms: [cubic]
profiles:
  - name: profile_1
    delay_ms: -4
    downlink_trace: traces/lte.down
    uplink_trace: traces/lte.up
`)

	if _, err := Load(path, schemaPath); err == nil {
		t.Fatal("Load() accepted negative delay_ms")
	}
}

func TestCheck(t *testing.T) {
	valid := func() BenchConfig {
		return BenchConfig{
			Algorithms: []string{"cubic"},
			Profiles: []Profile{
				{Name: "profile_1", UplinkTrace: "u", DownlinkTrace: "d"},
			},
		}
	}

	cases := []struct {
		name    string
		mutate  func(*BenchConfig)
		wantErr bool
	}{
		{"valid", func(c *BenchConfig) {}, false},
		{"empty algorithms", func(c *BenchConfig) { c.Algorithms = nil }, true},
		{"empty profiles", func(c *BenchConfig) { c.Profiles = nil }, true},
		{"duplicate algorithm", func(c *BenchConfig) { c.Algorithms = []string{"cubic", "cubic"} }, true},
		{"duplicate profile", func(c *BenchConfig) {
			c.Profiles = append(c.Profiles, c.Profiles[0])
		}, true},
		{"missing trace", func(c *BenchConfig) { c.Profiles[0].UplinkTrace = "" }, true},
		{"negative timeout", func(c *BenchConfig) { c.TimeoutSeconds = -1 }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Check()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Check() err = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
