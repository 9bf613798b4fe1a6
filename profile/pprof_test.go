package profile

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestModes(t *testing.T) {
	modes := Modes()

	if !slices.IsSorted(modes) {
		t.Errorf("Modes() not sorted: %v", modes)
	}

	for _, want := range []string{"cpu", "heap", "trace"} {
		if !slices.Contains(modes, want) {
			t.Errorf("Modes() missing %q", want)
		}
	}
}

func TestConfig_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero", Config{}},
		{"unknown", Make(WithMode("gpu"))},
		{"nil option", Make(nil, WithPath(t.TempDir()))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cfg.Enabled() {
				t.Fatal("Enabled() = true")
			}

			s := tt.cfg.Start()
			if _, ok := s.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", s)
			}

			s.Stop()
		})
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := Make(WithMode("heap"), WithPath("/tmp/p"), WithQuiet(true))

	if !cfg.Enabled() {
		t.Fatal("Enabled() = false")
	}

	if got := len(cfg.options()); got != 3 {
		t.Errorf("options() has %d entries, want 3", got)
	}

	if got := len(Make(WithMode("cpu")).options()); got != 1 {
		t.Errorf("options() without path has %d entries, want 1", got)
	}
}

func TestConfig_Start_WritesProfile(t *testing.T) {
	dir := t.TempDir()
	cfg := Config{Mode: "heap", Path: dir, Quiet: true, NoShutdownHook: true}

	cfg.Start().Stop()

	if _, err := os.Stat(filepath.Join(dir, "mem.pprof")); err != nil {
		t.Errorf("profile not written: %v", err)
	}
}
