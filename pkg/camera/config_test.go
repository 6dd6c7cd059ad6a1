package camera

import "testing"

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if errs := cfg.Validate(); len(errs) > 0 {
		t.Errorf("default config invalid: %v", errs)
	}
	if cfg.Width != 640 || cfg.Height != 480 || cfg.Framerate != 30 {
		t.Errorf("unexpected default: %+v", cfg)
	}
}

func TestPresetsValid(t *testing.T) {
	for _, name := range PresetNames() {
		t.Run(name, func(t *testing.T) {
			cfg := GetPreset(name)
			if cfg == nil {
				t.Fatal("preset missing")
			}
			if errs := cfg.Validate(); len(errs) > 0 {
				t.Errorf("invalid: %v", errs)
			}
		})
	}
	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}
}

func TestValidateRejects(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 10
	cfg.Quality = 0
	if errs := cfg.Validate(); len(errs) != 2 {
		t.Errorf("expected 2 errors, got %v", errs)
	}
}

func TestAspect(t *testing.T) {
	if a := DefaultConfig().Aspect(); a < 1.333 || a > 1.334 {
		t.Errorf("got %.4f, want 4:3", a)
	}
	if a := (Config{}).Aspect(); a < 1.333 || a > 1.334 {
		t.Errorf("zero config: got %.4f", a)
	}
}
