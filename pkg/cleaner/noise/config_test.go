package noise

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name     string
		got      bool
		expected bool
	}{
		{"NormalizeUnicode", cfg.NormalizeUnicode, true},
		{"StripURLs", cfg.StripURLs, true},
		{"StripEmails", cfg.StripEmails, true},
		{"StripCaptions", cfg.StripCaptions, true},
		{"StripBylines", cfg.StripBylines, true},
		{"StripTimestamps", cfg.StripTimestamps, true},
		{"NormalizeAbbreviations", cfg.NormalizeAbbreviations, true},
		{"SplitRunTogether", cfg.SplitRunTogether, true},
		{"DropUIPrefixes", cfg.DropUIPrefixes, true},
		{"DropTimestampSentences", cfg.DropTimestampSentences, true},
		{"DropCaptionSentences", cfg.DropCaptionSentences, true},
		{"DropLinkClusters", cfg.DropLinkClusters, true},
		{"Deduplicate", cfg.Deduplicate, true},
		{"Debug", cfg.Debug, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, tt.got)
			}
		})
	}

	if cfg.MinSentenceLength != DefaultMinSentenceLength {
		t.Errorf("expected MinSentenceLength %d, got %d", DefaultMinSentenceLength, cfg.MinSentenceLength)
	}
}

func TestPreset(t *testing.T) {
	for _, name := range []string{"", "default", "minimal", "strict"} {
		if cfg, ok := Preset(name); !ok || cfg == nil {
			t.Errorf("Preset(%q) not found", name)
		}
	}
	if _, ok := Preset("aggressive"); ok {
		t.Error("expected unknown preset to be rejected")
	}

	minimal := PresetMinimal()
	if minimal.StripTimestamps || minimal.NormalizeAbbreviations {
		t.Error("minimal preset should not strip boilerplate")
	}
	if !minimal.Deduplicate {
		t.Error("minimal preset should deduplicate")
	}

	strict := PresetStrict()
	if len(strict.ExtraPrefixes) == 0 {
		t.Error("strict preset should add extra prefixes")
	}
}

func TestConfig_Merge(t *testing.T) {
	t.Run("nil other returns same config", func(t *testing.T) {
		cfg := PresetMinimal()
		if got := cfg.Merge(nil); got != cfg {
			t.Error("expected same pointer for nil merge")
		}
	})

	t.Run("enables passes and overrides length", func(t *testing.T) {
		base := PresetMinimal()
		merged := base.Merge(&Config{StripTimestamps: true, MinSentenceLength: 50})

		if !merged.StripTimestamps {
			t.Error("expected StripTimestamps enabled")
		}
		if !merged.StripURLs {
			t.Error("expected StripURLs kept from base")
		}
		if merged.MinSentenceLength != 50 {
			t.Errorf("expected MinSentenceLength 50, got %d", merged.MinSentenceLength)
		}
		if base.StripTimestamps {
			t.Error("merge must not modify the receiver")
		}
	})

	t.Run("appends prefixes without duplicates", func(t *testing.T) {
		base := &Config{ExtraPrefixes: []string{"Share"}}
		merged := base.Merge(&Config{ExtraPrefixes: []string{"Share", "Subscribe"}})

		if got := strings.Join(merged.ExtraPrefixes, ","); got != "Share,Subscribe" {
			t.Errorf("ExtraPrefixes = %q, want %q", got, "Share,Subscribe")
		}
		if len(base.ExtraPrefixes) != 1 {
			t.Error("merge must not modify the receiver's prefixes")
		}
	})
}

func TestStats(t *testing.T) {
	s := NewStats()
	s.InputBytes = 200
	s.OutputBytes = 50
	s.SentencesSplit = 6
	s.SentencesKept = 3
	s.DuplicatesRemoved = 1
	s.RecordDrop(DropUIPrefix)
	s.RecordDrop(DropTooShort)
	s.RecordMatch("url", 2)
	s.RecordMatch("email", 0)
	s.TotalDuration = 1500 * time.Microsecond

	if got := s.ReductionPercent(); got != 75 {
		t.Errorf("ReductionPercent() = %v, want 75", got)
	}
	if got := s.TotalDropped(); got != 2 {
		t.Errorf("TotalDropped() = %d, want 2", got)
	}
	if _, ok := s.PatternMatches["email"]; ok {
		t.Error("zero matches should not be recorded")
	}

	out := s.String()
	for _, want := range []string{
		"200 -> 50 bytes (75.0% reduction)",
		"6 split, 2 dropped, 1 duplicates, 3 kept",
		"Dropped by reason: too_short=1, ui_prefix=1",
		"Pattern matches: url=2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("String() missing %q:\n%s", want, out)
		}
	}

	if got := NewStats().ReductionPercent(); got != 0 {
		t.Errorf("empty ReductionPercent() = %v, want 0", got)
	}
}

func TestStats_DurationsInMilliseconds(t *testing.T) {
	s := NewStats()
	s.Passes = 2
	s.StripDuration = 1500 * time.Microsecond
	s.TotalDuration = 3 * time.Millisecond

	data, err := json.Marshal(&Result{Content: "x", Stats: s})
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	for _, want := range []string{`"strip_duration_ms":1.5`, `"total_duration_ms":3`, `"passes":2`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("JSON missing %s: %s", want, data)
		}
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml.Marshal() error = %v", err)
	}
	if !strings.Contains(string(out), "strip_duration_ms: 1.5") {
		t.Errorf("YAML missing milliseconds:\n%s", out)
	}
}

func TestWarning_String(t *testing.T) {
	w := Warning{Phase: "filter", Message: "no sentences survived filtering"}
	if got := w.String(); got != "[filter] no sentences survived filtering" {
		t.Errorf("String() = %q", got)
	}
	w.Context = "x"
	if got := w.String(); !strings.HasSuffix(got, "(context: x)") {
		t.Errorf("String() = %q", got)
	}
}
