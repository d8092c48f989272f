package headtracker

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/headcast-ar/headcast/rimage"
)

func TestConfigDefaults(t *testing.T) {
	cfg, err := NewConfigFromJSON([]byte(`{"max_markers": 4, "alignment": {"ratio": 2}}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.MaxMarkers, test.ShouldEqual, 4)
	test.That(t, cfg.MinConfidence, test.ShouldEqual, 0.6)
	test.That(t, cfg.DepthOffset, test.ShouldEqual, 0.1)
	test.That(t, cfg.Alignment.Ratio, test.ShouldEqual, 2.0)
	test.That(t, cfg.Alignment.DepthWidth, test.ShouldEqual, 544)

	interval, err := cfg.Interval()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, interval, test.ShouldEqual, 300*time.Millisecond)
	test.That(t, cfg.Validate("tracker"), test.ShouldBeNil)

	commented, err := NewConfigFromJSON([]byte(`{
		// two heads at most
		"max_markers": 2,
	}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, commented.MaxMarkers, test.ShouldEqual, 2)

	_, err = NewConfigFromJSON([]byte(`{"max_markers": "four"}`))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.json")
	test.That(t, os.WriteFile(path, []byte(`{"update_interval": "1s"}`), 0o600), test.ShouldBeNil)
	cfg, err := NewConfigFromJSONFile(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.UpdateInterval, test.ShouldEqual, "1s")

	_, err = NewConfigFromJSONFile(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.UpdateInterval = ""
	test.That(t, cfg.Validate("tracker"), test.ShouldBeError, `error validating "tracker": "update_interval" is required`)

	cfg = DefaultConfig()
	cfg.UpdateInterval = "soon"
	test.That(t, cfg.Validate("tracker"), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.MaxMarkers = 0
	test.That(t, cfg.Validate("tracker").Error(), test.ShouldContainSubstring, "max_markers must be positive")

	cfg = DefaultConfig()
	cfg.MinConfidence = 1
	test.That(t, cfg.Validate("tracker").Error(), test.ShouldContainSubstring, "max_confidence")

	cfg = DefaultConfig()
	cfg.DepthOffset = -1
	test.That(t, cfg.Validate("tracker"), test.ShouldNotBeNil)

	cfg = DefaultConfig()
	cfg.Alignment = rimage.AlignmentConfig{}
	test.That(t, cfg.Validate("tracker").Error(), test.ShouldContainSubstring, "tracker.alignment")
}
