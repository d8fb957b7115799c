package term

import (
	"testing"

	"github.com/flacpress/flacpress/internal/config"
)

func TestConfigure_Always(t *testing.T) {
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAlways)
	if !Enabled() {
		t.Fatal("Enabled() = false after forcing colors on")
	}
	if Red != escRed || NC != escReset {
		t.Errorf("palette not set: Red = %q, NC = %q", Red, NC)
	}
}

func TestConfigure_Never(t *testing.T) {
	Configure(config.ColorAlways)
	Configure(config.ColorNever)

	if Enabled() {
		t.Fatal("Enabled() = true after disabling colors")
	}
	for name, v := range map[string]string{
		"Red": Red, "Green": Green, "Yellow": Yellow,
		"Blue": Blue, "Cyan": Cyan, "Magenta": Magenta, "NC": NC,
	} {
		if v != "" {
			t.Errorf("%s = %q, want empty when colors are off", name, v)
		}
	}
}

func TestConfigure_AutoWithoutTTY(t *testing.T) {
	// Test binaries run with stdout redirected, so auto must resolve to off.
	t.Cleanup(func() { Configure(config.ColorNever) })

	Configure(config.ColorAuto)
	if Enabled() {
		t.Error("Enabled() = true under auto mode without a terminal")
	}
}

func TestColorVetoed(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "xterm-256color")
	if colorVetoed() {
		t.Error("colorVetoed() = true with no veto in the environment")
	}

	t.Setenv("NO_COLOR", "1")
	if !colorVetoed() {
		t.Error("colorVetoed() = false with NO_COLOR set")
	}

	t.Setenv("NO_COLOR", "")
	t.Setenv("TERM", "dumb")
	if !colorVetoed() {
		t.Error("colorVetoed() = false with TERM=dumb")
	}
}
