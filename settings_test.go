package paperwhite

import (
	"encoding/json"
	"testing"
)

func TestReaderSettingsClamp(t *testing.T) {
	tests := []struct {
		name string
		in   ReaderSettings
		want ReaderSettings
	}{
		{
			"below range",
			ReaderSettings{Theme: "compact", FontFamily: "system", FontSize: 5, MarginHorizontal: -10, LineHeight: 0.5},
			ReaderSettings{Theme: "compact", FontFamily: "system", FontSize: 14, MarginHorizontal: 0, LineHeight: 1.2},
		},
		{
			"above range",
			ReaderSettings{Theme: "spacious", FontFamily: "bookerly", FontSize: 99, MarginHorizontal: 200, LineHeight: 9},
			ReaderSettings{Theme: "spacious", FontFamily: "bookerly", FontSize: 28, MarginHorizontal: 48, LineHeight: 2.0},
		},
		{
			"unknown enums",
			ReaderSettings{Theme: "huge", FontFamily: "comic-sans", FontSize: 18, MarginHorizontal: 16, LineHeight: 1.6},
			ReaderSettings{Theme: "comfortable", FontFamily: "bookerly", FontSize: 18, MarginHorizontal: 16, LineHeight: 1.6},
		},
	}
	for _, tt := range tests {
		got := tt.in
		got.Clamp()
		if got != tt.want {
			t.Errorf("%s: Clamp() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestReaderSettingsApplyPreset(t *testing.T) {
	s := DefaultReaderSettings()
	s.ApplyPreset("spacious")
	if s.Theme != "spacious" || s.FontSize != 20 || s.MarginHorizontal != 24 || s.LineHeight != 1.8 {
		t.Errorf("spacious preset = %+v", s)
	}
	// Font family is not part of a preset.
	if s.FontFamily != "bookerly" {
		t.Errorf("FontFamily changed by preset: %q", s.FontFamily)
	}

	before := s
	s.ApplyPreset("nonsense")
	if s != before {
		t.Errorf("unknown preset should be a no-op, got %+v", s)
	}
}

func TestWirelessCoupling(t *testing.T) {
	w := DefaultWirelessSettings()
	w.BluetoothEnabled = true

	w.SetAirplaneMode(true)
	if !w.AirplaneMode || w.WifiEnabled || w.BluetoothEnabled {
		t.Errorf("airplane mode should drop radios: %+v", w)
	}

	w.SetWifi(true)
	if w.AirplaneMode {
		t.Error("enabling wifi should clear airplane mode")
	}
	if !w.WifiEnabled {
		t.Error("wifi should be on")
	}

	w.SetAirplaneMode(true)
	w.SetBluetooth(true)
	if w.AirplaneMode {
		t.Error("enabling bluetooth should clear airplane mode")
	}
	if !w.BluetoothEnabled {
		t.Error("bluetooth should be on")
	}
	// Wifi stays off: leaving airplane mode does not re-enable radios.
	if w.WifiEnabled {
		t.Error("wifi should remain off after airplane mode")
	}
}

func TestDeviceStateMergeOverDefaults(t *testing.T) {
	// A stored blob from an older version that only knows fontSize.
	raw := `{"reader":{"fontSize":22}}`
	state := DefaultDeviceState()
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	state.Reader.Clamp()
	if state.Reader.FontSize != 22 {
		t.Errorf("FontSize = %d, want 22", state.Reader.FontSize)
	}
	// Fields absent from the stored blob keep their defaults.
	if state.Reader.Theme != "comfortable" || state.Reader.FontFamily != "bookerly" {
		t.Errorf("defaults not preserved: %+v", state.Reader)
	}
	if !state.Wireless.WifiEnabled {
		t.Error("wireless defaults not preserved")
	}
}
