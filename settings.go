package paperwhite

import (
	"encoding/json"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

// ReaderSettings controls the typography of the reading surface. Values
// are clamped to the ranges the device frame can actually render.
type ReaderSettings struct {
	Theme            string  `json:"theme"`            // compact | comfortable | spacious
	FontSize         int     `json:"fontSize"`         // px, 14-28
	FontFamily       string  `json:"fontFamily"`       // bookerly | amazon-ember | noto-serif | system
	MarginHorizontal int     `json:"marginHorizontal"` // px, 0-48
	LineHeight       float64 `json:"lineHeight"`       // multiplier, 1.2-2.0
}

// DefaultReaderSettings returns the comfortable preset.
func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		Theme:            "comfortable",
		FontSize:         18,
		FontFamily:       "bookerly",
		MarginHorizontal: 16,
		LineHeight:       1.6,
	}
}

// readerPresets maps a theme name to its typography values.
var readerPresets = map[string]ReaderSettings{
	"compact":     {FontSize: 16, MarginHorizontal: 8, LineHeight: 1.4},
	"comfortable": {FontSize: 18, MarginHorizontal: 16, LineHeight: 1.6},
	"spacious":    {FontSize: 20, MarginHorizontal: 24, LineHeight: 1.8},
}

var readerFonts = map[string]bool{
	"bookerly":     true,
	"amazon-ember": true,
	"noto-serif":   true,
	"system":       true,
}

// ApplyPreset overwrites the typography values with the named theme's
// preset. Unknown themes leave the settings unchanged.
func (s *ReaderSettings) ApplyPreset(theme string) {
	preset, ok := readerPresets[theme]
	if !ok {
		return
	}
	s.Theme = theme
	s.FontSize = preset.FontSize
	s.MarginHorizontal = preset.MarginHorizontal
	s.LineHeight = preset.LineHeight
}

// Clamp forces every field back into its renderable range and replaces
// unknown enum values with defaults.
func (s *ReaderSettings) Clamp() {
	if _, ok := readerPresets[s.Theme]; !ok {
		s.Theme = "comfortable"
	}
	if !readerFonts[s.FontFamily] {
		s.FontFamily = "bookerly"
	}
	s.FontSize = clampInt(s.FontSize, 14, 28)
	s.MarginHorizontal = clampInt(s.MarginHorizontal, 0, 48)
	s.LineHeight = clampFloat(s.LineHeight, 1.2, 2.0)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// WirelessSettings models the device-frame radio toggles. The toggles
// are coupled: airplane mode forces every radio off, and enabling a
// radio clears airplane mode.
type WirelessSettings struct {
	AirplaneMode     bool   `json:"airplaneMode"`
	WifiEnabled      bool   `json:"wifiEnabled"`
	WifiNetwork      string `json:"wifiNetwork"`
	WifiSignal       int    `json:"wifiSignal"`
	BluetoothEnabled bool   `json:"bluetoothEnabled"`
}

// DefaultWirelessSettings returns the device-frame boot state.
func DefaultWirelessSettings() WirelessSettings {
	return WirelessSettings{
		WifiEnabled: true,
		WifiNetwork: "Home_Network",
		WifiSignal:  3,
	}
}

// SetAirplaneMode toggles airplane mode, dropping both radios when on.
func (w *WirelessSettings) SetAirplaneMode(enabled bool) {
	w.AirplaneMode = enabled
	if enabled {
		w.WifiEnabled = false
		w.BluetoothEnabled = false
	}
}

// SetWifi toggles wifi; turning it on leaves airplane mode.
func (w *WirelessSettings) SetWifi(enabled bool) {
	w.WifiEnabled = enabled
	if enabled {
		w.AirplaneMode = false
	}
}

// SetBluetooth toggles bluetooth; turning it on leaves airplane mode.
func (w *WirelessSettings) SetBluetooth(enabled bool) {
	w.BluetoothEnabled = enabled
	if enabled {
		w.AirplaneMode = false
	}
}

// DeviceState is the per-visitor state blob kept in the session cookie.
type DeviceState struct {
	Reader   ReaderSettings   `json:"reader"`
	Wireless WirelessSettings `json:"wireless"`
}

// DefaultDeviceState returns the state served to a first-time visitor.
func DefaultDeviceState() DeviceState {
	return DeviceState{
		Reader:   DefaultReaderSettings(),
		Wireless: DefaultWirelessSettings(),
	}
}

const deviceStateKey = "device_state"

// loadDeviceState reads the visitor's state from the session, merging a
// stored blob over defaults so new fields pick up default values. Any
// unreadable blob degrades to defaults rather than failing the request.
func loadDeviceState(c echo.Context) DeviceState {
	state := DefaultDeviceState()
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return state
	}
	raw, ok := sess.Values[deviceStateKey].(string)
	if !ok {
		return state
	}
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return DefaultDeviceState()
	}
	state.Reader.Clamp()
	return state
}

// saveDeviceState writes the state blob back to the session cookie.
func saveDeviceState(c echo.Context, state DeviceState) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	sess.Values[deviceStateKey] = string(raw)
	return sess.Save(c.Request(), c.Response())
}
