package stellar

import (
	"fmt"
	"sort"
	"strings"
)

// InstrumentConfig fixes the resolution, wavelength coverage, and per-pixel
// sampling for a spectrograph setup. Presets replace ad-hoc toggling of
// module-level settings; requests derive their shared wavelength grid from one
// of these values.
type InstrumentConfig struct {
	Name        string
	Description string
	Resolution  int
	WlMin       int
	WlMax       int
	PixelStep   float64 // Angstroms per output pixel when resampling
}

// WavelengthRange returns the instrument coverage as a request range.
func (ic InstrumentConfig) WavelengthRange() WavelengthRange {
	return WavelengthRange{Min: float64(ic.WlMin), Max: float64(ic.WlMax)}
}

const (
	// echellePixels matches the detector sampling the echelle reductions
	// assume across the disperser coverage.
	echellePixels = 40000
	// wifesPixels is the WiFeS detector width in the spectral direction.
	wifesPixels = 4096
)

func pixelStep(wlMin, wlMax, pixels int) float64 {
	return float64(wlMax-wlMin) / float64(pixels)
}

var instruments = map[string]InstrumentConfig{
	"echelle-300": {
		Name:        "echelle-300",
		Description: "Echelle 300/300nm disperser, 3000-5000 A",
		Resolution:  24000,
		WlMin:       3000,
		WlMax:       5000,
		PixelStep:   pixelStep(3000, 5000, echellePixels),
	},
	"echelle-316": {
		Name:        "echelle-316",
		Description: "Echelle 316/750nm disperser, 5000-10000 A",
		Resolution:  24000,
		WlMin:       5000,
		WlMax:       10000,
		PixelStep:   pixelStep(5000, 10000, echellePixels),
	},
	"wifes-3000": {
		Name:        "wifes-3000",
		Description: "WiFeS 3000-series gratings, 3600-9000 A",
		Resolution:  3000,
		WlMin:       3600,
		WlMax:       9000,
		PixelStep:   pixelStep(3600, 9000, wifesPixels),
	},
	"wifes-7000": {
		Name:        "wifes-7000",
		Description: "WiFeS 7000-series gratings, 3600-9000 A",
		Resolution:  7000,
		WlMin:       3600,
		WlMax:       9000,
		PixelStep:   pixelStep(3600, 9000, wifesPixels),
	},
}

// Instrument looks up a preset by name (case-insensitive).
func Instrument(name string) (InstrumentConfig, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	ic, ok := instruments[key]
	if !ok {
		return InstrumentConfig{}, fmt.Errorf("unknown instrument %q (known: %s)",
			name, strings.Join(InstrumentNames(), ", "))
	}
	return ic, nil
}

// InstrumentNames returns the preset names in sorted order.
func InstrumentNames() []string {
	names := make([]string, 0, len(instruments))
	for name := range instruments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Instruments returns all presets sorted by name.
func Instruments() []InstrumentConfig {
	configs := make([]InstrumentConfig, 0, len(instruments))
	for _, name := range InstrumentNames() {
		configs = append(configs, instruments[name])
	}
	return configs
}
