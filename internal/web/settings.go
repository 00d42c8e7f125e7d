package web

import "github.com/atlasgo/server/internal/config"

// Settings is the web-app settings.json document the external viewer reads.
// Field names follow the viewer's expected schema.
type Settings struct {
	Version string `json:"version"`

	UseCookies bool `json:"useCookies"`

	EnableFreeFlight  bool `json:"enableFreeFlight"`
	DefaultToFlatView bool `json:"defaultToFlatView"`

	StartLocation string `json:"startLocation,omitempty"`

	ResolutionDefault float64 `json:"resolutionDefault"`

	MinZoomDistance int `json:"minZoomDistance"`
	MaxZoomDistance int `json:"maxZoomDistance"`

	HiresSliderMax     int `json:"hiresSliderMax"`
	HiresSliderDefault int `json:"hiresSliderDefault"`
	HiresSliderMin     int `json:"hiresSliderMin"`

	LowresSliderMax     int `json:"lowresSliderMax"`
	LowresSliderDefault int `json:"lowresSliderDefault"`
	LowresSliderMin     int `json:"lowresSliderMin"`

	Maps    []string `json:"maps"`
	Scripts []string `json:"scripts"`
	Styles  []string `json:"styles"`
}

func defaultSettings(version string) Settings {
	return Settings{
		Version:             version,
		UseCookies:          true,
		EnableFreeFlight:    true,
		ResolutionDefault:   1,
		MinZoomDistance:     5,
		MaxZoomDistance:     100000,
		HiresSliderMax:      500,
		HiresSliderDefault:  200,
		HiresSliderMin:      50,
		LowresSliderMax:     10000,
		LowresSliderDefault: 2000,
		LowresSliderMin:     500,
	}
}

// SetFrom replaces the configurable settings from webapp config, clearing
// previously registered scripts and styles before re-adding the configured
// ones.
func (s *Settings) SetFrom(cfg config.WebappConfig) {
	s.UseCookies = cfg.UseCookies
	s.EnableFreeFlight = cfg.EnableFreeFlight
	s.DefaultToFlatView = cfg.DefaultToFlatView
	s.StartLocation = cfg.StartLocation
	s.ResolutionDefault = cfg.ResolutionDefault

	s.MinZoomDistance = cfg.MinZoomDistance
	s.MaxZoomDistance = cfg.MaxZoomDistance

	s.HiresSliderMax = cfg.HiresSliderMax
	s.HiresSliderDefault = cfg.HiresSliderDefault
	s.HiresSliderMin = cfg.HiresSliderMin

	s.LowresSliderMax = cfg.LowresSliderMax
	s.LowresSliderDefault = cfg.LowresSliderDefault
	s.LowresSliderMin = cfg.LowresSliderMin

	s.Scripts = nil
	s.Styles = nil
	s.AddFrom(cfg)
}

// AddFrom appends the configured scripts and styles without clearing what
// plugins registered at runtime.
func (s *Settings) AddFrom(cfg config.WebappConfig) {
	for _, u := range cfg.Scripts {
		s.Scripts = appendUnique(s.Scripts, u)
	}
	for _, u := range cfg.Styles {
		s.Styles = appendUnique(s.Styles, u)
	}
}

func appendUnique(list []string, v string) []string {
	for _, e := range list {
		if e == v {
			return list
		}
	}
	return append(list, v)
}

func removeString(list []string, v string) []string {
	for i, e := range list {
		if e == v {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
