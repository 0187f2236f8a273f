// Package site holds the fixed site constants the optimizer works against:
// site size, setback, separation gap, neighbor radius, the centered plaza,
// and the canonical footprint of each building type.
//
// A [Config] is immutable during a run. Construct it with [Default] or
// [Load] and call [Config.Validate] before handing it to the optimizer;
// the optimizer validates again at construction time.
package site

import (
	"github.com/matzehuels/siteplan/pkg/geom"
	"github.com/matzehuels/siteplan/pkg/layout"
)

// Default site parameters, in site-distance units.
const (
	DefaultWidth          = 200.0
	DefaultHeight         = 140.0
	DefaultSetback        = 10.0
	DefaultMinGap         = 15.0
	DefaultNeighborRadius = 60.0
	DefaultPlazaSize      = 40.0
)

// Footprint is the canonical (width, height) of a building type.
type Footprint struct {
	Width  float64 `json:"width" toml:"width" yaml:"width" validate:"gt=0"`
	Height float64 `json:"height" toml:"height" yaml:"height" validate:"gt=0"`
}

// Footprints maps each building type to its canonical footprint.
type Footprints struct {
	A Footprint `json:"a" toml:"a" yaml:"a"`
	B Footprint `json:"b" toml:"b" yaml:"b"`
}

// Of returns the footprint for t. Unknown types get the zero footprint.
func (f Footprints) Of(t layout.Type) Footprint {
	switch t {
	case layout.TypeA:
		return f.A
	case layout.TypeB:
		return f.B
	}
	return Footprint{}
}

// Config describes the site. All fields are overridable; see [Default].
type Config struct {
	Width          float64    `json:"width" toml:"width" yaml:"width" validate:"gt=0"`
	Height         float64    `json:"height" toml:"height" yaml:"height" validate:"gt=0"`
	Setback        float64    `json:"setback" toml:"setback" yaml:"setback" validate:"gte=0"`
	MinGap         float64    `json:"min_gap" toml:"min_gap" yaml:"min_gap" validate:"gte=0"`
	NeighborRadius float64    `json:"neighbor_radius" toml:"neighbor_radius" yaml:"neighbor_radius" validate:"gte=0"`
	PlazaSize      float64    `json:"plaza_size" toml:"plaza_size" yaml:"plaza_size" validate:"gte=0"`
	Footprints     Footprints `json:"footprints" toml:"footprints" yaml:"footprints"`
}

// Default returns the default site: 200x140 with a 10 unit setback,
// 15 unit minimum gap, 60 unit neighbor radius and a centered 40x40 plaza.
// Type A buildings are 30x20, type B are 20x20.
func Default() Config {
	return Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		Setback:        DefaultSetback,
		MinGap:         DefaultMinGap,
		NeighborRadius: DefaultNeighborRadius,
		PlazaSize:      DefaultPlazaSize,
		Footprints: Footprints{
			A: Footprint{Width: 30, Height: 20},
			B: Footprint{Width: 20, Height: 20},
		},
	}
}

// Bounds returns the full site rectangle.
func (c Config) Bounds() geom.Rect {
	return geom.NewRect(0, 0, c.Width, c.Height)
}

// Buildable returns the site rectangle shrunk by the setback on every side.
func (c Config) Buildable() geom.Rect {
	return c.Bounds().Inset(c.Setback)
}

// Plaza returns the no-build square of PlazaSize centered on the site.
func (c Config) Plaza() geom.Rect {
	x := (c.Width - c.PlazaSize) / 2
	y := (c.Height - c.PlazaSize) / 2
	return geom.NewRect(x, y, c.PlazaSize, c.PlazaSize)
}
