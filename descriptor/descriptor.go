// Package descriptor holds the declarative terrain model: layers, segments,
// platforms, features and slopes, plus the repair and validation rules
// applied before anything is generated from them.
package descriptor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/milk9111/platformgen/common"
)

// Warning records one automatic repair applied to a descriptor.
type Warning struct {
	Field   string
	Message string
}

func (w Warning) String() string {
	if w.Field == "" {
		return w.Message
	}
	return w.Field + ": " + w.Message
}

func prefixWarnings(prefix string, ws []Warning) []Warning {
	for i := range ws {
		if ws[i].Field == "" {
			ws[i].Field = prefix
			continue
		}
		ws[i].Field = prefix + "." + ws[i].Field
	}
	return ws
}

// Extent is a size in cells.
type Extent struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

type NoiseParams struct {
	Scale     float64 `yaml:"scale"`
	Amplitude float64 `yaml:"amplitude"`
	Seed      int64   `yaml:"seed"`
}

// Heightmap is sampled with bilinear filtering. Values are expected in [0,1].
// Rows are listed top to bottom; Path names a grayscale PNG relative to the
// descriptor file and is resolved into Rows on load.
type Heightmap struct {
	Rows [][]float64 `yaml:"rows"`
	Path string      `yaml:"path"`
}

func (h Heightmap) Empty() bool {
	return len(h.Rows) == 0 || len(h.Rows[0]) == 0
}

type Layer struct {
	Name              string         `yaml:"name"`
	Kind              LayerKind      `yaml:"kind"`
	SortOrder         int            `yaml:"sort_order"`
	CollisionCategory uint           `yaml:"collision_category"`
	TileVariants      []int          `yaml:"tile_variants"`
	AutoGenerate      bool           `yaml:"auto_generate"`
	Mode              GenerationMode `yaml:"mode"`
	BaseHeight        int            `yaml:"base_height"`
	Thickness         int            `yaml:"thickness"`
	Noise             NoiseParams    `yaml:"noise"`
	Selection         SelectionMode  `yaml:"selection"`
	Script            string         `yaml:"script"`
	Heightmap         Heightmap      `yaml:"heightmap"`
	StartX            int            `yaml:"start_x"`
	Width             int            `yaml:"width"`
}

const (
	DefaultLayerWidth      = 64
	DefaultNoiseScale      = 0.05
	DefaultHillyAmplitude  = 4
	DefaultMountainAmp     = 12
	DefaultHeightmapAmp    = 8
	DefaultSegmentThick    = 3
	DefaultCollisionCatBit = 1
)

// Normalize repairs fields that have a safe default.
func (l *Layer) Normalize() []Warning {
	var ws []Warning
	if l.Name == "" {
		l.Name = l.Kind.String()
	}
	if l.CollisionCategory == 0 {
		l.CollisionCategory = DefaultCollisionCatBit
	}
	if l.Width <= 0 {
		if l.AutoGenerate {
			ws = append(ws, Warning{Field: "width", Message: fmt.Sprintf("%d is not positive, using %d", l.Width, DefaultLayerWidth)})
		}
		l.Width = DefaultLayerWidth
	}
	if l.Noise.Scale <= 0 {
		l.Noise.Scale = DefaultNoiseScale
	}
	if l.Noise.Amplitude <= 0 {
		switch l.Mode {
		case ModeHilly:
			l.Noise.Amplitude = DefaultHillyAmplitude
		case ModeMountainous:
			l.Noise.Amplitude = DefaultMountainAmp
		case ModeFromHeightmap:
			l.Noise.Amplitude = DefaultHeightmapAmp
		}
	}
	if l.Mode == ModeCustom && l.Script == "" {
		ws = append(ws, Warning{Field: "script", Message: "custom mode without a script, falling back to flat"})
		l.Mode = ModeFlat
	}
	if l.Mode == ModeFromHeightmap && l.Heightmap.Empty() {
		ws = append(ws, Warning{Field: "heightmap", Message: "heightmap mode without samples, falling back to flat"})
		l.Mode = ModeFlat
	}
	return ws
}

func (l Layer) Validate() error {
	if !l.AutoGenerate {
		return nil
	}
	if len(l.TileVariants) == 0 {
		return fmt.Errorf("layer %q: auto_generate with no tile variants: %w", l.Name, common.ErrInvalidDescriptor)
	}
	if l.Thickness <= 0 {
		return fmt.Errorf("layer %q: thickness %d must be positive: %w", l.Name, l.Thickness, common.ErrInvalidDescriptor)
	}
	return nil
}

type Segment struct {
	Index           int           `yaml:"index"`
	Start           common.Cell   `yaml:"start"`
	Size            Extent        `yaml:"size"`
	Pattern         Pattern       `yaml:"pattern"`
	HeightVariation float64       `yaml:"height_variation"`
	Thickness       int           `yaml:"thickness"`
	TileVariants    []int         `yaml:"tile_variants"`
	Selection       SelectionMode `yaml:"selection"`
	Seed            int64         `yaml:"seed"`
	Platforms       []Platform    `yaml:"platforms"`
	Features        []Feature     `yaml:"features"`
}

// Region is the block of cells the segment may write to.
func (s Segment) Region() common.Region {
	return common.Region{X: s.Start.X, Y: s.Start.Y, W: s.Size.W, H: s.Size.H}
}

func (s *Segment) Normalize() []Warning {
	var ws []Warning
	if s.Thickness <= 0 {
		ws = append(ws, Warning{Field: "thickness", Message: fmt.Sprintf("%d is not positive, using %d", s.Thickness, DefaultSegmentThick)})
		s.Thickness = DefaultSegmentThick
	}
	if len(s.TileVariants) == 0 {
		ws = append(ws, Warning{Field: "tile_variants", Message: "empty, using tile 1"})
		s.TileVariants = []int{1}
	}
	if s.HeightVariation < 0 {
		ws = append(ws, Warning{Field: "height_variation", Message: "negative, using its magnitude"})
		s.HeightVariation = -s.HeightVariation
	}
	for i := range s.Platforms {
		ws = append(ws, prefixWarnings(fmt.Sprintf("platforms[%d]", i), s.Platforms[i].Normalize())...)
	}
	for i := range s.Features {
		ws = append(ws, prefixWarnings(fmt.Sprintf("features[%d]", i), s.Features[i].Normalize())...)
	}
	return ws
}

func (s Segment) Validate() error {
	if s.Size.W <= 0 || s.Size.H <= 0 {
		return fmt.Errorf("segment %d: size %dx%d must be positive: %w", s.Index, s.Size.W, s.Size.H, common.ErrInvalidDescriptor)
	}
	for i, p := range s.Platforms {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("segment %d: platforms[%d]: %w", s.Index, i, err)
		}
	}
	for i, f := range s.Features {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("segment %d: features[%d]: %w", s.Index, i, err)
		}
	}
	return nil
}

// Platform positions are relative to the owning segment's start cell.
type Platform struct {
	Position      common.Cell  `yaml:"position"`
	Size          Extent       `yaml:"size"`
	Kind          PlatformKind `yaml:"kind"`
	Tile          int          `yaml:"tile"`
	Path          []common.Vec `yaml:"path"`
	Speed         float64      `yaml:"speed"`
	FallDelay     float64      `yaml:"fall_delay"`
	DisappearTime float64      `yaml:"disappear_time"`
	ReappearTime  float64      `yaml:"reappear_time"`
	Direction     int          `yaml:"direction"`
}

const (
	DefaultMovingSpeed   = 2.0
	DefaultFallDelay     = 0.5
	DefaultDisappearTime = 1.5
	DefaultReappearTime  = 3.0
)

func (p *Platform) Normalize() []Warning {
	var ws []Warning
	if p.Tile == 0 {
		p.Tile = 1
	}
	switch p.Kind {
	case PlatformMoving:
		if p.Speed <= 0 {
			p.Speed = DefaultMovingSpeed
		}
		if len(p.Path) < 2 {
			ws = append(ws, Warning{Field: "path", Message: "moving platform needs at least two points"})
		}
	case PlatformFalling:
		if p.FallDelay <= 0 {
			p.FallDelay = DefaultFallDelay
		}
	case PlatformDisappearing:
		if p.DisappearTime <= 0 {
			p.DisappearTime = DefaultDisappearTime
		}
		if p.ReappearTime <= 0 {
			p.ReappearTime = DefaultReappearTime
		}
	case PlatformConveyor:
		switch {
		case p.Direction > 0:
			p.Direction = 1
		case p.Direction < 0:
			p.Direction = -1
		default:
			p.Direction = 1
		}
	}
	return ws
}

func (p Platform) Validate() error {
	if p.Size.W <= 0 || p.Size.H <= 0 {
		return fmt.Errorf("platform size %dx%d must be positive: %w", p.Size.W, p.Size.H, common.ErrInvalidDescriptor)
	}
	return nil
}

// Feature positions are relative to the owning segment's start cell.
type Feature struct {
	Position   common.Cell `yaml:"position"`
	Kind       FeatureKind `yaml:"kind"`
	Size       Extent      `yaml:"size"`
	Tile       int         `yaml:"tile"`
	Hazard     bool        `yaml:"hazard"`
	Damage     int         `yaml:"damage"`
	Decorative bool        `yaml:"decorative"`
}

const (
	DefaultSpikeDamage = 1
	DefaultPitDamage   = 100
)

func (f *Feature) Normalize() []Warning {
	var ws []Warning
	if f.Size.W <= 0 {
		f.Size.W = 1
	}
	if f.Size.H == 0 && f.Kind != FeatureRamp {
		f.Size.H = 1
	}
	if f.Tile == 0 {
		f.Tile = 1
	}
	switch f.Kind {
	case FeatureSpikes:
		f.Hazard = true
		if f.Damage <= 0 {
			f.Damage = DefaultSpikeDamage
		}
	case FeaturePit:
		f.Hazard = true
		if f.Damage <= 0 {
			f.Damage = DefaultPitDamage
		}
	case FeatureDecoration:
		f.Decorative = true
	case FeatureRamp:
		if f.Size.H == 0 {
			ws = append(ws, Warning{Field: "size.h", Message: "ramp with no rise, using 1"})
			f.Size.H = 1
		}
	}
	return ws
}

func (f Feature) Validate() error {
	if f.Size.W <= 0 {
		return fmt.Errorf("feature %s: width %d must be positive: %w", f.Kind, f.Size.W, common.ErrInvalidDescriptor)
	}
	return nil
}

// Stage is a complete level description.
type Stage struct {
	Name     string      `yaml:"name"`
	Origin   common.Cell `yaml:"origin"`
	Layers   []Layer     `yaml:"layers"`
	Segments []Segment   `yaml:"segments"`
	Slopes   []Slope     `yaml:"slopes"`
}

// Layout places segments side by side along X in index order, starting at
// the stage origin. Segment rows are taken relative to the origin row.
func (s Stage) Layout() []Segment {
	out := make([]Segment, len(s.Segments))
	copy(out, s.Segments)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	x := s.Origin.X
	for i := range out {
		out[i].Start = common.Cell{X: x, Y: s.Origin.Y + out[i].Start.Y}
		x += max(out[i].Size.W, 0)
	}
	return out
}

// Normalize repairs every descriptor in the stage and returns the repairs.
func (s *Stage) Normalize() []Warning {
	var ws []Warning
	for i := range s.Layers {
		ws = append(ws, prefixWarnings(fmt.Sprintf("layers[%d]", i), s.Layers[i].Normalize())...)
	}
	for i := range s.Segments {
		ws = append(ws, prefixWarnings(fmt.Sprintf("segments[%d]", i), s.Segments[i].Normalize())...)
	}
	for i := range s.Slopes {
		ws = append(ws, prefixWarnings(fmt.Sprintf("slopes[%d]", i), s.Slopes[i].Normalize())...)
	}
	return ws
}

// Validate reports every unrepairable descriptor in the stage.
func (s Stage) Validate() error {
	var errs []error
	for _, l := range s.Layers {
		if err := l.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	for _, seg := range s.Segments {
		if err := seg.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
