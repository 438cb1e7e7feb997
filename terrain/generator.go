// Package terrain writes classified tiles for layer and segment descriptors.
package terrain

import (
	"fmt"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/tilegrid"
)

// Hazard is a damaging zone produced by a feature.
type Hazard struct {
	Region common.Region
	Kind   descriptor.FeatureKind
	Damage int
}

// PlacedPlatform is a platform resolved to stage cells.
type PlacedPlatform struct {
	Region   common.Region
	Platform descriptor.Platform
}

// Result describes what a generation call produced besides tiles.
type Result struct {
	Cells   int
	Hazards []Hazard
	// Slopes are derived from ramp features and still need registering.
	Slopes []descriptor.Slope
	// Dynamic platforms are not written as tiles; the host spawns them.
	Dynamic []PlacedPlatform
	// Surfaces are static platforms with special contact behaviour.
	Surfaces []PlacedPlatform
	Warnings []descriptor.Warning
}

type Option func(*Generator)

// WithBounds clips every write to r.
func WithBounds(r common.Region) Option {
	return func(g *Generator) { g.bounds = r }
}

type Generator struct {
	store   *tilegrid.Store
	bounds  common.Region
	scripts map[string]*heightScript
}

func NewGenerator(store *tilegrid.Store, opts ...Option) *Generator {
	g := &Generator{
		store:   store,
		scripts: make(map[string]*heightScript),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// LayerClass maps a layer kind onto the classification of its cells.
func LayerClass(kind descriptor.LayerKind) tilegrid.Classification {
	switch kind {
	case descriptor.LayerGround, descriptor.LayerCollision, descriptor.LayerBreakable, descriptor.LayerHazard:
		return tilegrid.Ground
	case descriptor.LayerPlatform:
		return tilegrid.Platform
	case descriptor.LayerOneWayPlatform:
		return tilegrid.OneWayPlatform
	}
	return tilegrid.None
}

// writer applies the generator bounds and an optional clip region.
type writer struct {
	g      *Generator
	clip   common.Region
	result *Result
}

func (w writer) allowed(c common.Cell) bool {
	if !w.clip.Empty() && !w.clip.Contains(c) {
		return false
	}
	if !w.g.bounds.Empty() && !w.g.bounds.Contains(c) {
		return false
	}
	return true
}

func (w writer) set(c common.Cell, ref tilegrid.TileRef, class tilegrid.Classification) error {
	if !w.allowed(c) {
		return nil
	}
	if err := w.g.store.SetTile(c, ref, class); err != nil {
		return err
	}
	w.result.Cells++
	return nil
}

func (w writer) clearRegion(r common.Region) error {
	if !w.clip.Empty() {
		r = r.Intersect(w.clip)
	}
	if !w.g.bounds.Empty() {
		r = r.Intersect(w.g.bounds)
	}
	if r.Empty() {
		return nil
	}
	_, err := w.g.store.ClearRegion(r)
	return err
}

// GenerateLayer fills the layer's columns. Each column's surface row comes
// from the layer's generation mode and is filled downward for Thickness
// cells. A non-empty clip limits the rows and columns written.
func (g *Generator) GenerateLayer(layer descriptor.Layer, clip common.Region) (Result, error) {
	var res Result
	if err := layer.Validate(); err != nil {
		return res, fmt.Errorf("terrain: layer: %w", err)
	}
	if layer.Thickness <= 0 || len(layer.TileVariants) == 0 {
		return res, fmt.Errorf("terrain: layer %q: nothing to fill: %w", layer.Name, common.ErrInvalidDescriptor)
	}

	heightAt, err := g.layerHeightFunc(layer)
	if err != nil {
		return res, err
	}

	width := max(layer.Width, 0)
	tops := make([]int, width)
	minY, maxY := math.MaxInt, math.MinInt
	for i := range tops {
		top, err := heightAt(layer.StartX + i)
		if err != nil {
			return res, err
		}
		tops[i] = top
		minY = min(minY, top-layer.Thickness+1)
		maxY = max(maxY, top)
	}

	class := LayerClass(layer.Kind)
	w := writer{g: g, clip: clip, result: &res}
	for i, top := range tops {
		x := layer.StartX + i
		for d := 0; d < layer.Thickness; d++ {
			y := top - d
			ref := selectVariant(layer.Selection, layer.TileVariants, cellContext{
				X: x, Y: y, Seed: layer.Noise.Seed, Depth: d, Thickness: layer.Thickness, MinY: minY, MaxY: maxY,
			})
			if err := w.set(common.Cell{X: x, Y: y}, ref, class); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func (g *Generator) layerHeightFunc(layer descriptor.Layer) (func(x int) (int, error), error) {
	base := layer.BaseHeight
	amp := layer.Noise.Amplitude
	scale := layer.Noise.Scale
	if scale <= 0 {
		scale = descriptor.DefaultNoiseScale
	}

	switch layer.Mode {
	case descriptor.ModeHilly:
		noise := opensimplex.New(layer.Noise.Seed)
		return func(x int) (int, error) {
			n := octaveNoise(noise, float64(x), 0, noiseOctaves, scale, noisePersistence)
			return base + round(n*amp), nil
		}, nil
	case descriptor.ModeMountainous:
		noise := opensimplex.New(layer.Noise.Seed)
		return func(x int) (int, error) {
			n := octaveNoise(noise, float64(x), 0, noiseOctaves, scale, noisePersistence)
			return base + round(ridged(n)*amp), nil
		}, nil
	case descriptor.ModeCustom:
		script, err := g.script(layer.Script)
		if err != nil {
			return nil, fmt.Errorf("terrain: layer %q: %w", layer.Name, err)
		}
		return func(x int) (int, error) {
			return script.height(x, layer.Width, base, layer.Noise.Seed)
		}, nil
	case descriptor.ModeFromHeightmap:
		hm := layer.Heightmap
		span := float64(max(layer.Width-1, 1))
		return func(x int) (int, error) {
			u := float64(x-layer.StartX) / span
			return base + round(sampleHeightmap(hm, u, 0.5)*amp), nil
		}, nil
	}
	return func(int) (int, error) { return base, nil }, nil
}

func (g *Generator) script(src string) (*heightScript, error) {
	if s, ok := g.scripts[src]; ok {
		return s, nil
	}
	s, err := compileHeightScript(src)
	if err != nil {
		return nil, err
	}
	g.scripts[src] = s
	return s, nil
}

// GenerateSegment writes the segment's base pattern, then its platforms and
// features. Nothing outside the segment region is touched.
func (g *Generator) GenerateSegment(seg descriptor.Segment) (Result, error) {
	var res Result
	if err := seg.Validate(); err != nil {
		return res, fmt.Errorf("terrain: %w", err)
	}
	if seg.Thickness <= 0 || len(seg.TileVariants) == 0 {
		return res, fmt.Errorf("terrain: segment %d: thickness %d with %d tile variants: %w",
			seg.Index, seg.Thickness, len(seg.TileVariants), common.ErrInvalidDescriptor)
	}

	region := seg.Region()
	w := writer{g: g, clip: region, result: &res}

	heights := make([]int, region.W)
	maxH := 0
	for x := range heights {
		heights[x] = PatternHeight(seg.Pattern, x, region.W, seg.Thickness, seg.HeightVariation)
		maxH = max(maxH, heights[x])
	}
	minY, maxY := region.Y, region.Y+maxH-1
	for x, h := range heights {
		if h == NoColumn {
			continue
		}
		top := region.Y + h - 1
		for y := region.Y; y <= top; y++ {
			ref := selectVariant(seg.Selection, seg.TileVariants, cellContext{
				X: region.X + x, Y: y, Seed: seg.Seed, Depth: top - y, Thickness: h, MinY: minY, MaxY: maxY,
			})
			if err := w.set(common.Cell{X: region.X + x, Y: y}, ref, tilegrid.Ground); err != nil {
				return res, err
			}
		}
	}

	for _, p := range seg.Platforms {
		if err := g.placePlatform(w, region, p); err != nil {
			return res, err
		}
	}
	for i, f := range seg.Features {
		if err := g.placeFeature(w, region, i, f); err != nil {
			return res, err
		}
	}
	return res, nil
}

func localRegion(origin common.Region, pos common.Cell, size descriptor.Extent) common.Region {
	return common.Region{X: origin.X + pos.X, Y: origin.Y + pos.Y, W: size.W, H: size.H}
}

func fillRegion(w writer, r common.Region, ref tilegrid.TileRef, class tilegrid.Classification) error {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if err := w.set(common.Cell{X: x, Y: y}, ref, class); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Generator) placePlatform(w writer, seg common.Region, p descriptor.Platform) error {
	r := localRegion(seg, p.Position, p.Size)
	placed := PlacedPlatform{Region: r, Platform: p}
	switch p.Kind {
	case descriptor.PlatformMoving, descriptor.PlatformFalling, descriptor.PlatformDisappearing:
		w.result.Dynamic = append(w.result.Dynamic, placed)
		return nil
	case descriptor.PlatformOneWay:
		return fillRegion(w, r, tilegrid.TileRef(p.Tile), tilegrid.OneWayPlatform)
	case descriptor.PlatformBouncy, descriptor.PlatformIce, descriptor.PlatformConveyor:
		w.result.Surfaces = append(w.result.Surfaces, placed)
	}
	return fillRegion(w, r, tilegrid.TileRef(p.Tile), tilegrid.Platform)
}

func (g *Generator) placeFeature(w writer, seg common.Region, index int, f descriptor.Feature) error {
	r := localRegion(seg, f.Position, f.Size)
	ref := tilegrid.TileRef(f.Tile)
	switch f.Kind {
	case descriptor.FeatureSpikes:
		w.result.Hazards = append(w.result.Hazards, Hazard{Region: r, Kind: f.Kind, Damage: f.Damage})
		return fillRegion(w, r, ref, tilegrid.None)
	case descriptor.FeaturePit:
		// A pit removes whole columns of the segment.
		pit := common.Region{X: r.X, Y: seg.Y, W: r.W, H: seg.H}
		w.result.Hazards = append(w.result.Hazards, Hazard{
			Region: common.Region{X: r.X, Y: seg.Y, W: r.W, H: 1},
			Kind:   f.Kind,
			Damage: f.Damage,
		})
		return w.clearRegion(pit)
	case descriptor.FeatureRamp:
		s, extended := rampSlope(f, r, g.store.TileSize())
		if extended {
			msg := fmt.Sprintf("ramp at %d,%d rises %d over %d tiles, steeper than %.0f degrees; run extended to %.2f tiles",
				f.Position.X, f.Position.Y, f.Size.H, f.Size.W, descriptor.MaxSlopeAngle, s.Length/g.store.TileSize())
			w.result.Warnings = append(w.result.Warnings, descriptor.Warning{Field: fmt.Sprintf("features[%d]", index), Message: msg})
		}
		for _, wn := range s.Normalize() {
			wn.Field = s.Name + "." + wn.Field
			w.result.Warnings = append(w.result.Warnings, wn)
		}
		w.result.Slopes = append(w.result.Slopes, s)
		return nil
	case descriptor.FeatureWall:
		return fillRegion(w, r, ref, tilegrid.Wall)
	case descriptor.FeatureCeiling:
		return fillRegion(w, r, ref, tilegrid.Ceiling)
	case descriptor.FeatureBridge:
		return fillRegion(w, common.Region{X: r.X, Y: r.Y, W: r.W, H: 1}, ref, tilegrid.OneWayPlatform)
	case descriptor.FeatureTunnel:
		if err := w.clearRegion(r); err != nil {
			return err
		}
		roof := r.Y + r.H
		for x := r.X; x < r.X+r.W; x++ {
			c := common.Cell{X: x, Y: roof}
			if w.allowed(c) {
				g.store.SetClass(c, tilegrid.Ceiling)
			}
		}
		return nil
	case descriptor.FeatureDecoration:
		return fillRegion(w, r, ref, tilegrid.None)
	}
	return nil
}

// rampSlope builds a basic slope covering the ramp's rectangle. A negative
// height makes a descending ramp. Ramps steeper than the slope limit keep
// their rise and high end, and the run grows toward the low side; extended
// reports when that happened.
func rampSlope(f descriptor.Feature, r common.Region, tileSize float64) (s descriptor.Slope, extended bool) {
	rise := math.Abs(float64(f.Size.H))
	run := float64(f.Size.W)
	s = descriptor.NewSlope(descriptor.SlopeBasic)
	s.Name = fmt.Sprintf("ramp@%d,%d", r.X, r.Y)
	s.Direction = descriptor.Ascending
	if f.Size.H < 0 {
		s.Direction = descriptor.Descending
	}
	s.Angle = common.Degrees(math.Atan2(rise, run))
	x := float64(r.X)
	if s.Angle > descriptor.MaxSlopeAngle {
		s.Angle = descriptor.MaxSlopeAngle
		full := rise / math.Tan(common.Radians(descriptor.MaxSlopeAngle))
		if s.Direction == descriptor.Ascending {
			x -= full - run
		}
		run = full
		extended = true
	}
	s.Length = run * tileSize
	s.Position = common.Vec{X: x * tileSize, Y: float64(r.Y) * tileSize}
	return s, extended
}
