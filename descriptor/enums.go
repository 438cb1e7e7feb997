package descriptor

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type LayerKind int

const (
	LayerGround LayerKind = iota
	LayerPlatform
	LayerBackground
	LayerForeground
	LayerCollision
	LayerOneWayPlatform
	LayerBreakable
	LayerHazard
)

var layerKindNames = []string{"ground", "platform", "background", "foreground", "collision", "one_way_platform", "breakable", "hazard"}

type GenerationMode int

const (
	ModeFlat GenerationMode = iota
	ModeHilly
	ModeMountainous
	ModeCustom
	ModeFromHeightmap
)

var generationModeNames = []string{"flat", "hilly", "mountainous", "custom", "from_heightmap"}

// SelectionMode picks which tile variant a generated cell receives.
type SelectionMode int

const (
	SelectRandom SelectionMode = iota
	SelectSequential
	SelectByDepth
	SelectByPosition
	SelectByHeight
)

var selectionModeNames = []string{"random", "sequential", "by_depth", "by_position", "by_height"}

type Pattern int

const (
	PatternFlat Pattern = iota
	PatternAscending
	PatternDescending
	PatternValley
	PatternHill
	PatternStairs
	PatternGaps
	PatternPlatforms
)

var patternNames = []string{"flat", "ascending", "descending", "valley", "hill", "stairs", "gaps", "platforms"}

type PlatformKind int

const (
	PlatformSolid PlatformKind = iota
	PlatformMoving
	PlatformFalling
	PlatformDisappearing
	PlatformOneWay
	PlatformBouncy
	PlatformIce
	PlatformConveyor
)

var platformKindNames = []string{"solid", "moving", "falling", "disappearing", "one_way", "bouncy", "ice", "conveyor"}

type FeatureKind int

const (
	FeatureSpikes FeatureKind = iota
	FeaturePit
	FeatureRamp
	FeatureWall
	FeatureCeiling
	FeatureBridge
	FeatureTunnel
	FeatureDecoration
)

var featureKindNames = []string{"spikes", "pit", "ramp", "wall", "ceiling", "bridge", "tunnel", "decoration"}

type SlopeKind int

const (
	SlopeBasic SlopeKind = iota
	SlopeSteep
	SlopeGentle
	SlopeSpring
	SlopeIce
	SlopeRough
	SlopeGravity
	SlopeWind
)

var slopeKindNames = []string{"basic", "steep", "gentle", "spring", "ice", "rough", "gravity", "wind"}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

var directionNames = []string{"ascending", "descending"}

func (k LayerKind) String() string      { return enumName(int(k), layerKindNames) }
func (m GenerationMode) String() string { return enumName(int(m), generationModeNames) }
func (m SelectionMode) String() string  { return enumName(int(m), selectionModeNames) }
func (p Pattern) String() string        { return enumName(int(p), patternNames) }
func (k PlatformKind) String() string   { return enumName(int(k), platformKindNames) }
func (k FeatureKind) String() string    { return enumName(int(k), featureKindNames) }
func (k SlopeKind) String() string      { return enumName(int(k), slopeKindNames) }
func (d Direction) String() string      { return enumName(int(d), directionNames) }

func (k *LayerKind) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "layer kind", layerKindNames, k)
}

func (m *GenerationMode) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "generation mode", generationModeNames, m)
}

func (m *SelectionMode) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "selection mode", selectionModeNames, m)
}

func (p *Pattern) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "pattern", patternNames, p)
}

func (k *PlatformKind) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "platform kind", platformKindNames, k)
}

func (k *FeatureKind) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "feature kind", featureKindNames, k)
}

func (k *SlopeKind) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "slope kind", slopeKindNames, k)
}

func (d *Direction) UnmarshalYAML(value *yaml.Node) error {
	return unmarshalEnum(value, "direction", directionNames, d)
}

func (k LayerKind) MarshalYAML() (any, error)      { return k.String(), nil }
func (m GenerationMode) MarshalYAML() (any, error) { return m.String(), nil }
func (m SelectionMode) MarshalYAML() (any, error)  { return m.String(), nil }
func (p Pattern) MarshalYAML() (any, error)        { return p.String(), nil }
func (k PlatformKind) MarshalYAML() (any, error)   { return k.String(), nil }
func (k FeatureKind) MarshalYAML() (any, error)    { return k.String(), nil }
func (k SlopeKind) MarshalYAML() (any, error)      { return k.String(), nil }
func (d Direction) MarshalYAML() (any, error)      { return d.String(), nil }

func enumName(v int, names []string) string {
	if v < 0 || v >= len(names) {
		return fmt.Sprintf("unknown(%d)", v)
	}
	return names[v]
}

// parseEnum accepts the snake_case name, the CamelCase name or the ordinal.
func parseEnum(s string, names []string) (int, bool) {
	key := normalizeKey(s)
	for i, name := range names {
		if normalizeKey(name) == key {
			return i, true
		}
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && n >= 0 && n < len(names) {
		return n, true
	}
	return 0, false
}

func unmarshalEnum[T ~int](value *yaml.Node, what string, names []string, out *T) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("%s must be a string", what)
	}
	v, ok := parseEnum(value.Value, names)
	if !ok {
		return fmt.Errorf("invalid %s: %s", what, value.Value)
	}
	*out = T(v)
	return nil
}

// normalizeKey folds case and drops separators so "bounceForce",
// "bounce_force" and "BounceForce" compare equal.
func normalizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseSlopeKind accepts the same forms as the YAML decoder.
func ParseSlopeKind(s string) (SlopeKind, bool) {
	v, ok := parseEnum(s, slopeKindNames)
	return SlopeKind(v), ok
}

func ParseDirection(s string) (Direction, bool) {
	v, ok := parseEnum(s, directionNames)
	return Direction(v), ok
}
