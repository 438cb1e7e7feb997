package descriptor

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/platformgen/common"
)

const (
	MinSlopeAngle          = 5.0
	MaxSlopeAngle          = 60.0
	DefaultSlopeAngle      = 30.0
	MinSlopeLength         = 2.0
	DefaultSpeedMultiplier = 1.2
	DefaultBaseThickness   = 0.5
)

var DefaultTriggerSize = common.Vec{X: 1, Y: 1.5}

// Slope describes one inclined surface. Position, Rotation (degrees) and
// Scale place the slope in world space; Angle is the incline in degrees.
type Slope struct {
	Name               string     `yaml:"name"`
	Kind               SlopeKind  `yaml:"kind"`
	Position           common.Vec `yaml:"position"`
	Rotation           float64    `yaml:"rotation"`
	Scale              common.Vec `yaml:"scale"`
	Angle              float64    `yaml:"angle"`
	Direction          Direction  `yaml:"direction"`
	Length             float64    `yaml:"length"`
	SpeedMultiplier    float64    `yaml:"speed_multiplier"`
	AffectGravity      bool       `yaml:"affect_gravity"`
	GravityRedirection float64    `yaml:"gravity_redirection"`
	BaseThickness      float64    `yaml:"base_thickness"`
	TriggerSize        common.Vec `yaml:"trigger_size"`
	// AffectedLayers overrides the engine's layer mask when non-zero.
	AffectedLayers uint `yaml:"affected_layers"`

	Params Params `yaml:"-"`

	raw map[string]any
}

// NewSlope returns a slope of the given kind with every field at its default.
func NewSlope(kind SlopeKind) Slope {
	return Slope{
		Kind:               kind,
		Scale:              common.Vec{X: 1, Y: 1},
		Angle:              DefaultSlopeAngle,
		Length:             5,
		SpeedMultiplier:    DefaultSpeedMultiplier,
		AffectGravity:      true,
		GravityRedirection: 0.5,
		BaseThickness:      DefaultBaseThickness,
		TriggerSize:        DefaultTriggerSize,
		Params:             DefaultParams(kind),
	}
}

// SetParameters replaces the untyped parameter bag. It is converted into
// Params by the next Normalize call.
func (s *Slope) SetParameters(bag map[string]any) {
	s.raw = bag
	s.Params = nil
}

func (s *Slope) UnmarshalYAML(value *yaml.Node) error {
	type plain Slope
	file := struct {
		plain      `yaml:",inline"`
		Parameters map[string]any `yaml:"parameters"`
	}{plain: plain(NewSlope(SlopeBasic))}
	if err := value.Decode(&file); err != nil {
		return err
	}
	*s = Slope(file.plain)
	s.SetParameters(file.Parameters)
	return nil
}

// Normalize clamps out-of-range values to the nearest safe value and
// converts the parameter bag into typed parameters.
func (s *Slope) Normalize() []Warning {
	var ws []Warning
	warn := func(field, format string, args ...any) {
		ws = append(ws, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	switch {
	case math.IsNaN(s.Angle):
		warn("angle", "not a number, using %.2f", DefaultSlopeAngle)
		s.Angle = DefaultSlopeAngle
	case s.Angle < MinSlopeAngle || s.Angle > MaxSlopeAngle:
		clamped := common.Clamp(s.Angle, MinSlopeAngle, MaxSlopeAngle)
		warn("angle", "%.2f out of range, clamped to %.2f", s.Angle, clamped)
		s.Angle = clamped
	}
	if !common.Finite(s.Length) || s.Length < MinSlopeLength {
		warn("length", "%.2f out of range, using %.2f", s.Length, MinSlopeLength)
		s.Length = MinSlopeLength
	}
	if !common.Finite(s.SpeedMultiplier) || s.SpeedMultiplier <= 0 {
		warn("speed_multiplier", "%.2f is not a positive number, using %.2f", s.SpeedMultiplier, DefaultSpeedMultiplier)
		s.SpeedMultiplier = DefaultSpeedMultiplier
	}
	if !common.Finite(s.GravityRedirection) || s.GravityRedirection < 0 {
		warn("gravity_redirection", "%.2f is not a non-negative number, using 0", s.GravityRedirection)
		s.GravityRedirection = 0
	}
	if !s.Position.Finite() {
		warn("position", "non-finite component, using (0,0)")
		s.Position = common.Vec{}
	}
	if !common.Finite(s.Rotation) {
		warn("rotation", "%.2f is not finite, using 0", s.Rotation)
		s.Rotation = 0
	}
	if !s.Scale.Finite() || s.Scale.IsZero() {
		warn("scale", "zero or non-finite scale, using (1,1)")
		s.Scale = common.Vec{X: 1, Y: 1}
	}
	if !common.Finite(s.BaseThickness) || s.BaseThickness <= 0 {
		warn("base_thickness", "%.2f is not a positive number, using %.2f", s.BaseThickness, DefaultBaseThickness)
		s.BaseThickness = DefaultBaseThickness
	}
	if !s.TriggerSize.Finite() || s.TriggerSize.X <= 0 || s.TriggerSize.Y <= 0 {
		warn("trigger_size", "non-positive component, using (%.1f,%.1f)", DefaultTriggerSize.X, DefaultTriggerSize.Y)
		s.TriggerSize = DefaultTriggerSize
	}

	if s.raw != nil || s.Params == nil {
		p, pws := ParseParams(s.Kind, s.raw)
		s.Params = p
		ws = append(ws, prefixWarnings("parameters", pws)...)
		s.raw = nil
	} else if s.Params.Kind() != s.paramKind() {
		warn("parameters", "%T does not match kind %s, using defaults", s.Params, s.Kind)
		s.Params = DefaultParams(s.Kind)
	}
	return ws
}

// paramKind folds the plain incline kinds onto Basic.
func (s Slope) paramKind() SlopeKind {
	switch s.Kind {
	case SlopeSteep, SlopeGentle:
		return SlopeBasic
	}
	return s.Kind
}
