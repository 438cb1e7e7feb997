package descriptor

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/milk9111/platformgen/common"
)

// Params is the closed set of kind-specific slope tuning values.
type Params interface {
	Kind() SlopeKind
	slopeParams()
}

// BasicParams carries no tuning; it serves Basic, Steep and Gentle slopes.
type BasicParams struct{}

type SpringParams struct {
	BounceForce float64
}

type IceParams struct {
	Friction          float64
	SlideAcceleration float64
}

type RoughParams struct {
	Friction     float64
	Deceleration float64
}

type GravityParams struct {
	GravityMultiplier float64
}

type WindParams struct {
	Force     float64
	Direction common.Vec
}

func (BasicParams) Kind() SlopeKind   { return SlopeBasic }
func (SpringParams) Kind() SlopeKind  { return SlopeSpring }
func (IceParams) Kind() SlopeKind     { return SlopeIce }
func (RoughParams) Kind() SlopeKind   { return SlopeRough }
func (GravityParams) Kind() SlopeKind { return SlopeGravity }
func (WindParams) Kind() SlopeKind    { return SlopeWind }

func (BasicParams) slopeParams()   {}
func (SpringParams) slopeParams()  {}
func (IceParams) slopeParams()     {}
func (RoughParams) slopeParams()   {}
func (GravityParams) slopeParams() {}
func (WindParams) slopeParams()    {}

func DefaultParams(kind SlopeKind) Params {
	switch kind {
	case SlopeSpring:
		return SpringParams{BounceForce: 15}
	case SlopeIce:
		return IceParams{Friction: 0.02, SlideAcceleration: 1.5}
	case SlopeRough:
		return RoughParams{Friction: 1.2, Deceleration: 2}
	case SlopeGravity:
		return GravityParams{GravityMultiplier: 0.5}
	case SlopeWind:
		return WindParams{Force: 5, Direction: common.Vec{X: 1, Y: 0}}
	}
	return BasicParams{}
}

// ParseParams converts an untyped parameter bag into the typed parameters
// for kind. Unknown keys and unparsable values are reported and skipped.
func ParseParams(kind SlopeKind, bag map[string]any) (Params, []Warning) {
	var ws []Warning
	known := map[string]*float64{}
	var windDir *common.Vec

	p := DefaultParams(kind)
	switch v := p.(type) {
	case SpringParams:
		known["bounceforce"] = &v.BounceForce
		ws = parseFloats(bag, known, &windDir, ws)
		return v, ws
	case IceParams:
		known["friction"] = &v.Friction
		known["slideacceleration"] = &v.SlideAcceleration
		ws = parseFloats(bag, known, &windDir, ws)
		return v, ws
	case RoughParams:
		known["friction"] = &v.Friction
		known["deceleration"] = &v.Deceleration
		ws = parseFloats(bag, known, &windDir, ws)
		return v, ws
	case GravityParams:
		known["gravitymultiplier"] = &v.GravityMultiplier
		ws = parseFloats(bag, known, &windDir, ws)
		return v, ws
	case WindParams:
		known["windforce"] = &v.Force
		windDir = &v.Direction
		ws = parseFloats(bag, known, &windDir, ws)
		if v.Direction.IsZero() {
			ws = append(ws, Warning{Field: "windDirection", Message: "zero direction, using (1,0)"})
			v.Direction = common.Vec{X: 1}
		}
		return v, ws
	}
	return p, parseFloats(bag, known, &windDir, ws)
}

func parseFloats(bag map[string]any, known map[string]*float64, windDir **common.Vec, ws []Warning) []Warning {
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := bag[key]
		nk := normalizeKey(key)
		if nk == "winddirection" && *windDir != nil {
			v, err := toVec(raw)
			if err != nil {
				ws = append(ws, Warning{Field: key, Message: err.Error()})
				continue
			}
			**windDir = v
			continue
		}
		dst, ok := known[nk]
		if !ok {
			ws = append(ws, Warning{Field: key, Message: "unknown parameter ignored"})
			continue
		}
		f, err := toFloat(raw)
		if err != nil {
			ws = append(ws, Warning{Field: key, Message: err.Error()})
			continue
		}
		*dst = f
	}
	return ws
}

func toFloat(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
	if !common.Finite(f) {
		return 0, fmt.Errorf("not a finite number: %v", v)
	}
	return f, nil
}

// toVec accepts {x: .., y: ..} maps and [x, y] lists.
func toVec(v any) (common.Vec, error) {
	switch t := v.(type) {
	case map[string]any:
		x, err := toFloat(t["x"])
		if err != nil {
			return common.Vec{}, err
		}
		y, err := toFloat(t["y"])
		if err != nil {
			return common.Vec{}, err
		}
		return common.Vec{X: x, Y: y}, nil
	case []any:
		if len(t) != 2 {
			return common.Vec{}, fmt.Errorf("vector needs two components, got %d", len(t))
		}
		x, err := toFloat(t[0])
		if err != nil {
			return common.Vec{}, err
		}
		y, err := toFloat(t[1])
		if err != nil {
			return common.Vec{}, err
		}
		return common.Vec{X: x, Y: y}, nil
	case common.Vec:
		return t, nil
	}
	return common.Vec{}, fmt.Errorf("not a vector: %v", v)
}
