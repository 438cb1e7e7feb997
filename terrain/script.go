package terrain

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

// heightScript evaluates a layer's tengo source once per column. The script
// reads x, width, base and seed and assigns the surface row to height.
type heightScript struct {
	compiled *tengo.Compiled
}

func compileHeightScript(src string) (*heightScript, error) {
	script := tengo.NewScript([]byte(src))
	_ = script.Add("x", 0)
	_ = script.Add("width", 0)
	_ = script.Add("base", 0)
	_ = script.Add("seed", 0)
	_ = script.Add("height", 0)

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("terrain: compile height script: %w", err)
	}
	return &heightScript{compiled: compiled}, nil
}

func (s *heightScript) height(x, width, base int, seed int64) (int, error) {
	if err := s.compiled.Set("x", x); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("width", width); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("base", base); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("seed", seed); err != nil {
		return 0, err
	}
	if err := s.compiled.Set("height", base); err != nil {
		return 0, err
	}
	if err := s.compiled.Run(); err != nil {
		return 0, fmt.Errorf("terrain: run height script at x=%d: %w", x, err)
	}
	return round(s.compiled.Get("height").Float()), nil
}
