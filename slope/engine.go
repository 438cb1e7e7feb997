package slope

import (
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/events"
	"github.com/milk9111/platformgen/physics"
)

type ID uint64

type Config struct {
	// LayerMask selects which body categories slopes affect.
	LayerMask uint
	// VelocityThreshold is the horizontal speed below which velocity is
	// not scaled.
	VelocityThreshold float64
	// MaxSpeed caps horizontal speed after scaling. Zero disables the cap.
	MaxSpeed float64
	// OutlineFriction is the friction of the solid slope outline.
	OutlineFriction float64
}

func DefaultConfig() Config {
	return Config{
		LayerMask:         physics.CategoryAll,
		VelocityThreshold: 0.1,
		MaxSpeed:          40,
		OutlineFriction:   0.8,
	}
}

// Instance is a registered slope.
type Instance struct {
	ID       ID
	Desc     descriptor.Slope
	Geometry Geometry

	key     GeometryKey
	trigger physics.ShapeID
	outline physics.ShapeID
	tracked map[physics.BodyID]struct{}
}

// Engine tracks bodies on slopes and applies slope effects once per Tick.
type Engine struct {
	host physics.Host
	sink events.Sink
	cfg  Config

	next   ID
	slopes map[ID]*Instance
	order  []ID

	overrides map[physics.BodyID]*bodyOverrides
}

func NewEngine(host physics.Host, sink events.Sink, cfg Config) *Engine {
	if sink == nil {
		sink = events.Discard
	}
	if cfg.LayerMask == 0 {
		cfg.LayerMask = physics.CategoryAll
	}
	return &Engine{
		host:      host,
		sink:      sink,
		cfg:       cfg,
		slopes:    make(map[ID]*Instance),
		overrides: make(map[physics.BodyID]*bodyOverrides),
	}
}

// Register normalizes desc, builds its geometry and registers the trigger
// and outline shapes with the host.
func (e *Engine) Register(desc descriptor.Slope) (ID, []descriptor.Warning, error) {
	if e.host == nil {
		return 0, nil, fmt.Errorf("slope: register: physics host: %w", common.ErrMissingCollaborator)
	}
	ws := desc.Normalize()
	geo, err := BuildGeometry(desc)
	if err != nil {
		return 0, ws, err
	}

	in := &Instance{
		Desc:     desc,
		Geometry: geo,
		key:      KeyOf(desc),
		tracked:  make(map[physics.BodyID]struct{}),
	}
	if err := e.addShapes(in); err != nil {
		return 0, ws, err
	}

	e.next++
	in.ID = e.next
	e.slopes[in.ID] = in
	e.order = append(e.order, in.ID)
	return in.ID, ws, nil
}

func (e *Engine) addShapes(in *Instance) error {
	var (
		trigger physics.ShapeID
		err     error
	)
	opts := physics.ShapeOptions{Sensor: true, Category: physics.CategoryTrigger}
	if in.Geometry.AxisAligned {
		trigger, err = e.host.AddBox(in.Geometry.TriggerRect(), opts)
	} else {
		trigger, err = e.host.AddPolygon(in.Geometry.Trigger, opts)
	}
	if err != nil {
		return fmt.Errorf("slope: trigger: %w", err)
	}
	outline, err := e.host.AddPolygon(in.Geometry.Outline, physics.ShapeOptions{
		Category: physics.CategorySolid,
		Friction: e.cfg.OutlineFriction,
	})
	if err != nil {
		e.host.RemoveShape(trigger)
		return fmt.Errorf("slope: outline: %w", err)
	}
	in.trigger = trigger
	in.outline = outline
	return nil
}

func (e *Engine) removeShapes(in *Instance) {
	e.host.RemoveShape(in.trigger)
	e.host.RemoveShape(in.outline)
}

// Update replaces a slope's descriptor. Geometry is rebuilt only when a
// shape field changed; if the new geometry is invalid the previous
// descriptor and geometry stay in place.
func (e *Engine) Update(id ID, desc descriptor.Slope) ([]descriptor.Warning, error) {
	in, ok := e.slopes[id]
	if !ok {
		return nil, fmt.Errorf("slope: update: unknown slope %d", id)
	}
	ws := desc.Normalize()

	key := KeyOf(desc)
	if key != in.key {
		geo, err := BuildGeometry(desc)
		if err != nil {
			return ws, err
		}
		next := &Instance{Geometry: geo}
		if err := e.addShapes(next); err != nil {
			return ws, err
		}
		e.removeShapes(in)
		in.Geometry = geo
		in.trigger = next.trigger
		in.outline = next.outline
		in.key = key
	}

	if desc.Kind != in.Desc.Kind {
		e.releaseAll(in)
	}
	in.Desc = desc
	return ws, nil
}

// Remove releases every tracked body and unregisters the slope's shapes.
func (e *Engine) Remove(id ID) bool {
	in, ok := e.slopes[id]
	if !ok {
		return false
	}
	e.releaseAll(in)
	e.removeShapes(in)
	delete(e.slopes, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every slope.
func (e *Engine) Clear() {
	for _, id := range append([]ID(nil), e.order...) {
		e.Remove(id)
	}
}

func (e *Engine) releaseAll(in *Instance) {
	for _, body := range sortedBodies(in.tracked) {
		e.exit(in, body)
	}
}

func (e *Engine) Instance(id ID) (Instance, bool) {
	in, ok := e.slopes[id]
	if !ok {
		return Instance{}, false
	}
	return *in, true
}

// IDs returns registered slopes in registration order.
func (e *Engine) IDs() []ID {
	return append([]ID(nil), e.order...)
}

func (e *Engine) Len() int { return len(e.order) }

// Tracked returns the bodies currently on a slope.
func (e *Engine) Tracked(id ID) []physics.BodyID {
	in, ok := e.slopes[id]
	if !ok {
		return nil
	}
	return sortedBodies(in.tracked)
}

// Tick runs one effect pass: stale bodies are pruned, entries and exits are
// resolved from the host's overlap query, then every tracked body has its
// slope's effects applied. Slopes removed by an event sink during the pass
// are skipped from that point on.
func (e *Engine) Tick(dt float64) error {
	if e.host == nil {
		return fmt.Errorf("slope: tick: physics host: %w", common.ErrMissingCollaborator)
	}
	for _, id := range append([]ID(nil), e.order...) {
		in, ok := e.slopes[id]
		if !ok {
			continue
		}
		e.tick(in, dt)
	}
	return nil
}

func (e *Engine) tick(in *Instance, dt float64) {
	alive := func() bool { return e.slopes[in.ID] == in }

	e.prune(in)
	if !alive() {
		return
	}

	mask := e.cfg.LayerMask
	if in.Desc.AffectedLayers != 0 {
		mask = in.Desc.AffectedLayers
	}
	current := make(map[physics.BodyID]bool)
	for _, body := range e.host.OverlapShape(in.trigger, mask) {
		current[body] = true
		if _, ok := in.tracked[body]; ok {
			continue
		}
		if _, ok := e.host.Mass(body); !ok {
			continue
		}
		e.enter(in, body)
		if !alive() {
			return
		}
	}
	for _, body := range sortedBodies(in.tracked) {
		if !current[body] {
			e.exit(in, body)
			if !alive() {
				return
			}
		}
	}
	for _, body := range sortedBodies(in.tracked) {
		e.apply(in, body, dt)
	}
}

// prune drops bodies the host no longer knows. Nothing is restored on a
// destroyed body.
func (e *Engine) prune(in *Instance) {
	for _, body := range sortedBodies(in.tracked) {
		if e.host.Exists(body) {
			continue
		}
		delete(in.tracked, body)
		delete(e.overrides, body)
		e.sink.Emit(events.Event{Kind: events.BodyExitedSlope, Slope: uint64(in.ID), Body: body})
		if e.slopes[in.ID] != in {
			return
		}
	}
}

// enter skips the kind's entry effect when the sink removed the slope or
// released the body while handling the event.
func (e *Engine) enter(in *Instance, body physics.BodyID) {
	in.tracked[body] = struct{}{}
	e.sink.Emit(events.Event{Kind: events.BodyEnteredSlope, Slope: uint64(in.ID), Body: body})
	if _, ok := in.tracked[body]; !ok || e.slopes[in.ID] != in {
		return
	}
	if h, ok := handlers[in.Desc.Kind]; ok && h.enter != nil {
		h.enter(e, in, body)
	}
}

func (e *Engine) exit(in *Instance, body physics.BodyID) {
	if _, ok := in.tracked[body]; !ok {
		return
	}
	if h, ok := handlers[in.Desc.Kind]; ok && h.exit != nil {
		h.exit(e, in, body)
	}
	delete(in.tracked, body)
	e.sink.Emit(events.Event{Kind: events.BodyExitedSlope, Slope: uint64(in.ID), Body: body})
}

func (e *Engine) apply(in *Instance, body physics.BodyID, dt float64) {
	d := in.Desc
	v := e.host.Velocity(body)
	if math.Abs(v.X) > e.cfg.VelocityThreshold {
		v.X = e.clampSpeed(v.X * d.SpeedMultiplier)
		e.host.SetVelocity(body, v)
	}

	if d.AffectGravity && d.GravityRedirection > 0 {
		if mass, ok := e.host.Mass(body); ok {
			dir := in.Geometry.Direction
			along := e.host.Gravity().Dot(dir)
			e.host.AddForce(body, dir.Scale(along*d.GravityRedirection*mass))
		}
	}

	if h, ok := handlers[d.Kind]; ok && h.apply != nil {
		h.apply(e, in, body, dt)
	}
}

func (e *Engine) clampSpeed(vx float64) float64 {
	if e.cfg.MaxSpeed <= 0 {
		return vx
	}
	return common.Clamp(vx, -e.cfg.MaxSpeed, e.cfg.MaxSpeed)
}

func sortedBodies(m map[physics.BodyID]struct{}) []physics.BodyID {
	out := make([]physics.BodyID, 0, len(m))
	for b := range m {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func logUnexpectedParams(in *Instance, want string) {
	log.Printf("slope: %d (%s) has %T params, expected %s", in.ID, in.Desc.Kind, in.Desc.Params, want)
}
