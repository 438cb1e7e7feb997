// Package level wires the tile store, terrain generator, slope engine and
// generation scheduler into a single per-frame update.
package level

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/config"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/events"
	"github.com/milk9111/platformgen/physics"
	"github.com/milk9111/platformgen/scheduler"
	"github.com/milk9111/platformgen/slope"
	"github.com/milk9111/platformgen/terrain"
	"github.com/milk9111/platformgen/tilegrid"
)

// Stage owns the generated terrain and slopes of one loaded stage.
type Stage struct {
	cfg  *config.Config
	host physics.Host
	sink events.Sink

	store     *tilegrid.Store
	generator *terrain.Generator
	slopes    *slope.Engine
	sched     *scheduler.Scheduler
	systems   []System

	watcher *descriptor.Watcher

	desc     descriptor.Stage
	loaded   bool
	slopeIDs map[string]slope.ID
	hazards  []terrain.Hazard
	dynamic  []terrain.PlacedPlatform
	surfaces []terrain.PlacedPlatform

	focus  common.Vec
	frames int
}

// New builds a stage around the given collaborators. A nil cfg uses
// config.Default and a nil sink drops events.
func New(cfg *config.Config, host physics.Host, renderer tilegrid.Renderer, sink events.Sink) (*Stage, error) {
	if host == nil {
		return nil, fmt.Errorf("level: physics host: %w", common.ErrMissingCollaborator)
	}
	if renderer == nil {
		return nil, fmt.Errorf("level: tile renderer: %w", common.ErrMissingCollaborator)
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("level: config: %w", err)
	}
	if sink == nil {
		sink = events.Discard
	}

	store := tilegrid.NewStore(cfg.TileSize, renderer, host)
	gen := terrain.NewGenerator(store)
	engine := slope.NewEngine(host, sink, cfg.SlopeEngine())

	s := &Stage{
		cfg:       cfg,
		host:      host,
		sink:      sink,
		store:     store,
		generator: gen,
		slopes:    engine,
		sched:     scheduler.New(gen, engine, cfg.Scheduler.MaxPerFrame),
		slopeIDs:  make(map[string]slope.ID),
	}
	s.systems = []System{
		reloadSystem{},
		generationSystem{},
		collisionSystem{},
		slopeSystem{},
		cleanupSystem{},
	}
	return s, nil
}

// Load queues generation for every auto-generated layer, every segment and
// every slope in st. Repairs are reported to the sink as warnings. Nothing
// is generated until Update runs.
func (s *Stage) Load(st descriptor.Stage) error {
	st.Layers = append([]descriptor.Layer(nil), st.Layers...)
	st.Segments = append([]descriptor.Segment(nil), st.Segments...)
	st.Slopes = append([]descriptor.Slope(nil), st.Slopes...)
	for i := range st.Slopes {
		s.cfg.SlopeDefaults(&st.Slopes[i])
	}
	// Unrepairable descriptors fail when their request runs and are
	// reported then.
	s.warnAll(st.Normalize())

	s.desc = st
	s.loaded = true

	var errs []error
	enqueue := func(req scheduler.Request) {
		req.OnComplete = s.complete
		if _, err := s.sched.Enqueue(req); err != nil {
			errs = append(errs, err)
		}
	}
	for i := range st.Layers {
		if !st.Layers[i].AutoGenerate {
			continue
		}
		enqueue(scheduler.Request{Layer: &st.Layers[i]})
	}
	segs := st.Layout()
	for i := range segs {
		enqueue(scheduler.Request{Segment: &segs[i], Region: segs[i].Region()})
	}
	for i := range st.Slopes {
		enqueue(scheduler.Request{Slope: &st.Slopes[i]})
	}
	log.Printf("level: loaded %q: %d requests queued", st.Name, s.sched.Pending())
	return errors.Join(errs...)
}

// Reset drops pending work and removes every tile and slope.
func (s *Stage) Reset() error {
	s.sched.CancelAll()
	s.slopes.Clear()
	s.slopeIDs = make(map[string]slope.ID)
	s.hazards = nil
	s.dynamic = nil
	s.surfaces = nil
	s.loaded = false
	return s.store.ClearAll()
}

// Reload replaces the current stage with st.
func (s *Stage) Reload(st descriptor.Stage) error {
	if err := s.Reset(); err != nil {
		return err
	}
	return s.Load(st)
}

// Watch starts reloading stage files from dir when they change. Reloads
// are applied by Update.
func (s *Stage) Watch(dir string) error {
	if s.watcher != nil {
		return fmt.Errorf("level: already watching")
	}
	w, err := descriptor.NewWatcher(dir)
	if err != nil {
		return fmt.Errorf("level: watch %s: %w", dir, err)
	}
	s.watcher = w
	return nil
}

func (s *Stage) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}

// Update runs one frame: pending reloads, a generation batch, collision
// regeneration, slope effects and periodic cleanup, in that order.
func (s *Stage) Update(dt float64) error {
	s.frames++
	for _, sys := range s.systems {
		if err := sys.Update(s, dt); err != nil {
			return err
		}
	}
	return nil
}

// Flush runs generation until the queue is empty and then rebuilds
// collision geometry.
func (s *Stage) Flush() error {
	s.sched.Flush()
	if s.store.Dirty() {
		return s.store.RegenerateCollisionGeometry()
	}
	return nil
}

func (s *Stage) complete(c scheduler.Completion) {
	s.warnAll(c.Warnings)
	if c.Err != nil {
		events.Warn(s.sink, "level: %s skipped: %v", c.Request, c.Err)
		return
	}

	switch {
	case c.Request.Slope != nil:
		if name := c.Request.Slope.Name; name != "" {
			s.slopeIDs[name] = c.Slope
		}
	default:
		s.hazards = append(s.hazards, c.Terrain.Hazards...)
		s.dynamic = append(s.dynamic, c.Terrain.Dynamic...)
		s.surfaces = append(s.surfaces, c.Terrain.Surfaces...)
		for i := range c.Terrain.Slopes {
			ramp := c.Terrain.Slopes[i]
			s.cfg.SlopeDefaults(&ramp)
			if _, err := s.sched.Enqueue(scheduler.Request{Slope: &ramp, OnComplete: s.complete}); err != nil {
				events.Warn(s.sink, "level: ramp %q: %v", ramp.Name, err)
			}
		}
	}
}

func (s *Stage) warnAll(ws []descriptor.Warning) {
	for _, w := range ws {
		events.Warn(s.sink, "%s", w)
	}
}

// SetFocus moves the point distant-tile cleanup measures from.
func (s *Stage) SetFocus(p common.Vec) { s.focus = p }

func (s *Stage) Store() *tilegrid.Store          { return s.store }
func (s *Stage) Slopes() *slope.Engine           { return s.slopes }
func (s *Stage) Scheduler() *scheduler.Scheduler { return s.sched }
func (s *Stage) Config() *config.Config          { return s.cfg }
func (s *Stage) Frames() int                     { return s.frames }
func (s *Stage) Loaded() bool                    { return s.loaded }

// Descriptor returns the normalized descriptor of the loaded stage.
func (s *Stage) Descriptor() descriptor.Stage { return s.desc }

// Idle reports whether all queued generation has run.
func (s *Stage) Idle() bool { return s.sched.Pending() == 0 }

func (s *Stage) Hazards() []terrain.Hazard { return s.hazards }

// Dynamic returns platforms the host should spawn as moving bodies.
func (s *Stage) Dynamic() []terrain.PlacedPlatform { return s.dynamic }

// Surfaces returns platforms with special contact behaviour.
func (s *Stage) Surfaces() []terrain.PlacedPlatform { return s.surfaces }

// SlopeID looks up a registered slope by descriptor name.
func (s *Stage) SlopeID(name string) (slope.ID, bool) {
	id, ok := s.slopeIDs[name]
	return id, ok
}

// SlopeNames returns the names of registered named slopes, sorted.
func (s *Stage) SlopeNames() []string {
	names := make([]string, 0, len(s.slopeIDs))
	for name := range s.slopeIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
