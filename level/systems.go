package level

import (
	"fmt"
	"log"

	"github.com/milk9111/platformgen/events"
)

// System is one step of the stage's frame update.
type System interface {
	Update(s *Stage, dt float64) error
}

// reloadSystem applies stage files the watcher has reloaded.
type reloadSystem struct{}

func (reloadSystem) Update(s *Stage, _ float64) error {
	if s.watcher == nil {
		return nil
	}
	for {
		select {
		case r, ok := <-s.watcher.Events:
			if !ok {
				return nil
			}
			if r.Err != nil {
				events.Warn(s.sink, "level: reload %s: %v", r.Path, r.Err)
				continue
			}
			log.Printf("level: reloading %s", r.Path)
			if err := s.Reload(*r.Stage); err != nil {
				return fmt.Errorf("level: reload %s: %w", r.Path, err)
			}
		case err, ok := <-s.watcher.Errors:
			if ok && err != nil {
				events.Warn(s.sink, "level: watch: %v", err)
			}
		default:
			return nil
		}
	}
}

type generationSystem struct{}

func (generationSystem) Update(s *Stage, _ float64) error {
	s.sched.Tick()
	return nil
}

type collisionSystem struct{}

func (collisionSystem) Update(s *Stage, _ float64) error {
	if !s.store.Dirty() {
		return nil
	}
	if err := s.store.RegenerateCollisionGeometry(); err != nil {
		return fmt.Errorf("level: collision: %w", err)
	}
	return nil
}

type slopeSystem struct{}

func (slopeSystem) Update(s *Stage, dt float64) error {
	return s.slopes.Tick(dt)
}

// cleanupSystem drops tiles far from the focus point every few frames.
type cleanupSystem struct{}

func (cleanupSystem) Update(s *Stage, _ float64) error {
	c := s.cfg.Cleanup
	if !c.Enabled || s.frames%c.IntervalFrames != 0 {
		return nil
	}
	// Wait for queued generation to finish.
	if !s.Idle() {
		return nil
	}
	n, err := s.store.CleanupDistant(s.focus, c.Distance)
	if err != nil {
		return fmt.Errorf("level: cleanup: %w", err)
	}
	if n > 0 {
		log.Printf("level: cleaned up %d distant tiles", n)
	}
	return nil
}
