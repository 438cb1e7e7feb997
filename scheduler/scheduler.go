// Package scheduler spreads generation work across frames. Requests are
// drained in strict FIFO order, at most MaxPerFrame per Tick.
package scheduler

import (
	"fmt"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/slope"
	"github.com/milk9111/platformgen/terrain"
)

type TerrainGenerator interface {
	GenerateLayer(layer descriptor.Layer, clip common.Region) (terrain.Result, error)
	GenerateSegment(seg descriptor.Segment) (terrain.Result, error)
}

type SlopeRegistrar interface {
	Register(desc descriptor.Slope) (slope.ID, []descriptor.Warning, error)
}

type RequestID uint64

// Request is one unit of generation work. Exactly one of Layer, Segment
// or Slope must be set.
type Request struct {
	ID RequestID
	// Region clips layer generation. Empty means no clip.
	Region common.Region

	Layer   *descriptor.Layer
	Segment *descriptor.Segment
	Slope   *descriptor.Slope

	// OnComplete runs as soon as the request has executed, whether or not
	// it succeeded.
	OnComplete func(Completion)
}

func (r Request) Kind() string {
	switch {
	case r.Layer != nil:
		return "layer"
	case r.Segment != nil:
		return "segment"
	case r.Slope != nil:
		return "slope"
	}
	return "empty"
}

func (r Request) String() string {
	switch {
	case r.Layer != nil:
		return fmt.Sprintf("layer %q", r.Layer.Name)
	case r.Segment != nil:
		return fmt.Sprintf("segment %d", r.Segment.Index)
	case r.Slope != nil:
		return fmt.Sprintf("slope %q", r.Slope.Name)
	}
	return "empty request"
}

func (r Request) targets() int {
	n := 0
	if r.Layer != nil {
		n++
	}
	if r.Segment != nil {
		n++
	}
	if r.Slope != nil {
		n++
	}
	return n
}

type Completion struct {
	Request Request
	// Terrain is set for layer and segment requests.
	Terrain terrain.Result
	// Slope is set for slope requests.
	Slope    slope.ID
	Warnings []descriptor.Warning
	Err      error
}

type Scheduler struct {
	gen    TerrainGenerator
	slopes SlopeRegistrar

	maxPerFrame int
	queue       []Request
	next        RequestID

	batches   int
	processed int
}

func New(gen TerrainGenerator, slopes SlopeRegistrar, maxPerFrame int) *Scheduler {
	if maxPerFrame <= 0 {
		maxPerFrame = 1
	}
	return &Scheduler{
		gen:         gen,
		slopes:      slopes,
		maxPerFrame: maxPerFrame,
	}
}

func (s *Scheduler) MaxPerFrame() int { return s.maxPerFrame }

// Enqueue appends req to the queue and returns its assigned ID.
func (s *Scheduler) Enqueue(req Request) (RequestID, error) {
	if n := req.targets(); n != 1 {
		return 0, fmt.Errorf("scheduler: enqueue: request has %d descriptors: %w", n, common.ErrInvalidDescriptor)
	}
	s.next++
	req.ID = s.next
	s.queue = append(s.queue, req)
	return req.ID, nil
}

// Cancel drops a pending request. Requests that already ran are unaffected.
func (s *Scheduler) Cancel(id RequestID) bool {
	for i, req := range s.queue {
		if req.ID == id {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// CancelAll drops every pending request and returns how many were dropped.
func (s *Scheduler) CancelAll() int {
	n := len(s.queue)
	s.queue = nil
	return n
}

func (s *Scheduler) Pending() int { return len(s.queue) }

// Stats reports the number of non-empty batches and requests run so far.
func (s *Scheduler) Stats() (batches, processed int) {
	return s.batches, s.processed
}

// Tick runs one batch of up to MaxPerFrame requests and returns how many
// ran. Requests enqueued by a completion callback join the back of the
// queue and may run in the same batch if budget remains.
func (s *Scheduler) Tick() int {
	n := 0
	for n < s.maxPerFrame && len(s.queue) > 0 {
		req := s.queue[0]
		s.queue = s.queue[1:]
		s.run(req)
		n++
	}
	if n > 0 {
		s.batches++
		s.processed += n
	}
	return n
}

// Flush runs batches until the queue is empty and returns the batch sizes.
func (s *Scheduler) Flush() []int {
	var sizes []int
	for len(s.queue) > 0 {
		sizes = append(sizes, s.Tick())
	}
	return sizes
}

func (s *Scheduler) run(req Request) {
	c := s.execute(req)
	if req.OnComplete != nil {
		req.OnComplete(c)
	}
}

func (s *Scheduler) execute(req Request) Completion {
	c := Completion{Request: req}
	switch {
	case req.Layer != nil:
		if s.gen == nil {
			c.Err = fmt.Errorf("scheduler: %s: generator: %w", req, common.ErrMissingCollaborator)
			return c
		}
		c.Terrain, c.Err = s.gen.GenerateLayer(*req.Layer, req.Region)
		c.Warnings = c.Terrain.Warnings
	case req.Segment != nil:
		if s.gen == nil {
			c.Err = fmt.Errorf("scheduler: %s: generator: %w", req, common.ErrMissingCollaborator)
			return c
		}
		c.Terrain, c.Err = s.gen.GenerateSegment(*req.Segment)
		c.Warnings = c.Terrain.Warnings
	case req.Slope != nil:
		if s.slopes == nil {
			c.Err = fmt.Errorf("scheduler: %s: slope registrar: %w", req, common.ErrMissingCollaborator)
			return c
		}
		c.Slope, c.Warnings, c.Err = s.slopes.Register(*req.Slope)
	}
	return c
}
