package main

import (
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/platformgen/common"
	"github.com/milk9111/platformgen/config"
	"github.com/milk9111/platformgen/descriptor"
	"github.com/milk9111/platformgen/events"
	"github.com/milk9111/platformgen/level"
	"github.com/milk9111/platformgen/physics"
	"github.com/milk9111/platformgen/render"
	"github.com/milk9111/platformgen/stages"
)

const (
	baseWidth  = 1280
	baseHeight = 720

	tickRate  = 60
	zoom      = 24
	moveSpeed = 6.0
	jumpSpeed = 9.0
)

type Game struct {
	frames   int
	debug    bool
	paused   bool
	watching bool
	pauseUI  *ebitenui.UI

	input  *Input
	cfg    *config.Config
	space  *physics.Space
	tiles  *render.TileRenderer
	stage  *level.Stage
	events *events.Queue
	camera *render.Camera

	body      physics.BodyID
	spawn     common.Vec
	lastEvent string
}

func NewGame(stagePath, configPath string, debug, watch bool) (*Game, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	st, onDisk, err := loadStage(stagePath)
	if err != nil {
		return nil, err
	}

	space := physics.NewSpace(cfg.GravityVector(), cfg.Physics.Iterations)
	tiles := render.NewTileRenderer(cfg.TileSize)
	queue := &events.Queue{}
	stage, err := level.New(cfg, space, tiles, events.Fanout{queue, events.LogSink{}})
	if err != nil {
		return nil, err
	}
	if err := stage.Load(*st); err != nil {
		return nil, err
	}
	if err := stage.Flush(); err != nil {
		return nil, err
	}
	watching := watch || cfg.Watch.Enabled
	if watching {
		dir := cfg.Watch.Dir
		if dir == "" && onDisk {
			dir = filepath.Dir(stagePath)
		}
		if dir == "" {
			dir = "stages"
		}
		if err := stage.Watch(dir); err != nil {
			return nil, err
		}
	}

	g := &Game{
		debug:    debug,
		watching: watching,
		input:    NewInput(),
		cfg:      cfg,
		space:    space,
		tiles:    tiles,
		stage:    stage,
		events:   queue,
		camera:   render.NewCamera(baseWidth, baseHeight, zoom),
	}
	g.spawn = g.spawnPoint()
	g.body = space.AddDynamicBox(g.spawn, 0.8*cfg.TileSize, 0.8*cfg.TileSize, 1, physics.CategoryBody)
	g.camera.CenterOn(g.spawn)
	return g, nil
}

// loadStage treats path as a file when it exists and as a bundled stage
// name otherwise.
func loadStage(path string) (*descriptor.Stage, bool, error) {
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		st, err := descriptor.LoadStageFile(path)
		return st, true, err
	}
	st, err := stages.Load(path)
	return st, false, err
}

// spawnPoint is just above the top-left of the generated terrain.
func (g *Game) spawnPoint() common.Vec {
	ts := g.cfg.TileSize
	bounds, ok := g.stage.Store().Bounds()
	if !ok {
		return common.Vec{}
	}
	return common.Vec{X: (float64(bounds.X) + 1.5) * ts, Y: float64(bounds.MaxY()+3) * ts}
}

func (g *Game) Close() {
	if err := g.stage.Close(); err != nil {
		log.Printf("viewer: close: %v", err)
	}
}

func (g *Game) Update() error {
	g.frames++
	dt := 1.0 / tickRate

	g.input.Update()
	if g.input.TogglePause {
		g.paused = !g.paused
		if g.paused {
			g.pauseUI = NewPauseUI(g)
		}
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}
	if g.input.ToggleDebug {
		g.debug = !g.debug
	}
	if g.input.Respawn || !g.space.Exists(g.body) {
		g.respawn()
	}

	v := g.space.Velocity(g.body)
	if g.input.MoveX != 0 {
		v.X = g.input.MoveX * moveSpeed
	}
	if g.input.JumpPressed && math.Abs(v.Y) < 0.05 {
		v.Y = jumpSpeed
	}
	g.space.SetVelocity(g.body, v)
	g.space.Step(dt)

	pos := g.space.Position(g.body)
	g.stage.SetFocus(pos)
	if err := g.stage.Update(dt); err != nil {
		return err
	}
	g.camera.CenterOn(pos)

	for _, evt := range g.events.Drain() {
		g.lastEvent = evt.String()
	}
	return nil
}

func (g *Game) respawn() {
	if g.space.Exists(g.body) {
		g.space.DestroyBody(g.body)
	}
	g.spawn = g.spawnPoint()
	ts := g.cfg.TileSize
	g.body = g.space.AddDynamicBox(g.spawn, 0.8*ts, 0.8*ts, 1, physics.CategoryBody)
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.tiles.Draw(screen, g.camera)
	if g.debug {
		render.DrawClasses(screen, g.camera, g.stage.Store())
		render.DrawSpace(screen, g.camera, g.space.CP())
	}

	pos := g.space.Position(g.body)
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"Frames: %d    FPS: %.2f\nstage: %s  cells: %d  slopes: %d  pending: %d\nbody: (%.1f, %.1f)  last event: %s",
		g.frames, ebiten.ActualFPS(),
		g.stage.Descriptor().Name, g.stage.Store().Len(), g.stage.Slopes().Len(), g.stage.Scheduler().Pending(),
		pos.X, pos.Y, g.lastEvent,
	))
	if !g.debug {
		render.DrawBody(screen, g.camera, pos, 0.8*g.cfg.TileSize)
	}
	if g.paused {
		g.pauseUI.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return baseWidth, baseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
