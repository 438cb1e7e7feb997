// Command viewer generates a stage and lets a box body ride its terrain.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	stagePath := flag.String("stage", "demo", "stage YAML file or bundled stage name")
	configPath := flag.String("config", "", "engine config YAML (defaults when empty)")
	debug := flag.Bool("debug", false, "draw collision shapes and classifications")
	watch := flag.Bool("watch", false, "reload the stage when files in its directory change")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformgen viewer")

	game, err := NewGame(*stagePath, *configPath, *debug, *watch)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
