package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "draw targets, zones and boundaries")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	rigName := flag.String("rig", "camera.yaml", "rig spec in prefabs/")
	balls := flag.Int("balls", 6, "balls to spawn as extra camera targets")
	watch := flag.Bool("watch", true, "reload the rig spec and scripts when they change on disk")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("followcam")

	game, err := NewGame(GameOptions{
		Rig:   *rigName,
		Balls: *balls,
		Debug: *debug,
		Watch: *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
