// Command camtrace runs a camera rig headless against scripted targets and
// draws the framing as ASCII in the terminal.
//
//	go run ./cmd/camtrace -rig camera.yaml
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/milk9111/followcam/prefabs"
)

func main() {
	rigName := flag.String("rig", "camera.yaml", "rig spec in prefabs/")
	fps := flag.Int("fps", 30, "simulation ticks per second")
	flag.Parse()

	spec, err := prefabs.LoadRigSpec(*rigName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "camtrace: %v\n", err)
		os.Exit(1)
	}

	model, err := newTracer(spec, *fps)
	if err != nil {
		fmt.Fprintf(os.Stderr, "camtrace: %v\n", err)
		os.Exit(1)
	}
	defer model.rig.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
