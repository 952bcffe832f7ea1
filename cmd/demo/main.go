package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"animatic/demo/tui"
	"animatic/timeline"
)

func main() {
	projectPath := flag.String("project", "", "Path to a project JSON file (optional)")
	flag.Parse()

	project, err := loadProject(*projectPath)
	if err != nil {
		fmt.Printf("Error loading project: %v\n", err)
		os.Exit(1)
	}

	m := tui.NewModel(timeline.NewEditor(project))
	program := tea.NewProgram(m)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}

// loadProject reads a project document from disk, or builds a small sample
// timeline when no path is given.
func loadProject(path string) (*timeline.ProjectState, error) {
	if path == "" {
		return sampleProject(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p timeline.ProjectState
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &p, nil
}

func sampleProject() *timeline.ProjectState {
	clip := func(name string, start, end float64) timeline.MediaFile {
		return timeline.MediaFile{
			ID:             uuid.NewString(),
			FileName:       name,
			Type:           "video",
			StartTime:      0,
			EndTime:        end - start,
			PositionStart:  start,
			PositionEnd:    end,
			IncludeInMerge: true,
			PlaybackSpeed:  1,
			Volume:         100,
		}
	}
	return &timeline.ProjectState{
		ID:          uuid.NewString(),
		ProjectName: "sample",
		CreatedAt:   time.Now(),
		MediaFiles: []timeline.MediaFile{
			clip("intro.mp4", 0, 6),
			clip("pythagoras.mp4", 6, 14),
			clip("outro.mp4", 14, 18),
		},
		TextElements: []timeline.TextElement{
			{
				ID:            uuid.NewString(),
				Text:          "The Pythagorean Theorem",
				PositionStart: 1,
				PositionEnd:   5,
				FontSize:      32,
				Color:         "white",
			},
		},
		FPS: 30,
	}
}
