package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/PlatDrake2875/diarization/config"
	"github.com/PlatDrake2875/diarization/tui"
)

func main() {
	// Load environment
	_ = godotenv.Load()
	cfg := config.Load()

	pipelineURL := flag.String("url", cfg.PipelineURL, "Pipeline service URL")
	flag.Parse()

	m := tui.NewModel(*pipelineURL)
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
