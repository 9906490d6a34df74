package tui

import (
	"context"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PlatDrake2875/diarization/client"
	"github.com/PlatDrake2875/diarization/playback"
	"github.com/PlatDrake2875/diarization/stage"
)

// runFetch issues the remote fetch call for one stage invocation.
func runFetch(c *client.Client, ticket stage.Ticket, source string) tea.Cmd {
	return func() tea.Msg {
		media, err := c.Fetch(context.Background(), source)
		return FetchResultMsg{Ticket: ticket, Media: media, Err: err}
	}
}

// runAnalyze issues the remote analyze call for one stage invocation.
func runAnalyze(c *client.Client, ticket stage.Ticket, audioReference string) tea.Cmd {
	return func() tea.Msg {
		segments, err := c.Analyze(context.Background(), audioReference)
		return AnalyzeResultMsg{Ticket: ticket, Segments: segments, Err: err}
	}
}

// probeDuration loads the media metadata for the playable URL.
func probeDuration(playableURL string) tea.Cmd {
	return func() tea.Msg {
		seconds, err := playback.ProbeDuration(playableURL)
		return DurationLoadedMsg{PlayableURL: playableURL, Seconds: seconds, Err: err}
	}
}

// writeExport writes the edited transcript to disk.
func writeExport(path, content string) tea.Cmd {
	return func() tea.Msg {
		err := os.WriteFile(path, []byte(content), 0o644)
		return ExportWrittenMsg{Path: path, Err: err}
	}
}

// tickCmd creates a command that ticks every second while a stage runs or
// playback advances.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
