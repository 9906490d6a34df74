package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/PlatDrake2875/diarization/playback"
	"github.com/PlatDrake2875/diarization/transcript"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.mode != modeNormal {
			return m.handleInputKey(msg)
		}
		return m.handleKey(msg)
	case TickMsg:
		return m.handleTick(msg)
	case FetchResultMsg:
		return m.handleFetchResult(msg)
	case AnalyzeResultMsg:
		return m.handleAnalyzeResult(msg)
	case DurationLoadedMsg:
		return m.handleDurationLoaded(msg)
	case ExportWrittenMsg:
		return m.handleExportWritten(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.sync.Close()
		return m, tea.Quit

	case "i":
		m.mode = modeSource
		m.input = m.source
		return m, nil

	case "f":
		return m.startFetch()

	case "a":
		return m.startAnalyze()

	case " ":
		m.player.TogglePlay()
		if m.player.Playing() {
			return m.armTick()
		}
		return m, nil

	case "left":
		m.seek(func() error { return m.sync.Step(-stepSeconds) })
		return m, nil
	case "right":
		m.seek(func() error { return m.sync.Step(stepSeconds) })
		return m, nil
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		f := float64(msg.String()[0]-'0') / 10
		m.seek(func() error { return m.sync.SeekFraction(f) })
		return m, nil

	case "j", "down":
		if m.selected < len(m.segments)-1 {
			m.selected++
		}
		return m, nil
	case "k", "up":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "enter":
		if seg, ok := m.selectedSegment(); ok {
			if total, known := m.player.Duration(); known && total > 0 {
				m.seek(func() error { return m.sync.SeekFraction(seg.StartTime / total) })
			}
		}
		return m, nil

	case "s":
		if seg, ok := m.selectedSegment(); ok {
			m.mode = modeSpeaker
			m.input = seg.Speaker
		}
		return m, nil
	case "t":
		if seg, ok := m.selectedSegment(); ok {
			m.mode = modeText
			m.input = seg.Text
		}
		return m, nil

	case "x":
		return m.exportTranscript()
	}
	return m, nil
}

// seek runs a seek interaction and surfaces rejections in the status line.
func (m *Model) seek(do func() error) {
	if err := do(); err == playback.ErrDurationUnknown {
		m.status = "seeking unavailable until media loads"
	} else if err != nil {
		m.status = err.Error()
	}
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		return m.commitInput()
	case tea.KeyEscape:
		m.mode = modeNormal
		m.input = ""
		return m, nil
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			runes := []rune(m.input)
			m.input = string(runes[:len(runes)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m Model) commitInput() (tea.Model, tea.Cmd) {
	mode := m.mode
	m.mode = modeNormal

	switch mode {
	case modeSource:
		if m.input != m.source {
			m.source = m.input
			// Changing the source supersedes everything derived from
			// the old one, including in-flight calls.
			m.ctrl.Reset()
			m.segments = nil
			m.selected = 0
			m = m.rebindPlayback()
		}
		return m, nil

	case modeSpeaker, modeText:
		seg, ok := m.selectedSegment()
		if !ok {
			return m, nil
		}
		field := transcript.FieldSpeaker
		if mode == modeText {
			field = transcript.FieldText
		}
		updated, err := m.store.UpdateField(seg.ID, field, m.input)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.segments = updated
		return m, nil
	}
	return m, nil
}

func (m Model) startFetch() (tea.Model, tea.Cmd) {
	ticket, err := m.ctrl.StartFetch(m.source)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.segments = nil
	m.selected = 0
	m = m.rebindPlayback()

	m, tick := m.armTick()
	return m, tea.Batch(runFetch(m.pipeline, ticket, m.source), tick)
}

func (m Model) startAnalyze() (tea.Model, tea.Cmd) {
	ticket, err := m.ctrl.StartAnalyze()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	m.segments = nil
	m.selected = 0

	m, tick := m.armTick()
	return m, tea.Batch(runAnalyze(m.pipeline, ticket, m.ctrl.Media.AudioReference), tick)
}

func (m Model) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	m.tickArmed = false
	dt := msg.Time.Sub(m.lastTick).Seconds()
	m.lastTick = msg.Time

	m.ctrl.Tick(msg.Time)
	m.player.Advance(dt)

	if m.ctrl.Busy() || m.player.Playing() {
		m.tickArmed = true
		return m, tickCmd()
	}
	return m, nil
}

func (m Model) handleFetchResult(msg FetchResultMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.ResolveFetch(msg.Ticket, msg.Media, msg.Err) {
		// Stale continuation from a superseded invocation.
		return m, nil
	}
	if msg.Err != nil {
		return m, nil // failure is rendered from the stage state
	}
	return m, probeDuration(msg.Media.PlayableURL)
}

func (m Model) handleAnalyzeResult(msg AnalyzeResultMsg) (tea.Model, tea.Cmd) {
	if !m.ctrl.ResolveAnalyze(msg.Ticket, msg.Segments, msg.Err) {
		return m, nil
	}
	if msg.Err == nil {
		m.segments = m.store.Segments()
		m.selected = 0
	}
	return m, nil
}

func (m Model) handleDurationLoaded(msg DurationLoadedMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.Media == nil || m.ctrl.Media.PlayableURL != msg.PlayableURL {
		return m, nil // media was replaced while probing
	}
	if msg.Err != nil {
		m.status = fmt.Sprintf("could not read media duration: %v", msg.Err)
		return m, nil
	}
	m.player.SetDuration(msg.Seconds)
	return m, nil
}

func (m Model) handleExportWritten(msg ExportWrittenMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.status = fmt.Sprintf("export failed: %v", msg.Err)
	} else {
		m.status = fmt.Sprintf("exported to %s", msg.Path)
	}
	return m, nil
}

func (m Model) exportTranscript() (tea.Model, tea.Cmd) {
	if m.store.Len() == 0 {
		m.status = "nothing to export yet"
		return m, nil
	}
	name := transcript.ExportFileName(m.sourceTitle())
	content := transcript.Export(m.store.Segments())
	return m, writeExport(name, content)
}
