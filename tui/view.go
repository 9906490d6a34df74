package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PlatDrake2875/diarization/stage"
	"github.com/PlatDrake2875/diarization/timeline"
	"github.com/PlatDrake2875/diarization/transcript"
)

const speakerColumnWidth = 14

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🎙  Speaker Diarization Workbench"))
	b.WriteString("\n\n")

	b.WriteString(m.renderSource())
	b.WriteString("\n\n")

	b.WriteString(renderStage("fetch  ", m.ctrl.Fetch))
	b.WriteString("\n")
	b.WriteString(renderStage("analyze", m.ctrl.Analyze))
	b.WriteString("\n\n")

	if m.ctrl.Media != nil {
		panel := InfoStyle.Render(fmt.Sprintf("🎵 %s  (%s)", m.ctrl.Media.Title, m.ctrl.Media.PlayableURL)) +
			"\n" + m.renderPlayback()
		b.WriteString(BoxStyle.Render(panel))
		b.WriteString("\n\n")
	}

	if len(m.segments) > 0 {
		b.WriteString(m.renderTimeline())
		b.WriteString("\n")
		b.WriteString(m.renderTranscript())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(ErrorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderSource() string {
	if m.mode == modeSource {
		return HighlightStyle.Render("source:") + " " + m.input + "▌"
	}
	if m.source == "" {
		return InfoStyle.Render("Press 'i' to enter a media URL or file path")
	}
	return InfoStyle.Render("source: ") + m.source
}

func renderStage(name string, st stage.Stage) string {
	switch st.State {
	case stage.StateRunning:
		return StatusStyle.Render(fmt.Sprintf("⏳ %s running… %ds", name, st.ElapsedSeconds))
	case stage.StateSucceeded:
		return StatusStyle.Render(fmt.Sprintf("✅ %s done in %.1fs", name, st.FinalDurationSeconds))
	case stage.StateFailed:
		return ErrorStyle.Render(fmt.Sprintf("❌ %s failed after %.1fs: %v", name, st.FinalDurationSeconds, st.Err))
	default:
		return InfoStyle.Render(fmt.Sprintf("   %s idle", name))
	}
}

func (m Model) renderPlayback() string {
	total, known := m.player.Duration()
	if !known {
		return InfoStyle.Render("   loading media metadata…")
	}
	icon := "⏸"
	if m.player.Playing() {
		icon = "▶"
	}
	return InfoStyle.Render(fmt.Sprintf("%s  %s / %s", icon,
		transcript.FormatTimestamp(m.sync.Position()),
		transcript.FormatTimestamp(total)))
}

// renderTimeline draws one colored row per speaker plus the position
// ruler underneath.
func (m Model) renderTimeline() string {
	total, known := m.player.Duration()
	if !known || total <= 0 {
		return InfoStyle.Render("timeline appears once media metadata loads")
	}

	trackWidth := m.width - speakerColumnWidth - 2
	if trackWidth < 20 {
		trackWidth = 20
	}

	var b strings.Builder
	groups := timeline.GroupBySpeaker(m.segments)
	for i, g := range groups {
		row := make([]rune, trackWidth)
		for c := range row {
			row[c] = '·'
		}
		for _, seg := range g.Segments {
			p, err := timeline.Layout(seg, total)
			if err != nil {
				continue
			}
			start := int(p.OffsetPercent / 100 * float64(trackWidth))
			width := int(p.WidthPercent / 100 * float64(trackWidth))
			if width < 1 {
				width = 1
			}
			for c := start; c < start+width && c < trackWidth; c++ {
				row[c] = '█'
			}
		}
		style := lipgloss.NewStyle().Foreground(timeline.ColorFor(g.Speaker, i))
		b.WriteString(fmt.Sprintf("%-*s %s\n", speakerColumnWidth, truncate(g.Speaker, speakerColumnWidth), style.Render(string(row))))
	}

	if pct, ok := m.sync.IndicatorPercent(); ok {
		col := int(pct / 100 * float64(trackWidth-1))
		ruler := strings.Repeat("─", col) + "┼" + strings.Repeat("─", trackWidth-col-1)
		b.WriteString(fmt.Sprintf("%-*s %s\n", speakerColumnWidth, "", InfoStyle.Render(ruler)))
	}
	return b.String()
}

// renderTranscript lists a window of segments around the selection.
func (m Model) renderTranscript() string {
	const window = 8

	start := m.selected - window/2
	if start > len(m.segments)-window {
		start = len(m.segments) - window
	}
	if start < 0 {
		start = 0
	}
	end := start + window
	if end > len(m.segments) {
		end = len(m.segments)
	}

	var b strings.Builder
	b.WriteString(InfoStyle.Render(fmt.Sprintf("📝 Transcript (%d segments):", len(m.segments))))
	b.WriteString("\n")
	for i := start; i < end; i++ {
		seg := m.segments[i]
		speaker, text := seg.Speaker, seg.Text
		if i == m.selected {
			switch m.mode {
			case modeSpeaker:
				speaker = m.input + "▌"
			case modeText:
				text = m.input + "▌"
			}
		}
		line := fmt.Sprintf("[%s] (%ss - %ss): %s",
			speaker,
			transcript.FormatTimestamp(seg.StartTime),
			transcript.FormatTimestamp(seg.EndTime),
			truncate(text, m.width-34))
		if i == m.selected {
			b.WriteString(SelectedStyle.Render("> " + line))
		} else {
			b.WriteString(InfoStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFooter() string {
	switch m.mode {
	case modeSource:
		return InfoStyle.Render("enter: confirm source | esc: cancel")
	case modeSpeaker:
		return InfoStyle.Render("enter: save speaker | esc: cancel")
	case modeText:
		return InfoStyle.Render("enter: save text | esc: cancel")
	}
	if m.ctrl.Busy() {
		return InfoStyle.Render("working… | q: quit")
	}
	help := "i: source | f: fetch | a: analyze"
	if len(m.segments) > 0 {
		help += " | space: play | ←/→: seek ±5s | j/k: select | s/t: edit | enter: jump | x: export"
	}
	return InfoStyle.Render(help + " | q: quit")
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
