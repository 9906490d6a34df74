package tui

import (
	"strings"
	"testing"

	"github.com/PlatDrake2875/diarization/types"
)

func TestViewBoxesMediaPanel(t *testing.T) {
	m := NewModel("")
	m.ctrl.Media = &types.MediaDescriptor{
		Title:          "interview.wav",
		PlayableURL:    "http://localhost:8080/media/x.wav",
		AudioReference: "x",
	}

	out := m.View()
	if !strings.Contains(out, "interview.wav") {
		t.Error("media title missing from view")
	}
	if !strings.Contains(out, "╭") || !strings.Contains(out, "╰") {
		t.Error("media panel not rendered inside its border")
	}
}

func TestViewWithoutMediaHasNoPanel(t *testing.T) {
	m := NewModel("")
	if out := m.View(); strings.Contains(out, "╭") {
		t.Error("border rendered with no media loaded")
	}
}
