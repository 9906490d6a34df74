// Package timeline derives the visual track model from a segment list:
// per-speaker grouping, deterministic speaker colors, and percent-based
// segment placement along the total media duration. Everything here is a
// pure function of its inputs so it renders the same under any host view.
package timeline

import (
	"fmt"
	"hash/fnv"

	"github.com/charmbracelet/lipgloss"

	"github.com/PlatDrake2875/diarization/types"
)

// UnknownSpeaker is the sentinel group for segments with no speaker label.
const UnknownSpeaker = "UNKNOWN_SPEAKER"

// MinWidthPercent keeps zero and near-zero duration segments visible and
// clickable on the track.
const MinWidthPercent = 0.2

// Group is one timeline row: a speaker label and that speaker's segments
// in original order.
type Group struct {
	Speaker  string
	Segments []types.Segment
}

// GroupBySpeaker returns one group per distinct speaker, ordered by first
// appearance. Unlabeled segments fall into the UnknownSpeaker group.
func GroupBySpeaker(segments []types.Segment) []Group {
	index := make(map[string]int)
	groups := make([]Group, 0)
	for _, seg := range segments {
		label := seg.Speaker
		if label == "" {
			label = UnknownSpeaker
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group{Speaker: label})
		}
		groups[i].Segments = append(groups[i].Segments, seg)
	}
	return groups
}

// Palette holds the speaker track colors. Kept visually distinct from the
// chrome colors in the TUI styles.
var Palette = []lipgloss.Color{
	lipgloss.Color("#7D56F4"),
	lipgloss.Color("#04B575"),
	lipgloss.Color("#FF6B6B"),
	lipgloss.Color("#F4A261"),
	lipgloss.Color("#2A9D8F"),
	lipgloss.Color("#E9C46A"),
	lipgloss.Color("#5FA8D3"),
	lipgloss.Color("#C77DFF"),
	lipgloss.Color("#FF70A6"),
	lipgloss.Color("#90BE6D"),
	lipgloss.Color("#F9844A"),
	lipgloss.Color("#43AA8B"),
}

// ColorFor maps a speaker to a palette color. The same label always maps
// to the same color (stable string hash); an absent label falls back to
// the row index so distinct unlabeled rows still look distinct.
func ColorFor(label string, speakerIndex int) lipgloss.Color {
	if label == "" {
		i := speakerIndex % len(Palette)
		if i < 0 {
			i += len(Palette)
		}
		return Palette[i]
	}
	h := fnv.New32a()
	h.Write([]byte(label))
	return Palette[h.Sum32()%uint32(len(Palette))]
}

// Placement positions a segment on the track as percentages of the total
// duration.
type Placement struct {
	OffsetPercent float64
	WidthPercent  float64
}

// InvalidInputError reports a layout request with a non-positive total
// duration.
type InvalidInputError struct {
	TotalDuration float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("total duration must be positive, got %g", e.TotalDuration)
}

// Layout computes the segment's track placement. Width is floored at
// MinWidthPercent.
func Layout(seg types.Segment, totalDuration float64) (Placement, error) {
	if totalDuration <= 0 {
		return Placement{}, &InvalidInputError{TotalDuration: totalDuration}
	}
	p := Placement{
		OffsetPercent: 100 * seg.StartTime / totalDuration,
		WidthPercent:  100 * seg.Duration() / totalDuration,
	}
	if p.WidthPercent < MinWidthPercent {
		p.WidthPercent = MinWidthPercent
	}
	return p, nil
}
