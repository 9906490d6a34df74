package server

import (
	"fmt"

	"github.com/PlatDrake2875/diarization/types"
)

// speakerGapThreshold is the silence gap, in seconds, above which the
// heuristic switches to the other speaker.
const speakerGapThreshold = 1.5

// assignSpeakers fills in speaker labels for backends that return none:
// alternate between two speakers whenever the gap between consecutive
// segments exceeds the threshold. Segments that already carry labels are
// left untouched.
func assignSpeakers(segments []types.Segment) {
	if len(segments) == 0 {
		return
	}
	for _, s := range segments {
		if s.Speaker != "" {
			return
		}
	}

	speaker := 0
	for i := range segments {
		if i > 0 {
			gap := segments[i].StartTime - segments[i-1].EndTime
			if gap > speakerGapThreshold {
				speaker = 1 - speaker
			}
		}
		segments[i].Speaker = speakerLabel(speaker)
	}
}

func speakerLabel(i int) string {
	return fmt.Sprintf("SPEAKER_%02d", i)
}
