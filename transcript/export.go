package transcript

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/PlatDrake2875/diarization/types"
)

// FormatTimestamp converts seconds to mm:ss.mmm, rounded to the nearest
// millisecond so values like 8.2 don't come out a millisecond low.
func FormatTimestamp(seconds float64) string {
	ms := int(math.Round(seconds * 1000))
	return fmt.Sprintf("%02d:%02d.%03d", ms/60000, ms/1000%60, ms%1000)
}

// Export serializes the segments to the downloadable transcript format,
// one line per segment in held order:
//
//	[SPEAKER_00] (00:00.000s - 00:01.500s): hello
func Export(segments []types.Segment) string {
	var sb strings.Builder
	for _, seg := range segments {
		sb.WriteString(fmt.Sprintf("[%s] (%ss - %ss): %s\n",
			seg.Speaker,
			FormatTimestamp(seg.StartTime),
			FormatTimestamp(seg.EndTime),
			seg.Text))
	}
	return sb.String()
}

// ExportFileName derives the suggested export name from the source title:
// extension stripped, "_edited.txt" appended.
func ExportFileName(sourceTitle string) string {
	base := strings.TrimSuffix(sourceTitle, filepath.Ext(sourceTitle))
	if base == "" {
		base = "transcript"
	}
	return base + "_edited.txt"
}
