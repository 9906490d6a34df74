package playback

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ProbeDuration reads the container duration of a media file or URL. This
// is the "metadata load" for the terminal player: the result feeds
// Player.SetDuration, after which seeks are accepted.
func ProbeDuration(source string) (float64, error) {
	out, err := ffmpeg.Probe(source)
	if err != nil {
		return 0, fmt.Errorf("probe media: %w", err)
	}

	var probed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(out), &probed); err != nil {
		return 0, fmt.Errorf("parse probe output: %w", err)
	}
	seconds, err := strconv.ParseFloat(probed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse probed duration %q: %w", probed.Format.Duration, err)
	}
	return seconds, nil
}
