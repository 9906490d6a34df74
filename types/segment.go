package types

// Segment is one speaker-attributed, time-bounded span of transcript text.
// Field names match the pipeline service's wire format.
type Segment struct {
	ID        string  `json:"id,omitempty"`
	Speaker   string  `json:"speaker"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Text      string  `json:"text"`
}

// Duration returns the span length in seconds.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}
