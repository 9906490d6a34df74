package types

// MediaDescriptor is the result of a successful fetch stage: a playable
// media URL plus the opaque server-side reference used to request analysis.
// Replaced wholesale on every new fetch.
type MediaDescriptor struct {
	Title          string `json:"media_title"`
	PlayableURL    string `json:"playable_media_url"`
	AudioReference string `json:"audio_reference"`
	FileName       string `json:"audio_file_name"`
}
