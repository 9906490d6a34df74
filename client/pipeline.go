package client

import (
	"context"
	"net/http"

	"github.com/PlatDrake2875/diarization/types"
)

type fetchRequest struct {
	SourceReference string `json:"source_reference"`
}

type analyzeRequest struct {
	AudioReference string `json:"audio_reference"`
}

type analyzeResponse struct {
	Segments []types.Segment `json:"segments"`
}

// Fetch runs the fetch-and-convert operation for a source reference and
// returns the resulting media descriptor.
func (c *Client) Fetch(ctx context.Context, sourceReference string) (*types.MediaDescriptor, error) {
	var desc types.MediaDescriptor
	err := c.doJSONRequest(ctx, http.MethodPost, "/api/fetch", fetchRequest{SourceReference: sourceReference}, &desc)
	if err != nil {
		return nil, err
	}
	return &desc, nil
}

// Analyze runs speaker analysis against a previously fetched audio
// reference and returns the time-aligned segments.
func (c *Client) Analyze(ctx context.Context, audioReference string) ([]types.Segment, error) {
	var resp analyzeResponse
	err := c.doJSONRequest(ctx, http.MethodPost, "/api/diarize", analyzeRequest{AudioReference: audioReference}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Segments, nil
}
