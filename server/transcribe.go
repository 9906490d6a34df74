package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PlatDrake2875/diarization/types"
)

// Transcriber turns a local audio file into time-aligned segments.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]types.Segment, error)
}

// whisperBackend calls an OpenAI-compatible audio transcriptions endpoint
// with verbose_json so segment timings come back.
type whisperBackend struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewWhisperBackend creates the HTTP transcription backend.
func NewWhisperBackend(endpoint, apiKey, model string) Transcriber {
	return &whisperBackend{
		endpoint:   endpoint,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 60 * time.Minute},
	}
}

type whisperResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (b *whisperBackend) Transcribe(ctx context.Context, audioPath string) ([]types.Segment, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := mw.WriteField("model", b.model); err != nil {
		return nil, err
	}
	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, err
	}
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, &body)
	if err != nil {
		return nil, err
	}
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("transcription backend http %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("parse transcription response: %w", err)
	}

	segments := make([]types.Segment, 0, len(parsed.Segments))
	for _, s := range parsed.Segments {
		segments = append(segments, types.Segment{
			StartTime: s.Start,
			EndTime:   s.End,
			Text:      strings.TrimSpace(s.Text),
		})
	}
	if len(segments) == 0 && parsed.Text != "" {
		// Backend answered without timings; keep the text usable.
		segments = append(segments, types.Segment{Text: strings.TrimSpace(parsed.Text)})
	}
	return segments, nil
}
