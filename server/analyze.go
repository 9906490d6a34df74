package server

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PlatDrake2875/diarization/events"
)

type analyzeRequest struct {
	AudioReference string `json:"audio_reference"`
}

// handleAnalyze runs the analysis stage for a previously fetched
// recording: transcribe, attribute speakers, cache, respond.
func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	ref := strings.TrimSpace(req.AudioReference)
	if ref == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio_reference is empty"})
		return
	}

	entry, ok := s.lookupMedia(ref)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown audio reference; run fetch first"})
		return
	}

	ctx := c.Request.Context()
	if !s.cfg.ForceRecompute {
		if segments, hit, err := s.cache.Get(ctx, ref); err != nil {
			log.Printf("analyze %s: cache read: %v", ref, err)
		} else if hit {
			log.Printf("analyze %s: served %d segments from cache", ref, len(segments))
			c.JSON(http.StatusOK, gin.H{"segments": segments})
			return
		}
	}

	started := time.Now()
	segments, err := s.transcriber.Transcribe(ctx, entry.Path)
	if err != nil {
		log.Printf("analyze %s: transcription failed: %v", ref, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed on the server"})
		return
	}
	assignSpeakers(segments)

	if err := s.cache.Set(ctx, ref, segments); err != nil {
		log.Printf("analyze %s: cache write: %v", ref, err)
	}
	if err := s.publisher.Publish(events.StageEvent{
		Stage:           "analyze",
		AudioReference:  ref,
		MediaTitle:      entry.Title,
		SegmentCount:    len(segments),
		DurationSeconds: time.Since(started).Seconds(),
		CompletedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("analyze %s: publish event: %v", ref, err)
	}

	log.Printf("analyze %s: %d segments in %.1fs", ref, len(segments), time.Since(started).Seconds())
	c.JSON(http.StatusOK, gin.H{"segments": segments})
}
