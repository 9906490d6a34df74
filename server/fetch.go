package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/PlatDrake2875/diarization/events"
	"github.com/PlatDrake2875/diarization/types"
)

type fetchRequest struct {
	SourceReference string `json:"source_reference"`
}

// handleFetch runs the fetch-and-convert stage: resolve the source to a
// local file, convert it to mono 16 kHz WAV, and answer with the media
// descriptor the client needs for playback and analysis.
func (s *Server) handleFetch(c *gin.Context) {
	var req fetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	source := strings.TrimSpace(req.SourceReference)
	if source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "source_reference is empty"})
		return
	}

	if err := os.MkdirAll(s.cfg.DataDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot prepare data directory"})
		return
	}

	requestID := uuid.NewString()
	started := time.Now()

	rawPath, title, cleanup, err := s.resolveSource(c, source, requestID)
	if err != nil {
		log.Printf("fetch %s: resolve %q failed: %v", requestID, source, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("could not fetch source: %v", err)})
		return
	}
	defer cleanup()

	wavName := requestID + ".wav"
	wavPath := filepath.Join(s.cfg.DataDir, wavName)
	if err := convertToWAV(rawPath, wavPath); err != nil {
		log.Printf("fetch %s: conversion failed: %v", requestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("media conversion failed: %v", err)})
		return
	}

	s.archiveAudio(c.Request.Context(), wavPath, wavName)
	s.storeMedia(requestID, mediaEntry{Path: wavPath, Title: title, FileName: wavName})

	if err := s.publisher.Publish(events.StageEvent{
		Stage:           "fetch",
		AudioReference:  requestID,
		MediaTitle:      title,
		DurationSeconds: time.Since(started).Seconds(),
		CompletedAt:     time.Now().UTC(),
	}); err != nil {
		log.Printf("fetch %s: publish event: %v", requestID, err)
	}

	log.Printf("fetch %s: %q converted in %.1fs", requestID, title, time.Since(started).Seconds())
	c.JSON(http.StatusOK, types.MediaDescriptor{
		Title:          title,
		PlayableURL:    s.cfg.PublicBaseURL + "/media/" + wavName,
		AudioReference: requestID,
		FileName:       wavName,
	})
}

// resolveSource downloads http(s) sources into the data dir and accepts
// local paths as-is. cleanup removes any temporary download.
func (s *Server) resolveSource(c *gin.Context, source, requestID string) (localPath, title string, cleanup func(), err error) {
	cleanup = func() {}

	if u, perr := url.Parse(source); perr == nil && (u.Scheme == "http" || u.Scheme == "https") {
		title = path.Base(u.Path)
		if title == "" || title == "/" || title == "." {
			title = requestID
		}
		localPath = filepath.Join(s.cfg.DataDir, requestID+"_download"+path.Ext(u.Path))
		if err = downloadFile(c, source, localPath); err != nil {
			return "", "", cleanup, err
		}
		cleanup = func() { os.Remove(localPath) }
		return localPath, title, cleanup, nil
	}

	if _, serr := os.Stat(source); serr != nil {
		return "", "", cleanup, fmt.Errorf("source not found: %w", serr)
	}
	return source, filepath.Base(source), cleanup, nil
}

func downloadFile(c *gin.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("source returned status %d", resp.StatusCode)
	}

	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, resp.Body)
	return err
}

// convertToWAV transcodes any input container to the mono 16 kHz WAV the
// transcription backend expects.
func convertToWAV(inputPath, outputPath string) error {
	err := ffmpeg.Input(inputPath).
		Output(outputPath, ffmpeg.KwArgs{"ac": 1, "ar": 16000, "f": "wav"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// archiveAudio uploads the converted WAV to S3 when configured; skipped
// otherwise, matching the rest of the optional integrations. Objects
// already present are not re-uploaded.
func (s *Server) archiveAudio(ctx context.Context, wavPath, wavName string) {
	if s.archive == nil || s.cfg.S3Bucket == "" {
		log.Printf("S3 not configured; skipping audio archival")
		return
	}

	key := s.cfg.S3Prefix + wavName
	exists, err := s.archive.Exists(ctx, s.cfg.S3Bucket, key)
	if err != nil {
		log.Printf("archive %s: existence check: %v", wavName, err)
	} else if exists {
		log.Printf("archive %s: already in s3://%s/%s, skipping upload", wavName, s.cfg.S3Bucket, key)
		return
	}

	f, err := os.Open(wavPath)
	if err != nil {
		log.Printf("archive %s: open: %v", wavName, err)
		return
	}
	defer f.Close()

	if err := s.archive.Put(ctx, s.cfg.S3Bucket, key, f, "audio/wav"); err != nil {
		log.Printf("archive %s: upload failed: %v", wavName, err)
		return
	}
	log.Printf("archived %s to s3://%s/%s", wavName, s.cfg.S3Bucket, key)
}
