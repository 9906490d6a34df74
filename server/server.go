// Package server implements the remote pipeline service the client
// consumes: fetch-and-convert and speaker analysis, behind a small HTTP
// API. Converted audio is served back as playable media.
package server

import (
	"context"
	"io"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/PlatDrake2875/diarization/common"
	"github.com/PlatDrake2875/diarization/config"
	"github.com/PlatDrake2875/diarization/events"
)

// objectStore is the archival surface the service uses; *common.S3
// implements it.
type objectStore interface {
	Put(ctx context.Context, bucket, key string, body io.Reader, contentType string) error
	Exists(ctx context.Context, bucket, key string) (bool, error)
}

// mediaEntry records one converted recording held by the service.
type mediaEntry struct {
	Path     string // converted WAV on disk
	Title    string
	FileName string
}

// Server handles pipeline API requests.
type Server struct {
	cfg         config.Config
	transcriber Transcriber
	cache       *SegmentCache     // nil when Redis is not configured
	archive     objectStore       // nil when S3 is not configured
	publisher   *events.Publisher // nil when Kafka is not configured

	mu    sync.Mutex
	media map[string]mediaEntry // audio reference -> entry
}

// New creates a Server. cache, archive and publisher may be nil.
func New(cfg config.Config, transcriber Transcriber, cache *SegmentCache, archive *common.S3, publisher *events.Publisher) *Server {
	s := &Server{
		cfg:         cfg,
		transcriber: transcriber,
		cache:       cache,
		publisher:   publisher,
		media:       make(map[string]mediaEntry),
	}
	// Assign only a live client so the nil check in archiveAudio holds.
	if archive != nil {
		s.archive = archive
	}
	return s
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	r.POST("/api/fetch", s.handleFetch)
	r.POST("/api/diarize", s.handleAnalyze)
	r.Static("/media", s.cfg.DataDir)
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	return r
}

func (s *Server) lookupMedia(ref string) (mediaEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.media[ref]
	return entry, ok
}

func (s *Server) storeMedia(ref string, entry mediaEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.media[ref] = entry
}
