package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/PlatDrake2875/diarization/common"
	"github.com/PlatDrake2875/diarization/config"
	"github.com/PlatDrake2875/diarization/events"
	"github.com/PlatDrake2875/diarization/server"
)

func main() {
	log.SetOutput(os.Stderr)
	log.Println("=== Diarization Pipeline Service ===")

	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	cfg := config.Load()

	cache := server.NewSegmentCache(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	if cache == nil {
		log.Println("Redis not configured; segment caching disabled")
	}

	var archive *common.S3
	if cfg.S3Bucket != "" {
		s3c, err := common.NewS3(context.Background(), common.S3Config{Region: cfg.S3Region})
		if err != nil {
			log.Printf("S3 init failed, archival disabled: %v", err)
		} else {
			archive = s3c
		}
	}

	publisher, err := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Printf("Kafka init failed, stage events disabled: %v", err)
	}
	if publisher != nil {
		defer publisher.Close()
	}

	transcriber := server.NewWhisperBackend(cfg.TranscribeURL, cfg.TranscribeAPIKey, cfg.TranscribeModel)

	srv := server.New(cfg, transcriber, cache, archive, publisher)
	router := server.NewRouter(srv)

	log.Printf("Listening on %s (media dir %s)", cfg.ListenAddr, cfg.DataDir)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
