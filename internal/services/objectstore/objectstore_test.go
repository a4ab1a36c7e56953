package objectstore

import (
	"strings"
	"testing"
	"time"

	"github.com/wondertales/video-service/internal/config"
)

func TestDatePartitionedKey(t *testing.T) {
	now := time.Date(2025, 6, 4, 10, 30, 0, 0, time.UTC)

	key := DatePartitionedKey("My Video.mp4", now)

	if !strings.HasPrefix(key, "manual-uploads/2025/06/04/") {
		t.Fatalf("Expected date-partitioned prefix, got %q", key)
	}
	if !strings.HasSuffix(key, "-My_Video.mp4") {
		t.Fatalf("Expected spaces replaced with underscores, got %q", key)
	}
	if strings.Contains(key, " ") {
		t.Fatalf("Key must not contain spaces: %q", key)
	}
}

func TestServiceUnavailableWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}
	cfg.S3.BucketName = "wondertales-media"
	cfg.S3.Endpoint = "s3.amazonaws.com"
	cfg.S3.UseSSL = true

	service, err := NewService(cfg)
	if err != nil {
		t.Fatalf("Missing credentials must not be a construction error: %v", err)
	}
	if service.Available() {
		t.Fatal("Expected service to report unavailable without credentials")
	}

	if _, _, err := service.List(t.Context(), ""); err != ErrUnavailable {
		t.Fatalf("Expected ErrUnavailable, got %v", err)
	}
	if _, _, err := service.PresignedUploadURL(t.Context(), "k"); err != ErrUnavailable {
		t.Fatalf("Expected ErrUnavailable for uploads, got %v", err)
	}
}

func TestPublicURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.S3.BucketName = "wondertales-media"
	cfg.S3.Endpoint = "s3.amazonaws.com"
	cfg.S3.UseSSL = true

	service, err := NewService(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	url := service.PublicURL("videos/v1.mp4")
	if url != "https://s3.amazonaws.com/wondertales-media/videos/v1.mp4" {
		t.Fatalf("Unexpected public URL: %q", url)
	}
}
