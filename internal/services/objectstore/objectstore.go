package objectstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/wondertales/video-service/internal/config"
	"github.com/wondertales/video-service/internal/types/media"
)

// ErrUnavailable is returned when the service was constructed without
// credentials; callers are expected to fall back to database metadata.
var ErrUnavailable = errors.New("object store unavailable")

const (
	// maxListKeys bounds one listing call.
	maxListKeys = 1000

	// DownloadURLTTL is the expiry on presigned GET URLs in listings.
	DownloadURLTTL = time.Hour

	// UploadURLTTL is the expiry on presigned upload URLs.
	UploadURLTTL = 5 * time.Minute
)

type Service struct {
	client     *minio.Client
	bucketName string
	endpoint   string
	useSSL     bool
}

// NewService creates the object-store service. Missing credentials are not
// an error: the service comes up unavailable and every listing request is
// answered from the database instead.
func NewService(cfg *config.Config) (*Service, error) {
	service := &Service{
		bucketName: cfg.S3.BucketName,
		endpoint:   cfg.S3.Endpoint,
		useSSL:     cfg.S3.UseSSL,
	}

	if cfg.S3.AccessKeyID == "" || cfg.S3.SecretAccessKey == "" {
		slog.Warn("Object store credentials not configured, listings will use the database fallback")
		return service, nil
	}

	client, err := minio.New(cfg.S3.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
		Secure: cfg.S3.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	service.client = client
	return service, nil
}

// Available reports whether the store can be queried at all.
func (s *Service) Available() bool {
	return s.client != nil
}

// BucketName returns the configured bucket.
func (s *Service) BucketName() string {
	return s.bucketName
}

// List enumerates up to maxListKeys objects under prefix, recursively. Keys
// ending in "/" are folder markers: they are excluded from the file list
// and collected into a sorted folder set. Every file is annotated with a
// presigned download URL; when signing one object fails the public bucket
// URL is substituted and the listing continues.
func (s *Service) List(ctx context.Context, prefix string) ([]media.RemoteObject, []string, error) {
	if !s.Available() {
		return nil, nil, ErrUnavailable
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	objectsCh := s.client.ListObjects(listCtx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var objects []media.RemoteObject
	folderSet := make(map[string]struct{})
	listed := 0

	for object := range objectsCh {
		if object.Err != nil {
			return nil, nil, object.Err
		}

		if strings.HasSuffix(object.Key, "/") {
			folderSet[strings.TrimSuffix(object.Key, "/")] = struct{}{}
		} else {
			objects = append(objects, media.RemoteObject{
				Key:          object.Key,
				LastModified: object.LastModified,
				Size:         object.Size,
				URL:          s.downloadURL(ctx, object.Key),
			})
		}

		listed++
		if listed >= maxListKeys {
			break
		}
	}

	folders := make([]string, 0, len(folderSet))
	for folder := range folderSet {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	return objects, folders, nil
}

// downloadURL signs a time-limited GET URL, degrading to the public bucket
// URL so a signing failure never interrupts the listing.
func (s *Service) downloadURL(ctx context.Context, key string) string {
	signed, err := s.client.PresignedGetObject(ctx, s.bucketName, key, DownloadURLTTL, nil)
	if err != nil {
		slog.Warn("Failed to sign download URL, using public URL",
			slog.String("key", key), slog.String("error", err.Error()))
		return s.PublicURL(key)
	}
	return signed.String()
}

// PublicURL constructs the unauthenticated bucket URL for an object.
func (s *Service) PublicURL(key string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucketName, key)
}

// PresignedUploadURL signs a short-lived PUT URL for key.
func (s *Service) PresignedUploadURL(ctx context.Context, key string) (string, int64, error) {
	if !s.Available() {
		return "", 0, ErrUnavailable
	}

	signed, err := s.client.PresignedPutObject(ctx, s.bucketName, key, UploadURLTTL)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate upload URL: %w", err)
	}

	return signed.String(), time.Now().Add(UploadURLTTL).Unix(), nil
}

// DatePartitionedKey builds the collision-resistant manual-upload key:
// date-partitioned and deduplicated with a millisecond timestamp, spaces in
// the filename replaced with underscores.
func DatePartitionedKey(filename string, now time.Time) string {
	sanitized := strings.ReplaceAll(filename, " ", "_")
	return fmt.Sprintf("manual-uploads/%s/%d-%s", now.UTC().Format("2006/01/02"), now.UnixMilli(), sanitized)
}
