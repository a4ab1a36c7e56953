package media

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/wondertales/video-service/internal/reconcile"
	"github.com/wondertales/video-service/internal/services/objectstore"
	"github.com/wondertales/video-service/internal/storage"
	mediatypes "github.com/wondertales/video-service/internal/types/media"
	"github.com/wondertales/video-service/internal/utils/response"
)

// ObjectStore is the slice of the object-store service these handlers use.
type ObjectStore interface {
	Available() bool
	List(ctx context.Context, prefix string) ([]mediatypes.RemoteObject, []string, error)
	PublicURL(key string) string
	PresignedUploadURL(ctx context.Context, key string) (string, int64, error)
	BucketName() string
}

// ListObjects serves the asset listing: an object-store enumeration merged
// with database metadata, or pure database records when the store is
// unusable. The listing never fails on per-source errors; only a missing
// database handle is fatal.
// @Summary List bucket objects with database metadata
// @Tags media
// @Produce json
// @Param prefix query string false "Key prefix"
// @Success 200 {object} mediatypes.ListObjectsResponse "Merged listing"
// @Failure 500 {object} response.Response "Administrative database unavailable"
// @Security BearerAuth
// @Router /api/list-objects [get]
func ListObjects(store ObjectStore, db storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("administrative database is not configured")))
			return
		}

		prefix := r.URL.Query().Get("prefix")
		bucket := ""
		if store != nil {
			bucket = store.BucketName()
		}

		source := "s3"
		message := "listing served from object store"

		var objects []mediatypes.RemoteObject
		var folders []string

		if store != nil && store.Available() {
			var err error
			objects, folders, err = store.List(r.Context(), prefix)
			if err != nil {
				slog.Warn("Object store listing failed, falling back to database",
					slog.String("error", err.Error()))
				source = "database"
			}
		} else {
			source = "database"
		}

		// Source collections in ascending precedence; the reconciler lets
		// later collections win key collisions.
		sources := gatherSources(db)

		if source == "database" {
			objects = objectsFromRecords(sources, bucket, prefix)
			folders = nil
			message = "object store unavailable, listing served from database records"
		}

		lookup := reconcile.BuildLookup(bucket, sources...)
		merged := reconcile.Merge(objects, lookup)

		if merged == nil {
			merged = []mediatypes.MergedEntry{}
		}
		if folders == nil {
			folders = []string{}
		}

		response.WriteJSON(w, http.StatusOK, mediatypes.ListObjectsResponse{
			Objects: merged,
			Folders: folders,
			Prefix:  prefix,
			Source:  source,
			Message: message,
		})
	}
}

// gatherSources reads the four metadata collections, isolating each query:
// one failed table degrades the merge but never fails the request.
func gatherSources(db storage.Storage) [][]reconcile.Record {
	queries := []struct {
		name string
		fn   func() ([]reconcile.Record, error)
	}{
		{reconcile.SourceAssets, db.ListGenericAssets},
		{reconcile.SourcePublishedVideos, db.ListPublishedVideos},
		{reconcile.SourceAvailableVideos, db.ListAvailableVideos},
		{reconcile.SourceApprovedVideos, db.ListApprovedVideos},
	}

	sources := make([][]reconcile.Record, 0, len(queries))
	for _, q := range queries {
		records, err := q.fn()
		if err != nil {
			slog.Error("Failed to query metadata source",
				slog.String("source", q.name), slog.String("error", err.Error()))
			continue
		}
		sources = append(sources, records)
	}
	return sources
}

// objectsFromRecords reshapes database rows into the listing's object
// space so the fallback path and the store path share one response shape.
func objectsFromRecords(sources [][]reconcile.Record, bucket, prefix string) []mediatypes.RemoteObject {
	var objects []mediatypes.RemoteObject
	for _, records := range sources {
		for _, rec := range records {
			key := reconcile.StripHost(rec.URL, bucket)
			if key == "" {
				continue
			}
			if prefix != "" && !strings.HasPrefix(key, prefix) {
				continue
			}
			objects = append(objects, mediatypes.RemoteObject{
				Key:          key,
				LastModified: rec.CreatedAt,
				URL:          rec.URL,
			})
		}
	}
	return objects
}

// GenerateUploadURL signs a short-lived upload URL under the
// date-partitioned manual-uploads prefix.
// @Summary Generate a presigned upload URL
// @Tags media
// @Accept json
// @Produce json
// @Param request body mediatypes.UploadURLRequest true "Upload request"
// @Success 200 {object} mediatypes.UploadURLResponse "Upload URL generated"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 500 {object} response.Response "Object store unavailable"
// @Security BearerAuth
// @Router /api/upload-url [post]
func GenerateUploadURL(store ObjectStore) http.HandlerFunc {
	return uploadURLHandler(store, func(req mediatypes.UploadURLRequest) string {
		return objectstore.DatePartitionedKey(req.Filename, time.Now())
	})
}

// GenerateRawUploadURL signs an upload URL for the raw, unmodified
// filename. Unlike its date-partitioned sibling this key has no collision
// avoidance; two uploads of the same filename overwrite each other.
// @Summary Generate a presigned upload URL for a raw key
// @Tags media
// @Accept json
// @Produce json
// @Param request body mediatypes.UploadURLRequest true "Upload request"
// @Success 200 {object} mediatypes.UploadURLResponse "Upload URL generated"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 500 {object} response.Response "Object store unavailable"
// @Security BearerAuth
// @Router /api/upload-url/raw [post]
func GenerateRawUploadURL(store ObjectStore) http.HandlerFunc {
	return uploadURLHandler(store, func(req mediatypes.UploadURLRequest) string {
		return req.Filename
	})
}

func uploadURLHandler(store ObjectStore, keyFn func(mediatypes.UploadURLRequest) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil || !store.Available() {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("object store is not configured")))
			return
		}

		var req mediatypes.UploadURLRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("request body cannot be empty")))
			return
		} else if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate request
		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		key := keyFn(req)
		uploadURL, expiresAt, err := store.PresignedUploadURL(r.Context(), key)
		if err != nil {
			slog.Error("Failed to generate upload URL",
				slog.String("key", key), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to generate upload URL")))
			return
		}

		response.WriteJSON(w, http.StatusOK, mediatypes.UploadURLResponse{
			Key:       key,
			UploadURL: uploadURL,
			PublicURL: store.PublicURL(key),
			ExpiresAt: expiresAt,
		})
	}
}
