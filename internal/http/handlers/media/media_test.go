package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wondertales/video-service/internal/reconcile"
	"github.com/wondertales/video-service/internal/storage"
	mediatypes "github.com/wondertales/video-service/internal/types/media"
)

type fakeStore struct {
	available bool
	objects   []mediatypes.RemoteObject
	folders   []string
	listErr   error
	signErr   error
}

func (f *fakeStore) Available() bool { return f.available }

func (f *fakeStore) List(ctx context.Context, prefix string) ([]mediatypes.RemoteObject, []string, error) {
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return f.objects, f.folders, nil
}

func (f *fakeStore) PublicURL(key string) string {
	return "https://store.example.com/wondertales/" + key
}

func (f *fakeStore) PresignedUploadURL(ctx context.Context, key string) (string, int64, error) {
	if f.signErr != nil {
		return "", 0, f.signErr
	}
	return "https://store.example.com/wondertales/" + key + "?signed=1", time.Now().Add(5 * time.Minute).Unix(), nil
}

func (f *fakeStore) BucketName() string { return "wondertales" }

// fakeDB overrides only the reconciliation source queries; any other
// Storage call panics, which is the point.
type fakeDB struct {
	storage.Storage
	approved  []reconcile.Record
	available []reconcile.Record
	published []reconcile.Record
	assets    []reconcile.Record
	failAll   bool
}

func (f *fakeDB) ListApprovedVideos() ([]reconcile.Record, error) {
	if f.failAll {
		return nil, errors.New("db down")
	}
	return f.approved, nil
}

func (f *fakeDB) ListAvailableVideos() ([]reconcile.Record, error) {
	if f.failAll {
		return nil, errors.New("db down")
	}
	return f.available, nil
}

func (f *fakeDB) ListPublishedVideos() ([]reconcile.Record, error) {
	if f.failAll {
		return nil, errors.New("db down")
	}
	return f.published, nil
}

func (f *fakeDB) ListGenericAssets() ([]reconcile.Record, error) {
	if f.failAll {
		return nil, errors.New("db down")
	}
	return f.assets, nil
}

func doList(t *testing.T, store ObjectStore, db storage.Storage, target string) (*httptest.ResponseRecorder, mediatypes.ListObjectsResponse) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/list-objects", ListObjects(store, db))

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var resp mediatypes.ListObjectsResponse
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}
	return rec, resp
}

func TestListObjectsMergesStoreWithDatabase(t *testing.T) {
	store := &fakeStore{
		available: true,
		objects: []mediatypes.RemoteObject{
			{Key: "videos/v1.mp4", URL: "https://store.example.com/wondertales/videos/v1.mp4"},
			{Key: "videos/1748359200-my_special_video.mp4"},
		},
		folders: []string{"videos/"},
	}
	db := &fakeDB{
		approved: []reconcile.Record{
			{ID: "rec-1", URL: "https://store.example.com/wondertales/videos/v1.mp4", Title: "First Story", Source: reconcile.SourceApprovedVideos},
		},
	}

	rec, resp := doList(t, store, db, "/api/list-objects")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Source != "s3" {
		t.Errorf("expected source s3, got %q", resp.Source)
	}
	if len(resp.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(resp.Objects))
	}
	if resp.Objects[0].Title != "First Story" || resp.Objects[0].DatabaseID != "rec-1" {
		t.Errorf("matched object not decorated: %+v", resp.Objects[0])
	}
	if resp.Objects[1].Title != "My Special Video" {
		t.Errorf("expected derived title, got %q", resp.Objects[1].Title)
	}
	if resp.Objects[1].DatabaseID != "" {
		t.Errorf("derived title must not carry a database id, got %q", resp.Objects[1].DatabaseID)
	}
}

func TestListObjectsFallsBackToDatabase(t *testing.T) {
	store := &fakeStore{available: false}
	db := &fakeDB{
		published: []reconcile.Record{
			{ID: "pub-1", URL: "https://store.example.com/wondertales/v1.mp4", AltTitle: "A", Source: reconcile.SourcePublishedVideos},
		},
	}

	rec, resp := doList(t, store, db, "/api/list-objects")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Source != "database" {
		t.Errorf("expected source database, got %q", resp.Source)
	}
	if len(resp.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(resp.Objects))
	}
	if resp.Objects[0].Key != "v1.mp4" {
		t.Errorf("expected key v1.mp4, got %q", resp.Objects[0].Key)
	}
	if resp.Objects[0].Title != "A" {
		t.Errorf("expected alt title fallback A, got %q", resp.Objects[0].Title)
	}
	if resp.Folders == nil || len(resp.Folders) != 0 {
		t.Errorf("expected empty folders in fallback, got %v", resp.Folders)
	}
}

func TestListObjectsFallsBackOnStoreError(t *testing.T) {
	store := &fakeStore{available: true, listErr: errors.New("connection refused")}
	db := &fakeDB{
		approved: []reconcile.Record{
			{ID: "rec-1", URL: "https://store.example.com/wondertales/v2.mp4", Title: "Second"},
		},
	}

	rec, resp := doList(t, store, db, "/api/list-objects")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if resp.Source != "database" {
		t.Errorf("expected source database after store error, got %q", resp.Source)
	}
}

func TestListObjectsNilStorageFails(t *testing.T) {
	rec, _ := doList(t, &fakeStore{available: true}, nil, "/api/list-objects")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 without a database, got %d", rec.Code)
	}
}

func TestListObjectsSurvivesSourceFailures(t *testing.T) {
	store := &fakeStore{
		available: true,
		objects:   []mediatypes.RemoteObject{{Key: "orphan.mp4"}},
	}
	db := &fakeDB{failAll: true}

	rec, resp := doList(t, store, db, "/api/list-objects")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 despite source failures, got %d", rec.Code)
	}
	if len(resp.Objects) != 1 {
		t.Fatalf("expected 1 object, got %d", len(resp.Objects))
	}
	if resp.Objects[0].Title != "Orphan" {
		t.Errorf("expected derived title Orphan, got %q", resp.Objects[0].Title)
	}
}

func TestListObjectsMethodNotAllowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/list-objects", ListObjects(&fakeStore{}, &fakeDB{}))

	req := httptest.NewRequest(http.MethodPost, "/api/list-objects", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestGenerateUploadURL(t *testing.T) {
	body, _ := json.Marshal(mediatypes.UploadURLRequest{Filename: "my story audio.mp3", Filetype: "audio/mpeg"})
	req := httptest.NewRequest(http.MethodPost, "/api/upload-url", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	GenerateUploadURL(&fakeStore{available: true})(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp mediatypes.UploadURLResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !strings.HasPrefix(resp.Key, "manual-uploads/") {
		t.Errorf("expected date-partitioned key, got %q", resp.Key)
	}
	if strings.Contains(resp.Key, " ") {
		t.Errorf("key must not contain spaces: %q", resp.Key)
	}
	if !strings.Contains(resp.Key, "my_story_audio.mp3") {
		t.Errorf("expected sanitized filename in key, got %q", resp.Key)
	}
	if !strings.Contains(resp.PublicURL, resp.Key) {
		t.Errorf("public URL %q should contain key %q", resp.PublicURL, resp.Key)
	}
	if resp.UploadURL == "" || resp.ExpiresAt == 0 {
		t.Errorf("incomplete response: %+v", resp)
	}
}

func TestGenerateRawUploadURLKeepsFilename(t *testing.T) {
	body, _ := json.Marshal(mediatypes.UploadURLRequest{Filename: "exact-key.png", Filetype: "image/png"})
	req := httptest.NewRequest(http.MethodPost, "/api/upload-url/raw", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	GenerateRawUploadURL(&fakeStore{available: true})(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp mediatypes.UploadURLResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Key != "exact-key.png" {
		t.Errorf("raw upload must not rewrite the key, got %q", resp.Key)
	}
}

func TestGenerateUploadURLValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing filename", `{"filetype":"image/png"}`},
		{"missing filetype", `{"filename":"a.png"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/upload-url", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			GenerateUploadURL(&fakeStore{available: true})(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestGenerateUploadURLStoreUnavailable(t *testing.T) {
	body, _ := json.Marshal(mediatypes.UploadURLRequest{Filename: "a.png", Filetype: "image/png"})
	req := httptest.NewRequest(http.MethodPost, "/api/upload-url", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	GenerateUploadURL(&fakeStore{available: false})(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when store is unavailable, got %d", rec.Code)
	}
}
