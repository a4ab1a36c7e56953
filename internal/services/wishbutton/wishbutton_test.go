package wishbutton

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/wondertales/video-service/internal/cache"
	"github.com/wondertales/video-service/internal/config"
	"github.com/wondertales/video-service/internal/reconcile"
	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/assets"
)

const fallbackMusicID = "a8f3e2d1-5c47-4b9a-8e21-6d9f0c3b7a54"

func testConfig() config.WishButton {
	return config.WishButton{
		FallbackMusicAssetID:     fallbackMusicID,
		FallbackMusicURL:         "https://wondertales-media.s3.amazonaws.com/assets/audio/wish-button-theme.mp3",
		FallbackMusicDescription: "Wish Button theme music",
	}
}

// fakeStorage is an in-memory Storage implementation for service tests.
type fakeStorage struct {
	children      []types.Child
	projects      map[string]types.StoryProject
	stories       map[string][]types.StoryProject
	assetsByID    map[string]assets.Record
	projectAssets map[string][]assets.Record
	statuses      map[string]assets.Status

	deleteAssetsErr error
	assetsDeleted   bool
	projectDeleted  bool
	storyListCalls  int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		projects:      make(map[string]types.StoryProject),
		stories:       make(map[string][]types.StoryProject),
		assetsByID:    make(map[string]assets.Record),
		projectAssets: make(map[string][]assets.Record),
		statuses:      make(map[string]assets.Status),
	}
}

func (f *fakeStorage) CreateParent(email, passwordHash string) (string, error) { return "", nil }
func (f *fakeStorage) GetParentByEmail(email string) (string, string, error)   { return "", "", nil }
func (f *fakeStorage) CreateChild(parentID, name string, age int, favoriteTheme string) (string, error) {
	return "", nil
}
func (f *fakeStorage) ListChildrenByParent(parentID string) ([]types.Child, error) {
	return f.children, nil
}
func (f *fakeStorage) ListChildren() ([]types.Child, error) { return f.children, nil }

func (f *fakeStorage) ListStoriesByChild(childID string) ([]types.StoryProject, error) {
	f.storyListCalls++
	return f.stories[childID], nil
}

func (f *fakeStorage) GetProject(id string) (types.StoryProject, error) {
	project, ok := f.projects[id]
	if !ok {
		return types.StoryProject{}, sql.ErrNoRows
	}
	return project, nil
}

func (f *fakeStorage) DeleteProjectAssets(projectID string) error {
	if f.deleteAssetsErr != nil {
		return f.deleteAssetsErr
	}
	f.assetsDeleted = true
	return nil
}

func (f *fakeStorage) DeleteProject(id string) error {
	f.projectDeleted = true
	delete(f.projects, id)
	return nil
}

func (f *fakeStorage) ListProjectAssets(projectID string) ([]assets.Record, error) {
	return f.projectAssets[projectID], nil
}

func (f *fakeStorage) GetAsset(id string) (assets.Record, error) {
	rec, ok := f.assetsByID[id]
	if !ok {
		return assets.Record{}, sql.ErrNoRows
	}
	return rec, nil
}

func (f *fakeStorage) UpdateAssetStatus(id string, status assets.Status) error {
	if _, ok := f.assetsByID[id]; !ok {
		return sql.ErrNoRows
	}
	f.statuses[id] = status
	return nil
}

func (f *fakeStorage) ListApprovedVideos() ([]reconcile.Record, error)  { return nil, nil }
func (f *fakeStorage) ListAvailableVideos() ([]reconcile.Record, error) { return nil, nil }
func (f *fakeStorage) ListPublishedVideos() ([]reconcile.Record, error) { return nil, nil }
func (f *fakeStorage) ListGenericAssets() ([]reconcile.Record, error)   { return nil, nil }

func (f *fakeStorage) CreateRenderJob(projectID, renderID string) (string, error) { return "", nil }
func (f *fakeStorage) GetRenderJobByRenderID(renderID string) (types.RenderJob, error) {
	return types.RenderJob{}, sql.ErrNoRows
}
func (f *fakeStorage) UpdateRenderJob(job types.RenderJob) error        { return nil }
func (f *fakeStorage) ListActiveRenderJobs() ([]types.RenderJob, error) { return nil, nil }

type fakePublisher struct {
	assetIDs []string
	statuses []assets.Status
}

func (f *fakePublisher) PublishAssetReviewed(assetID, projectID string, status assets.Status) error {
	f.assetIDs = append(f.assetIDs, assetID)
	f.statuses = append(f.statuses, status)
	return nil
}

func wishButtonRow(id, projectID, assetType, purpose, url string, status assets.Status) assets.Record {
	return assets.Record{
		ID:        id,
		ProjectID: projectID,
		Type:      assetType,
		URL:       url,
		Status:    status,
		Metadata: map[string]interface{}{
			"template":      "wish-button",
			"asset_purpose": purpose,
		},
	}
}

func TestRefreshAssetsFillsSlot(t *testing.T) {
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		wishButtonRow("asset-1", "p1", assets.TypeImage, "page3", "https://cdn/p3.png", assets.StatusApproved),
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	slot := result["page3_image"]
	if slot.URL != "https://cdn/p3.png" {
		t.Fatalf("Expected row URL on page3_image, got %q", slot.URL)
	}
	if slot.ID != "asset-1" {
		t.Fatalf("Expected row id on page3_image, got %q", slot.ID)
	}
	if slot.Status != assets.StatusReady {
		t.Fatalf("Expected approved to translate to ready, got %q", slot.Status)
	}
}

func TestRefreshAssetsStatusTranslation(t *testing.T) {
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		wishButtonRow("a", "p1", assets.TypeAudio, "page1", "https://cdn/a.mp3", assets.StatusPending),
		wishButtonRow("b", "p1", assets.TypeImage, "page2", "https://cdn/b.png", assets.StatusGenerating),
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result["page1_audio"].Status != assets.StatusPendingReview {
		t.Fatalf("Expected pending to translate to pending_review, got %q", result["page1_audio"].Status)
	}
	if result["page2_image"].Status != assets.StatusGenerating {
		t.Fatalf("Expected untranslated status to pass through, got %q", result["page2_image"].Status)
	}
}

func TestRefreshAssetsUnknownPurposeDropped(t *testing.T) {
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		wishButtonRow("a", "p1", assets.TypeImage, "page42", "https://cdn/a.png", assets.StatusApproved),
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result) != assets.PageCount*2+1 {
		t.Fatalf("Unknown purposes must not grow the view model, got %d slots", len(result))
	}
	for key, slot := range result {
		if slot.ID == "a" {
			t.Fatalf("Row with unknown purpose landed in slot %q", key)
		}
	}
}

func TestRefreshAssetsPurposeFallbackLocations(t *testing.T) {
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		{
			ID: "tc", ProjectID: "p1", Type: assets.TypeImage, URL: "https://cdn/tc.png",
			Status: assets.StatusCompleted,
			Metadata: map[string]interface{}{
				"template_context": map[string]interface{}{
					"template_id":   "wish-button",
					"asset_purpose": "page5",
				},
			},
		},
		{
			ID: "pg", ProjectID: "p1", Type: assets.TypeAudio, URL: "https://cdn/pg.mp3",
			Status: assets.StatusCompleted,
			Metadata: map[string]interface{}{
				"template": "wish-button",
				"page":     "page6",
			},
		},
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result["page5_image"].ID != "tc" {
		t.Fatalf("Expected template_context purpose to resolve, got %q", result["page5_image"].ID)
	}
	if result["page6_audio"].ID != "pg" {
		t.Fatalf("Expected page field purpose to resolve, got %q", result["page6_audio"].ID)
	}
}

func TestRefreshAssetsIgnoresOtherTemplates(t *testing.T) {
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		{
			ID: "x", ProjectID: "p1", Type: assets.TypeImage, URL: "https://cdn/x.png",
			Status:   assets.StatusApproved,
			Metadata: map[string]interface{}{"template": "space-rescue", "asset_purpose": "page1"},
		},
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result["page1_image"].ID == "x" {
		t.Fatal("Rows from other templates must be filtered out")
	}
}

func TestBackgroundMusicNeverEmpty(t *testing.T) {
	// No rows, and the fallback asset row is also missing: the literal
	// configured URL must be installed.
	store := newFakeStorage()
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	slot := result[assets.BackgroundMusicSlot]
	if slot.Status == assets.StatusMissing {
		t.Fatal("Background music slot must never stay missing")
	}
	if slot.URL == "" {
		t.Fatal("Background music slot must always carry a URL")
	}
	if slot.URL != testConfig().FallbackMusicURL {
		t.Fatalf("Expected configured fallback URL, got %q", slot.URL)
	}
}

func TestRefreshAssetsPartialCurrentViewModel(t *testing.T) {
	// A caller-supplied view model may be missing slots entirely; the
	// refresh must rebuild the full slot set around it and still honor the
	// background-music guarantee.
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		wishButtonRow("asset-1", "p1", assets.TypeImage, "page3", "https://cdn/p3.png", assets.StatusApproved),
	}
	service := NewService(store, nil, nil, testConfig())

	partial := assets.WishButtonAssets{
		"page1_image": {Type: assets.TypeImage, Name: "Custom Name", Status: assets.StatusGenerating},
	}
	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", partial)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result) != assets.PageCount*2+1 {
		t.Fatalf("Expected the full slot set, got %d slots", len(result))
	}
	music, ok := result[assets.BackgroundMusicSlot]
	if !ok {
		t.Fatal("Background music slot must exist after every refresh")
	}
	if music.URL == "" || music.Status == assets.StatusMissing {
		t.Fatalf("Background music slot must be populated, got %+v", music)
	}
	if result["page1_image"].Name != "Custom Name" {
		t.Fatalf("Caller's slot values must survive, got %q", result["page1_image"].Name)
	}
	if result["page3_image"].ID != "asset-1" {
		t.Fatal("Database rows must still land in slots absent from the caller's map")
	}
}

func TestBackgroundMusicRecoveredFromAssetRow(t *testing.T) {
	store := newFakeStorage()
	store.assetsByID[fallbackMusicID] = assets.Record{
		ID: fallbackMusicID, ProjectID: "p1", Type: assets.TypeBackgroundMusic,
		URL: "https://cdn/theme.mp3", Status: assets.StatusApproved,
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	slot := result[assets.BackgroundMusicSlot]
	if slot.URL != "https://cdn/theme.mp3" {
		t.Fatalf("Expected recovery from the configured asset row, got %q", slot.URL)
	}
	if slot.Status != assets.StatusReady {
		t.Fatalf("Expected approved row to read ready, got %q", slot.Status)
	}
}

func TestBackgroundMusicSlotProtected(t *testing.T) {
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		// Claims the music slot by literal purpose: allowed.
		wishButtonRow("music-row", "p1", assets.TypeAudio, "background_music", "https://cdn/real.mp3", assets.StatusApproved),
		// A music-typed row with a page purpose computes an unknown slot
		// key and must not clobber the shared slot.
		wishButtonRow("stray", "p1", assets.TypeBackgroundMusic, "page4", "https://cdn/stray.mp3", assets.StatusApproved),
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	slot := result[assets.BackgroundMusicSlot]
	if slot.ID != "music-row" {
		t.Fatalf("Expected the literal background_music row to own the slot, got %q", slot.ID)
	}
}

func TestBackgroundMusicSlotAcceptsConfiguredAssetID(t *testing.T) {
	store := newFakeStorage()
	store.projectAssets["p1"] = []assets.Record{
		wishButtonRow(fallbackMusicID, "p1", assets.TypeAudio, "page2", "https://cdn/theme.mp3", assets.StatusApproved),
	}
	service := NewService(store, nil, nil, testConfig())

	result, err := service.RefreshAssetsFromDatabase(context.Background(), "p1", nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result[assets.BackgroundMusicSlot].ID != fallbackMusicID {
		t.Fatalf("Expected the configured asset id to target the music slot, got %q", result[assets.BackgroundMusicSlot].ID)
	}
}

func TestDeleteStoryAssetFailureBlocksProjectDelete(t *testing.T) {
	store := newFakeStorage()
	store.projects["p1"] = types.StoryProject{ID: "p1", ChildID: "c1"}
	store.deleteAssetsErr = errors.New("connection reset")
	service := NewService(store, nil, nil, testConfig())

	err := service.DeleteStory(context.Background(), "p1")
	if err == nil {
		t.Fatal("Expected an error when asset deletion fails")
	}
	if !strings.Contains(err.Error(), "assets") {
		t.Fatalf("Error must name the assets step, got %q", err.Error())
	}
	if store.projectDeleted {
		t.Fatal("Project deletion must not be attempted after asset deletion failed")
	}
}

func TestDeleteStoryOrdering(t *testing.T) {
	store := newFakeStorage()
	store.projects["p1"] = types.StoryProject{ID: "p1", ChildID: "c1"}
	service := NewService(store, nil, nil, testConfig())

	if err := service.DeleteStory(context.Background(), "p1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !store.assetsDeleted || !store.projectDeleted {
		t.Fatal("Expected both assets and project to be deleted")
	}
}

func TestApproveAssetPublishesEvent(t *testing.T) {
	store := newFakeStorage()
	store.assetsByID["a1"] = assets.Record{ID: "a1", ProjectID: "p1"}
	publisher := &fakePublisher{}
	service := NewService(store, nil, publisher, testConfig())

	if err := service.ApproveAsset(context.Background(), "a1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if store.statuses["a1"] != assets.StatusApproved {
		t.Fatalf("Expected status approved, got %q", store.statuses["a1"])
	}
	if len(publisher.assetIDs) != 1 || publisher.assetIDs[0] != "a1" {
		t.Fatalf("Expected one review event for a1, got %v", publisher.assetIDs)
	}
}

func TestRejectMissingAsset(t *testing.T) {
	store := newFakeStorage()
	service := NewService(store, nil, nil, testConfig())

	err := service.RejectAsset(context.Background(), "nope")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("Expected sql.ErrNoRows for a missing asset, got %v", err)
	}
}

func TestFetchPreviousStoriesCaching(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	store := newFakeStorage()
	store.stories["c1"] = []types.StoryProject{{ID: "p1", ChildID: "c1", Template: "wish-button"}}
	service := NewService(store, cache.NewStoryCache(redisClient), nil, testConfig())

	ctx := context.Background()

	// First call populates the cache, second is served from it.
	for i := 0; i < 2; i++ {
		stories, err := service.FetchPreviousStories(ctx, "c1", false)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(stories) != 1 || stories[0].ID != "p1" {
			t.Fatalf("Unexpected stories: %v", stories)
		}
	}
	if store.storyListCalls != 1 {
		t.Fatalf("Expected one database read with a warm cache, got %d", store.storyListCalls)
	}

	// forceRefresh bypasses the cached list.
	if _, err := service.FetchPreviousStories(ctx, "c1", true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store.storyListCalls != 2 {
		t.Fatalf("Expected forceRefresh to hit the database, got %d calls", store.storyListCalls)
	}
}
