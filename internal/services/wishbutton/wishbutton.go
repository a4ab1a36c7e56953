// Package wishbutton implements the asset-management operations behind the
// Wish-Button admin screens: child and story lookups, asset review, and the
// projection of raw asset rows onto the fixed page-slot view model.
package wishbutton

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wondertales/video-service/internal/cache"
	"github.com/wondertales/video-service/internal/config"
	"github.com/wondertales/video-service/internal/storage"
	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/assets"
)

// ReviewPublisher receives asset review outcomes for broadcast to connected
// admin clients.
type ReviewPublisher interface {
	PublishAssetReviewed(assetID, projectID string, status assets.Status) error
}

type Service struct {
	storage   storage.Storage
	cache     *cache.StoryCache
	publisher ReviewPublisher
	cfg       config.WishButton
}

// NewService creates the Wish-Button service. cache and publisher may be
// nil; caching and event broadcast are then skipped.
func NewService(storage storage.Storage, storyCache *cache.StoryCache, publisher ReviewPublisher, cfg config.WishButton) *Service {
	return &Service{
		storage:   storage,
		cache:     storyCache,
		publisher: publisher,
		cfg:       cfg,
	}
}

// FetchChildren returns every registered child profile.
func (s *Service) FetchChildren(ctx context.Context) ([]types.Child, error) {
	return s.storage.ListChildren()
}

// FetchPreviousStories returns the story projects for one child.
// forceRefresh bypasses the cached list and repopulates it.
func (s *Service) FetchPreviousStories(ctx context.Context, childID string, forceRefresh bool) ([]types.StoryProject, error) {
	if !forceRefresh && s.cache != nil {
		if stories, ok := s.cache.GetStories(ctx, childID); ok {
			return stories, nil
		}
	}

	stories, err := s.storage.ListStoriesByChild(childID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetStories(ctx, childID, stories)
	}
	return stories, nil
}

// DeleteStory removes a story project and its assets. Assets go first: if
// their deletion fails the project is left in place so no orphaned asset
// rows can accumulate, and the error names the assets step.
func (s *Service) DeleteStory(ctx context.Context, projectID string) error {
	project, err := s.storage.GetProject(projectID)
	if err != nil {
		return err
	}

	if err := s.storage.DeleteProjectAssets(projectID); err != nil {
		return fmt.Errorf("failed to delete assets for project %s: %w", projectID, err)
	}

	if err := s.storage.DeleteProject(projectID); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, project.ChildID)
	}
	return nil
}

// ApproveAsset marks an asset approved and broadcasts the review outcome.
func (s *Service) ApproveAsset(ctx context.Context, id string) error {
	return s.reviewAsset(ctx, id, assets.StatusApproved)
}

// RejectAsset marks an asset rejected and broadcasts the review outcome.
func (s *Service) RejectAsset(ctx context.Context, id string) error {
	return s.reviewAsset(ctx, id, assets.StatusRejected)
}

func (s *Service) reviewAsset(ctx context.Context, id string, status assets.Status) error {
	rec, err := s.storage.GetAsset(id)
	if err != nil {
		return err
	}

	if err := s.storage.UpdateAssetStatus(id, status); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAssetReviewed(id, rec.ProjectID, status); err != nil {
			slog.Error("Failed to publish asset review event",
				slog.String("asset_id", id), slog.String("error", err.Error()))
		}
	}
	return nil
}

// RefreshAssetsFromDatabase folds the project's asset rows into the
// fixed-slot view model. Rows not marked as Wish-Button assets, rows with
// no resolvable purpose, and rows whose computed slot key does not exist
// are all silently dropped. The background-music slot is guaranteed to be
// populated when this returns.
func (s *Service) RefreshAssetsFromDatabase(ctx context.Context, projectID string, current assets.WishButtonAssets) (assets.WishButtonAssets, error) {
	// Callers may hand in a partial or hand-built map (the refresh endpoint
	// decodes it straight from the request body). Fold it into a full slot
	// set so every fixed slot exists no matter what came in.
	merged := assets.NewWishButtonAssets()
	for key, status := range current {
		merged.Set(key, status)
	}
	current = merged

	rows, err := s.storage.ListProjectAssets(projectID)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		if !isWishButtonRow(row) {
			continue
		}

		purpose := assetPurpose(row)
		if purpose == "" {
			continue
		}

		slot := purpose + "_" + row.Type
		if purpose == assets.BackgroundMusicSlot || row.ID == s.cfg.FallbackMusicAssetID {
			// The shared music slot only accepts rows that explicitly claim
			// it; anything else must not clobber the page audio track.
			slot = assets.BackgroundMusicSlot
		}

		existing, ok := current[slot]
		if !ok {
			continue
		}

		current.Set(slot, assets.AssetStatus{
			Type:        row.Type,
			Name:        existing.Name,
			Description: existing.Description,
			Status:      assets.TranslateStatus(row.Status),
			URL:         row.URL,
			ID:          row.ID,
		})
	}

	s.ensureBackgroundMusic(current)
	return current, nil
}

// ensureBackgroundMusic guarantees the music slot is never left empty. An
// unset or URL-less slot is refilled from the configured fallback asset
// row, and when that row cannot be read, from the configured literal URL.
// The audio player always has something to point to, even if it is stale.
// Writes go straight to the map: the music key is always legal and must
// land even when the slot is somehow absent.
func (s *Service) ensureBackgroundMusic(wa assets.WishButtonAssets) {
	slot, ok := wa[assets.BackgroundMusicSlot]
	if ok && slot.Status != assets.StatusMissing && slot.URL != "" {
		return
	}

	if rec, err := s.storage.GetAsset(s.cfg.FallbackMusicAssetID); err == nil && rec.URL != "" {
		wa[assets.BackgroundMusicSlot] = assets.AssetStatus{
			Type:        assets.TypeBackgroundMusic,
			Name:        "Background Music",
			Description: s.cfg.FallbackMusicDescription,
			Status:      assets.TranslateStatus(rec.Status),
			URL:         rec.URL,
			ID:          rec.ID,
		}
		return
	} else if err != nil {
		slog.Warn("Failed to load fallback background music asset",
			slog.String("asset_id", s.cfg.FallbackMusicAssetID), slog.String("error", err.Error()))
	}

	wa[assets.BackgroundMusicSlot] = assets.AssetStatus{
		Type:        assets.TypeBackgroundMusic,
		Name:        "Background Music",
		Description: s.cfg.FallbackMusicDescription,
		Status:      assets.StatusReady,
		URL:         s.cfg.FallbackMusicURL,
	}
}

// isWishButtonRow filters asset rows to the ones belonging to this
// template, marked through either metadata path.
func isWishButtonRow(row assets.Record) bool {
	if metaString(row.Metadata, "template") == "wish-button" {
		return true
	}
	if tc, ok := row.Metadata["template_context"].(map[string]interface{}); ok {
		if metaString(tc, "template_id") == "wish-button" {
			return true
		}
	}
	return false
}

// assetPurpose resolves the semantic purpose of a row across the four
// metadata locations it has historically lived in; first non-empty wins.
func assetPurpose(row assets.Record) string {
	if purpose := metaString(row.Metadata, "asset_purpose"); purpose != "" {
		return purpose
	}
	if tc, ok := row.Metadata["template_context"].(map[string]interface{}); ok {
		if purpose := metaString(tc, "asset_purpose"); purpose != "" {
			return purpose
		}
	}
	if purpose := metaString(row.Metadata, "page"); purpose != "" {
		return purpose
	}
	return metaString(row.Metadata, "assetPurpose")
}

func metaString(m map[string]interface{}, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
