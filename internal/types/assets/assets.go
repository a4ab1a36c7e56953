package assets

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of one asset slot as shown to the admin UI.
type Status string

const (
	StatusMissing       Status = "missing"
	StatusGenerating    Status = "generating"
	StatusReady         Status = "ready"
	StatusPending       Status = "pending"
	StatusPendingReview Status = "pending_review"
	StatusCompleted     Status = "completed"
	StatusApproved      Status = "approved"
	StatusRejected      Status = "rejected"
	StatusFailed        Status = "failed"
)

// statusTranslations maps raw database review states onto the states the UI
// renders. Anything absent from the table passes through unchanged.
var statusTranslations = map[Status]Status{
	StatusApproved: StatusReady,
	StatusPending:  StatusPendingReview,
}

// TranslateStatus applies the review-state translation table.
func TranslateStatus(s Status) Status {
	if translated, ok := statusTranslations[s]; ok {
		return translated
	}
	return s
}

const (
	TypeImage           = "image"
	TypeAudio           = "audio"
	TypeBackgroundMusic = "background_music"
)

// AssetStatus is the view-model value held by one Wish-Button slot.
type AssetStatus struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      Status `json:"status"`
	URL         string `json:"url,omitempty"`
	ID          string `json:"id,omitempty"`
}

// BackgroundMusicSlot is the single slot shared by all pages.
const BackgroundMusicSlot = "background_music"

// PageCount is the number of pages in the Wish-Button story template.
const PageCount = 9

// WishButtonAssets is the fixed-shape view model for the Wish-Button admin
// screen: one image and one audio slot per page plus the shared
// background-music slot. Writes to keys outside this fixed set are dropped.
type WishButtonAssets map[string]AssetStatus

// NewWishButtonAssets returns a view model with every slot present and
// initialized to "missing".
func NewWishButtonAssets() WishButtonAssets {
	wa := make(WishButtonAssets, PageCount*2+1)
	for page := 1; page <= PageCount; page++ {
		imageKey := fmt.Sprintf("page%d_%s", page, TypeImage)
		wa[imageKey] = AssetStatus{
			Type:        TypeImage,
			Name:        fmt.Sprintf("Page %d Image", page),
			Description: fmt.Sprintf("Illustration for page %d", page),
			Status:      StatusMissing,
		}
		audioKey := fmt.Sprintf("page%d_%s", page, TypeAudio)
		wa[audioKey] = AssetStatus{
			Type:        TypeAudio,
			Name:        fmt.Sprintf("Page %d Audio", page),
			Description: fmt.Sprintf("Narration for page %d", page),
			Status:      StatusMissing,
		}
	}
	wa[BackgroundMusicSlot] = AssetStatus{
		Type:        TypeBackgroundMusic,
		Name:        "Background Music",
		Description: "Background track played across all pages",
		Status:      StatusMissing,
	}
	return wa
}

// Set writes a slot value only when the key belongs to the fixed slot set.
// Unknown keys are a silent no-op so rows with malformed purposes cannot
// grow the view model.
func (wa WishButtonAssets) Set(key string, status AssetStatus) {
	if _, ok := wa[key]; !ok {
		return
	}
	wa[key] = status
}

// Record is one raw asset row as read from the database.
type Record struct {
	ID        string                 `json:"id"`
	ProjectID string                 `json:"project_id"`
	Type      string                 `json:"type"`
	URL       string                 `json:"url"`
	Status    Status                 `json:"status"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}
