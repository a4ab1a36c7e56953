package events

import (
	"time"

	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/assets"
)

// AdminHub is the slice of the WebSocket hub the publisher needs.
type AdminHub interface {
	BroadcastAll(event *types.Event)
	ClientCount() int
}

// EventPublisher fans asset-review and render outcomes out to connected
// admin clients.
type EventPublisher struct {
	hub AdminHub
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub AdminHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishAssetReviewed publishes an approval or rejection outcome.
func (p *EventPublisher) PublishAssetReviewed(assetID, projectID string, status assets.Status) error {
	// Nothing to do when no admin is connected
	if p.hub.ClientCount() == 0 {
		return nil
	}

	eventType := types.EventAssetApproved
	if status == assets.StatusRejected {
		eventType = types.EventAssetRejected
	}

	eventData := &types.AssetReviewedEvent{
		AssetID:    assetID,
		ProjectID:  projectID,
		Status:     string(status),
		ReviewedAt: time.Now().UTC().Format(time.RFC3339),
	}

	p.hub.BroadcastAll(types.NewEvent(eventType, eventData))

	return nil
}

// PublishRenderCompleted publishes a terminal render outcome.
func (p *EventPublisher) PublishRenderCompleted(renderID, projectID string, status types.RenderStatus, outputURL string) error {
	if p.hub.ClientCount() == 0 {
		return nil
	}

	eventData := &types.RenderCompletedEvent{
		RenderID:  renderID,
		ProjectID: projectID,
		Status:    string(status),
		OutputURL: outputURL,
	}

	p.hub.BroadcastAll(types.NewEvent(types.EventRenderCompleted, eventData))

	return nil
}
