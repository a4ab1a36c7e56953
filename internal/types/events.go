package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventAssetApproved   EventType = "asset.approved"
	EventAssetRejected   EventType = "asset.rejected"
	EventRenderCompleted EventType = "render.completed"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// AssetReviewedEvent is broadcast to connected admin clients when an asset
// is approved or rejected.
type AssetReviewedEvent struct {
	AssetID    string `json:"asset_id"`
	ProjectID  string `json:"project_id"`
	Status     string `json:"status"`
	ReviewedAt string `json:"reviewed_at"`
}

// RenderCompletedEvent is broadcast when a render job reaches a terminal state.
type RenderCompletedEvent struct {
	RenderID  string `json:"render_id"`
	ProjectID string `json:"project_id"`
	Status    string `json:"status"`
	OutputURL string `json:"output_url,omitempty"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
