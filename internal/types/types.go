package types

import "time"

type Child struct {
	ID            string    `json:"id"`
	ParentID      string    `json:"parent_id"`
	Name          string    `json:"name"`
	Age           int       `json:"age"`
	FavoriteTheme string    `json:"favorite_theme,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type ChildRegisterRequest struct {
	Name          string `json:"name" validate:"required"`
	Age           int    `json:"age" validate:"required,min=1,max=12"`
	FavoriteTheme string `json:"favorite_theme"`
}

// StoryProject is one generated (or in-progress) personalized story for a child.
type StoryProject struct {
	ID        string    `json:"id"`
	ChildID   string    `json:"child_id"`
	Template  string    `json:"template"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	VideoURL  string    `json:"video_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type RenderStatus string

const (
	RenderQueued    RenderStatus = "queued"
	RenderRendering RenderStatus = "rendering"
	RenderCompleted RenderStatus = "completed"
	RenderFailed    RenderStatus = "failed"
)

// Terminal reports whether the status can no longer change.
func (s RenderStatus) Terminal() bool {
	return s == RenderCompleted || s == RenderFailed
}

// RenderJob tracks one submission to the external rendering engine. RenderID
// is the identifier the renderer assigned, not our own primary key.
type RenderJob struct {
	ID          string       `json:"id"`
	ProjectID   string       `json:"project_id"`
	RenderID    string       `json:"render_id"`
	Status      RenderStatus `json:"status"`
	Progress    float64      `json:"progress"`
	OutputURL   string       `json:"output_url,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	StartedAt   *time.Time   `json:"started_at,omitempty"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	FailedAt    *time.Time   `json:"failed_at,omitempty"`
}
