package media

import "time"

// RemoteObject is one entry from an object-store listing. Transient; built
// fresh for every listing request and never persisted.
type RemoteObject struct {
	Key          string    `json:"key"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
}

// MergedEntry is a RemoteObject joined with at most one database record.
// DatabaseID is only ever set from a real record match; filename-derived
// titles carry no identifier linkage.
type MergedEntry struct {
	RemoteObject
	Title          string                 `json:"title"`
	DatabaseID     string                 `json:"databaseId,omitempty"`
	Duration       float64                `json:"duration,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	Source         string                 `json:"source,omitempty"`
	ApprovalStatus string                 `json:"approvalStatus,omitempty"`
	IsPublished    bool                   `json:"isPublished,omitempty"`
	CreatedAt      string                 `json:"createdAt,omitempty"`
}

// ListObjectsResponse is the wire shape of the listing endpoint. Source is
// "s3" when the object store answered and "database" on the fallback path.
type ListObjectsResponse struct {
	Objects []MergedEntry `json:"objects"`
	Folders []string      `json:"folders"`
	Prefix  string        `json:"prefix"`
	Source  string        `json:"source"`
	Message string        `json:"message,omitempty"`
}

type UploadURLRequest struct {
	Filename string `json:"filename" validate:"required"`
	Filetype string `json:"filetype" validate:"required"`
}

type UploadURLResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	ExpiresAt int64  `json:"expires_at"`
}
