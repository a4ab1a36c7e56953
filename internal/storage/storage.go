package storage

import (
	"github.com/wondertales/video-service/internal/reconcile"
	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/assets"
)

type Storage interface {
	// accounts
	CreateParent(email, passwordHash string) (string, error)
	GetParentByEmail(email string) (string, string, error)
	CreateChild(parentID, name string, age int, favoriteTheme string) (string, error)
	ListChildrenByParent(parentID string) ([]types.Child, error)
	ListChildren() ([]types.Child, error)

	// story projects
	ListStoriesByChild(childID string) ([]types.StoryProject, error)
	GetProject(id string) (types.StoryProject, error)
	DeleteProjectAssets(projectID string) error
	DeleteProject(id string) error

	// per-project assets
	ListProjectAssets(projectID string) ([]assets.Record, error)
	GetAsset(id string) (assets.Record, error)
	UpdateAssetStatus(id string, status assets.Status) error

	// reconciliation source tables
	ListApprovedVideos() ([]reconcile.Record, error)
	ListAvailableVideos() ([]reconcile.Record, error)
	ListPublishedVideos() ([]reconcile.Record, error)
	ListGenericAssets() ([]reconcile.Record, error)

	// render jobs
	CreateRenderJob(projectID, renderID string) (string, error)
	GetRenderJobByRenderID(renderID string) (types.RenderJob, error)
	UpdateRenderJob(job types.RenderJob) error
	ListActiveRenderJobs() ([]types.RenderJob, error)
}
