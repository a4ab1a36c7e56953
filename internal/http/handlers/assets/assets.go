package assets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/wondertales/video-service/internal/services/wishbutton"
	assettypes "github.com/wondertales/video-service/internal/types/assets"
	"github.com/wondertales/video-service/internal/utils/response"
)

// ListChildren returns every registered child for the admin review screens.
// @Summary List registered children
// @Tags wish-button
// @Produce json
// @Success 200 {array} types.Child "Children"
// @Failure 500 {object} response.Response "Query failed"
// @Security BearerAuth
// @Router /api/wish-button/children [get]
func ListChildren(svc *wishbutton.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		children, err := svc.FetchChildren(r.Context())
		if err != nil {
			slog.Error("Failed to list children", slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to list children")))
			return
		}
		response.WriteJSON(w, http.StatusOK, children)
	}
}

// ListStories returns the story projects for one child. Pass refresh=true
// to bypass the cached copy.
// @Summary List a child's story projects
// @Tags wish-button
// @Produce json
// @Param child_id path string true "Child ID"
// @Param refresh query bool false "Bypass cache"
// @Success 200 {array} types.StoryProject "Stories"
// @Failure 500 {object} response.Response "Query failed"
// @Security BearerAuth
// @Router /api/wish-button/children/{child_id}/stories [get]
func ListStories(svc *wishbutton.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		childID := r.PathValue("child_id")
		forceRefresh := r.URL.Query().Get("refresh") == "true"

		stories, err := svc.FetchPreviousStories(r.Context(), childID, forceRefresh)
		if err != nil {
			slog.Error("Failed to list stories",
				slog.String("childId", childID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to list stories")))
			return
		}
		response.WriteJSON(w, http.StatusOK, stories)
	}
}

// DeleteStory removes a story project and its assets. Asset cleanup runs
// first; if it fails the project row survives so the delete can be retried.
// @Summary Delete a story project
// @Tags wish-button
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} response.Response "Deleted"
// @Failure 404 {object} response.Response "Project not found"
// @Failure 500 {object} response.Response "Delete failed"
// @Security BearerAuth
// @Router /api/wish-button/stories/{project_id} [delete]
func DeleteStory(svc *wishbutton.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("project_id")

		err := svc.DeleteStory(r.Context(), projectID)
		if errors.Is(err, sql.ErrNoRows) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(
				errors.New("story project not found")))
			return
		} else if err != nil {
			slog.Error("Failed to delete story",
				slog.String("projectId", projectID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to delete story")))
			return
		}

		slog.Info("Story deleted", slog.String("projectId", projectID))
		response.WriteJSON(w, http.StatusOK, response.RequestOK("story deleted", nil))
	}
}

// refreshRequest optionally carries the caller's current view model so
// untouched slots keep their names and descriptions across a refresh.
type refreshRequest struct {
	Assets assettypes.WishButtonAssets `json:"assets"`
}

// RefreshAssets rebuilds the 19-slot asset view model for a project from
// the latest database rows.
// @Summary Refresh the wish-button asset view model
// @Tags wish-button
// @Accept json
// @Produce json
// @Param project_id path string true "Project ID"
// @Param request body refreshRequest false "Current view model"
// @Success 200 {object} assettypes.WishButtonAssets "Refreshed slots"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 500 {object} response.Response "Refresh failed"
// @Security BearerAuth
// @Router /api/wish-button/projects/{project_id}/refresh-assets [post]
func RefreshAssets(svc *wishbutton.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := r.PathValue("project_id")

		var req refreshRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		refreshed, err := svc.RefreshAssetsFromDatabase(r.Context(), projectID, req.Assets)
		if err != nil {
			slog.Error("Failed to refresh assets",
				slog.String("projectId", projectID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to refresh assets")))
			return
		}
		response.WriteJSON(w, http.StatusOK, refreshed)
	}
}

// ApproveAsset marks an asset approved and notifies connected admins.
// @Summary Approve an asset
// @Tags wish-button
// @Produce json
// @Param asset_id path string true "Asset ID"
// @Success 200 {object} response.Response "Approved"
// @Failure 404 {object} response.Response "Asset not found"
// @Failure 500 {object} response.Response "Update failed"
// @Security BearerAuth
// @Router /api/wish-button/assets/{asset_id}/approve [post]
func ApproveAsset(svc *wishbutton.Service) http.HandlerFunc {
	return reviewHandler(svc.ApproveAsset, "approved")
}

// RejectAsset marks an asset rejected and notifies connected admins.
// @Summary Reject an asset
// @Tags wish-button
// @Produce json
// @Param asset_id path string true "Asset ID"
// @Success 200 {object} response.Response "Rejected"
// @Failure 404 {object} response.Response "Asset not found"
// @Failure 500 {object} response.Response "Update failed"
// @Security BearerAuth
// @Router /api/wish-button/assets/{asset_id}/reject [post]
func RejectAsset(svc *wishbutton.Service) http.HandlerFunc {
	return reviewHandler(svc.RejectAsset, "rejected")
}

func reviewHandler(review func(ctx context.Context, id string) error, verdict string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assetID := r.PathValue("asset_id")

		err := review(r.Context(), assetID)
		if errors.Is(err, sql.ErrNoRows) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(
				errors.New("asset not found")))
			return
		} else if err != nil {
			slog.Error("Failed to review asset",
				slog.String("assetId", assetID), slog.String("verdict", verdict),
				slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to update asset status")))
			return
		}

		slog.Info("Asset reviewed", slog.String("assetId", assetID), slog.String("verdict", verdict))
		response.WriteJSON(w, http.StatusOK, response.RequestOK("asset "+verdict, nil))
	}
}
