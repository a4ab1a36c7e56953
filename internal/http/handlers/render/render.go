package render

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wondertales/video-service/internal/composition"
	renderservice "github.com/wondertales/video-service/internal/services/render"
	"github.com/wondertales/video-service/internal/services/wishbutton"
	assettypes "github.com/wondertales/video-service/internal/types/assets"
	"github.com/wondertales/video-service/internal/utils/response"
)

// SubmitRequest starts a render for a project. The asset view model is
// optional; when omitted it is rebuilt from the database.
type SubmitRequest struct {
	ProjectID string                      `json:"project_id" validate:"required"`
	Assets    assettypes.WishButtonAssets `json:"assets"`
}

// SubmitResponse carries the renderer-issued job identifier.
type SubmitResponse struct {
	RenderID string `json:"render_id"`
	Status   string `json:"status"`
}

// Submit composes a render payload from a project's assets and hands it to
// the renderer.
// @Summary Submit a render job
// @Tags render
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Render request"
// @Success 200 {object} SubmitResponse "Job accepted"
// @Failure 400 {object} response.Response "Bad request or incomplete assets"
// @Failure 500 {object} response.Response "Renderer unavailable"
// @Security BearerAuth
// @Router /api/render [post]
func Submit(svc *renderservice.Service, wb *wishbutton.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SubmitRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(errors.New("request body cannot be empty")))
			return
		} else if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate request
		validate := validator.New()
		if err := validate.Struct(req); err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		wa := req.Assets
		if len(wa) == 0 {
			wa, err = wb.RefreshAssetsFromDatabase(r.Context(), req.ProjectID, nil)
			if err != nil {
				slog.Error("Failed to load assets for render",
					slog.String("projectId", req.ProjectID), slog.String("error", err.Error()))
				response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
					errors.New("failed to load project assets")))
				return
			}
		}

		renderID, err := svc.Submit(r.Context(), req.ProjectID, wa)
		if err != nil {
			if errors.Is(err, composition.ErrIncomplete) {
				response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
				return
			}
			slog.Error("Failed to submit render",
				slog.String("projectId", req.ProjectID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to submit render")))
			return
		}

		slog.Info("Render submitted",
			slog.String("projectId", req.ProjectID), slog.String("renderId", renderID))
		response.WriteJSON(w, http.StatusOK, SubmitResponse{RenderID: renderID, Status: "queued"})
	}
}

// Status reports the current state of a render job, polling the renderer
// once for jobs that are still in flight.
// @Summary Get render job status
// @Tags render
// @Produce json
// @Param render_id path string true "Render ID"
// @Success 200 {object} renderservice.StatusResult "Job status"
// @Failure 404 {object} response.Response "Unknown render ID"
// @Failure 500 {object} response.Response "Status lookup failed"
// @Security BearerAuth
// @Router /api/render-status/{render_id} [get]
func Status(svc *renderservice.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderID := r.PathValue("render_id")

		result, err := svc.Status(r.Context(), renderID)
		if errors.Is(err, sql.ErrNoRows) {
			response.WriteJSON(w, http.StatusNotFound, response.GeneralError(
				errors.New("render job not found")))
			return
		} else if err != nil {
			slog.Error("Failed to get render status",
				slog.String("renderId", renderID), slog.String("error", err.Error()))
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(
				errors.New("failed to get render status")))
			return
		}
		response.WriteJSON(w, http.StatusOK, result)
	}
}
