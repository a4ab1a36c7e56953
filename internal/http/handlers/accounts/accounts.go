package accounts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/wondertales/video-service/internal/http/middleware"
	"github.com/wondertales/video-service/internal/storage"
	"github.com/wondertales/video-service/internal/types"
	"github.com/wondertales/video-service/internal/types/accounts"
	"github.com/wondertales/video-service/internal/utils/jwt"
	"github.com/wondertales/video-service/internal/utils/password"
	"github.com/wondertales/video-service/internal/utils/response"
)

// SignUp handles parent registration
// @Summary Register a new parent account
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body accounts.SignUpRequest true "Parent registration details"
// @Success 201 {object} map[string]string "Parent created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 500 {object} response.Response "Internal server error"
// @Router /signup [post]
func SignUp(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var signupReq accounts.SignUpRequest

		err := json.NewDecoder(r.Body).Decode(&signupReq)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate request
		validate := validator.New()
		err = validate.Struct(signupReq)
		if err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		hashedPassword, err := password.HashPassword(signupReq.Password)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to hash password")))
			return
		}

		parentID, err := storage.CreateParent(signupReq.Email, hashedPassword)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		slog.Info("Parent account created", slog.String("parent_id", parentID))

		response.WriteJSON(w, http.StatusCreated, map[string]string{
			"id": parentID,
		})
	}
}

// Login handles parent authentication
// @Summary Authenticate a parent
// @Description Authenticate a parent account and return a JWT token
// @Tags accounts
// @Accept json
// @Produce json
// @Param account body accounts.SignInRequest true "Parent login details"
// @Success 200 {object} map[string]string "Authenticated with token"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Router /login [post]
func Login(storage storage.Storage, JWTSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var signinReq accounts.SignInRequest

		err := json.NewDecoder(r.Body).Decode(&signinReq)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate request
		validate := validator.New()
		err = validate.Struct(signinReq)
		if err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		parentID, hashedPassword, err := storage.GetParentByEmail(signinReq.Email)
		if err != nil {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("invalid email or password")))
			return
		}

		correctPassword := password.CheckPasswordHash(signinReq.Password, hashedPassword)
		if !correctPassword {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("invalid email or password")))
			return
		}

		token, err := jwt.CreateToken(parentID, JWTSecret)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to generate token")))
			return
		}

		response.WriteJSON(w, http.StatusOK, map[string]string{
			"token": token,
		})
	}
}

// RegisterChild creates a child profile under the authenticated parent.
// @Summary Register a child
// @Tags accounts
// @Accept json
// @Produce json
// @Param child body types.ChildRegisterRequest true "Child details"
// @Success 201 {object} map[string]string "Child created successfully"
// @Failure 400 {object} response.Response "Bad request"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /api/children [post]
func RegisterChild(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("authentication required")))
			return
		}

		var req types.ChildRegisterRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		if err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		// Validate request
		validate := validator.New()
		err = validate.Struct(req)
		if err != nil {
			if ve, ok := err.(validator.ValidationErrors); ok {
				response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(ve))
				return
			}
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		childID, err := storage.CreateChild(parentID, req.Name, req.Age, req.FavoriteTheme)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(err))
			return
		}
		slog.Info("Child registered",
			slog.String("parent_id", parentID), slog.String("child_id", childID))

		response.WriteJSON(w, http.StatusCreated, map[string]string{
			"id": childID,
		})
	}
}

// ListChildren returns the authenticated parent's children.
// @Summary List the parent's children
// @Tags accounts
// @Produce json
// @Success 200 {array} types.Child "Children"
// @Failure 401 {object} response.Response "Unauthorized"
// @Failure 500 {object} response.Response "Internal server error"
// @Security BearerAuth
// @Router /api/children [get]
func ListChildren(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		parentID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteJSON(w, http.StatusUnauthorized, response.GeneralError(errors.New("authentication required")))
			return
		}

		children, err := storage.ListChildrenByParent(parentID)
		if err != nil {
			response.WriteJSON(w, http.StatusInternalServerError, response.GeneralError(errors.New("failed to list children")))
			return
		}
		response.WriteJSON(w, http.StatusOK, children)
	}
}
