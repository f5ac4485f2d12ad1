package handler

import (
	"errors"
	"fanpocket-api/common"
	"fanpocket-api/model"
	"fanpocket-api/service"
	"net/http"
)

type ProfileHandler struct {
	userService *service.UserService
}

func NewProfileHandler(userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{userService: userService}
}

// Me godoc
// @Summary      Return the authenticated user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.User
// @Failure      401 {object} common.AppError
// @Router       /auth/me [get]
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	user := UserFromContext(r.Context())
	if user == nil {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	respondJSON(w, http.StatusOK, map[string]*model.User{"user": user})
	return nil
}

// UpdateProfile godoc
// @Summary      Update profile fields of the authenticated user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body model.UpdateProfileRequest true "profile patch"
// @Success      200 {object} model.User
// @Failure      400 {object} common.AppError
// @Failure      409 {object} common.AppError
// @Router       /auth/me [patch]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	user := UserFromContext(r.Context())
	if user == nil {
		return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
	}

	var req model.UpdateProfileRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidLocale):
			return common.NewAppError(http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrEmailTaken):
			return common.NewAppError(http.StatusConflict, err.Error(), nil)
		case errors.Is(err, service.ErrUserNotFound):
			return common.NewAppError(http.StatusUnauthorized, "Authentication required", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not update profile", err)
	}

	respondJSON(w, http.StatusOK, map[string]*model.User{"user": updated})
	return nil
}
