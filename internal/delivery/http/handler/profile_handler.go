package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/usecase/profile"
)

type ProfileHandler struct {
	profileUseCase *profile.ProfileUseCase
}

func NewProfileHandler(profileUseCase *profile.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: profileUseCase,
	}
}

// GetProfile handles GET /profile
// @Summary Get the profile
// @Description Get the stored health profile, defaults when none saved
// @Tags profile
// @Produce json
// @Success 200 {object} domain.UserProfile
// @Router /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, h.profileUseCase.Get(c.Request.Context()))
}

// UpdateProfile handles PUT /profile
// @Summary Save the profile
// @Description Overwrite the stored profile with the posted snapshot
// @Tags profile
// @Accept json
// @Produce json
// @Param request body domain.UserProfile true "Profile snapshot"
// @Success 200 {object} domain.UserProfile
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req domain.UserProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	saved, err := h.profileUseCase.Save(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to save profile",
		})
		return
	}

	c.JSON(http.StatusOK, saved)
}
