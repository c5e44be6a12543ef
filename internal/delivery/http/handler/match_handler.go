package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/infrastructure/gemini"
	"github.com/trialmatch/backend/internal/usecase/matches"
	"github.com/trialmatch/backend/internal/usecase/profile"
)

type MatchHandler struct {
	store          *matches.Store
	profileUseCase *profile.ProfileUseCase
	geminiClient   *gemini.GeminiClient
}

func NewMatchHandler(store *matches.Store, profileUseCase *profile.ProfileUseCase, geminiClient *gemini.GeminiClient) *MatchHandler {
	return &MatchHandler{
		store:          store,
		profileUseCase: profileUseCase,
		geminiClient:   geminiClient,
	}
}

// ListMatches handles GET /matches
// @Summary List matched trials
// @Tags matches
// @Produce json
// @Success 200 {array} domain.Trial
// @Router /matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.List())
}

// RemoveMatch handles DELETE /matches/:id
// @Summary Remove one matched trial
// @Tags matches
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches/{id} [delete]
func (h *MatchHandler) RemoveMatch(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to remove match",
		})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "match removed"})
}

// ClearMatches handles DELETE /matches
// @Summary Clear all matched trials
// @Tags matches
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 500 {object} ErrorResponse
// @Router /matches [delete]
func (h *MatchHandler) ClearMatches(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to clear matches",
		})
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "matches cleared"})
}

// ExplainMatch handles GET /matches/:id/explanation
// @Summary Explain why a matched trial fits the profile
// @Tags matches
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /matches/{id}/explanation [get]
func (h *MatchHandler) ExplainMatch(c *gin.Context) {
	if h.geminiClient == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error: "explanations are not configured",
		})
		return
	}

	var matched *domain.Trial
	for _, t := range h.store.List() {
		if t.ID == c.Param("id") {
			trial := t
			matched = &trial
			break
		}
	}
	if matched == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "match not found",
		})
		return
	}

	userProfile := h.profileUseCase.Get(c.Request.Context())
	explanation, err := h.geminiClient.GenerateMatchExplanation(c.Request.Context(), userProfile, matched)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to generate explanation",
		})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: explanation})
}
