package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trialmatch/backend/internal/domain"
	"github.com/trialmatch/backend/internal/usecase/swipe"
)

type SessionHandler struct {
	manager *swipe.Manager
}

func NewSessionHandler(manager *swipe.Manager) *SessionHandler {
	return &SessionHandler{
		manager: manager,
	}
}

// SessionResponse is the session state returned to the swipe view.
type SessionResponse struct {
	SessionID string        `json:"session_id"`
	Current   *domain.Trial `json:"current,omitempty"`
	Summary   swipe.Summary `json:"summary"`
}

// SwipeRequest is one accept/reject decision.
type SwipeRequest struct {
	Accept bool `json:"accept"`
}

// StartSession handles POST /sessions
// @Summary Start a swipe session
// @Description Fetch candidate trials, rank them against the profile and open a session
// @Tags sessions
// @Produce json
// @Success 201 {object} SessionResponse
// @Failure 409 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) StartSession(c *gin.Context) {
	session, err := h.manager.Start(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrProfileIncomplete) {
			c.JSON(http.StatusConflict, ErrorResponse{
				Error: "add your medical conditions and contact details before matching",
			})
			return
		}
		if errors.Is(err, domain.ErrSearchUnavailable) {
			c.JSON(http.StatusBadGateway, ErrorResponse{
				Error: "failed to load clinical trials, please try again later",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to start session",
		})
		return
	}

	current, summary := session.Current()
	c.JSON(http.StatusCreated, SessionResponse{
		SessionID: session.ID,
		Current:   current,
		Summary:   summary,
	})
}

// GetSession handles GET /sessions/:id
// @Summary Get session state
// @Tags sessions
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.manager.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "session not found",
		})
		return
	}

	current, summary := session.Current()
	c.JSON(http.StatusOK, SessionResponse{
		SessionID: session.ID,
		Current:   current,
		Summary:   summary,
	})
}

// Swipe handles POST /sessions/:id/swipe
// @Summary Decide on the current trial
// @Description Accept stores the trial as a match, reject only advances the session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body SwipeRequest true "Decision"
// @Success 200 {object} SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /sessions/{id}/swipe [post]
func (h *SessionHandler) Swipe(c *gin.Context) {
	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}

	_, err := h.manager.Decide(c.Request.Context(), c.Param("id"), req.Accept)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error: "session not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to record decision",
		})
		return
	}

	session, _ := h.manager.Get(c.Param("id"))
	current, summary := session.Current()
	c.JSON(http.StatusOK, SessionResponse{
		SessionID: session.ID,
		Current:   current,
		Summary:   summary,
	})
}
