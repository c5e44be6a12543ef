package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/trialmatch/backend/internal/delivery/http/handler"
	"github.com/trialmatch/backend/internal/infrastructure/trialsearch"
)

type Router struct {
	profileHandler *handler.ProfileHandler
	sessionHandler *handler.SessionHandler
	matchHandler   *handler.MatchHandler
	searchClient   *trialsearch.Client
}

func NewRouter(
	profileHandler *handler.ProfileHandler,
	sessionHandler *handler.SessionHandler,
	matchHandler *handler.MatchHandler,
	searchClient *trialsearch.Client,
) *Router {
	return &Router{
		profileHandler: profileHandler,
		sessionHandler: sessionHandler,
		matchHandler:   matchHandler,
		searchClient:   searchClient,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD). Reports search backend
	// reachability as an indicator only; nothing is gated on it.
	healthHandler := func(c *gin.Context) {
		searchStatus := "ok"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := r.searchClient.Health(ctx); err != nil {
			searchStatus = "unreachable"
		}
		c.JSON(200, gin.H{
			"status":       "ok",
			"trial_search": searchStatus,
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Profile routes
		profile := v1.Group("/profile")
		{
			profile.GET("", r.profileHandler.GetProfile)
			profile.PUT("", r.profileHandler.UpdateProfile)
		}

		// Swipe session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", r.sessionHandler.StartSession)
			sessions.GET("/:id", r.sessionHandler.GetSession)
			sessions.POST("/:id/swipe", r.sessionHandler.Swipe)
		}

		// Matched trial routes
		matches := v1.Group("/matches")
		{
			matches.GET("", r.matchHandler.ListMatches)
			matches.DELETE("", r.matchHandler.ClearMatches)
			matches.DELETE("/:id", r.matchHandler.RemoveMatch)
			matches.GET("/:id/explanation", r.matchHandler.ExplainMatch)
		}
	}

	return router
}
