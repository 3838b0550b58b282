package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shreesteel/backend/internal/auth"
	apierrors "github.com/shreesteel/backend/internal/errors"
	"github.com/shreesteel/backend/internal/middleware"
	"github.com/shreesteel/backend/internal/repository"
)

// Handlers contains all HTTP handlers for the API
type Handlers struct {
	submissions repository.SubmissionRepository
	visits      repository.VisitRepository
	auth        *auth.Service
}

// NewHandlers creates a new handlers instance
func NewHandlers(submissions repository.SubmissionRepository, visits repository.VisitRepository, authService *auth.Service) *Handlers {
	return &Handlers{
		submissions: submissions,
		visits:      visits,
		auth:        authService,
	}
}

// RegisterRoutes wires every API route onto the router. Admin routes other
// than login sit behind the bearer-token middleware.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/health", h.HealthCheck)

	contact := r.Group("/api/contact")
	{
		contact.POST("/submit", middleware.RateLimitSmartContact(), h.SubmitContact)
		contact.GET("/submissions", middleware.RequireAdmin(h.auth), h.ListSubmissions)
		contact.GET("/submission/:id", middleware.RequireAdmin(h.auth), h.GetSubmission)
		contact.PUT("/submission/:id/status", middleware.RequireAdmin(h.auth), h.UpdateSubmissionStatus)
		contact.POST("/submission/:id/note", middleware.RequireAdmin(h.auth), h.AddSubmissionNote)
		contact.GET("/analytics", middleware.RequireAdmin(h.auth), h.GetContactAnalytics)
	}

	tracking := r.Group("/api/tracking")
	tracking.Use(middleware.RateLimitSmartTracking())
	{
		tracking.POST("/visit", h.TrackVisit)
		tracking.POST("/interaction", h.TrackInteraction)
		tracking.PUT("/visit/:sessionId/duration", h.UpdateVisitDuration)
	}
	// Analytics is an admin read, not a beacon; no tracking rate limit.
	r.GET("/api/tracking/analytics", middleware.RequireAdmin(h.auth), h.GetTrackingAnalytics)

	r.POST("/api/estimate", middleware.RateLimitSmartDefault(), h.ComputeEstimate)

	admin := r.Group("/api/admin")
	{
		admin.POST("/login", middleware.RateLimitSmartAuth(), h.AdminLogin)
		admin.GET("/dashboard", middleware.RequireAdmin(h.auth), h.GetDashboard)
		admin.GET("/stats", middleware.RequireAdmin(h.auth), h.GetQuickStats)
		admin.GET("/export/contacts", middleware.RequireAdmin(h.auth), h.ExportContacts)
	}
}

// respondError converts an APIError into the wire envelope.
func respondError(c *gin.Context, err *apierrors.APIError) {
	body := gin.H{
		"success": false,
		"message": err.Message,
	}
	if len(err.Fields) > 0 {
		body["errors"] = err.Fields
	}
	c.JSON(err.Status, body)
}

// respondInternal logs nothing itself; callers log with context first.
func respondInternal(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": message,
	})
}
