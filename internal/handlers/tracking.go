package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apierrors "github.com/shreesteel/backend/internal/errors"
	"github.com/shreesteel/backend/internal/logger"
	"github.com/shreesteel/backend/internal/middleware"
	"github.com/shreesteel/backend/internal/models"
	"github.com/shreesteel/backend/internal/repository"
	"github.com/shreesteel/backend/internal/useragent"
)

type visitRequest struct {
	SessionID        string                   `json:"sessionId"`
	VisitorID        string                   `json:"visitorId"`
	CurrentPage      string                   `json:"currentPage"`
	Referrer         string                   `json:"referrer"`
	ScreenResolution *models.ScreenResolution `json:"screenResolution"`
}

// TrackVisit records a page view. A known session gets its counters bumped;
// an unknown one becomes a new session row.
// POST /api/tracking/visit
func (h *Handlers) TrackVisit(c *gin.Context) {
	var req visitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	ctx := c.Request.Context()

	if req.SessionID != "" {
		existing, err := h.visits.GetBySessionID(ctx, req.SessionID)
		if err == nil {
			existing.PageViews++
			existing.Bounce = false // multiple page views, not a bounce
			if req.CurrentPage != "" {
				existing.CurrentPage = req.CurrentPage
			}
			if err := h.visits.Save(ctx, existing); err != nil {
				logger.ErrorWithFields("Failed to update visit", err,
					logger.WithSessionID(req.SessionID),
				)
				respondInternal(c, "Failed to track visit")
				return
			}
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"message": "Visit updated",
				"visitId": existing.ID,
			})
			return
		}
		if !errors.Is(err, repository.ErrVisitNotFound) {
			logger.ErrorWithFields("Failed to look up visit session", err,
				logger.WithSessionID(req.SessionID),
			)
			respondInternal(c, "Failed to track visit")
			return
		}
	}

	ua := c.Request.UserAgent()
	info := useragent.Parse(ua)

	visit := &models.UserVisit{
		SessionID: defaultString(req.SessionID, uuid.New().String()),
		VisitorID: defaultString(req.VisitorID, uuid.New().String()),
		UserAgent: ua,
		Browser:   info.Browser,
		OS:        info.OS,
		Device:    info.Device,
		IPAddress: c.ClientIP(),

		CurrentPage:      defaultString(req.CurrentPage, "home"),
		Referrer:         defaultString(req.Referrer, "direct"),
		ScreenResolution: req.ScreenResolution,

		PageViews: 1,
		Bounce:    true,
	}

	if err := h.visits.Create(ctx, visit); err != nil {
		logger.ErrorWithFields("Failed to create visit", err,
			logger.WithSessionID(visit.SessionID),
		)
		respondInternal(c, "Failed to track visit")
		return
	}

	middleware.RecordVisitTracked(string(visit.Device))
	logger.Log.Debug("Visit tracked",
		logger.WithSessionID(visit.SessionID),
		zap.String("page", visit.CurrentPage),
		zap.String("device", string(visit.Device)),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Visit tracked successfully",
		"visitId":   visit.ID,
		"sessionId": visit.SessionID,
		"visitorId": visit.VisitorID,
	})
}

type interactionRequest struct {
	SessionID string                 `json:"sessionId"`
	Type      string                 `json:"type"`
	Element   string                 `json:"element"`
	Data      map[string]interface{} `json:"data"`
}

// TrackInteraction appends a typed event to a session and refreshes its
// engagement flags.
// POST /api/tracking/interaction
func (h *Handlers) TrackInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	if req.SessionID == "" || req.Type == "" {
		respondError(c, apierrors.BadRequest("Session ID and interaction type are required"))
		return
	}

	interactionType := models.InteractionType(req.Type)
	if !interactionType.IsValid() {
		respondError(c, apierrors.BadRequest("Invalid interaction type"))
		return
	}

	ctx := c.Request.Context()
	visit, err := h.visits.GetBySessionID(ctx, req.SessionID)
	if errors.Is(err, repository.ErrVisitNotFound) {
		respondError(c, apierrors.NotFound("Visit session"))
		return
	}
	if err != nil {
		logger.ErrorWithFields("Failed to look up visit session", err,
			logger.WithSessionID(req.SessionID),
		)
		respondInternal(c, "Failed to track interaction")
		return
	}

	visit.AddInteraction(interactionType, req.Element, req.Data)

	if err := h.visits.Save(ctx, visit); err != nil {
		logger.ErrorWithFields("Failed to save interaction", err,
			logger.WithSessionID(req.SessionID),
		)
		respondInternal(c, "Failed to track interaction")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Interaction tracked successfully",
	})
}

type durationRequest struct {
	TimeOnSite int    `json:"timeOnSite"`
	ExitPage   string `json:"exitPage"`
}

// UpdateVisitDuration records the final time-on-site and exit page for a
// session. Last write wins.
// PUT /api/tracking/visit/:sessionId/duration
func (h *Handlers) UpdateVisitDuration(c *gin.Context) {
	var req durationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	ctx := c.Request.Context()
	sessionID := c.Param("sessionId")

	visit, err := h.visits.GetBySessionID(ctx, sessionID)
	if errors.Is(err, repository.ErrVisitNotFound) {
		respondError(c, apierrors.NotFound("Visit session"))
		return
	}
	if err != nil {
		logger.ErrorWithFields("Failed to look up visit session", err,
			logger.WithSessionID(sessionID),
		)
		respondInternal(c, "Failed to update visit duration")
		return
	}

	visit.TimeOnSite = req.TimeOnSite
	if req.ExitPage != "" {
		visit.ExitPage = req.ExitPage
	}

	if err := h.visits.Save(ctx, visit); err != nil {
		logger.ErrorWithFields("Failed to save visit duration", err,
			logger.WithSessionID(sessionID),
		)
		respondInternal(c, "Failed to update visit duration")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Visit duration updated successfully",
	})
}

// GetTrackingAnalytics returns the engagement summary plus breakdowns for
// the admin analytics page.
// GET /api/tracking/analytics
func (h *Handlers) GetTrackingAnalytics(c *gin.Context) {
	ctx := c.Request.Context()
	start := parseDateQuery(c.Query("startDate"))
	end := parseDateQuery(c.Query("endDate"))

	summary, err := h.visits.Analytics(ctx, start, end)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate visit analytics", err)
		respondInternal(c, "Failed to get analytics")
		return
	}

	totalVisits, err := h.visits.CountInRange(ctx, nil, nil)
	if err != nil {
		logger.ErrorWithFields("Failed to count visits", err)
		respondInternal(c, "Failed to get analytics")
		return
	}

	recent, err := h.visits.Recent(ctx, nil, 10)
	if err != nil {
		logger.ErrorWithFields("Failed to load recent visits", err)
		respondInternal(c, "Failed to get analytics")
		return
	}

	recentViews := make([]gin.H, 0, len(recent))
	for _, v := range recent {
		recentViews = append(recentViews, gin.H{
			"visitDate":         v.VisitDate,
			"currentPage":       v.CurrentPage,
			"device":            v.Device,
			"browser":           gin.H{"name": v.Browser.Name},
			"timeOnSite":        v.TimeOnSite,
			"calculatorUsed":    v.CalculatorUsed,
			"contactFormViewed": v.ContactFormViewed,
		})
	}

	popularPages, err := h.visits.PopularPages(ctx, nil, 10)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate popular pages", err)
		respondInternal(c, "Failed to get analytics")
		return
	}

	deviceBreakdown, err := h.visits.DeviceBreakdown(ctx, nil)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate device breakdown", err)
		respondInternal(c, "Failed to get analytics")
		return
	}

	browserBreakdown, err := h.visits.BrowserBreakdown(ctx, nil, 5)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate browser breakdown", err)
		respondInternal(c, "Failed to get analytics")
		return
	}

	sevenDaysAgo := time.Now().UTC().AddDate(0, 0, -7)
	dailyVisits, err := h.visits.DailyTrends(ctx, sevenDaysAgo)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate daily visits", err)
		respondInternal(c, "Failed to get analytics")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"summary":          summary,
			"totalVisits":      totalVisits,
			"recentVisits":     recentViews,
			"popularPages":     popularPages,
			"deviceBreakdown":  deviceBreakdown,
			"browserBreakdown": browserBreakdown,
			"dailyVisits":      dailyVisits,
		},
	})
}
