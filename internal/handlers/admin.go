package handlers

import (
	"encoding/csv"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/shreesteel/backend/internal/auth"
	apierrors "github.com/shreesteel/backend/internal/errors"
	"github.com/shreesteel/backend/internal/logger"
	"github.com/shreesteel/backend/internal/models"
	"github.com/shreesteel/backend/internal/repository"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AdminLogin exchanges admin credentials for a bearer token.
// POST /api/admin/login
func (h *Handlers) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	if req.Username == "" || req.Password == "" {
		respondError(c, apierrors.BadRequest("Username and password are required"))
		return
	}

	resp, err := h.auth.Login(req.Username, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		logger.Log.Warn("Failed admin login attempt",
			zap.String("username", req.Username),
			logger.WithIP(c.ClientIP()),
		)
		respondError(c, apierrors.Unauthorized("Invalid credentials"))
		return
	}
	if err != nil {
		logger.ErrorWithFields("Admin login failed", err)
		respondInternal(c, "Login failed")
		return
	}

	logger.Log.Info("Admin login",
		zap.String("username", resp.Username),
		logger.WithIP(c.ClientIP()),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   resp.Token,
		"admin": gin.H{
			"username": resp.Username,
			"role":     resp.Role,
		},
	})
}

// GetDashboard assembles the full admin dashboard for a period selector.
// GET /api/admin/dashboard?period=24h|7d|30d|90d
func (h *Handlers) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	period := c.DefaultQuery("period", "7d")
	start := periodStart(period)

	visitAnalytics, err := h.visits.Analytics(ctx, &start, nil)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate visit analytics", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	contactAnalytics, err := h.submissions.Analytics(ctx, &start, nil)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate contact analytics", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	recentVisits, err := h.visits.Recent(ctx, &start, 10)
	if err != nil {
		logger.ErrorWithFields("Failed to load recent visits", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}
	recentVisitViews := make([]gin.H, 0, len(recentVisits))
	for _, v := range recentVisits {
		recentVisitViews = append(recentVisitViews, gin.H{
			"visitDate":         v.VisitDate,
			"currentPage":       v.CurrentPage,
			"device":            v.Device,
			"browser":           gin.H{"name": v.Browser.Name},
			"calculatorUsed":    v.CalculatorUsed,
			"contactFormViewed": v.ContactFormViewed,
			"timeOnSite":        v.TimeOnSite,
		})
	}

	recentContacts, err := h.submissions.Recent(ctx, &start, 10)
	if err != nil {
		logger.ErrorWithFields("Failed to load recent contacts", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}
	recentContactViews := make([]gin.H, 0, len(recentContacts))
	for _, s := range recentContacts {
		recentContactViews = append(recentContactViews, gin.H{
			"name":           s.Name,
			"email":          s.Email,
			"subject":        s.Subject,
			"status":         s.Status,
			"submissionDate": s.SubmissionDate,
			"source":         s.Source,
			"priority":       s.Priority,
		})
	}

	topPages, err := h.visits.PopularPages(ctx, &start, 5)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate top pages", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	funnel, err := h.visits.FunnelCounts(ctx, &start)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate funnel counts", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	contactSubmissions, err := h.submissions.CountInRange(ctx, &start, nil)
	if err != nil {
		logger.ErrorWithFields("Failed to count submissions", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	conversionFunnel := gin.H{
		"visits":                   funnel.Visits,
		"calculatorUsers":          funnel.CalculatorUsers,
		"contactFormViews":         funnel.ContactFormViews,
		"contactSubmissions":       contactSubmissions,
		"calculatorConversionRate": guardedRate(funnel.CalculatorUsers, funnel.Visits),
		"contactViewRate":          guardedRate(funnel.ContactFormViews, funnel.Visits),
		"submissionRate":           guardedRate(contactSubmissions, funnel.ContactFormViews),
	}

	deviceStats, err := h.visits.DeviceBreakdown(ctx, &start)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate device stats", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	browserStats, err := h.visits.BrowserBreakdown(ctx, &start, 5)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate browser stats", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	dailyTrends, err := h.visits.DailyTrends(ctx, start)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate daily trends", err)
		respondInternal(c, "Failed to get dashboard data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"period":           period,
			"visitAnalytics":   visitAnalytics,
			"contactAnalytics": contactAnalytics,
			"recentVisits":     recentVisitViews,
			"recentContacts":   recentContactViews,
			"topPages":         topPages,
			"conversionFunnel": conversionFunnel,
			"deviceStats":      deviceStats,
			"browserStats":     browserStats,
			"dailyTrends":      dailyTrends,
		},
	})
}

// guardedRate returns part/whole as a 0-100 percentage, 0 when whole is 0.
func guardedRate(part, whole int64) float64 {
	if whole == 0 {
		return 0
	}
	return repository.Round2(float64(part) / float64(whole) * 100)
}

// GetQuickStats returns today/yesterday/week/total quick counts.
// GET /api/admin/stats
func (h *Handlers) GetQuickStats(c *gin.Context) {
	ctx := c.Request.Context()

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	thisWeek := today.AddDate(0, 0, -7)

	count := func(visits bool, start, end *time.Time) int64 {
		var n int64
		var err error
		if visits {
			n, err = h.visits.CountInRange(ctx, start, end)
		} else {
			n, err = h.submissions.CountInRange(ctx, start, end)
		}
		if err != nil {
			logger.ErrorWithFields("Failed to count for quick stats", err)
		}
		return n
	}

	newContacts, err := h.submissions.CountByStatus(ctx, models.StatusNew)
	if err != nil {
		logger.ErrorWithFields("Failed to count new contacts", err)
		respondInternal(c, "Failed to get stats")
		return
	}
	convertedContacts, err := h.submissions.CountByStatus(ctx, models.StatusConverted)
	if err != nil {
		logger.ErrorWithFields("Failed to count converted contacts", err)
		respondInternal(c, "Failed to get stats")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"today": gin.H{
				"visits":   count(true, &today, nil),
				"contacts": count(false, &today, nil),
			},
			"yesterday": gin.H{
				"visits":   count(true, &yesterday, &today),
				"contacts": count(false, &yesterday, &today),
			},
			"thisWeek": gin.H{
				"visits":   count(true, &thisWeek, nil),
				"contacts": count(false, &thisWeek, nil),
			},
			"total": gin.H{
				"visits":            count(true, nil, nil),
				"contacts":          count(false, nil, nil),
				"newContacts":       newContacts,
				"convertedContacts": convertedContacts,
			},
		},
	})
}

// ExportContacts dumps leads as JSON or CSV. Sensitive request metadata
// (notes, user agent, IP) is excluded from exports.
// GET /api/admin/export/contacts?format=json|csv
func (h *Handlers) ExportContacts(c *gin.Context) {
	ctx := c.Request.Context()

	opts := repository.ExportOptions{
		StartDate: parseDateQuery(c.Query("startDate")),
		EndDate:   parseDateQuery(c.Query("endDate")),
		Status:    c.Query("status"),
	}

	contacts, err := h.submissions.Export(ctx, opts)
	if err != nil {
		logger.ErrorWithFields("Failed to export contacts", err)
		respondInternal(c, "Failed to export contacts")
		return
	}

	if c.DefaultQuery("format", "json") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", "attachment; filename=contacts.csv")

		w := csv.NewWriter(c.Writer)
		_ = w.Write([]string{"Name", "Email", "Phone", "Subject", "Status", "Submission Date", "Source", "Priority"})
		for _, contact := range contacts {
			_ = w.Write([]string{
				contact.Name,
				contact.Email,
				contact.Phone,
				contact.Subject,
				string(contact.Status),
				contact.SubmissionDate.Format(time.RFC3339),
				string(contact.Source),
				string(contact.Priority),
			})
		}
		w.Flush()
		return
	}

	for _, contact := range contacts {
		contact.AdminNotes = nil
		contact.UserAgent = ""
		contact.IPAddress = ""
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    contacts,
		"count":   len(contacts),
	})
}
