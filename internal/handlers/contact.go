package handlers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/shreesteel/backend/internal/errors"
	"github.com/shreesteel/backend/internal/logger"
	"github.com/shreesteel/backend/internal/middleware"
	"github.com/shreesteel/backend/internal/models"
	"github.com/shreesteel/backend/internal/repository"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
)

type contactRequest struct {
	Name          string                 `json:"name"`
	Email         string                 `json:"email"`
	Phone         string                 `json:"phone"`
	Subject       string                 `json:"subject"`
	Message       string                 `json:"message"`
	ProjectType   string                 `json:"projectType"`
	ProjectBudget string                 `json:"projectBudget"`
	Urgency       string                 `json:"urgency"`
	Calculator    *models.CalculatorData `json:"calculatorData"`
	SessionID     string                 `json:"sessionId"`
	VisitorID     string                 `json:"visitorId"`
	Source        string                 `json:"source"`
}

// validate applies the contact form constraints and returns per-field
// violations. Text fields are checked after trimming.
func (r *contactRequest) validate() []apierrors.FieldError {
	var fields []apierrors.FieldError
	add := func(field, message string) {
		fields = append(fields, apierrors.FieldError{Field: field, Message: message})
	}

	// Bounds count characters, not bytes, so multibyte names get the
	// full budget.
	name := strings.TrimSpace(r.Name)
	if n := utf8.RuneCountInString(name); n < 2 || n > 100 {
		add("name", "name must be between 2 and 100 characters")
	}
	if !emailPattern.MatchString(r.Email) {
		add("email", "email must be a valid email address")
	}
	if !phonePattern.MatchString(r.Phone) {
		add("phone", "phone must be a valid phone number")
	}
	subject := strings.TrimSpace(r.Subject)
	if n := utf8.RuneCountInString(subject); n < 5 || n > 200 {
		add("subject", "subject must be between 5 and 200 characters")
	}
	message := strings.TrimSpace(r.Message)
	if n := utf8.RuneCountInString(message); n < 10 || n > 2000 {
		add("message", "message must be between 10 and 2000 characters")
	}
	if r.SessionID == "" {
		add("sessionId", "sessionId is required")
	}
	if r.VisitorID == "" {
		add("visitorId", "visitorId is required")
	}

	if r.ProjectType != "" && !containsString(models.ValidProjectTypes, r.ProjectType) {
		add("projectType", "projectType must be a valid project type")
	}
	if r.ProjectBudget != "" && !containsString(models.ValidProjectBudgets, r.ProjectBudget) {
		add("projectBudget", "projectBudget must be a valid budget range")
	}
	if r.Urgency != "" && !containsString(models.ValidUrgencies, r.Urgency) {
		add("urgency", "urgency must be a valid urgency value")
	}
	if r.Source != "" && !models.Source(r.Source).IsValid() {
		add("source", "source must be a valid source value")
	}

	if r.Calculator != nil {
		if r.Calculator.EstimatedWeight < 0 {
			add("calculatorData.estimatedWeight", "estimatedWeight must be positive")
		}
		if r.Calculator.EstimatedCost < 0 {
			add("calculatorData.estimatedCost", "estimatedCost must be positive")
		}
		if ct := r.Calculator.CalculatorType; ct != "" && ct != "standard" && ct != "advanced" {
			add("calculatorData.calculatorType", "calculatorType must be standard or advanced")
		}
	}

	return fields
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// SubmitContact handles the public contact form.
// POST /api/contact/submit
func (h *Handlers) SubmitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	if fields := req.validate(); len(fields) > 0 {
		respondError(c, apierrors.Validation(fields...))
		return
	}

	referrer := c.GetHeader("Referer")
	if referrer == "" {
		referrer = "direct"
	}

	source := models.Source(req.Source)
	if req.Source == "" {
		if req.Calculator != nil {
			source = models.SourceCalculatorQuote
		} else {
			source = models.SourceWebsiteContact
		}
	}

	submission := &models.ContactSubmission{
		Name:           strings.TrimSpace(req.Name),
		Email:          req.Email,
		Phone:          req.Phone,
		Subject:        strings.TrimSpace(req.Subject),
		Message:        strings.TrimSpace(req.Message),
		ProjectType:    defaultString(req.ProjectType, "other"),
		ProjectBudget:  defaultString(req.ProjectBudget, "not_specified"),
		Urgency:        defaultString(req.Urgency, "flexible"),
		CalculatorData: req.Calculator,
		SessionID:      req.SessionID,
		VisitorID:      req.VisitorID,
		IPAddress:      c.ClientIP(),
		UserAgent:      c.Request.UserAgent(),
		Referrer:       referrer,
		Status:         models.StatusNew,
		Priority:       models.PriorityMedium,
		AssignedTo:     "unassigned",
		Source:         source,
	}

	if err := h.submissions.Create(c.Request.Context(), submission); err != nil {
		logger.ErrorWithFields("Failed to save contact submission", err,
			zap.String("email", submission.Email),
		)
		respondInternal(c, "Failed to submit contact form")
		return
	}

	middleware.RecordLeadSubmitted(string(submission.Source))
	logger.Log.Info("New contact submission",
		logger.WithSubmissionID(submission.ID),
		zap.String("name", submission.Name),
		zap.String("email", submission.Email),
		zap.String("source", string(submission.Source)),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Contact form submitted successfully",
		"submissionId": submission.ID,
		"data": gin.H{
			"name":           submission.Name,
			"email":          submission.Email,
			"subject":        submission.Subject,
			"submissionDate": submission.SubmissionDate,
		},
	})
}

func defaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// ListSubmissions returns a filtered, paginated page of leads.
// GET /api/contact/submissions
func (h *Handlers) ListSubmissions(c *gin.Context) {
	opts := repository.ListSubmissionsOptions{
		Page:      parseInt(c.DefaultQuery("page", "1"), 1),
		Limit:     parseInt(c.DefaultQuery("limit", "20"), 20),
		Status:    c.Query("status"),
		Priority:  c.Query("priority"),
		Source:    c.Query("source"),
		StartDate: parseDateQuery(c.Query("startDate")),
		EndDate:   parseDateQuery(c.Query("endDate")),
		Search:    c.Query("search"),
	}

	submissions, total, err := h.submissions.List(c.Request.Context(), opts)
	if err != nil {
		logger.ErrorWithFields("Failed to list contact submissions", err)
		respondInternal(c, "Failed to get contact submissions")
		return
	}

	// The list view excludes the note trail and raw user agent.
	for _, s := range submissions {
		s.AdminNotes = nil
		s.UserAgent = ""
	}

	pages := int64(0)
	if opts.Limit > 0 {
		pages = (total + int64(opts.Limit) - 1) / int64(opts.Limit)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"submissions": submissions,
			"pagination": gin.H{
				"current": opts.Page,
				"pages":   pages,
				"total":   total,
				"limit":   opts.Limit,
			},
		},
	})
}

// GetSubmission returns the full lead record, note trail included.
// GET /api/contact/submission/:id
func (h *Handlers) GetSubmission(c *gin.Context) {
	submission, err := h.submissions.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		respondError(c, apierrors.NotFound("Contact submission"))
		return
	}
	if err != nil {
		logger.ErrorWithFields("Failed to get contact submission", err)
		respondInternal(c, "Failed to get contact submission")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    submission,
	})
}

type statusUpdateRequest struct {
	Status    string `json:"status"`
	UpdatedBy string `json:"updatedBy"`
}

// UpdateSubmissionStatus transitions a lead through its lifecycle, recording
// an audit note and conversion tracking.
// PUT /api/contact/submission/:id/status
func (h *Handlers) UpdateSubmissionStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	newStatus := models.SubmissionStatus(req.Status)
	if !newStatus.IsValid() {
		respondError(c, apierrors.BadRequest("Invalid status value"))
		return
	}

	submission, err := h.submissions.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		respondError(c, apierrors.NotFound("Contact submission"))
		return
	}
	if err != nil {
		logger.ErrorWithFields("Failed to get contact submission", err)
		respondInternal(c, "Failed to update submission status")
		return
	}

	updatedBy := defaultString(req.UpdatedBy, "admin")
	oldStatus := submission.Status
	submission.ApplyStatus(newStatus, updatedBy)

	if err := h.submissions.Save(c.Request.Context(), submission); err != nil {
		logger.ErrorWithFields("Failed to save status update", err,
			logger.WithSubmissionID(submission.ID),
		)
		respondInternal(c, "Failed to update submission status")
		return
	}

	middleware.RecordStatusTransition(string(oldStatus), string(newStatus))
	logger.Log.Info("Submission status updated",
		logger.WithSubmissionID(submission.ID),
		zap.String("from", string(oldStatus)),
		zap.String("to", string(newStatus)),
		zap.String("updated_by", updatedBy),
	)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Status updated successfully",
		"data": gin.H{
			"id":        submission.ID,
			"status":    submission.Status,
			"updatedAt": time.Now().UTC(),
		},
	})
}

type noteRequest struct {
	Note    string `json:"note"`
	AddedBy string `json:"addedBy"`
}

// AddSubmissionNote appends a note to a lead's trail.
// POST /api/contact/submission/:id/note
func (h *Handlers) AddSubmissionNote(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apierrors.BadRequest("Invalid request body"))
		return
	}

	note := strings.TrimSpace(req.Note)
	if note == "" {
		respondError(c, apierrors.BadRequest("Note content is required"))
		return
	}

	submission, err := h.submissions.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrSubmissionNotFound) {
		respondError(c, apierrors.NotFound("Contact submission"))
		return
	}
	if err != nil {
		logger.ErrorWithFields("Failed to get contact submission", err)
		respondInternal(c, "Failed to add admin note")
		return
	}

	submission.AddAdminNote(note, defaultString(req.AddedBy, "admin"))

	if err := h.submissions.Save(c.Request.Context(), submission); err != nil {
		logger.ErrorWithFields("Failed to save admin note", err,
			logger.WithSubmissionID(submission.ID),
		)
		respondInternal(c, "Failed to add admin note")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Note added successfully",
		"data": gin.H{
			"id":        submission.ID,
			"noteCount": len(submission.AdminNotes),
		},
	})
}

// GetContactAnalytics returns the lead summary with breakdowns and the five
// most recent submissions.
// GET /api/contact/analytics
func (h *Handlers) GetContactAnalytics(c *gin.Context) {
	ctx := c.Request.Context()
	start := parseDateQuery(c.Query("startDate"))
	end := parseDateQuery(c.Query("endDate"))

	summary, err := h.submissions.Analytics(ctx, start, end)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate contact analytics", err)
		respondInternal(c, "Failed to get contact analytics")
		return
	}

	statusBreakdown, err := h.submissions.StatusBreakdown(ctx)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate status breakdown", err)
		respondInternal(c, "Failed to get contact analytics")
		return
	}

	sourceBreakdown, err := h.submissions.SourceBreakdown(ctx)
	if err != nil {
		logger.ErrorWithFields("Failed to aggregate source breakdown", err)
		respondInternal(c, "Failed to get contact analytics")
		return
	}

	recent, err := h.submissions.Recent(ctx, nil, 5)
	if err != nil {
		logger.ErrorWithFields("Failed to load recent submissions", err)
		respondInternal(c, "Failed to get contact analytics")
		return
	}

	recentViews := make([]gin.H, 0, len(recent))
	for _, s := range recent {
		recentViews = append(recentViews, gin.H{
			"id":             s.ID,
			"name":           s.Name,
			"email":          s.Email,
			"subject":        s.Subject,
			"status":         s.Status,
			"submissionDate": s.SubmissionDate,
			"source":         s.Source,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"summary":           summary,
			"statusBreakdown":   statusBreakdown,
			"sourceBreakdown":   sourceBreakdown,
			"recentSubmissions": recentViews,
		},
	})
}
