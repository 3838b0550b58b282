package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionStatus is the admin-managed lifecycle state of a lead.
type SubmissionStatus string

const (
	StatusNew       SubmissionStatus = "new"
	StatusContacted SubmissionStatus = "contacted"
	StatusQuoted    SubmissionStatus = "quoted"
	StatusConverted SubmissionStatus = "converted"
	StatusClosed    SubmissionStatus = "closed"
	StatusSpam      SubmissionStatus = "spam"
)

// ValidStatuses lists every accepted submission status.
var ValidStatuses = []SubmissionStatus{
	StatusNew, StatusContacted, StatusQuoted, StatusConverted, StatusClosed, StatusSpam,
}

// IsValid reports whether s is a known status value.
func (s SubmissionStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Priority of a lead for admin triage.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid reports whether p is a known priority value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Source records which surface produced the lead.
type Source string

const (
	SourceWebsiteContact  Source = "website_contact"
	SourceCalculatorQuote Source = "calculator_quote"
	SourceServiceInquiry  Source = "service_inquiry"
	SourceDirect          Source = "direct"
)

// IsValid reports whether s is a known source value.
func (s Source) IsValid() bool {
	switch s {
	case SourceWebsiteContact, SourceCalculatorQuote, SourceServiceInquiry, SourceDirect:
		return true
	}
	return false
}

// Project attribute enums selected on the contact form.
var (
	ValidProjectTypes = []string{
		"window_grill", "security_grill", "decorative_grill", "balcony_grill",
		"gate", "staircase", "custom", "other",
	}
	ValidProjectBudgets = []string{
		"under_10k", "10k_25k", "25k_50k", "50k_100k", "above_100k", "not_specified",
	}
	ValidUrgencies = []string{
		"immediate", "within_week", "within_month", "flexible",
	}
)

// CalculatorDimensions is the raw input the visitor typed into the calculator.
type CalculatorDimensions struct {
	Width      float64 `json:"width,omitempty"`
	Height     float64 `json:"height,omitempty"`
	WidthUnit  string  `json:"widthUnit,omitempty"`
	HeightUnit string  `json:"heightUnit,omitempty"`
}

// CalculatorData is the estimate snapshot attached when a lead comes in
// through the pricing calculator.
type CalculatorData struct {
	Dimensions      CalculatorDimensions `json:"dimensions"`
	GrillType       string               `json:"grillType,omitempty"`
	MetalType       string               `json:"metalType,omitempty"`
	ProfileType     string               `json:"profileType,omitempty"`
	EstimatedWeight float64              `json:"estimatedWeight,omitempty"`
	EstimatedCost   float64              `json:"estimatedCost,omitempty"`
	CalculatorType  string               `json:"calculatorType,omitempty"` // "standard" or "advanced"
}

// AdminNote is one entry in the append-only note trail on a submission.
type AdminNote struct {
	Note    string    `json:"note"`
	AddedBy string    `json:"addedBy"`
	AddedAt time.Time `json:"addedAt"`
}

// ContactSubmission represents one lead captured from the contact form.
// Submissions are created by the public form and afterwards mutated only by
// admin status/note operations; they are never deleted in-band.
type ContactSubmission struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// Contact identity
	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:255;not null;index" json:"email"`
	Phone string `gorm:"size:20;not null;index" json:"phone"`

	// Message
	Subject string `gorm:"size:200;not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`

	// Project attributes
	ProjectType   string `gorm:"size:32;default:other" json:"projectType"`
	ProjectBudget string `gorm:"size:32;default:not_specified" json:"projectBudget"`
	Urgency       string `gorm:"size:32;default:flexible" json:"urgency"`

	// Calculator snapshot, present only for calculator-originated leads
	CalculatorData *CalculatorData `gorm:"type:jsonb;serializer:json" json:"calculatorData,omitempty"`

	// Tracking identifiers
	SessionID string `gorm:"size:64;not null;index" json:"sessionId"`
	VisitorID string `gorm:"size:64;not null;index" json:"visitorId"`

	// Request metadata
	SubmissionDate time.Time `gorm:"index" json:"submissionDate"`
	IPAddress      string    `gorm:"size:64" json:"ipAddress"`
	UserAgent      string    `gorm:"type:text" json:"userAgent"`
	Referrer       string    `gorm:"size:512" json:"referrer"`

	// Admin management
	Status     SubmissionStatus `gorm:"size:16;default:new;index" json:"status"`
	Priority   Priority         `gorm:"size:16;default:medium" json:"priority"`
	AssignedTo string           `gorm:"size:64;default:unassigned" json:"assignedTo"`
	AdminNotes []AdminNote      `gorm:"type:jsonb;serializer:json" json:"adminNotes"`

	// Follow-up tracking
	FollowUpDate    *time.Time `json:"followUpDate,omitempty"`
	LastContactDate *time.Time `json:"lastContactDate,omitempty"`
	ContactAttempts int        `gorm:"default:0" json:"contactAttempts"`

	// Quote information
	QuoteProvided bool       `gorm:"default:false" json:"quoteProvided"`
	QuoteAmount   float64    `json:"quoteAmount,omitempty"`
	QuoteDate     *time.Time `json:"quoteDate,omitempty"`

	// Conversion tracking
	Converted       bool       `gorm:"default:false" json:"converted"`
	ConversionDate  *time.Time `json:"conversionDate,omitempty"`
	ConversionValue float64    `json:"conversionValue,omitempty"`

	Source Source `gorm:"size:32;default:website_contact;index" json:"source"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an ID and submission date when the caller didn't.
func (s *ContactSubmission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.SubmissionDate.IsZero() {
		s.SubmissionDate = time.Now().UTC()
	}
	return nil
}

// AddAdminNote appends a timestamped note to the trail. The caller persists.
func (s *ContactSubmission) AddAdminNote(note, addedBy string) {
	s.AdminNotes = append(s.AdminNotes, AdminNote{
		Note:    note,
		AddedBy: addedBy,
		AddedAt: time.Now().UTC(),
	})
}

// ApplyStatus transitions the submission to newStatus, appending an audit
// note recording the before/after pair. Re-applying the current status still
// appends a note. Every transition into "converted" sets the conversion flag
// and stamps the conversion date, overwriting any earlier date.
func (s *ContactSubmission) ApplyStatus(newStatus SubmissionStatus, updatedBy string) {
	oldStatus := s.Status
	s.Status = newStatus

	s.AddAdminNote(fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus), updatedBy)

	if newStatus == StatusConverted {
		now := time.Now().UTC()
		s.Converted = true
		s.ConversionDate = &now
	}
}

// DaysSinceSubmission returns whole days elapsed since the lead arrived.
func (s *ContactSubmission) DaysSinceSubmission() int {
	return int(time.Since(s.SubmissionDate).Hours() / 24)
}
