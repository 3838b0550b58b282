package repository

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/shreesteel/backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrSubmissionNotFound = errors.New("contact submission not found")
	ErrInvalidInput       = errors.New("invalid input")
)

// ListSubmissionsOptions filters and paginates the admin submission list.
type ListSubmissionsOptions struct {
	Page      int
	Limit     int
	Status    string
	Priority  string
	Source    string
	StartDate *time.Time
	EndDate   *time.Time
	// Search matches case-insensitively over name, email, phone, subject
	// and message.
	Search string
}

// ContactAnalytics is the summary block for a date-bounded window of leads.
// Rates are percentages (0-100) rounded to 2 decimals; a zero-lead window
// yields zero rates.
type ContactAnalytics struct {
	TotalSubmissions         int64   `json:"totalSubmissions"`
	NewContacts              int64   `json:"newContacts"`
	ContactedLeads           int64   `json:"contactedLeads"`
	QuotedLeads              int64   `json:"quotedLeads"`
	ConvertedLeads           int64   `json:"convertedLeads"`
	ConversionRate           float64 `json:"conversionRate"`
	TotalConversionValue     float64 `json:"totalConversionValue"`
	AvgConversionValue       float64 `json:"avgConversionValue"`
	CalculatorSubmissions    int64   `json:"calculatorSubmissions"`
	CalculatorConversionRate float64 `json:"calculatorConversionRate"`
}

// StatusCount is one bucket of the per-status breakdown.
type StatusCount struct {
	Status string `json:"status" gorm:"column:status"`
	Count  int64  `json:"count"`
}

// SourceCount is one bucket of the per-source breakdown.
type SourceCount struct {
	Source string `json:"source" gorm:"column:source"`
	Count  int64  `json:"count"`
}

// ExportOptions bounds the admin contact export.
type ExportOptions struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    string
}

// SubmissionRepository handles all database operations for contact leads.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.ContactSubmission) error
	GetByID(ctx context.Context, id string) (*models.ContactSubmission, error)
	Save(ctx context.Context, submission *models.ContactSubmission) error
	List(ctx context.Context, opts ListSubmissionsOptions) ([]*models.ContactSubmission, int64, error)

	Analytics(ctx context.Context, start, end *time.Time) (*ContactAnalytics, error)
	StatusBreakdown(ctx context.Context) ([]StatusCount, error)
	SourceBreakdown(ctx context.Context) ([]SourceCount, error)
	Recent(ctx context.Context, since *time.Time, limit int) ([]*models.ContactSubmission, error)
	CountInRange(ctx context.Context, start, end *time.Time) (int64, error)
	CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error)
	Export(ctx context.Context, opts ExportOptions) ([]*models.ContactSubmission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.ContactSubmission) error {
	if submission == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (*models.ContactSubmission, error) {
	var submission models.ContactSubmission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&submission).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSubmissionNotFound
	}

	return &submission, err
}

func (r *submissionRepository) Save(ctx context.Context, submission *models.ContactSubmission) error {
	if submission == nil || submission.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(submission).Error
}

// List returns one page of submissions plus the total row count for the
// filter, newest first.
func (r *submissionRepository) List(ctx context.Context, opts ListSubmissionsOptions) ([]*models.ContactSubmission, int64, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}

	query := r.db.WithContext(ctx).Model(&models.ContactSubmission{})

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Priority != "" {
		query = query.Where("priority = ?", opts.Priority)
	}
	if opts.Source != "" {
		query = query.Where("source = ?", opts.Source)
	}
	query = dateRange(query, "submission_date", opts.StartDate, opts.EndDate)

	if opts.Search != "" {
		pattern := "%" + opts.Search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR LOWER(phone) LIKE LOWER(?) OR LOWER(subject) LIKE LOWER(?) OR LOWER(message) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var submissions []*models.ContactSubmission
	err := query.
		Order("submission_date DESC").
		Limit(opts.Limit).
		Offset((opts.Page - 1) * opts.Limit).
		Find(&submissions).Error

	return submissions, total, err
}

// Analytics aggregates the lead funnel over an optional date window.
func (r *submissionRepository) Analytics(ctx context.Context, start, end *time.Time) (*ContactAnalytics, error) {
	var row struct {
		TotalSubmissions      int64
		NewContacts           int64
		ContactedLeads        int64
		QuotedLeads           int64
		ConvertedLeads        int64
		TotalConversionValue  float64
		CalculatorSubmissions int64
	}

	query := dateRange(r.db.WithContext(ctx).Model(&models.ContactSubmission{}), "submission_date", start, end)
	err := query.Select(
		"COUNT(*) AS total_submissions, " +
			"COALESCE(SUM(CASE WHEN status = 'new' THEN 1 ELSE 0 END), 0) AS new_contacts, " +
			"COALESCE(SUM(CASE WHEN status = 'contacted' THEN 1 ELSE 0 END), 0) AS contacted_leads, " +
			"COALESCE(SUM(CASE WHEN status = 'quoted' THEN 1 ELSE 0 END), 0) AS quoted_leads, " +
			"COALESCE(SUM(CASE WHEN status = 'converted' THEN 1 ELSE 0 END), 0) AS converted_leads, " +
			"COALESCE(SUM(conversion_value), 0) AS total_conversion_value, " +
			"COALESCE(SUM(CASE WHEN source = 'calculator_quote' THEN 1 ELSE 0 END), 0) AS calculator_submissions",
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	analytics := &ContactAnalytics{
		TotalSubmissions:      row.TotalSubmissions,
		NewContacts:           row.NewContacts,
		ContactedLeads:        row.ContactedLeads,
		QuotedLeads:           row.QuotedLeads,
		ConvertedLeads:        row.ConvertedLeads,
		TotalConversionValue:  Round2(row.TotalConversionValue),
		CalculatorSubmissions: row.CalculatorSubmissions,
	}

	if row.TotalSubmissions > 0 {
		analytics.ConversionRate = Round2(float64(row.ConvertedLeads) / float64(row.TotalSubmissions) * 100)
		analytics.CalculatorConversionRate = Round2(float64(row.CalculatorSubmissions) / float64(row.TotalSubmissions) * 100)
	}
	if row.ConvertedLeads > 0 {
		analytics.AvgConversionValue = Round2(row.TotalConversionValue / float64(row.ConvertedLeads))
	}

	return analytics, nil
}

func (r *submissionRepository) StatusBreakdown(ctx context.Context) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).
		Model(&models.ContactSubmission{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *submissionRepository) SourceBreakdown(ctx context.Context) ([]SourceCount, error) {
	var counts []SourceCount
	err := r.db.WithContext(ctx).
		Model(&models.ContactSubmission{}).
		Select("source, COUNT(*) AS count").
		Group("source").
		Order("count DESC").
		Scan(&counts).Error
	return counts, err
}

func (r *submissionRepository) Recent(ctx context.Context, since *time.Time, limit int) ([]*models.ContactSubmission, error) {
	if limit < 1 {
		limit = 5
	}
	query := r.db.WithContext(ctx).Model(&models.ContactSubmission{})
	if since != nil {
		query = query.Where("submission_date >= ?", *since)
	}

	var submissions []*models.ContactSubmission
	err := query.Order("submission_date DESC").Limit(limit).Find(&submissions).Error
	return submissions, err
}

// CountInRange counts submissions in [start, end). The exclusive upper
// bound keeps adjacent buckets (yesterday/today) from double-counting a
// record stamped exactly at midnight.
func (r *submissionRepository) CountInRange(ctx context.Context, start, end *time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.ContactSubmission{})
	if start != nil {
		query = query.Where("submission_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("submission_date < ?", *end)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountByStatus(ctx context.Context, status models.SubmissionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ContactSubmission{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *submissionRepository) Export(ctx context.Context, opts ExportOptions) ([]*models.ContactSubmission, error) {
	query := dateRange(r.db.WithContext(ctx).Model(&models.ContactSubmission{}), "submission_date", opts.StartDate, opts.EndDate)
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}

	var submissions []*models.ContactSubmission
	err := query.Order("submission_date DESC").Find(&submissions).Error
	return submissions, err
}

// dateRange applies optional inclusive bounds on a timestamp column.
func dateRange(query *gorm.DB, column string, start, end *time.Time) *gorm.DB {
	if start != nil {
		query = query.Where(column+" >= ?", *start)
	}
	if end != nil {
		query = query.Where(column+" <= ?", *end)
	}
	return query
}

// Round2 rounds to 2 decimal places, the display precision for every rate
// and average the dashboard shows.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
