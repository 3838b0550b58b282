package repository

import (
	"context"
	"errors"
	"time"

	"github.com/shreesteel/backend/internal/models"
	"gorm.io/gorm"
)

var ErrVisitNotFound = errors.New("visit session not found")

// VisitAnalytics is the summary block for a date-bounded window of sessions.
// Averages and rates are rounded to 2 decimals; bounce rate is a percentage.
type VisitAnalytics struct {
	TotalVisits       int64   `json:"totalVisits"`
	UniqueVisitors    int64   `json:"uniqueVisitors"`
	TotalPageViews    int64   `json:"totalPageViews"`
	AvgTimeOnSite     float64 `json:"avgTimeOnSite"`
	CalculatorUsers   int64   `json:"calculatorUsers"`
	ContactFormViews  int64   `json:"contactFormViews"`
	ContactFormStarts int64   `json:"contactFormStarts"`
	BounceRate        float64 `json:"bounceRate"`
}

// PageStats is one bucket of the popular-pages breakdown.
type PageStats struct {
	Page           string  `json:"page" gorm:"column:current_page"`
	Visits         int64   `json:"visits"`
	AvgTimeOnSite  float64 `json:"avgTimeOnSite"`
	UniqueVisitors int64   `json:"uniqueVisitors"`
}

// DeviceStats is one bucket of the device breakdown.
type DeviceStats struct {
	Device        string  `json:"device" gorm:"column:device"`
	Count         int64   `json:"count"`
	AvgTimeOnSite float64 `json:"avgTimeOnSite"`
}

// BrowserStats is one bucket of the browser breakdown.
type BrowserStats struct {
	Browser string `json:"browser" gorm:"column:browser_name"`
	Count   int64  `json:"count"`
}

// DailyTrend is one day's bucket in the daily visits series.
type DailyTrend struct {
	Date            string  `json:"date"`
	Visits          int64   `json:"visits"`
	UniqueVisitors  int64   `json:"uniqueVisitors"`
	CalculatorUsers int64   `json:"calculatorUsers"`
	AvgTimeOnSite   float64 `json:"avgTimeOnSite"`
}

// FunnelCounts carries the raw numbers for the conversion funnel.
type FunnelCounts struct {
	Visits           int64 `json:"visits"`
	CalculatorUsers  int64 `json:"calculatorUsers"`
	ContactFormViews int64 `json:"contactFormViews"`
}

// VisitRepository handles all database operations for browsing sessions.
type VisitRepository interface {
	Create(ctx context.Context, visit *models.UserVisit) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.UserVisit, error)
	Save(ctx context.Context, visit *models.UserVisit) error

	Analytics(ctx context.Context, start, end *time.Time) (*VisitAnalytics, error)
	PopularPages(ctx context.Context, since *time.Time, limit int) ([]PageStats, error)
	DeviceBreakdown(ctx context.Context, since *time.Time) ([]DeviceStats, error)
	BrowserBreakdown(ctx context.Context, since *time.Time, limit int) ([]BrowserStats, error)
	DailyTrends(ctx context.Context, since time.Time) ([]DailyTrend, error)
	Recent(ctx context.Context, since *time.Time, limit int) ([]*models.UserVisit, error)
	CountInRange(ctx context.Context, start, end *time.Time) (int64, error)
	FunnelCounts(ctx context.Context, since *time.Time) (*FunnelCounts, error)
}

type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, visit *models.UserVisit) error {
	if visit == nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(visit).Error
}

func (r *visitRepository) GetBySessionID(ctx context.Context, sessionID string) (*models.UserVisit, error) {
	var visit models.UserVisit
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&visit).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVisitNotFound
	}

	return &visit, err
}

func (r *visitRepository) Save(ctx context.Context, visit *models.UserVisit) error {
	if visit == nil || visit.ID == "" {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(visit).Error
}

// Analytics aggregates session engagement over an optional date window.
func (r *visitRepository) Analytics(ctx context.Context, start, end *time.Time) (*VisitAnalytics, error) {
	var row struct {
		TotalVisits       int64
		UniqueVisitors    int64
		TotalPageViews    int64
		AvgTimeOnSite     float64
		CalculatorUsers   int64
		ContactFormViews  int64
		ContactFormStarts int64
		BounceSum         int64
	}

	query := dateRange(r.db.WithContext(ctx).Model(&models.UserVisit{}), "visit_date", start, end)
	err := query.Select(
		"COUNT(*) AS total_visits, " +
			"COUNT(DISTINCT visitor_id) AS unique_visitors, " +
			"COALESCE(SUM(page_views), 0) AS total_page_views, " +
			"COALESCE(AVG(time_on_site), 0) AS avg_time_on_site, " +
			"COALESCE(SUM(CASE WHEN calculator_used THEN 1 ELSE 0 END), 0) AS calculator_users, " +
			"COALESCE(SUM(CASE WHEN contact_form_viewed THEN 1 ELSE 0 END), 0) AS contact_form_views, " +
			"COALESCE(SUM(CASE WHEN contact_form_started THEN 1 ELSE 0 END), 0) AS contact_form_starts, " +
			"COALESCE(SUM(CASE WHEN bounce THEN 1 ELSE 0 END), 0) AS bounce_sum",
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	analytics := &VisitAnalytics{
		TotalVisits:       row.TotalVisits,
		UniqueVisitors:    row.UniqueVisitors,
		TotalPageViews:    row.TotalPageViews,
		AvgTimeOnSite:     Round2(row.AvgTimeOnSite),
		CalculatorUsers:   row.CalculatorUsers,
		ContactFormViews:  row.ContactFormViews,
		ContactFormStarts: row.ContactFormStarts,
	}

	if row.TotalVisits > 0 {
		analytics.BounceRate = Round2(float64(row.BounceSum) / float64(row.TotalVisits) * 100)
	}

	return analytics, nil
}

func (r *visitRepository) PopularPages(ctx context.Context, since *time.Time, limit int) ([]PageStats, error) {
	if limit < 1 {
		limit = 10
	}
	query := r.db.WithContext(ctx).Model(&models.UserVisit{})
	if since != nil {
		query = query.Where("visit_date >= ?", *since)
	}

	var pages []PageStats
	err := query.
		Select("current_page, COUNT(*) AS visits, COALESCE(AVG(time_on_site), 0) AS avg_time_on_site, COUNT(DISTINCT visitor_id) AS unique_visitors").
		Group("current_page").
		Order("visits DESC").
		Limit(limit).
		Scan(&pages).Error
	if err != nil {
		return nil, err
	}

	for i := range pages {
		pages[i].AvgTimeOnSite = Round2(pages[i].AvgTimeOnSite)
	}
	return pages, nil
}

func (r *visitRepository) DeviceBreakdown(ctx context.Context, since *time.Time) ([]DeviceStats, error) {
	query := r.db.WithContext(ctx).Model(&models.UserVisit{})
	if since != nil {
		query = query.Where("visit_date >= ?", *since)
	}

	var devices []DeviceStats
	err := query.
		Select("device, COUNT(*) AS count, COALESCE(AVG(time_on_site), 0) AS avg_time_on_site").
		Group("device").
		Order("count DESC").
		Scan(&devices).Error
	if err != nil {
		return nil, err
	}

	for i := range devices {
		devices[i].AvgTimeOnSite = Round2(devices[i].AvgTimeOnSite)
	}
	return devices, nil
}

func (r *visitRepository) BrowserBreakdown(ctx context.Context, since *time.Time, limit int) ([]BrowserStats, error) {
	if limit < 1 {
		limit = 5
	}
	query := r.db.WithContext(ctx).Model(&models.UserVisit{})
	if since != nil {
		query = query.Where("visit_date >= ?", *since)
	}

	var browsers []BrowserStats
	err := query.
		Select("browser_name, COUNT(*) AS count").
		Group("browser_name").
		Order("count DESC").
		Limit(limit).
		Scan(&browsers).Error
	return browsers, err
}

// DailyTrends buckets visits per calendar day (UTC) since the given time.
// Bucketing happens in Go: date-formatting SQL differs between the postgres
// production database and the sqlite test database.
func (r *visitRepository) DailyTrends(ctx context.Context, since time.Time) ([]DailyTrend, error) {
	var visits []models.UserVisit
	err := r.db.WithContext(ctx).
		Select("visit_date", "visitor_id", "calculator_used", "time_on_site").
		Where("visit_date >= ?", since).
		Order("visit_date ASC").
		Find(&visits).Error
	if err != nil {
		return nil, err
	}

	type bucket struct {
		visits     int64
		visitors   map[string]struct{}
		calcUsers  int64
		timeOnSite int64
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, v := range visits {
		day := v.VisitDate.UTC().Format("2006-01-02")
		b, ok := buckets[day]
		if !ok {
			b = &bucket{visitors: make(map[string]struct{})}
			buckets[day] = b
			order = append(order, day)
		}
		b.visits++
		b.visitors[v.VisitorID] = struct{}{}
		if v.CalculatorUsed {
			b.calcUsers++
		}
		b.timeOnSite += int64(v.TimeOnSite)
	}

	trends := make([]DailyTrend, 0, len(order))
	for _, day := range order {
		b := buckets[day]
		trends = append(trends, DailyTrend{
			Date:            day,
			Visits:          b.visits,
			UniqueVisitors:  int64(len(b.visitors)),
			CalculatorUsers: b.calcUsers,
			AvgTimeOnSite:   Round2(float64(b.timeOnSite) / float64(b.visits)),
		})
	}

	return trends, nil
}

func (r *visitRepository) Recent(ctx context.Context, since *time.Time, limit int) ([]*models.UserVisit, error) {
	if limit < 1 {
		limit = 10
	}
	query := r.db.WithContext(ctx).Model(&models.UserVisit{})
	if since != nil {
		query = query.Where("visit_date >= ?", *since)
	}

	var visits []*models.UserVisit
	err := query.Order("visit_date DESC").Limit(limit).Find(&visits).Error
	return visits, err
}

// CountInRange counts visits in [start, end). The exclusive upper bound
// keeps adjacent buckets (yesterday/today) from double-counting a session
// stamped exactly at midnight.
func (r *visitRepository) CountInRange(ctx context.Context, start, end *time.Time) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.UserVisit{})
	if start != nil {
		query = query.Where("visit_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("visit_date < ?", *end)
	}
	err := query.Count(&count).Error
	return count, err
}

// FunnelCounts returns the session-side numbers feeding the conversion
// funnel on the admin dashboard.
func (r *visitRepository) FunnelCounts(ctx context.Context, since *time.Time) (*FunnelCounts, error) {
	var row struct {
		Visits           int64
		CalculatorUsers  int64
		ContactFormViews int64
	}

	query := r.db.WithContext(ctx).Model(&models.UserVisit{})
	if since != nil {
		query = query.Where("visit_date >= ?", *since)
	}

	err := query.Select(
		"COUNT(*) AS visits, " +
			"COALESCE(SUM(CASE WHEN calculator_used THEN 1 ELSE 0 END), 0) AS calculator_users, " +
			"COALESCE(SUM(CASE WHEN contact_form_viewed THEN 1 ELSE 0 END), 0) AS contact_form_views",
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &FunnelCounts{
		Visits:           row.Visits,
		CalculatorUsers:  row.CalculatorUsers,
		ContactFormViews: row.ContactFormViews,
	}, nil
}
