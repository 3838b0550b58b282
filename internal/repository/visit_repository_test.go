package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shreesteel/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVisit(sessionID, visitorID string) *models.UserVisit {
	return &models.UserVisit{
		SessionID:   sessionID,
		VisitorID:   visitorID,
		UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/120.0.0.0 Safari/537.36",
		Browser:     models.BrowserInfo{Name: "Chrome", Version: "120.0.0.0"},
		OS:          models.OSInfo{Name: "Windows", Version: "unknown"},
		Device:      models.DeviceDesktop,
		IPAddress:   "203.0.113.9",
		CurrentPage: "home",
		Referrer:    "direct",
		PageViews:   1,
		Bounce:      true,
	}
}

func TestVisitCreateAndGetBySessionID(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	visit := newVisit("sess-1", "vis-1")
	require.NoError(t, repo.Create(ctx, visit))
	require.NotEmpty(t, visit.ID)

	got, err := repo.GetBySessionID(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "vis-1", got.VisitorID)
	assert.Equal(t, 1, got.PageViews)
	assert.True(t, got.Bounce)

	_, err = repo.GetBySessionID(ctx, "sess-missing")
	assert.ErrorIs(t, err, ErrVisitNotFound)
}

func TestVisitCreatePersistsNonBouncedSession(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	// A multi-page session is not a bounce and must read back that way.
	visit := newVisit("sess-multi", "vis-multi")
	visit.PageViews = 4
	visit.Bounce = false
	require.NoError(t, repo.Create(ctx, visit))

	got, err := repo.GetBySessionID(ctx, "sess-multi")
	require.NoError(t, err)
	assert.Equal(t, 4, got.PageViews)
	assert.False(t, got.Bounce)

	// A bare single-page session defaults to a bounce.
	bare := &models.UserVisit{
		SessionID: "sess-bare",
		VisitorID: "vis-bare",
		UserAgent: "curl/8.5.0",
		IPAddress: "203.0.113.10",
	}
	require.NoError(t, repo.Create(ctx, bare))

	got, err = repo.GetBySessionID(ctx, "sess-bare")
	require.NoError(t, err)
	assert.Equal(t, 1, got.PageViews)
	assert.True(t, got.Bounce)
}

func TestVisitSessionUniqueness(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newVisit("sess-dup", "vis-1")))
	err := repo.Create(ctx, newVisit("sess-dup", "vis-2"))
	assert.Error(t, err)
}

func TestVisitInteractionUpdatesFlags(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	visit := newVisit("sess-2", "vis-2")
	require.NoError(t, repo.Create(ctx, visit))

	visit.AddInteraction(models.InteractionCalculatorUse, "calculator", map[string]interface{}{"grillType": "window"})
	visit.AddInteraction(models.InteractionContactForm, "contact", map[string]interface{}{"action": "form_start"})
	require.NoError(t, repo.Save(ctx, visit))

	got, err := repo.GetBySessionID(ctx, "sess-2")
	require.NoError(t, err)
	require.Len(t, got.Interactions, 2)
	assert.True(t, got.CalculatorUsed)
	assert.Equal(t, 1, got.CalculatorInteractions)
	assert.True(t, got.ContactFormViewed)
	assert.True(t, got.ContactFormStarted)
}

func TestVisitAnalytics(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	// Two sessions from the same visitor, one from another.
	a := newVisit("sess-a", "vis-x")
	a.PageViews = 3
	a.Bounce = false
	a.TimeOnSite = 120
	a.CalculatorUsed = true
	require.NoError(t, repo.Create(ctx, a))

	b := newVisit("sess-b", "vis-x")
	b.TimeOnSite = 30
	b.ContactFormViewed = true
	require.NoError(t, repo.Create(ctx, b))

	c := newVisit("sess-c", "vis-y")
	c.TimeOnSite = 60
	c.ContactFormViewed = true
	c.ContactFormStarted = true
	require.NoError(t, repo.Create(ctx, c))

	analytics, err := repo.Analytics(ctx, nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 3, analytics.TotalVisits)
	assert.EqualValues(t, 2, analytics.UniqueVisitors)
	assert.EqualValues(t, 5, analytics.TotalPageViews)
	assert.InDelta(t, 70.0, analytics.AvgTimeOnSite, 1e-9)
	assert.EqualValues(t, 1, analytics.CalculatorUsers)
	assert.EqualValues(t, 2, analytics.ContactFormViews)
	assert.EqualValues(t, 1, analytics.ContactFormStarts)
	// 2 of 3 sessions bounced.
	assert.InDelta(t, 66.67, analytics.BounceRate, 1e-9)
}

func TestVisitCountInRangeExclusiveEnd(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	midnight := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	yesterday := midnight.Add(-24 * time.Hour)

	visit := newVisit("sess-midnight", "vis-midnight")
	visit.VisitDate = midnight
	require.NoError(t, repo.Create(ctx, visit))

	count, err := repo.CountInRange(ctx, &yesterday, &midnight)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	count, err = repo.CountInRange(ctx, &midnight, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestVisitAnalyticsEmptyWindow(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))

	analytics, err := repo.Analytics(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 0, analytics.TotalVisits)
	assert.Zero(t, analytics.BounceRate)
	assert.Zero(t, analytics.AvgTimeOnSite)
}

func TestVisitBreakdownsAndPopularPages(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		v := newVisit(fmt.Sprintf("sess-home-%d", i), fmt.Sprintf("vis-%d", i))
		v.CurrentPage = "home"
		v.TimeOnSite = 60
		require.NoError(t, repo.Create(ctx, v))
	}
	mob := newVisit("sess-calc", "vis-9")
	mob.CurrentPage = "calculator"
	mob.Device = models.DeviceMobile
	mob.Browser = models.BrowserInfo{Name: "Safari", Version: "17.1"}
	require.NoError(t, repo.Create(ctx, mob))

	pages, err := repo.PopularPages(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "home", pages[0].Page)
	assert.EqualValues(t, 3, pages[0].Visits)
	assert.InDelta(t, 60.0, pages[0].AvgTimeOnSite, 1e-9)

	devices, err := repo.DeviceBreakdown(ctx, nil)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "desktop", devices[0].Device)
	assert.EqualValues(t, 3, devices[0].Count)

	browsers, err := repo.BrowserBreakdown(ctx, nil, 5)
	require.NoError(t, err)
	require.Len(t, browsers, 2)
	assert.Equal(t, "Chrome", browsers[0].Browser)
}

func TestVisitDailyTrendsAndFunnel(t *testing.T) {
	repo := NewVisitRepository(setupTestDB(t))
	ctx := context.Background()

	today := time.Now().UTC()
	yesterday := today.Add(-24 * time.Hour)

	v1 := newVisit("sess-t1", "vis-1")
	v1.VisitDate = yesterday
	v1.CalculatorUsed = true
	v1.TimeOnSite = 100
	require.NoError(t, repo.Create(ctx, v1))

	v2 := newVisit("sess-t2", "vis-2")
	v2.VisitDate = today
	v2.ContactFormViewed = true
	v2.TimeOnSite = 50
	require.NoError(t, repo.Create(ctx, v2))

	trends, err := repo.DailyTrends(ctx, today.Add(-7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, yesterday.Format("2006-01-02"), trends[0].Date)
	assert.EqualValues(t, 1, trends[0].CalculatorUsers)
	assert.InDelta(t, 100.0, trends[0].AvgTimeOnSite, 1e-9)

	funnel, err := repo.FunnelCounts(ctx, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, funnel.Visits)
	assert.EqualValues(t, 1, funnel.CalculatorUsers)
	assert.EqualValues(t, 1, funnel.ContactFormViews)
}
