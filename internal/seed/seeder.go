package seed

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shreesteel/backend/internal/estimate"
	"github.com/shreesteel/backend/internal/logger"
	"github.com/shreesteel/backend/internal/models"
	"github.com/shreesteel/backend/internal/useragent"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	// Seed returns an error only for invalid sources, time.Now().UnixNano() is always valid
	_ = gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{db: db}
}

// userAgents is a pool of real browser strings so seeded visits exercise the
// same parsing path as live traffic.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (Linux; Android 13; SM-A546B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Mobile Safari/537.36",
	"Mozilla/5.0 (iPad; CPU OS 17_1 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

var sitePages = []string{
	"home", "products", "window-grills", "security-grills", "gates",
	"gallery", "calculator", "about", "contact",
}

var referrers = []string{
	"direct", "direct", "direct",
	"https://www.google.com/",
	"https://www.google.co.in/",
	"https://www.facebook.com/",
	"https://www.justdial.com/",
}

var subjects = []string{
	"Window grills for new flat",
	"Need quote for balcony safety grill",
	"Main gate fabrication enquiry",
	"Staircase railing for duplex",
	"Security grills for ground floor shop",
	"Decorative grill design for villa",
	"Replacement of old window grills",
}

// SeedDev seeds the development database with realistic traffic and leads
func (s *Seeder) SeedDev() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating visits...")
	visits, err := s.seedVisits(300)
	if err != nil {
		return fmt.Errorf("failed to seed visits: %w", err)
	}

	log("Creating contact submissions...")
	if err := s.seedSubmissions(visits, 60); err != nil {
		return fmt.Errorf("failed to seed submissions: %w", err)
	}

	return nil
}

// SeedTest seeds the test database with a small fixed data set
func (s *Seeder) SeedTest() error {
	log := func(msg string) {
		logger.Log.Info(msg)
	}

	log("Creating test visits...")
	visits, err := s.seedVisits(10)
	if err != nil {
		return fmt.Errorf("failed to seed visits: %w", err)
	}

	log("Creating test submissions...")
	if err := s.seedSubmissions(visits, 3); err != nil {
		return fmt.Errorf("failed to seed submissions: %w", err)
	}

	return nil
}

// Clean removes all seed data
func (s *Seeder) Clean() error {
	// Delete in reverse order of dependencies
	if err := s.db.Exec("DELETE FROM contact_submissions").Error; err != nil {
		return fmt.Errorf("failed to clean contact_submissions: %w", err)
	}
	if err := s.db.Exec("DELETE FROM user_visits").Error; err != nil {
		return fmt.Errorf("failed to clean user_visits: %w", err)
	}

	return nil
}

// seedVisits creates browsing sessions spread over the last 30 days
func (s *Seeder) seedVisits(count int) ([]models.UserVisit, error) {
	visits := make([]models.UserVisit, 0, count)

	for i := 0; i < count; i++ {
		ua := userAgents[rand.Intn(len(userAgents))]
		info := useragent.Parse(ua)

		visitDate := gofakeit.DateRange(time.Now().AddDate(0, 0, -30), time.Now())
		pageViews := 1 + rand.Intn(6)

		visit := models.UserVisit{
			SessionID:   uuid.New().String(),
			VisitorID:   uuid.New().String(),
			VisitDate:   visitDate,
			UserAgent:   ua,
			Browser:     info.Browser,
			OS:          info.OS,
			Device:      info.Device,
			IPAddress:   gofakeit.IPv4Address(),
			CurrentPage: sitePages[rand.Intn(len(sitePages))],
			Referrer:    referrers[rand.Intn(len(referrers))],
			TimeOnSite:  rand.Intn(600),
			PageViews:   pageViews,
			Bounce:      pageViews == 1,
		}
		if rand.Intn(3) > 0 {
			visit.ScreenResolution = &models.ScreenResolution{
				Width:  []int{1920, 1536, 1440, 412, 390}[rand.Intn(5)],
				Height: []int{1080, 864, 900, 915, 844}[rand.Intn(5)],
			}
		}

		// Roughly a third of sessions touch the calculator, a fifth reach
		// the contact form.
		for j := 0; j < rand.Intn(4); j++ {
			visit.AddInteraction(models.InteractionClick, sitePages[rand.Intn(len(sitePages))], nil)
		}
		if rand.Intn(3) == 0 {
			visit.AddInteraction(models.InteractionCalculatorUse, "calculator", map[string]interface{}{
				"grillType": string(randomGrillType()),
			})
		}
		if rand.Intn(5) == 0 {
			visit.AddInteraction(models.InteractionContactForm, "contact-form", map[string]interface{}{
				"action": "form_start",
			})
		}

		if err := s.db.Create(&visit).Error; err != nil {
			return nil, fmt.Errorf("failed to create visit: %w", err)
		}
		visits = append(visits, visit)
	}

	return visits, nil
}

// seedSubmissions creates leads tied to existing sessions, weighted across
// the status pipeline
func (s *Seeder) seedSubmissions(visits []models.UserVisit, count int) error {
	if len(visits) == 0 {
		return fmt.Errorf("no visits to attach submissions to")
	}

	statuses := []models.SubmissionStatus{
		models.StatusNew, models.StatusNew, models.StatusNew,
		models.StatusContacted, models.StatusContacted,
		models.StatusQuoted,
		models.StatusConverted,
		models.StatusClosed,
	}
	budgets := models.ValidProjectBudgets
	urgencies := models.ValidUrgencies
	priorities := []models.Priority{
		models.PriorityLow, models.PriorityMedium, models.PriorityMedium, models.PriorityHigh,
	}

	for i := 0; i < count; i++ {
		visit := visits[rand.Intn(len(visits))]

		sub := models.ContactSubmission{
			Name:           gofakeit.Name(),
			Email:          gofakeit.Email(),
			Phone:          fmt.Sprintf("+91%d", 7000000000+rand.Int63n(3000000000)),
			Subject:        subjects[rand.Intn(len(subjects))],
			Message:        gofakeit.Paragraph(1, 3, 12, " "),
			ProjectType:    models.ValidProjectTypes[rand.Intn(len(models.ValidProjectTypes))],
			ProjectBudget:  budgets[rand.Intn(len(budgets))],
			Urgency:        urgencies[rand.Intn(len(urgencies))],
			SessionID:      visit.SessionID,
			VisitorID:      visit.VisitorID,
			SubmissionDate: gofakeit.DateRange(visit.VisitDate, time.Now()),
			IPAddress:      visit.IPAddress,
			UserAgent:      visit.UserAgent,
			Referrer:       visit.Referrer,
			Priority:       priorities[rand.Intn(len(priorities))],
			AssignedTo:     "unassigned",
			Source:         models.SourceWebsiteContact,
		}

		// Calculator leads carry the estimate snapshot the visitor saw.
		if visit.CalculatorUsed || rand.Intn(4) == 0 {
			sub.Source = models.SourceCalculatorQuote
			sub.CalculatorData = randomCalculatorData()
		}

		status := statuses[rand.Intn(len(statuses))]
		if status != models.StatusNew {
			sub.ApplyStatus(status, "seed")
		}

		if err := s.db.Create(&sub).Error; err != nil {
			return fmt.Errorf("failed to create submission: %w", err)
		}
	}

	return nil
}

func randomGrillType() estimate.GrillType {
	types := []estimate.GrillType{
		estimate.GrillWindow, estimate.GrillSecurity, estimate.GrillDecorative,
		estimate.GrillBalcony, estimate.GrillGate, estimate.GrillStaircase,
	}
	return types[rand.Intn(len(types))]
}

func randomCalculatorData() *models.CalculatorData {
	metals := []estimate.MetalType{
		estimate.MetalSteel, estimate.MetalStainless, estimate.MetalAluminum, estimate.MetalIron,
	}
	profiles := []estimate.ProfileType{estimate.ProfileSquare, estimate.ProfileRound}

	in := estimate.Input{
		Width:       float64(60 + rand.Intn(240)),
		Height:      float64(60 + rand.Intn(240)),
		WidthUnit:   estimate.UnitCM,
		HeightUnit:  estimate.UnitCM,
		GrillType:   randomGrillType(),
		MetalType:   metals[rand.Intn(len(metals))],
		ProfileType: profiles[rand.Intn(len(profiles))],
	}
	calcType := "standard"
	if rand.Intn(3) == 0 {
		in.Advanced = true
		calcType = "advanced"
	}
	result := estimate.Estimate(in)

	return &models.CalculatorData{
		Dimensions: models.CalculatorDimensions{
			Width:      in.Width,
			Height:     in.Height,
			WidthUnit:  string(in.WidthUnit),
			HeightUnit: string(in.HeightUnit),
		},
		GrillType:       string(in.GrillType),
		MetalType:       string(in.MetalType),
		ProfileType:     string(in.ProfileType),
		EstimatedWeight: result.Weight,
		EstimatedCost:   result.Cost,
		CalculatorType:  calcType,
	}
}
