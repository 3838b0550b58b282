package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InteractionType enumerates tracked browsing events.
type InteractionType string

const (
	InteractionClick         InteractionType = "click"
	InteractionScroll        InteractionType = "scroll"
	InteractionFormFocus     InteractionType = "form_focus"
	InteractionCalculatorUse InteractionType = "calculator_use"
	InteractionTabSwitch     InteractionType = "tab_switch"
	InteractionContactForm   InteractionType = "contact_form"
)

// IsValid reports whether t is a known interaction type.
func (t InteractionType) IsValid() bool {
	switch t {
	case InteractionClick, InteractionScroll, InteractionFormFocus,
		InteractionCalculatorUse, InteractionTabSwitch, InteractionContactForm:
		return true
	}
	return false
}

// DeviceClass is a coarse device bucket derived from the user agent.
type DeviceClass string

const (
	DeviceDesktop DeviceClass = "desktop"
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceUnknown DeviceClass = "unknown"
)

// Interaction is one typed event in a session's append-only event list.
type Interaction struct {
	Type      InteractionType        `json:"type"`
	Element   string                 `json:"element,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// ScreenResolution is the client viewport reported on the first ping.
type ScreenResolution struct {
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// BrowserInfo is the best-effort parsed browser name and version.
type BrowserInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// OSInfo is the best-effort parsed operating system.
type OSInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// UserVisit represents one browsing session. A session document is unique
// per session id; later pings for the same session mutate counters and flags
// instead of creating new rows.
type UserVisit struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	SessionID string `gorm:"size:64;not null;uniqueIndex" json:"sessionId"`
	VisitorID string `gorm:"size:64;not null;index" json:"visitorId"`

	VisitDate time.Time `gorm:"index" json:"visitDate"`

	// Browser and device information. Browser/OS are embedded as flat
	// columns so analytics can group on them directly.
	UserAgent string      `gorm:"type:text;not null" json:"userAgent"`
	Browser   BrowserInfo `gorm:"embedded;embeddedPrefix:browser_" json:"browser"`
	OS        OSInfo      `gorm:"embedded;embeddedPrefix:os_" json:"os"`
	Device    DeviceClass `gorm:"size:16;default:unknown" json:"device"`

	IPAddress string `gorm:"size:64;not null" json:"ipAddress"`

	// Page information
	CurrentPage string `gorm:"size:255;not null;default:home" json:"currentPage"`
	Referrer    string `gorm:"size:512;default:direct" json:"referrer"`

	ScreenResolution *ScreenResolution `gorm:"type:jsonb;serializer:json" json:"screenResolution,omitempty"`

	// Engagement counters
	TimeOnSite int `gorm:"default:0" json:"timeOnSite"` // seconds
	PageViews  int `gorm:"default:1" json:"pageViews"`

	Interactions []Interaction `gorm:"type:jsonb;serializer:json" json:"interactions"`

	// Derived flags
	CalculatorUsed         bool `gorm:"default:false" json:"calculatorUsed"`
	CalculatorInteractions int  `gorm:"default:0" json:"calculatorInteractions"`
	ContactFormViewed      bool `gorm:"default:false" json:"contactFormViewed"`
	ContactFormStarted     bool `gorm:"default:false" json:"contactFormStarted"`

	// Exit information. Bounce is derived from the page view count on
	// create and cleared on a second page view for the session. No column
	// default: gorm omits false on insert, which would store the default
	// instead.
	ExitPage string `gorm:"size:255" json:"exitPage,omitempty"`
	Bounce   bool   `json:"bounce"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an ID and visit date when the caller didn't, and
// derives the bounce flag from the page view count.
func (v *UserVisit) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now().UTC()
	}
	if v.PageViews == 0 {
		v.PageViews = 1
	}
	v.Bounce = v.PageViews <= 1
	return nil
}

// AddInteraction appends an event and updates the derived engagement flags.
// The caller persists.
func (v *UserVisit) AddInteraction(interactionType InteractionType, element string, data map[string]interface{}) {
	v.Interactions = append(v.Interactions, Interaction{
		Type:      interactionType,
		Element:   element,
		Timestamp: time.Now().UTC(),
		Data:      data,
	})

	switch interactionType {
	case InteractionCalculatorUse:
		v.CalculatorUsed = true
		v.CalculatorInteractions++
	case InteractionContactForm:
		v.ContactFormViewed = true
		if action, ok := data["action"].(string); ok && action == "form_start" {
			v.ContactFormStarted = true
		}
	}
}

// VisitDurationMinutes returns time on site rounded to whole minutes.
func (v *UserVisit) VisitDurationMinutes() int {
	return int(float64(v.TimeOnSite)/60 + 0.5)
}
