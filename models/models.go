// Package models defines the survey domain entities shared across the app.
package models

import "time"

// Survey lifecycle states.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusPaused    = "paused"
	StatusCompleted = "completed"
)

// Question types understood by the compiler and analytics.
const (
	QuestionMultipleChoice = "multiple_choice"
	QuestionText           = "text"
	QuestionRating         = "rating"
	QuestionCheckbox       = "checkbox"
	QuestionNPS            = "nps"
	QuestionSelect         = "select"      // legacy checkout variant
	QuestionImageRadio     = "image_radio" // legacy checkout variant
)

// Customer types used by targeting and demographics.
const (
	CustomerNew       = "new"
	CustomerReturning = "returning"
)

// SurveyStyle holds the presentation tokens inlined into the embeddable form.
type SurveyStyle struct {
	PrimaryColor    string `json:"primaryColor,omitempty"`
	BackgroundColor string `json:"backgroundColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	CustomCSS       string `json:"customCSS,omitempty"`
}

// Merge fills empty tokens from the defaults, typically the store's
// defaultSurveyStyle.
func (s SurveyStyle) Merge(defaults SurveyStyle) SurveyStyle {
	if s.PrimaryColor == "" {
		s.PrimaryColor = defaults.PrimaryColor
	}
	if s.BackgroundColor == "" {
		s.BackgroundColor = defaults.BackgroundColor
	}
	if s.FontFamily == "" {
		s.FontFamily = defaults.FontFamily
	}
	if s.CustomCSS == "" {
		s.CustomCSS = defaults.CustomCSS
	}
	return s
}

// StoreSettings carries merchant-level defaults and notification preferences.
type StoreSettings struct {
	DefaultSurveyStyle SurveyStyle `json:"defaultSurveyStyle,omitempty"`
	NotificationEmail  string      `json:"notificationEmail,omitempty"`
	AnalyticsFrequency string      `json:"analyticsFrequency,omitempty"` // daily|weekly|monthly
}

// Store identifies a merchant account. Created on the OAuth callback, which is
// outside this core; read-only here.
type Store struct {
	ID          string        `json:"id"`
	ShopDomain  string        `json:"shopDomain"`
	AccessToken string        `json:"-"`
	Email       string        `json:"email,omitempty"`
	Settings    StoreSettings `json:"settings"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// ImageOption labels an image_radio choice.
type ImageOption struct {
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl"`
}

// Question is embedded in a Survey; identity is the generated ID.
type Question struct {
	ID           string        `json:"id"`
	Text         string        `json:"questionText"`
	Type         string        `json:"questionType"`
	Options      []string      `json:"options"`
	ImageOptions []ImageOption `json:"imageOptions,omitempty"`
	Required     bool          `json:"required"`
	MaxLength    int           `json:"maxLength,omitempty"`
	Placeholder  string        `json:"placeholder,omitempty"`
}

// FloatRange is a numeric range; a nil bound leaves that side open.
type FloatRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether v falls within the range, bounds inclusive.
func (r *FloatRange) Contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// IntRange mirrors FloatRange for counters (order counts, day windows).
type IntRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// PurchaseHistory narrows targeting by what a shopper bought and when.
type PurchaseHistory struct {
	Categories       []string  `json:"categories,omitempty"`
	Products         []string  `json:"products,omitempty"`
	LastPurchaseDays *IntRange `json:"lastPurchaseDays,omitempty"`
}

// TargetAudience is the structured predicate a shopper context is matched
// against.
type TargetAudience struct {
	NewCustomers       bool             `json:"newCustomers,omitempty"`
	ReturningCustomers bool             `json:"returningCustomers,omitempty"`
	CartValue          *FloatRange      `json:"cartValue,omitempty"`
	ProductCategories  []string         `json:"productCategories,omitempty"`
	OrderCount         *IntRange        `json:"orderCount,omitempty"`
	PurchaseHistory    *PurchaseHistory `json:"purchaseHistory,omitempty"`
	CustomerTags       []string         `json:"customerTags,omitempty"`
}

// DisplayRules controls when and where an eligible survey may be shown.
type DisplayRules struct {
	DisplayDelay       int        `json:"displayDelay,omitempty"` // seconds
	DisplayLocation    []string   `json:"displayLocation,omitempty"`
	MaxDisplaysPerUser int        `json:"maxDisplaysPerUser,omitempty"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	DisplayFrequency   string     `json:"displayFrequency,omitempty"` // once|every_visit|daily|weekly
}

// WindowContains reports whether now falls inside the start/end window.
// A missing bound leaves that side open.
func (d DisplayRules) WindowContains(now time.Time) bool {
	if d.StartDate != nil && now.Before(*d.StartDate) {
		return false
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return false
	}
	return true
}

// Survey is a merchant-authored question set with targeting and display rules.
type Survey struct {
	ID             string         `json:"id"`
	StoreID        string         `json:"storeId"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Questions      []Question     `json:"questions"`
	Active         bool           `json:"active"`
	Priority       int            `json:"priority"`
	Status         string         `json:"status"`
	TargetAudience TargetAudience `json:"targetAudience"`
	DisplayRules   DisplayRules   `json:"displayRules"`
	Style          SurveyStyle    `json:"style"`
	ScriptTagID    string         `json:"scriptTagId,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// Deliverable reports whether the survey may be shown at all, before any
// per-shopper targeting is applied.
func (s *Survey) Deliverable(now time.Time) bool {
	return s.Status == StatusActive && s.Active && s.DisplayRules.WindowContains(now)
}

// QuestionByID returns the embedded question, or nil when unknown.
func (s *Survey) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// ResponseMetadata is optional device/location context captured with a
// submission.
type ResponseMetadata struct {
	UserAgent  string   `json:"userAgent,omitempty"`
	DeviceType string   `json:"deviceType,omitempty"`
	Location   string   `json:"location,omitempty"`
	PageURL    string   `json:"pageUrl,omitempty"`
	CartValue  *float64 `json:"cartValue,omitempty"`
}

// QuestionResponse is one (question, answer) tuple within a submission.
type QuestionResponse struct {
	QuestionID string  `json:"questionId"`
	Answer     Answer  `json:"answer"`
	TimeSpent  float64 `json:"timeSpent,omitempty"` // seconds
}

// SurveyResponse is one shopper's submission. Immutable once created.
type SurveyResponse struct {
	ID             string             `json:"id"`
	SurveyID       string             `json:"surveyId"`
	Responses      []QuestionResponse `json:"responses"`
	CustomerEmail  string             `json:"customerEmail,omitempty"`
	CustomerType   string             `json:"customerType,omitempty"`
	TotalTimeSpent float64            `json:"totalTimeSpent"`
	Metadata       ResponseMetadata   `json:"metadata,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// Completed reports whether every answer in the submission is non-null.
func (r *SurveyResponse) Completed() bool {
	for i := range r.Responses {
		if r.Responses[i].Answer.IsNull() {
			return false
		}
	}
	return true
}

// AnsweredPath returns the ordered question IDs the shopper actually
// answered; this is the journey path for the response.
func (r *SurveyResponse) AnsweredPath() []string {
	path := make([]string, 0, len(r.Responses))
	for i := range r.Responses {
		if !r.Responses[i].Answer.IsNull() {
			path = append(path, r.Responses[i].QuestionID)
		}
	}
	return path
}

// QuestionAnalytics is the per-question slice of the rollup.
type QuestionAnalytics struct {
	QuestionID           string         `json:"questionId"`
	Responses            int            `json:"responses"`
	Skips                int            `json:"skips"`
	AverageTimeSpent     float64        `json:"averageTimeSpent"`
	ResponseDistribution map[string]int `json:"responseDistribution,omitempty"`
}

// Demographics is the customer-type breakdown kept on the rollup.
type Demographics struct {
	NewCustomers       int     `json:"newCustomers"`
	ReturningCustomers int     `json:"returningCustomers"`
	AverageCartValue   float64 `json:"averageCartValue"`
}

// SurveyAnalytics is the incrementally maintained rollup, one per survey.
type SurveyAnalytics struct {
	SurveyID          string              `json:"surveyId"`
	Views             int                 `json:"views"`
	Completions       int                 `json:"completions"`
	AverageTimeSpent  float64             `json:"averageTimeSpent"`
	CompletionRate    float64             `json:"completionRate"`
	QuestionAnalytics []QuestionAnalytics `json:"questionAnalytics"`
	Demographics      Demographics        `json:"demographicData"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}
