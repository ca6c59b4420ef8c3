// Package models: HTTP request payloads.
package models

// CreateSurveyRequest is the POST /api/surveys body.
type CreateSurveyRequest struct {
	StoreID        string         `json:"storeId" binding:"required"`
	Title          string         `json:"title" binding:"required"`
	Description    string         `json:"description"`
	Questions      []Question     `json:"questions" binding:"required"`
	Priority       int            `json:"priority"`
	TargetAudience TargetAudience `json:"targetAudience"`
	DisplayRules   DisplayRules   `json:"displayRules"`
	Style          SurveyStyle    `json:"style"`
}

// SubmitResponseRequest is the POST /api/survey-responses body.
type SubmitResponseRequest struct {
	SurveyID       string             `json:"surveyId" binding:"required"`
	Responses      []QuestionResponse `json:"responses" binding:"required"`
	CustomerEmail  string             `json:"customerEmail"`
	CustomerType   string             `json:"customerType" binding:"required"`
	TotalTimeSpent float64            `json:"totalTimeSpent"`
	Metadata       ResponseMetadata   `json:"metadata"`
}

// LegacyResponseRequest is the POST /api/response body used by the checkout
// extension: answers keyed by question ID.
type LegacyResponseRequest struct {
	SurveyID   string            `json:"surveyId"`
	Responses  map[string]Answer `json:"responses"`
	CustomerID string            `json:"customerId"`
	OrderID    string            `json:"orderId"`
}

// UpdateStatusRequest is the PATCH /api/surveys/:id/status body.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LoginRequest is the POST /api/auth/login body.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}
