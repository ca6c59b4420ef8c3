// Package models: computed analytics payload types.
package models

import "time"

// =============================================================================
// Sentiment analysis
// =============================================================================

// SentimentScore is the per-response classification of one free-text answer.
type SentimentScore struct {
	Positive float64  `json:"positive"`
	Negative float64  `json:"negative"`
	Neutral  float64  `json:"neutral"`
	Keywords []string `json:"keywords"`
}

// KeywordCount is one entry in a question's top-keyword list.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// QuestionSentiment aggregates sentiment across all text answers to one
// question.
type QuestionSentiment struct {
	Positive float64        `json:"positive"`
	Negative float64        `json:"negative"`
	Neutral  float64        `json:"neutral"`
	Total    int            `json:"total"`
	Keywords []KeywordCount `json:"keywords"`
}

// OverallSentiment averages the per-question aggregates.
type OverallSentiment struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
	Total    int     `json:"total"` // number of questions contributing
}

// SentimentReport is the sentiment-analysis payload.
type SentimentReport struct {
	OverallSentiment    OverallSentiment              `json:"overallSentiment"`
	SentimentByQuestion map[string]*QuestionSentiment `json:"sentimentByQuestion"`
}

// =============================================================================
// Correlation analysis
// =============================================================================

// CorrelationResult is the Pearson coefficient and two-tailed significance for
// one question pair.
type CorrelationResult struct {
	QuestionID1  string  `json:"questionId1"`
	QuestionID2  string  `json:"questionId2"`
	Correlation  float64 `json:"correlation"`
	Significance float64 `json:"significance"`
}

// CorrelationReport lists pairs ordered by descending |correlation|.
type CorrelationReport struct {
	Correlations []CorrelationResult `json:"correlations"`
	SampleSize   int                 `json:"sampleSize"`
}

// =============================================================================
// Completion prediction
// =============================================================================

// CompletionFactor attributes a completion-rate delta to one bucket
// (hour-of-day or device type).
type CompletionFactor struct {
	Factor string  `json:"factor"`
	Impact float64 `json:"impact"`
}

// PredictiveModel is the completion probability plus attributed factors,
// ordered by descending |impact|.
type PredictiveModel struct {
	CompletionProbability float64            `json:"completionProbability"`
	Factors               []CompletionFactor `json:"factors"`
}

// CompletionStats summarizes the partition behind the model.
type CompletionStats struct {
	TotalResponses        int     `json:"totalResponses"`
	CompletedResponses    int     `json:"completedResponses"`
	AbandonedResponses    int     `json:"abandonedResponses"`
	AverageTimeToComplete float64 `json:"averageTimeToComplete"`
}

// CompletionReport is the completion-prediction payload.
type CompletionReport struct {
	Model      PredictiveModel `json:"model"`
	Statistics CompletionStats `json:"statistics"`
}

// =============================================================================
// User journey
// =============================================================================

// UserJourney is one distinct answer path with its aggregate stats.
type UserJourney struct {
	Path             []string `json:"path"`
	Frequency        float64  `json:"frequency"`
	AverageTimeSpent float64  `json:"averageTimeSpent"`
	CompletionRate   float64  `json:"completionRate"`
}

// JourneyMetrics carries the summary numbers alongside the path list.
type JourneyMetrics struct {
	AverageQuestionsAnswered float64 `json:"averageQuestionsAnswered"`
	MostCommonStartingPoint  string  `json:"mostCommonStartingPoint,omitempty"`
}

// JourneyReport is the user-journey payload: top paths by frequency plus
// first-order transition probabilities keyed fromQuestion -> toQuestion.
type JourneyReport struct {
	Journeys                []UserJourney                 `json:"journeys"`
	TransitionProbabilities map[string]map[string]float64 `json:"transitionProbabilities"`
	Metrics                 JourneyMetrics                `json:"metrics"`
}

// =============================================================================
// Merged analytics endpoint extras
// =============================================================================

// QuestionBreakdown is the raw answer histogram for one question.
type QuestionBreakdown struct {
	Responses      map[string]int `json:"responses"`
	TotalResponses int            `json:"totalResponses"`
}

// DailyTrend is one day's bucket in the time-trend series.
type DailyTrend struct {
	Date             string  `json:"date"` // YYYY-MM-DD
	Responses        int     `json:"responses"`
	AverageTimeSpent float64 `json:"averageTimeSpent"`
	TotalTimeSpent   float64 `json:"totalTimeSpent"`
}

// UserSegments groups the response set by customer type, device, and
// location.
type UserSegments struct {
	CustomerTypes map[string]int `json:"customerTypes"`
	Devices       map[string]int `json:"devices"`
	Locations     map[string]int `json:"locations"`
}

// DetailedAnalytics is the merged rollup + computed breakdowns served by the
// analytics endpoint.
type DetailedAnalytics struct {
	SurveyAnalytics
	ResponseBreakdown map[string]*QuestionBreakdown `json:"responseBreakdown"`
	TimeTrends        []DailyTrend                  `json:"timeTrends"`
	UserSegments      UserSegments                  `json:"userSegments"`
	WindowStart       *time.Time                    `json:"windowStart,omitempty"`
	WindowEnd         *time.Time                    `json:"windowEnd,omitempty"`
}
