// Package analytics derives reports from a survey's full response history.
// Every derivation is a pure read: the engine never mutates the rollup or
// the responses, so concurrent requests need no coordination.
package analytics

import (
	"context"

	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/store"
)

// Engine loads a survey's response history and runs the derived analyses.
type Engine struct {
	surveys   *store.SurveyRepository
	responses *store.ResponseRepository
	rollups   *store.AnalyticsRepository
}

func NewEngine(db *store.Database) *Engine {
	return &Engine{surveys: db.Surveys, responses: db.Responses, rollups: db.Analytics}
}

// ErrSurveyNotFound mirrors the aggregator's sentinel for unknown surveys.
var ErrSurveyNotFound = store.ErrNotFound

func (e *Engine) load(ctx context.Context, surveyID string) (*models.Survey, []*models.SurveyResponse, error) {
	survey, err := e.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}
	if survey == nil {
		return nil, nil, ErrSurveyNotFound
	}
	history, err := e.responses.FindBySurvey(ctx, surveyID)
	if err != nil {
		return nil, nil, err
	}
	return survey, history, nil
}

// Sentiment runs the free-text sentiment analysis.
func (e *Engine) Sentiment(ctx context.Context, surveyID string) (*models.SentimentReport, error) {
	_, history, err := e.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return ComputeSentiment(history), nil
}

// Correlation runs the pairwise numeric correlation analysis.
func (e *Engine) Correlation(ctx context.Context, surveyID string) (*models.CorrelationReport, error) {
	survey, history, err := e.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return ComputeCorrelations(survey, history), nil
}

// Completion runs the completion-prediction factor analysis.
func (e *Engine) Completion(ctx context.Context, surveyID string) (*models.CompletionReport, error) {
	_, history, err := e.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return ComputeCompletion(history), nil
}

// Journey runs the path and transition analysis.
func (e *Engine) Journey(ctx context.Context, surveyID string) (*models.JourneyReport, error) {
	_, history, err := e.load(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	return ComputeJourneys(history), nil
}

// Detailed merges the stored rollup with computed breakdowns for the main
// analytics endpoint, optionally restricted to a created-at window.
func (e *Engine) Detailed(ctx context.Context, surveyID string, window Window) (*models.DetailedAnalytics, error) {
	survey, err := e.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}
	rollup, err := e.rollups.FindBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if rollup == nil {
		rollup = &models.SurveyAnalytics{SurveyID: surveyID}
	}
	history, err := e.responses.FindBySurveyBetween(ctx, surveyID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return ComputeDetailed(rollup, history, window), nil
}
