// Package aggregate maintains the per-survey analytics rollup.
package aggregate

import (
	"context"
	"time"

	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/store"
	"github.com/compra-app/compra-go/utils"
)

// ErrSurveyNotFound is returned when a submission references an unknown
// survey.
var ErrSurveyNotFound = store.ErrNotFound

// Aggregator appends responses and keeps the rollup consistent with the full
// response history. Counter fields update atomically at the storage layer;
// scan-derived fields are rewritten from a full fold on each submission, so
// the incremental path and RecomputeRollup converge on the same values.
type Aggregator struct {
	surveys   *store.SurveyRepository
	responses *store.ResponseRepository
	analytics *store.AnalyticsRepository
}

func NewAggregator(db *store.Database) *Aggregator {
	return &Aggregator{
		surveys:   db.Surveys,
		responses: db.Responses,
		analytics: db.Analytics,
	}
}

// RecordResponse validates the submission against its survey, normalizes each
// answer to the question's declared type, appends the response, and folds it
// into the rollup.
func (a *Aggregator) RecordResponse(ctx context.Context, req *models.SubmitResponseRequest) (*models.SurveyResponse, error) {
	survey, err := a.surveys.FindByID(ctx, req.SurveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	resp := &models.SurveyResponse{
		ID:             utils.NewID(),
		SurveyID:       survey.ID,
		Responses:      make([]models.QuestionResponse, len(req.Responses)),
		CustomerEmail:  req.CustomerEmail,
		CustomerType:   req.CustomerType,
		TotalTimeSpent: req.TotalTimeSpent,
		Metadata:       req.Metadata,
		CreatedAt:      time.Now().UTC(),
	}
	for i, qr := range req.Responses {
		qr.Answer = qr.Answer.Normalize(survey.QuestionByID(qr.QuestionID))
		resp.Responses[i] = qr
	}

	if err := a.responses.Insert(ctx, resp); err != nil {
		return nil, err
	}
	if err := a.analytics.Init(ctx, survey.ID); err != nil {
		return nil, err
	}
	if err := a.analytics.ApplyCompletion(ctx, survey.ID, resp.CustomerType); err != nil {
		return nil, err
	}

	// Scan-derived fields come from the full history so a re-run lands on
	// the same numbers. Last-writer-wins under concurrent submissions is
	// acceptable for these.
	history, err := a.responses.FindBySurvey(ctx, survey.ID)
	if err != nil {
		return nil, err
	}
	computed := FoldResponses(survey, history)
	if err := a.analytics.ReplaceComputed(ctx, computed, false); err != nil {
		return nil, err
	}
	return resp, nil
}

// RecomputeRollup rebuilds every rollup field except views from the immutable
// response set. Safe to re-run; two consecutive runs produce identical
// output.
func (a *Aggregator) RecomputeRollup(ctx context.Context, surveyID string) (*models.SurveyAnalytics, error) {
	survey, err := a.surveys.FindByID(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if survey == nil {
		return nil, ErrSurveyNotFound
	}

	history, err := a.responses.FindBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}
	if err := a.analytics.Init(ctx, surveyID); err != nil {
		return nil, err
	}
	current, err := a.analytics.FindBySurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	computed := FoldResponses(survey, history)
	computed.Views = current.Views
	if computed.Views > 0 {
		computed.CompletionRate = float64(computed.Completions) / float64(computed.Views)
	}
	if err := a.analytics.ReplaceComputed(ctx, computed, true); err != nil {
		return nil, err
	}
	return a.analytics.FindBySurvey(ctx, surveyID)
}

// FoldResponses derives the rollup from a full response history. Pure; the
// view counter and completion rate are filled in by the caller.
func FoldResponses(survey *models.Survey, history []*models.SurveyResponse) *models.SurveyAnalytics {
	out := &models.SurveyAnalytics{
		SurveyID:    survey.ID,
		Completions: len(history),
	}

	var totalTime, totalCart float64
	cartSamples := 0
	for _, resp := range history {
		totalTime += resp.TotalTimeSpent
		switch resp.CustomerType {
		case models.CustomerNew:
			out.Demographics.NewCustomers++
		case models.CustomerReturning:
			out.Demographics.ReturningCustomers++
		}
		if resp.Metadata.CartValue != nil {
			totalCart += *resp.Metadata.CartValue
			cartSamples++
		}
	}
	if len(history) > 0 {
		out.AverageTimeSpent = totalTime / float64(len(history))
	}
	if cartSamples > 0 {
		out.Demographics.AverageCartValue = totalCart / float64(cartSamples)
	}

	out.QuestionAnalytics = foldQuestions(survey, history)
	return out
}

func foldQuestions(survey *models.Survey, history []*models.SurveyResponse) []models.QuestionAnalytics {
	stats := make([]models.QuestionAnalytics, len(survey.Questions))
	index := make(map[string]int, len(survey.Questions))
	for i, q := range survey.Questions {
		stats[i] = models.QuestionAnalytics{
			QuestionID:           q.ID,
			ResponseDistribution: map[string]int{},
		}
		index[q.ID] = i
	}

	timeTotals := make([]float64, len(survey.Questions))
	for _, resp := range history {
		for _, qr := range resp.Responses {
			i, ok := index[qr.QuestionID]
			if !ok {
				continue
			}
			if qr.Answer.IsNull() {
				stats[i].Skips++
				continue
			}
			stats[i].Responses++
			timeTotals[i] += qr.TimeSpent
			if key := qr.Answer.DistributionKey(); key != "" {
				stats[i].ResponseDistribution[key]++
			}
		}
	}
	for i := range stats {
		if stats[i].Responses > 0 {
			stats[i].AverageTimeSpent = timeTotals[i] / float64(stats[i].Responses)
		}
	}
	return stats
}
