package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compra-app/compra-go/models"
	"github.com/compra-app/compra-go/store"
	"github.com/compra-app/compra-go/utils"
)

func newTestDB(t *testing.T) *store.Database {
	t.Helper()
	db, err := store.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedSurvey(t *testing.T, db *store.Database) *models.Survey {
	t.Helper()
	now := time.Now().UTC()
	survey := &models.Survey{
		ID:      utils.NewID(),
		StoreID: "store-1",
		Title:   "Checkout feedback",
		Status:  models.StatusActive,
		Active:  true,
		Questions: []models.Question{
			{ID: "q1", Text: "How was checkout?", Type: models.QuestionRating, Required: true},
			{ID: "q2", Text: "Anything to add?", Type: models.QuestionText},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Surveys.Insert(context.Background(), survey))
	require.NoError(t, db.Analytics.Init(context.Background(), survey.ID))
	return survey
}

func TestRecordResponseUpdatesRollup(t *testing.T) {
	db := newTestDB(t)
	survey := seedSurvey(t, db)
	agg := NewAggregator(db)
	ctx := context.Background()

	resp, err := agg.RecordResponse(ctx, &models.SubmitResponseRequest{
		SurveyID: survey.ID,
		Responses: []models.QuestionResponse{
			{QuestionID: "q1", Answer: models.NumberAnswer(4), TimeSpent: 3},
			{QuestionID: "q2", Answer: models.TextAnswer("great experience"), TimeSpent: 9},
		},
		CustomerType:   models.CustomerNew,
		TotalTimeSpent: 12,
	})
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotEmpty(t, resp.ID)

	rollup, err := db.Analytics.FindBySurvey(ctx, survey.ID)
	require.NoError(t, err)
	require.NotNil(t, rollup)
	assert.Equal(t, 1, rollup.Completions)
	assert.Equal(t, 1, rollup.Demographics.NewCustomers)
	assert.InDelta(t, 12.0, rollup.AverageTimeSpent, 1e-9)

	require.Len(t, rollup.QuestionAnalytics, 2)
	assert.Equal(t, 1, rollup.QuestionAnalytics[0].Responses)
	assert.Equal(t, 1, rollup.QuestionAnalytics[1].Responses)
	assert.Equal(t, 1, rollup.QuestionAnalytics[0].ResponseDistribution["4"])
}

func TestRecordResponseUnknownSurvey(t *testing.T) {
	db := newTestDB(t)
	agg := NewAggregator(db)

	_, err := agg.RecordResponse(context.Background(), &models.SubmitResponseRequest{
		SurveyID:     "missing",
		Responses:    []models.QuestionResponse{},
		CustomerType: models.CustomerNew,
	})
	assert.ErrorIs(t, err, ErrSurveyNotFound)
}

func TestRecordResponseNormalizesRatingStrings(t *testing.T) {
	db := newTestDB(t)
	survey := seedSurvey(t, db)
	agg := NewAggregator(db)

	resp, err := agg.RecordResponse(context.Background(), &models.SubmitResponseRequest{
		SurveyID: survey.ID,
		Responses: []models.QuestionResponse{
			{QuestionID: "q1", Answer: models.TextAnswer("5")},
		},
		CustomerType: models.CustomerReturning,
	})
	require.NoError(t, err)
	assert.Equal(t, models.AnswerNumber, resp.Responses[0].Answer.Kind)
	assert.InDelta(t, 5.0, resp.Responses[0].Answer.Number, 1e-9)
}

func TestSkippedAnswersCountAsSkips(t *testing.T) {
	db := newTestDB(t)
	survey := seedSurvey(t, db)
	agg := NewAggregator(db)
	ctx := context.Background()

	_, err := agg.RecordResponse(ctx, &models.SubmitResponseRequest{
		SurveyID: survey.ID,
		Responses: []models.QuestionResponse{
			{QuestionID: "q1", Answer: models.NumberAnswer(2)},
			{QuestionID: "q2", Answer: models.NullAnswer()},
		},
		CustomerType: models.CustomerNew,
	})
	require.NoError(t, err)

	rollup, err := db.Analytics.FindBySurvey(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rollup.QuestionAnalytics[0].Responses)
	assert.Equal(t, 0, rollup.QuestionAnalytics[1].Responses)
	assert.Equal(t, 1, rollup.QuestionAnalytics[1].Skips)
}

func TestRecomputeRollupIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	survey := seedSurvey(t, db)
	agg := NewAggregator(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := agg.RecordResponse(ctx, &models.SubmitResponseRequest{
			SurveyID: survey.ID,
			Responses: []models.QuestionResponse{
				{QuestionID: "q1", Answer: models.NumberAnswer(float64(i + 1)), TimeSpent: 2},
				{QuestionID: "q2", Answer: models.TextAnswer("fine"), TimeSpent: 4},
			},
			CustomerType:   models.CustomerNew,
			TotalTimeSpent: float64(10 * (i + 1)),
		})
		require.NoError(t, err)
	}

	first, err := agg.RecomputeRollup(ctx, survey.ID)
	require.NoError(t, err)
	second, err := agg.RecomputeRollup(ctx, survey.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Completions, second.Completions)
	assert.Equal(t, first.QuestionAnalytics, second.QuestionAnalytics)
	assert.InDelta(t, first.AverageTimeSpent, second.AverageTimeSpent, 1e-9)
	assert.Equal(t, 3, second.Completions)
	assert.InDelta(t, 20.0, second.AverageTimeSpent, 1e-9)
}

func TestRecomputePreservesViews(t *testing.T) {
	db := newTestDB(t)
	survey := seedSurvey(t, db)
	agg := NewAggregator(db)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, db.Analytics.IncrementViews(ctx, survey.ID))
	}
	_, err := agg.RecordResponse(ctx, &models.SubmitResponseRequest{
		SurveyID: survey.ID,
		Responses: []models.QuestionResponse{
			{QuestionID: "q1", Answer: models.NumberAnswer(3)},
		},
		CustomerType: models.CustomerNew,
	})
	require.NoError(t, err)

	rollup, err := agg.RecomputeRollup(ctx, survey.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, rollup.Views)
	assert.InDelta(t, 0.25, rollup.CompletionRate, 1e-9)
}

func TestAverageCartValueFromMetadata(t *testing.T) {
	db := newTestDB(t)
	survey := seedSurvey(t, db)
	agg := NewAggregator(db)
	ctx := context.Background()

	cart := func(v float64) *float64 { return &v }
	for _, v := range []float64{40, 60} {
		_, err := agg.RecordResponse(ctx, &models.SubmitResponseRequest{
			SurveyID: survey.ID,
			Responses: []models.QuestionResponse{
				{QuestionID: "q1", Answer: models.NumberAnswer(4)},
			},
			CustomerType: models.CustomerReturning,
			Metadata:     models.ResponseMetadata{CartValue: cart(v)},
		})
		require.NoError(t, err)
	}

	rollup, err := db.Analytics.FindBySurvey(ctx, survey.ID)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, rollup.Demographics.AverageCartValue, 1e-9)
}
