package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compra-app/compra-go/models"
)

func pathResponse(timeSpent float64, questionIDs ...string) *models.SurveyResponse {
	resp := &models.SurveyResponse{SurveyID: "s1", TotalTimeSpent: timeSpent}
	for _, id := range questionIDs {
		resp.Responses = append(resp.Responses, models.QuestionResponse{
			QuestionID: id,
			Answer:     models.TextAnswer("answered"),
		})
	}
	return resp
}

func TestJourneyTopPathAndTransitions(t *testing.T) {
	history := []*models.SurveyResponse{
		pathResponse(10, "A", "B"),
		pathResponse(20, "A", "B"),
		pathResponse(30, "A", "C"),
	}

	report := ComputeJourneys(history)
	require.NotEmpty(t, report.Journeys)

	top := report.Journeys[0]
	assert.Equal(t, []string{"A", "B"}, top.Path)
	assert.InDelta(t, 2.0/3.0, top.Frequency, 1e-9)
	assert.InDelta(t, 15.0, top.AverageTimeSpent, 1e-9)
	assert.InDelta(t, 1.0, top.CompletionRate, 1e-9)

	require.Contains(t, report.TransitionProbabilities, "A")
	assert.InDelta(t, 2.0/3.0, report.TransitionProbabilities["A"]["B"], 1e-9)
	assert.InDelta(t, 1.0/3.0, report.TransitionProbabilities["A"]["C"], 1e-9)
}

func TestJourneyMetrics(t *testing.T) {
	history := []*models.SurveyResponse{
		pathResponse(5, "A", "B", "C"),
		pathResponse(5, "A"),
	}

	report := ComputeJourneys(history)
	assert.InDelta(t, 2.0, report.Metrics.AverageQuestionsAnswered, 1e-9)
	assert.Equal(t, "A", report.Metrics.MostCommonStartingPoint)
}

func TestJourneySkippedAnswersExcludedFromPath(t *testing.T) {
	resp := &models.SurveyResponse{
		SurveyID: "s1",
		Responses: []models.QuestionResponse{
			{QuestionID: "A", Answer: models.TextAnswer("yes")},
			{QuestionID: "B", Answer: models.NullAnswer()},
			{QuestionID: "C", Answer: models.TextAnswer("no")},
		},
	}

	report := ComputeJourneys([]*models.SurveyResponse{resp})
	require.Len(t, report.Journeys, 1)
	assert.Equal(t, []string{"A", "C"}, report.Journeys[0].Path)
	assert.InDelta(t, 0.0, report.Journeys[0].CompletionRate, 1e-9)
	assert.InDelta(t, 1.0, report.TransitionProbabilities["A"]["C"], 1e-9)
}

func TestJourneyTopTenLimit(t *testing.T) {
	var history []*models.SurveyResponse
	ids := []string{"q0", "q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10", "q11"}
	for _, id := range ids {
		history = append(history, pathResponse(1, id))
	}

	report := ComputeJourneys(history)
	assert.Len(t, report.Journeys, 10)
}

func TestJourneyEmptyHistory(t *testing.T) {
	report := ComputeJourneys(nil)
	assert.Empty(t, report.Journeys)
	assert.Empty(t, report.TransitionProbabilities)
	assert.Zero(t, report.Metrics.AverageQuestionsAnswered)
}
