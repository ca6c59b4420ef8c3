package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compra-app/compra-go/models"
)

func responseAt(hour int, device string, completed bool) *models.SurveyResponse {
	answer := models.NumberAnswer(4)
	if !completed {
		answer = models.NullAnswer()
	}
	return &models.SurveyResponse{
		SurveyID: "s1",
		Responses: []models.QuestionResponse{
			{QuestionID: "q1", Answer: answer},
		},
		TotalTimeSpent: 10,
		Metadata:       models.ResponseMetadata{DeviceType: device},
		CreatedAt:      time.Date(2025, 4, 1, hour, 30, 0, 0, time.UTC),
	}
}

func TestCompletionOnZeroResponses(t *testing.T) {
	report := ComputeCompletion(nil)
	assert.Zero(t, report.Model.CompletionProbability)
	assert.Empty(t, report.Model.Factors)
	assert.Zero(t, report.Statistics.TotalResponses)
}

func TestCompletionProbabilityAndPartition(t *testing.T) {
	history := []*models.SurveyResponse{
		responseAt(10, "mobile", true),
		responseAt(10, "mobile", true),
		responseAt(22, "desktop", false),
		responseAt(22, "desktop", true),
	}

	report := ComputeCompletion(history)
	assert.InDelta(t, 0.75, report.Model.CompletionProbability, 1e-9)
	assert.Equal(t, 4, report.Statistics.TotalResponses)
	assert.Equal(t, 3, report.Statistics.CompletedResponses)
	assert.Equal(t, 1, report.Statistics.AbandonedResponses)
	assert.InDelta(t, 10.0, report.Statistics.AverageTimeToComplete, 1e-9)
}

func TestCompletionFactorImpacts(t *testing.T) {
	history := []*models.SurveyResponse{
		responseAt(10, "mobile", true),
		responseAt(10, "mobile", true),
		responseAt(22, "desktop", false),
		responseAt(22, "desktop", false),
	}

	report := ComputeCompletion(history)
	impacts := map[string]float64{}
	for _, f := range report.Model.Factors {
		impacts[f.Factor] = f.Impact
	}

	// Overall rate is one half; the mobile and morning buckets complete
	// every time, the desktop and evening buckets never do.
	assert.InDelta(t, 0.5, impacts["device_mobile"], 1e-9)
	assert.InDelta(t, -0.5, impacts["device_desktop"], 1e-9)
	assert.InDelta(t, 0.5, impacts["time_10-11"], 1e-9)
	assert.InDelta(t, -0.5, impacts["time_22-23"], 1e-9)
}

func TestCompletionFactorsSortedByAbsoluteImpact(t *testing.T) {
	history := []*models.SurveyResponse{
		responseAt(10, "mobile", true),
		responseAt(10, "mobile", false),
		responseAt(22, "desktop", false),
	}

	report := ComputeCompletion(history)
	require.True(t, len(report.Model.Factors) >= 2)
	for i := 1; i < len(report.Model.Factors); i++ {
		prev := report.Model.Factors[i-1].Impact
		curr := report.Model.Factors[i].Impact
		assert.GreaterOrEqual(t, abs(prev), abs(curr))
	}
}

func TestMissingDeviceBucketsAsUnknown(t *testing.T) {
	history := []*models.SurveyResponse{
		responseAt(9, "", true),
	}
	report := ComputeCompletion(history)

	found := false
	for _, f := range report.Model.Factors {
		if f.Factor == "device_unknown" {
			found = true
		}
	}
	assert.True(t, found)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
