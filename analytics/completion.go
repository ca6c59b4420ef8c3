package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/compra-app/compra-go/models"
)

// ComputeCompletion partitions responses into completed and abandoned, then
// attributes completion-rate deltas to hour-of-day and device-type buckets.
// A zero-response history yields a zero-probability model with no factors.
func ComputeCompletion(history []*models.SurveyResponse) *models.CompletionReport {
	report := &models.CompletionReport{
		Model: models.PredictiveModel{Factors: []models.CompletionFactor{}},
	}
	if len(history) == 0 {
		return report
	}

	type bucket struct{ completed, abandoned int }
	factors := map[string]*bucket{}
	var order []string
	tally := func(key string, completed bool) {
		b := factors[key]
		if b == nil {
			b = &bucket{}
			factors[key] = b
			order = append(order, key)
		}
		if completed {
			b.completed++
		} else {
			b.abandoned++
		}
	}

	completedCount := 0
	var completedTime float64
	for _, resp := range history {
		done := resp.Completed()
		if done {
			completedCount++
			completedTime += resp.TotalTimeSpent
		}

		hour := resp.CreatedAt.Hour()
		tally(fmt.Sprintf("time_%d-%d", hour, hour+1), done)

		device := resp.Metadata.DeviceType
		if device == "" {
			device = "unknown"
		}
		tally("device_"+device, done)
	}

	overallRate := float64(completedCount) / float64(len(history))
	report.Model.CompletionProbability = overallRate
	for _, key := range order {
		b := factors[key]
		bucketRate := float64(b.completed) / float64(b.completed+b.abandoned)
		report.Model.Factors = append(report.Model.Factors, models.CompletionFactor{
			Factor: key,
			Impact: bucketRate - overallRate,
		})
	}
	sort.SliceStable(report.Model.Factors, func(i, j int) bool {
		return math.Abs(report.Model.Factors[i].Impact) > math.Abs(report.Model.Factors[j].Impact)
	})

	report.Statistics = models.CompletionStats{
		TotalResponses:     len(history),
		CompletedResponses: completedCount,
		AbandonedResponses: len(history) - completedCount,
	}
	if completedCount > 0 {
		report.Statistics.AverageTimeToComplete = completedTime / float64(completedCount)
	}
	return report
}
