package analytics

import (
	"time"

	"github.com/compra-app/compra-go/models"
)

// Window optionally restricts the merged analytics to a created-at range.
type Window struct {
	Start *time.Time
	End   *time.Time
}

// ComputeDetailed merges the stored rollup with breakdowns derived from the
// (possibly window-filtered) response history.
func ComputeDetailed(rollup *models.SurveyAnalytics, history []*models.SurveyResponse, window Window) *models.DetailedAnalytics {
	out := &models.DetailedAnalytics{
		SurveyAnalytics:   *rollup,
		ResponseBreakdown: map[string]*models.QuestionBreakdown{},
		TimeTrends:        []models.DailyTrend{},
		UserSegments: models.UserSegments{
			CustomerTypes: map[string]int{},
			Devices:       map[string]int{},
			Locations:     map[string]int{},
		},
		WindowStart: window.Start,
		WindowEnd:   window.End,
	}

	type dayAgg struct {
		responses int
		timeSpent float64
	}
	days := map[string]*dayAgg{}
	var dayOrder []string

	for _, resp := range history {
		for _, qr := range resp.Responses {
			if qr.Answer.IsNull() {
				continue
			}
			qb := out.ResponseBreakdown[qr.QuestionID]
			if qb == nil {
				qb = &models.QuestionBreakdown{Responses: map[string]int{}}
				out.ResponseBreakdown[qr.QuestionID] = qb
			}
			qb.Responses[qr.Answer.DistributionKey()]++
			qb.TotalResponses++
		}

		day := resp.CreatedAt.UTC().Format("2006-01-02")
		agg := days[day]
		if agg == nil {
			agg = &dayAgg{}
			days[day] = agg
			dayOrder = append(dayOrder, day)
		}
		agg.responses++
		agg.timeSpent += resp.TotalTimeSpent

		segment(out.UserSegments.CustomerTypes, resp.CustomerType)
		segment(out.UserSegments.Devices, resp.Metadata.DeviceType)
		segment(out.UserSegments.Locations, resp.Metadata.Location)
	}

	// FindBySurveyBetween returns rows oldest first, so day order is
	// already chronological.
	for _, day := range dayOrder {
		agg := days[day]
		out.TimeTrends = append(out.TimeTrends, models.DailyTrend{
			Date:             day,
			Responses:        agg.responses,
			AverageTimeSpent: agg.timeSpent / float64(agg.responses),
			TotalTimeSpent:   agg.timeSpent,
		})
	}
	return out
}

func segment(counts map[string]int, key string) {
	if key == "" {
		key = "unknown"
	}
	counts[key]++
}
