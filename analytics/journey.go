package analytics

import (
	"sort"
	"strings"

	"github.com/compra-app/compra-go/models"
)

// ComputeJourneys groups responses by their answered-question path and
// derives first-order transition probabilities between adjacent questions.
func ComputeJourneys(history []*models.SurveyResponse) *models.JourneyReport {
	report := &models.JourneyReport{
		Journeys:                []models.UserJourney{},
		TransitionProbabilities: map[string]map[string]float64{},
	}
	if len(history) == 0 {
		return report
	}

	type pathStats struct {
		count       int
		timeSpent   float64
		completions int
	}
	paths := map[string]*pathStats{}
	var pathOrder []string
	transitions := map[string]map[string]int{}
	totalAnswered := 0

	for _, resp := range history {
		path := resp.AnsweredPath()
		totalAnswered += len(path)

		key := strings.Join(path, "->")
		ps := paths[key]
		if ps == nil {
			ps = &pathStats{}
			paths[key] = ps
			pathOrder = append(pathOrder, key)
		}
		ps.count++
		ps.timeSpent += resp.TotalTimeSpent
		if resp.Completed() {
			ps.completions++
		}

		for i := 0; i+1 < len(path); i++ {
			from, to := path[i], path[i+1]
			if transitions[from] == nil {
				transitions[from] = map[string]int{}
			}
			transitions[from][to]++
		}
	}

	for _, key := range pathOrder {
		ps := paths[key]
		var path []string
		if key != "" {
			path = strings.Split(key, "->")
		} else {
			path = []string{}
		}
		report.Journeys = append(report.Journeys, models.UserJourney{
			Path:             path,
			Frequency:        float64(ps.count) / float64(len(history)),
			AverageTimeSpent: ps.timeSpent / float64(ps.count),
			CompletionRate:   float64(ps.completions) / float64(ps.count),
		})
	}
	sort.SliceStable(report.Journeys, func(i, j int) bool {
		return report.Journeys[i].Frequency > report.Journeys[j].Frequency
	})
	if len(report.Journeys) > 10 {
		report.Journeys = report.Journeys[:10]
	}

	var startingPoint string
	maxOutgoing := 0
	for from, tos := range transitions {
		total := 0
		for _, count := range tos {
			total += count
		}
		probs := make(map[string]float64, len(tos))
		for to, count := range tos {
			probs[to] = float64(count) / float64(total)
		}
		report.TransitionProbabilities[from] = probs

		if total > maxOutgoing || (total == maxOutgoing && from < startingPoint) {
			maxOutgoing = total
			startingPoint = from
		}
	}

	report.Metrics = models.JourneyMetrics{
		AverageQuestionsAnswered: float64(totalAnswered) / float64(len(history)),
		MostCommonStartingPoint:  startingPoint,
	}
	return report
}
