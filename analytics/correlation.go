package analytics

import (
	"math"
	"sort"

	"github.com/compra-app/compra-go/models"
)

// ComputeCorrelations maps every question's answers onto the number line and
// computes the Pearson coefficient plus two-tailed significance for each
// question pair with matching sample counts. Categorical answers map to their
// index in the question's option list; unmapped answers are excluded, never
// coerced. Pairs with zero variance are skipped rather than reported as NaN.
func ComputeCorrelations(survey *models.Survey, history []*models.SurveyResponse) *models.CorrelationReport {
	columns := map[string][]float64{}
	var order []string

	for _, resp := range history {
		for _, qr := range resp.Responses {
			q := survey.QuestionByID(qr.QuestionID)
			var options []string
			if q != nil {
				options = q.Options
			}
			v, ok := qr.Answer.NumericValue(options)
			if !ok {
				continue
			}
			if _, seen := columns[qr.QuestionID]; !seen {
				order = append(order, qr.QuestionID)
			}
			columns[qr.QuestionID] = append(columns[qr.QuestionID], v)
		}
	}

	report := &models.CorrelationReport{
		Correlations: []models.CorrelationResult{},
		SampleSize:   len(history),
	}
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			x, y := columns[order[i]], columns[order[j]]
			if len(x) != len(y) {
				continue
			}
			r, ok := pearson(x, y)
			if !ok {
				continue
			}
			report.Correlations = append(report.Correlations, models.CorrelationResult{
				QuestionID1:  order[i],
				QuestionID2:  order[j],
				Correlation:  r,
				Significance: significance(r, len(x)),
			})
		}
	}

	sort.SliceStable(report.Correlations, func(a, b int) bool {
		return math.Abs(report.Correlations[a].Correlation) > math.Abs(report.Correlations[b].Correlation)
	})
	return report
}
