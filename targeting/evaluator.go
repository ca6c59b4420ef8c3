// Package targeting selects which survey, if any, a shopper should see.
package targeting

import (
	"context"
	"sort"
	"time"

	"github.com/compra-app/compra-go/models"
)

// ShopperContext carries what is known about the shopper at evaluation time.
// Every field is optional; a missing field never disqualifies a survey.
type ShopperContext struct {
	CustomerType    string
	CartValue       *float64
	ProductCategory string
	CurrentURL      string
}

// SurveyFinder is the slice of the storage layer the evaluator depends on.
type SurveyFinder interface {
	FindDeliverable(ctx context.Context, storeID string, now time.Time) ([]*models.Survey, error)
}

// Evaluator ranks deliverable surveys against a shopper context. It holds no
// mutable state and is safe for concurrent use. Selection never counts a
// view; the caller decides when a display happened.
type Evaluator struct {
	surveys SurveyFinder
}

func NewEvaluator(surveys SurveyFinder) *Evaluator {
	return &Evaluator{surveys: surveys}
}

// SelectSurvey returns the single best-matching survey for the shopper, or
// nil when no deliverable survey matches.
func (e *Evaluator) SelectSurvey(ctx context.Context, storeID string, shopper ShopperContext, now time.Time) (*models.Survey, error) {
	candidates, err := e.surveys.FindDeliverable(ctx, storeID, now)
	if err != nil {
		return nil, err
	}
	ranked := Rank(candidates, shopper)
	if len(ranked) == 0 {
		return nil, nil
	}
	return ranked[0], nil
}

// Rank filters candidates against the shopper context and orders survivors
// by priority descending, then creation time descending. The input slice is
// not modified.
func Rank(candidates []*models.Survey, shopper ShopperContext) []*models.Survey {
	matched := make([]*models.Survey, 0, len(candidates))
	for _, s := range candidates {
		if Matches(s, shopper) {
			matched = append(matched, s)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return ranksHigher(matched[i], matched[j])
	})
	return matched
}

// Matches applies the shopper-dependent half of the targeting predicate.
// Delivery-window and status checks happen upstream in the repository query.
func Matches(s *models.Survey, shopper ShopperContext) bool {
	audience := s.TargetAudience

	switch shopper.CustomerType {
	case models.CustomerNew:
		if !audience.NewCustomers {
			return false
		}
	case models.CustomerReturning:
		if !audience.ReturningCustomers {
			return false
		}
	}

	if shopper.CartValue != nil && !audience.CartValue.Contains(*shopper.CartValue) {
		return false
	}

	if shopper.ProductCategory != "" && !contains(audience.ProductCategories, shopper.ProductCategory) {
		return false
	}

	if shopper.CurrentURL != "" && len(s.DisplayRules.DisplayLocation) > 0 &&
		!contains(s.DisplayRules.DisplayLocation, shopper.CurrentURL) {
		return false
	}

	return true
}

func ranksHigher(a, b *models.Survey) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
