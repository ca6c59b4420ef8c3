package analytics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/compra-app/compra-go/models"
)

var positiveWords = map[string]bool{
	"great": true, "excellent": true, "good": true, "love": true,
	"helpful": true, "best": true, "amazing": true,
}

var negativeWords = map[string]bool{
	"bad": true, "poor": true, "terrible": true, "worst": true,
	"hate": true, "difficult": true, "confusing": true,
}

var nonWord = regexp.MustCompile(`\W+`)

// ScoreText classifies one free-text answer. Positive and negative are the
// fractions of tokens found in the respective keyword sets; neutral is the
// remainder so the three always sum to 1.
func ScoreText(text string) models.SentimentScore {
	words := nonWord.Split(strings.ToLower(text), -1)
	tokens := words[:0]
	for _, w := range words {
		if w != "" {
			tokens = append(tokens, w)
		}
	}

	score := models.SentimentScore{Keywords: []string{}}
	if len(tokens) == 0 {
		score.Neutral = 1
		return score
	}

	var pos, neg int
	for _, w := range tokens {
		switch {
		case positiveWords[w]:
			pos++
			score.Keywords = append(score.Keywords, w)
		case negativeWords[w]:
			neg++
			score.Keywords = append(score.Keywords, w)
		}
	}
	score.Positive = float64(pos) / float64(len(tokens))
	score.Negative = float64(neg) / float64(len(tokens))
	score.Neutral = 1 - score.Positive - score.Negative
	return score
}

// ComputeSentiment aggregates text-answer sentiment per question and overall.
// Only free-text answers longer than two words participate.
func ComputeSentiment(history []*models.SurveyResponse) *models.SentimentReport {
	type accumulator struct {
		positive, negative, neutral float64
		total                       int
		keywords                    map[string]int
	}
	byQuestion := map[string]*accumulator{}

	for _, resp := range history {
		for _, qr := range resp.Responses {
			text, ok := qr.Answer.StringValue()
			if !ok || len(strings.Fields(text)) <= 2 {
				continue
			}
			acc := byQuestion[qr.QuestionID]
			if acc == nil {
				acc = &accumulator{keywords: map[string]int{}}
				byQuestion[qr.QuestionID] = acc
			}
			score := ScoreText(text)
			acc.positive += score.Positive
			acc.negative += score.Negative
			acc.neutral += score.Neutral
			acc.total++
			for _, kw := range score.Keywords {
				acc.keywords[kw]++
			}
		}
	}

	report := &models.SentimentReport{
		SentimentByQuestion: map[string]*models.QuestionSentiment{},
	}
	for questionID, acc := range byQuestion {
		qs := &models.QuestionSentiment{Total: acc.total, Keywords: []models.KeywordCount{}}
		if acc.total > 0 {
			qs.Positive = acc.positive / float64(acc.total)
			qs.Negative = acc.negative / float64(acc.total)
			qs.Neutral = acc.neutral / float64(acc.total)
		}
		for kw, count := range acc.keywords {
			qs.Keywords = append(qs.Keywords, models.KeywordCount{Keyword: kw, Count: count})
		}
		sort.Slice(qs.Keywords, func(i, j int) bool {
			if qs.Keywords[i].Count != qs.Keywords[j].Count {
				return qs.Keywords[i].Count > qs.Keywords[j].Count
			}
			return qs.Keywords[i].Keyword < qs.Keywords[j].Keyword
		})
		if len(qs.Keywords) > 10 {
			qs.Keywords = qs.Keywords[:10]
		}
		report.SentimentByQuestion[questionID] = qs

		report.OverallSentiment.Positive += qs.Positive
		report.OverallSentiment.Negative += qs.Negative
		report.OverallSentiment.Neutral += qs.Neutral
		report.OverallSentiment.Total++
	}
	if n := report.OverallSentiment.Total; n > 0 {
		report.OverallSentiment.Positive /= float64(n)
		report.OverallSentiment.Negative /= float64(n)
		report.OverallSentiment.Neutral /= float64(n)
	}
	return report
}
