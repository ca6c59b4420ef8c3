package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// AnswerKind discriminates the closed set of answer value shapes.
type AnswerKind int

const (
	AnswerNull AnswerKind = iota
	AnswerText
	AnswerNumber
	AnswerChoice
	AnswerMultiChoice
)

// Answer is a tagged union over the values a shopper can submit. The wire
// format is the raw JSON value (null, string, number, or string array); the
// kind is recovered on unmarshal and refined against the parent question by
// Normalize.
type Answer struct {
	Kind   AnswerKind
	Text   string
	Number float64
	Choice string
	Multi  []string
}

// TextAnswer builds a free-text answer.
func TextAnswer(s string) Answer { return Answer{Kind: AnswerText, Text: s} }

// NumberAnswer builds a numeric answer.
func NumberAnswer(n float64) Answer { return Answer{Kind: AnswerNumber, Number: n} }

// ChoiceAnswer builds a single-choice answer.
func ChoiceAnswer(s string) Answer { return Answer{Kind: AnswerChoice, Choice: s} }

// MultiChoiceAnswer builds a multi-select answer.
func MultiChoiceAnswer(vs []string) Answer { return Answer{Kind: AnswerMultiChoice, Multi: vs} }

// NullAnswer is the skipped-question value.
func NullAnswer() Answer { return Answer{Kind: AnswerNull} }

// IsNull reports whether the question was skipped. A multi-select with zero
// selections counts as skipped.
func (a Answer) IsNull() bool {
	return a.Kind == AnswerNull || (a.Kind == AnswerMultiChoice && len(a.Multi) == 0)
}

// StringValue returns the textual payload for Text and Choice answers.
func (a Answer) StringValue() (string, bool) {
	switch a.Kind {
	case AnswerText:
		return a.Text, true
	case AnswerChoice:
		return a.Choice, true
	}
	return "", false
}

// NumericValue maps the answer onto the number line: numeric answers pass
// through, categorical answers map to their index in the question's option
// list. Answers outside the option list are excluded (ok == false), never
// coerced to a default.
func (a Answer) NumericValue(options []string) (float64, bool) {
	switch a.Kind {
	case AnswerNumber:
		return a.Number, true
	case AnswerText, AnswerChoice:
		s, _ := a.StringValue()
		for i, opt := range options {
			if opt == s {
				return float64(i), true
			}
		}
	}
	return 0, false
}

// DistributionKey renders the answer as the key used in per-question response
// distributions.
func (a Answer) DistributionKey() string {
	switch a.Kind {
	case AnswerText:
		return a.Text
	case AnswerChoice:
		return a.Choice
	case AnswerNumber:
		return strconv.FormatFloat(a.Number, 'f', -1, 64)
	case AnswerMultiChoice:
		return strings.Join(a.Multi, ", ")
	}
	return ""
}

// Normalize refines the decoded kind against the parent question: strings
// submitted for choice-typed questions become Choice, numeric strings for
// rating scales become Number, and single values for checkbox questions
// become single-element MultiChoice.
func (a Answer) Normalize(q *Question) Answer {
	if q == nil || a.IsNull() {
		return a
	}
	switch q.Type {
	case QuestionMultipleChoice, QuestionSelect, QuestionImageRadio:
		if a.Kind == AnswerText {
			return ChoiceAnswer(a.Text)
		}
	case QuestionCheckbox:
		if s, ok := a.StringValue(); ok {
			return MultiChoiceAnswer([]string{s})
		}
	case QuestionRating, QuestionNPS:
		if s, ok := a.StringValue(); ok {
			if n, err := strconv.ParseFloat(s, 64); err == nil {
				return NumberAnswer(n)
			}
		}
	}
	return a
}

// MarshalJSON writes the raw union value.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AnswerNull:
		return []byte("null"), nil
	case AnswerText:
		return json.Marshal(a.Text)
	case AnswerNumber:
		return json.Marshal(a.Number)
	case AnswerChoice:
		return json.Marshal(a.Choice)
	case AnswerMultiChoice:
		return json.Marshal(a.Multi)
	}
	return nil, fmt.Errorf("unknown answer kind %d", a.Kind)
}

// UnmarshalJSON recovers the kind from the JSON shape. Strings decode as Text
// until Normalize refines them against the question type.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*a = NullAnswer()
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*a = TextAnswer(s)
	case '[':
		var vs []string
		if err := json.Unmarshal(trimmed, &vs); err != nil {
			return err
		}
		*a = MultiChoiceAnswer(vs)
	default:
		var n float64
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return fmt.Errorf("unsupported answer value %s: %w", trimmed, err)
		}
		*a = NumberAnswer(n)
	}
	return nil
}
