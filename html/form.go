// Package html compiles a survey document into a renderable form
// description, then serializes it to embeddable HTML, CSS, and script. The
// intermediate RenderedForm keeps the schema logic independent of any one
// rendering target.
package html

import (
	"fmt"
	"math"
	"strconv"

	"github.com/compra-app/compra-go/models"
)

// FieldKind discriminates the render descriptors a question can compile to.
type FieldKind string

const (
	FieldChoiceList  FieldKind = "choice_list"
	FieldTextInput   FieldKind = "text_input"
	FieldRatingScale FieldKind = "rating_scale"
	FieldDropdown    FieldKind = "dropdown"
	FieldImageChoice FieldKind = "image_choice"
	FieldUnsupported FieldKind = "unsupported"
)

// FieldOption is one selectable value.
type FieldOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Field is the render descriptor for one question.
type Field struct {
	QuestionID  string        `json:"questionId"`
	Name        string        `json:"name"`
	Label       string        `json:"label"`
	Kind        FieldKind     `json:"kind"`
	Options     []FieldOption `json:"options,omitempty"`
	MultiSelect bool          `json:"multiSelect,omitempty"`
	AutoAdvance bool          `json:"autoAdvance,omitempty"`
	Required    bool          `json:"required,omitempty"`
	ScaleMin    int           `json:"scaleMin,omitempty"`
	ScaleMax    int           `json:"scaleMax,omitempty"`
	MaxLength   int           `json:"maxLength,omitempty"`
	Placeholder string        `json:"placeholder,omitempty"`
}

// Submit describes the submission handler the serializers emit.
type Submit struct {
	URL               string `json:"url"`
	Method            string `json:"method"`
	SurveyID          string `json:"surveyId"`
	SubmitLabel       string `json:"submitLabel"`
	ErrorLabel        string `json:"errorLabel"`
	SuccessTitle      string `json:"successTitle"`
	ErrorRevertMillis int    `json:"errorRevertMillis"`
}

// RenderedForm is the compiled form: ordered field descriptors plus a submit
// descriptor. Compilation is deterministic; the same survey document always
// yields the same structure.
type RenderedForm struct {
	SurveyID    string             `json:"surveyId"`
	ContainerID string             `json:"containerId"`
	FormID      string             `json:"formId"`
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Style       models.SurveyStyle `json:"style"`
	Fields      []Field            `json:"fields"`
	Submit      Submit             `json:"submit"`
}

const (
	defaultRatingMax  = 5
	defaultNPSMax     = 10
	errorRevertMillis = 3000
)

// Compile builds the render description for a survey. submitURL is the
// absolute response-submission endpoint the emitted form posts to.
func Compile(survey *models.Survey, submitURL string) *RenderedForm {
	form := &RenderedForm{
		SurveyID:    survey.ID,
		ContainerID: "survey-" + survey.ID,
		FormID:      "survey-form-" + survey.ID,
		Title:       survey.Title,
		Description: survey.Description,
		Style:       survey.Style,
		Fields:      make([]Field, len(survey.Questions)),
		Submit: Submit{
			URL:               submitURL,
			Method:            "POST",
			SurveyID:          survey.ID,
			SubmitLabel:       "Submit Survey",
			ErrorLabel:        "Error - Try Again",
			SuccessTitle:      "Thank you for your feedback!",
			ErrorRevertMillis: errorRevertMillis,
		},
	}
	for i := range survey.Questions {
		form.Fields[i] = compileQuestion(&survey.Questions[i], i)
	}
	return form
}

func compileQuestion(q *models.Question, index int) Field {
	f := Field{
		QuestionID:  q.ID,
		Name:        fmt.Sprintf("question_%d", index),
		Label:       q.Text,
		Kind:        FieldUnsupported,
		Required:    q.Required,
		MaxLength:   q.MaxLength,
		Placeholder: q.Placeholder,
	}

	switch q.Type {
	case models.QuestionMultipleChoice:
		f.Kind = FieldChoiceList
		f.AutoAdvance = true
		f.Options = textOptions(q.Options)
	case models.QuestionCheckbox:
		f.Kind = FieldChoiceList
		f.MultiSelect = true
		f.Options = textOptions(q.Options)
	case models.QuestionText:
		f.Kind = FieldTextInput
		if f.Placeholder == "" {
			f.Placeholder = "Type your answer here..."
		}
	case models.QuestionRating:
		f.Kind = FieldRatingScale
		f.AutoAdvance = true
		f.ScaleMin = 1
		f.ScaleMax = defaultRatingMax
		f.Options = scaleOptions(1, defaultRatingMax)
	case models.QuestionNPS:
		f.Kind = FieldRatingScale
		f.AutoAdvance = true
		f.ScaleMin = 0
		f.ScaleMax = defaultNPSMax
		f.Options = scaleOptions(0, defaultNPSMax)
	case models.QuestionSelect:
		f.Kind = FieldDropdown
		f.AutoAdvance = true
		f.Options = textOptions(q.Options)
	case models.QuestionImageRadio:
		f.Kind = FieldImageChoice
		f.AutoAdvance = true
		for _, opt := range q.ImageOptions {
			f.Options = append(f.Options, FieldOption{
				Value:    opt.Label,
				Label:    opt.Label,
				ImageURL: opt.ImageURL,
			})
		}
	}
	return f
}

func textOptions(options []string) []FieldOption {
	out := make([]FieldOption, len(options))
	for i, opt := range options {
		out[i] = FieldOption{Value: opt, Label: opt}
	}
	return out
}

func scaleOptions(min, max int) []FieldOption {
	out := make([]FieldOption, 0, max-min+1)
	for v := min; v <= max; v++ {
		s := strconv.Itoa(v)
		out = append(out, FieldOption{Value: s, Label: s})
	}
	return out
}

// Progress returns the integer percentage shown after answering the question
// at currentIndex, rounded to the nearest whole number.
func Progress(currentIndex, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(currentIndex+1) / float64(total) * 100))
}

// NextIndex implements the auto-advance step: it returns the next question
// index and whether the survey should submit instead because the current
// question is the last one.
func NextIndex(currentIndex, total int) (int, bool) {
	if currentIndex >= total-1 {
		return currentIndex, true
	}
	return currentIndex + 1, false
}
