package html

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/compra-app/compra-go/models"
)

func TestRenderBlockStructure(t *testing.T) {
	form := Compile(sampleSurvey(), "/submit")
	out := RenderBlock(form)

	assert.Contains(t, out, `id="survey-svy1"`)
	assert.Contains(t, out, `id="survey-form-svy1"`)
	assert.Contains(t, out, "Post-purchase feedback")
	assert.Contains(t, out, "Two quick questions")
	assert.Contains(t, out, `data-question-type="rating_scale"`)
	assert.Contains(t, out, `type="checkbox"`)
	assert.Contains(t, out, `<textarea name="question_2"`)
	assert.Contains(t, out, "Submit Survey")
}

func TestRenderBlockEscapesUserContent(t *testing.T) {
	survey := &models.Survey{
		ID:    "s",
		Title: `<script>alert("x")</script>`,
		Questions: []models.Question{
			{ID: "q1", Text: "a & b", Type: models.QuestionMultipleChoice, Options: []string{`"quoted"`}},
		},
	}
	out := RenderBlock(Compile(survey, "/submit"))

	assert.NotContains(t, out, `<script>alert`)
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "a &amp; b")
}

func TestRenderBlockUnsupportedPlaceholder(t *testing.T) {
	survey := &models.Survey{ID: "s", Questions: []models.Question{
		{ID: "q1", Text: "mystery", Type: "hologram"},
	}}
	out := RenderBlock(Compile(survey, "/submit"))

	assert.Contains(t, out, "Unsupported question type")
	assert.Contains(t, out, "mystery", "the question label still renders")
}

func TestRenderBlockRequiredMarker(t *testing.T) {
	form := Compile(sampleSurvey(), "/submit")
	out := RenderBlock(form)
	assert.Contains(t, out, `<span class="required">*</span>`)
	assert.Contains(t, out, " required>")
}

func TestStylesheetUsesStyleTokens(t *testing.T) {
	css := Stylesheet(models.SurveyStyle{
		PrimaryColor:    "#ff0000",
		BackgroundColor: "#fafafa",
		FontFamily:      "Inter",
		CustomCSS:       ".survey-title { text-transform: uppercase; }",
	})
	assert.Contains(t, css, "#ff0000")
	assert.Contains(t, css, "#fafafa")
	assert.Contains(t, css, "Inter")
	assert.Contains(t, css, "text-transform: uppercase")
}

func TestStylesheetDefaults(t *testing.T) {
	css := Stylesheet(models.SurveyStyle{})
	assert.Contains(t, css, defaultPrimaryColor)
	assert.Contains(t, css, defaultBackgroundColor)
}

func TestScriptIsSelfContained(t *testing.T) {
	form := Compile(sampleSurvey(), "https://example.com/api/survey-responses")
	script := Script(form)

	assert.True(t, strings.HasPrefix(script, "(function() {"))
	assert.Contains(t, script, "https://example.com/api/survey-responses")
	assert.Contains(t, script, "styleSheet.textContent")
	assert.Contains(t, script, "surveyContainer.innerHTML")
	assert.Contains(t, script, `"questionId":"q1"`)
}

func TestScriptGuardsDoubleSubmit(t *testing.T) {
	script := Script(Compile(sampleSurvey(), "/submit"))
	assert.Contains(t, script, "if (isSubmitting) { return; }")
	assert.Contains(t, script, "isSubmitting = true;")
}

func TestScriptRevertsAfterError(t *testing.T) {
	script := Script(Compile(sampleSurvey(), "/submit"))
	assert.Contains(t, script, "}, 3000);")
	assert.Contains(t, script, `"Error - Try Again"`)
	assert.Contains(t, script, "isSubmitting = false;")
}

func TestScriptIsDeterministic(t *testing.T) {
	a := Script(Compile(sampleSurvey(), "/submit"))
	b := Script(Compile(sampleSurvey(), "/submit"))
	assert.Equal(t, a, b)
}
