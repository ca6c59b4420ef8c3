package html

import (
	"fmt"
	"strings"

	"github.com/compra-app/compra-go/models"
)

const (
	defaultPrimaryColor    = "#008060"
	defaultBackgroundColor = "#ffffff"
	defaultFontFamily      = "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif"
)

// Stylesheet emits the inline CSS for a compiled form, resolving missing
// style tokens to the stock theme.
func Stylesheet(style models.SurveyStyle) string {
	primary := style.PrimaryColor
	if primary == "" {
		primary = defaultPrimaryColor
	}
	background := style.BackgroundColor
	if background == "" {
		background = defaultBackgroundColor
	}
	font := style.FontFamily
	if font == "" {
		font = defaultFontFamily
	}

	var b strings.Builder
	fmt.Fprintf(&b, `.compra-survey-container {
  font-family: %s;
  background: %s;
  border-radius: 8px;
  box-shadow: 0 2px 8px rgba(0, 0, 0, 0.08);
  margin: 20px auto;
  max-width: 560px;
  padding: 24px;
}
.survey-title { color: #2c3e50; font-size: 20px; margin: 0 0 4px; }
.survey-description { color: #6b7280; margin: 0 0 16px; }
.survey-question { margin-bottom: 20px; }
.question-label { display: block; font-weight: 600; margin-bottom: 8px; }
.question-label .required { color: #e74c3c; margin-left: 2px; }
.options-grid .option { margin-bottom: 6px; }
.option-label { margin-left: 8px; }
.text-input {
  border: 1px solid #d1d5db;
  border-radius: 6px;
  padding: 10px;
  width: 100%%;
}
.text-input:focus { border-color: %s; outline: none; }
.rating-container { display: flex; gap: 8px; }
.rating-option input { position: absolute; opacity: 0; }
.rating-label {
  align-items: center;
  border: 1px solid #d1d5db;
  border-radius: 6px;
  cursor: pointer;
  display: flex;
  flex-direction: column;
  padding: 8px 12px;
}
.rating-option input:checked + .rating-label {
  background: %s;
  border-color: %s;
  color: #fff;
}
.survey-select {
  border: 1px solid #d1d5db;
  border-radius: 6px;
  padding: 10px;
  width: 100%%;
}
.image-options-grid { display: flex; flex-wrap: wrap; gap: 12px; }
.image-option input { position: absolute; opacity: 0; }
.image-option-label { cursor: pointer; display: block; text-align: center; }
.image-option-label img {
  border: 2px solid transparent;
  border-radius: 6px;
  height: 72px;
  object-fit: cover;
  width: 72px;
}
.image-option input:checked + .image-option-label img { border-color: %s; }
.survey-submit-btn {
  background: %s;
  border: none;
  border-radius: 6px;
  color: #fff;
  cursor: pointer;
  font-size: 15px;
  padding: 12px 24px;
}
.survey-submit-btn:disabled { opacity: 0.7; }
.survey-submit-btn .hidden { display: none; }
.spinner { animation: compra-spin 1s linear infinite; height: 18px; width: 18px; }
@keyframes compra-spin { to { transform: rotate(360deg); } }
.error-message { color: #e74c3c; }
.success-message { text-align: center; }
`, font, background, primary, primary, primary, primary, primary)

	if style.CustomCSS != "" {
		b.WriteString("\n")
		b.WriteString(style.CustomCSS)
		b.WriteString("\n")
	}
	return b.String()
}
