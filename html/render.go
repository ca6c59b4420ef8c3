package html

import (
	"fmt"
	stdhtml "html"
	"strings"
)

// RenderBlock serializes a compiled form to the HTML fragment embedded in a
// storefront page. The structure mirrors the widget markup the checkout
// extension renders natively.
func RenderBlock(form *RenderedForm) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<div id="%s" class="compra-survey-container">`, esc(form.ContainerID))
	b.WriteString(`<div class="survey-header">`)
	fmt.Fprintf(&b, `<h2 class="survey-title">%s</h2>`, esc(form.Title))
	if form.Description != "" {
		fmt.Fprintf(&b, `<p class="survey-description">%s</p>`, esc(form.Description))
	}
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<form id="%s" class="survey-form">`, esc(form.FormID))
	for i := range form.Fields {
		renderField(&b, &form.Fields[i])
	}

	b.WriteString(`<div class="survey-actions">`)
	b.WriteString(`<button type="submit" class="survey-submit-btn">`)
	fmt.Fprintf(&b, `<span class="btn-text">%s</span>`, esc(form.Submit.SubmitLabel))
	b.WriteString(`<span class="btn-loading hidden">` +
		`<svg class="spinner" viewBox="0 0 24 24">` +
		`<circle cx="12" cy="12" r="10" fill="none" stroke="currentColor" stroke-width="4" />` +
		`</svg></span>`)
	b.WriteString(`</button></div>`)

	b.WriteString(`</form></div>`)
	return b.String()
}

func renderField(b *strings.Builder, f *Field) {
	fmt.Fprintf(b, `<div class="survey-question" data-question-type="%s">`, f.Kind)
	fmt.Fprintf(b, `<label class="question-label">%s`, esc(f.Label))
	if f.Required {
		b.WriteString(`<span class="required">*</span>`)
	}
	b.WriteString(`</label>`)

	switch f.Kind {
	case FieldChoiceList:
		renderChoiceList(b, f)
	case FieldTextInput:
		renderTextInput(b, f)
	case FieldRatingScale:
		renderRatingScale(b, f)
	case FieldDropdown:
		renderDropdown(b, f)
	case FieldImageChoice:
		renderImageChoice(b, f)
	default:
		b.WriteString(`<p class="error-message">Unsupported question type</p>`)
	}
	b.WriteString(`</div>`)
}

func renderChoiceList(b *strings.Builder, f *Field) {
	inputType := "radio"
	if f.MultiSelect {
		inputType = "checkbox"
	}
	b.WriteString(`<div class="options-grid">`)
	for i, opt := range f.Options {
		id := fmt.Sprintf("%s_opt%d", f.Name, i)
		fmt.Fprintf(b, `<div class="option">`+
			`<input type="%s" name="%s" value="%s" id="%s"%s>`+
			`<label class="option-label" for="%s">%s</label>`+
			`</div>`,
			inputType, esc(f.Name), esc(opt.Value), id, requiredAttr(f), id, esc(opt.Label))
	}
	b.WriteString(`</div>`)
}

func renderTextInput(b *strings.Builder, f *Field) {
	maxLength := ""
	if f.MaxLength > 0 {
		maxLength = fmt.Sprintf(` maxlength="%d"`, f.MaxLength)
	}
	fmt.Fprintf(b, `<div class="text-input-wrapper">`+
		`<textarea name="%s" class="text-input" placeholder="%s" rows="3"%s%s></textarea>`+
		`<div class="text-input-border"></div>`+
		`</div>`,
		esc(f.Name), esc(f.Placeholder), maxLength, requiredAttr(f))
}

func renderRatingScale(b *strings.Builder, f *Field) {
	b.WriteString(`<div class="rating-container">`)
	for i, opt := range f.Options {
		id := fmt.Sprintf("%s_rating%d", f.Name, i)
		fmt.Fprintf(b, `<div class="rating-option">`+
			`<input type="radio" name="%s" value="%s" id="%s"%s>`+
			`<label class="rating-label" for="%s">`+
			`<span class="rating-number">%s</span>`+
			`<span class="rating-star">&#9733;</span>`+
			`</label></div>`,
			esc(f.Name), esc(opt.Value), id, requiredAttr(f), id, esc(opt.Label))
	}
	b.WriteString(`</div>`)
}

func renderDropdown(b *strings.Builder, f *Field) {
	fmt.Fprintf(b, `<select name="%s" class="survey-select"%s>`, esc(f.Name), requiredAttr(f))
	b.WriteString(`<option value="" disabled selected>Select an option</option>`)
	for _, opt := range f.Options {
		fmt.Fprintf(b, `<option value="%s">%s</option>`, esc(opt.Value), esc(opt.Label))
	}
	b.WriteString(`</select>`)
}

func renderImageChoice(b *strings.Builder, f *Field) {
	b.WriteString(`<div class="image-options-grid">`)
	for i, opt := range f.Options {
		id := fmt.Sprintf("%s_img%d", f.Name, i)
		fmt.Fprintf(b, `<div class="image-option">`+
			`<input type="radio" name="%s" value="%s" id="%s"%s>`+
			`<label class="image-option-label" for="%s">`+
			`<img src="%s" alt="%s">`+
			`<span>%s</span>`+
			`</label></div>`,
			esc(f.Name), esc(opt.Value), id, requiredAttr(f), id,
			esc(opt.ImageURL), esc(opt.Label), esc(opt.Label))
	}
	b.WriteString(`</div>`)
}

func requiredAttr(f *Field) string {
	if f.Required {
		return " required"
	}
	return ""
}

func esc(s string) string {
	return stdhtml.EscapeString(s)
}
