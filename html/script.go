package html

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Script serializes a compiled form into a self-contained embeddable script:
// inlined styles, inlined markup, and a submission handler posting answers
// keyed by question identity. The emitted handler guards against double
// submission and reverts to a re-submittable state after a failed POST.
func Script(form *RenderedForm) string {
	type fieldBinding struct {
		QuestionID string `json:"questionId"`
		Name       string `json:"name"`
		Multi      bool   `json:"multi"`
	}
	bindings := make([]fieldBinding, len(form.Fields))
	for i, f := range form.Fields {
		bindings[i] = fieldBinding{QuestionID: f.QuestionID, Name: f.Name, Multi: f.MultiSelect}
	}

	css := jsString(Stylesheet(form.Style))
	markup := jsString(RenderBlock(form))
	fields := jsValue(bindings)
	formID := jsString(form.FormID)
	submitURL := jsString(form.Submit.URL)
	surveyID := jsString(form.Submit.SurveyID)
	submitLabel := jsString(form.Submit.SubmitLabel)
	errorLabel := jsString(form.Submit.ErrorLabel)
	successTitle := jsString(form.Submit.SuccessTitle)
	primary := jsString(primaryColor(form))

	var b strings.Builder
	b.WriteString("(function() {\n")

	fmt.Fprintf(&b, `  var styleSheet = document.createElement("style");
  styleSheet.textContent = %s;
  document.head.appendChild(styleSheet);

  var surveyContainer = document.createElement("div");
  surveyContainer.innerHTML = %s;
  var insertionPoint = document.querySelector(".shopify-section-main-product") ||
    document.querySelector("main") ||
    document.body;
  insertionPoint.appendChild(surveyContainer);

`, css, markup)

	fmt.Fprintf(&b, `  var form = document.getElementById(%s);
  if (!form) { return; }
  var submitBtn = form.querySelector(".survey-submit-btn");
  var btnText = submitBtn.querySelector(".btn-text");
  var btnLoading = submitBtn.querySelector(".btn-loading");
  var fields = %s;
  var isSubmitting = false;
  var startedAt = Date.now();

  form.addEventListener("submit", function(e) {
    e.preventDefault();
    if (isSubmitting) { return; }
    isSubmitting = true;

    btnText.classList.add("hidden");
    btnLoading.classList.remove("hidden");
    submitBtn.disabled = true;

    var formData = new FormData(form);
    var responses = fields.map(function(field) {
      var answer;
      if (field.multi) {
        answer = formData.getAll(field.name);
      } else {
        answer = formData.get(field.name);
      }
      return { questionId: field.questionId, answer: answer || null };
    });

    fetch(%s, {
      method: "POST",
      headers: { "Content-Type": "application/json" },
      body: JSON.stringify({
        surveyId: %s,
        responses: responses,
        customerEmail: (window.Shopify && window.Shopify.customerEmail) || "",
        customerType: (window.Shopify && window.Shopify.customerType) || "new",
        totalTimeSpent: (Date.now() - startedAt) / 1000,
        metadata: {
          userAgent: navigator.userAgent,
          pageUrl: window.location.pathname
        }
      })
    }).then(function(response) {
      if (!response.ok) { throw new Error("Failed to submit survey"); }

      var successMessage = document.createElement("div");
      successMessage.className = "success-message";
      successMessage.innerHTML =
        '<div style="text-align: center; padding: 20px;">' +
        '<svg viewBox="0 0 24 24" width="48" height="48" style="margin: 0 auto 10px;">' +
        '<circle cx="12" cy="12" r="11" fill="' + %s + '" />' +
        '<path d="M7 13l3 3 7-7" stroke="white" stroke-width="2" fill="none" />' +
        '</svg>' +
        '<h3 style="color: #2c3e50; margin: 0 0 10px;">' + %s + '</h3>' +
        '</div>';
      form.replaceWith(successMessage);
    }).catch(function() {
      submitBtn.style.background = "#e74c3c";
      btnText.textContent = %s;
      btnText.classList.remove("hidden");
      btnLoading.classList.add("hidden");
      submitBtn.disabled = false;
      isSubmitting = false;

      setTimeout(function() {
        submitBtn.style.background = "";
        btnText.textContent = %s;
      }, %d);
    });
  });
`, formID, fields, submitURL, surveyID, primary, successTitle, errorLabel, submitLabel, form.Submit.ErrorRevertMillis)

	b.WriteString("})();\n")
	return b.String()
}

func primaryColor(form *RenderedForm) string {
	if form.Style.PrimaryColor != "" {
		return form.Style.PrimaryColor
	}
	return defaultPrimaryColor
}

// jsString renders s as a JavaScript string literal.
func jsString(s string) string {
	return jsValue(s)
}

func jsValue(v any) string {
	out, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(out)
}
