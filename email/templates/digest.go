// Package templates provides the analytics digest email content.
package templates

import (
	"fmt"
	"html"
	"strings"
)

// SurveyDigest is one survey's row in the digest table.
type SurveyDigest struct {
	Title          string
	Views          int
	Completions    int
	CompletionRate float64
	NewResponses   int
}

type DigestProps struct {
	ShopDomain string
	Frequency  string // daily|weekly|monthly
	Surveys    []SurveyDigest
}

func GetParagraph(text string) string {
	return fmt.Sprintf(`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">%s</p>`, text)
}

func GetDigestContent(props DigestProps) string {
	frequency := props.Frequency
	if frequency == "" {
		frequency = "weekly"
	}

	var b strings.Builder
	b.WriteString(GetParagraph(fmt.Sprintf("Here is the %s survey summary for <strong>%s</strong>.",
		html.EscapeString(frequency), html.EscapeString(props.ShopDomain))))

	if len(props.Surveys) == 0 {
		b.WriteString(GetParagraph("No survey activity in this period."))
		return b.String()
	}

	b.WriteString(`<table role="presentation" border="0" cellpadding="8" cellspacing="0" style="border-collapse: collapse; width: 100%; font-family: Helvetica, sans-serif; font-size: 14px;">`)
	b.WriteString(`<tr style="border-bottom: 2px solid #eaebed; text-align: left;">` +
		`<th>Survey</th><th>Views</th><th>Completions</th><th>Rate</th><th>New</th></tr>`)
	for _, s := range props.Surveys {
		fmt.Fprintf(&b, `<tr style="border-bottom: 1px solid #eaebed;">`+
			`<td>%s</td><td>%d</td><td>%d</td><td>%.0f%%</td><td>%d</td></tr>`,
			html.EscapeString(s.Title), s.Views, s.Completions, s.CompletionRate*100, s.NewResponses)
	}
	b.WriteString(`</table>`)
	return b.String()
}
