package email

import (
	"fmt"
	"html"
	"strings"
)

// BuildHTMLBody converts plain text to HTML by turning newlines into <br/>
// tags and optionally appending the user's HTML signature. The signature is
// separated by a blank line unless the body already ends on a line break.
func BuildHTMLBody(plainText, signatureHTML string, appendSignature bool) string {
	body := strings.ReplaceAll(plainText, "\n", "<br/>")
	signature := strings.TrimSpace(signatureHTML)
	if appendSignature && signature != "" {
		sep := "<br/><br/>"
		if strings.HasSuffix(body, "<br/>") {
			sep = ""
		}
		body = body + sep + signature
	}
	return body
}

// CalendlyLink renders a scheduling URL as the anchor text inserted in place
// of the calendly template token.
func CalendlyLink(url string) string {
	return fmt.Sprintf(`<a href="%s">here is my Calendly</a>`, html.EscapeString(url))
}
