// Package email renders and delivers the verification-code emails.
package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// VerificationParams is passed as data when executing the verification
// email template.
type VerificationParams struct {
	SiteName string
	Code     string
	Expiry   time.Duration
}

const verificationTemplate = `<html>
<body>
<p>Hi,</p>
<p>This is your verification code for {{.SiteName}}:</p>
<p style="font-size: 2em; letter-spacing: 0.2em;"><strong>{{.Code}}</strong></p>
<p>The code is valid for {{.Minutes}} minutes.</p>
<p>If you did not request a code, you can ignore this email.</p>
</body>
</html>
`

var verificationTmpl = template.Must(template.New("verification").Parse(verificationTemplate))

// RenderVerification produces the subject and HTML body for a
// verification-code email.
func RenderVerification(p VerificationParams) (subject, body string, err error) {
	data := struct {
		VerificationParams
		Minutes int
	}{p, int(p.Expiry.Minutes())}

	var sb strings.Builder
	if err := verificationTmpl.Execute(&sb, data); err != nil {
		return "", "", fmt.Errorf("execute template: %w", err)
	}

	subject = fmt.Sprintf("Your %s verification code", p.SiteName)
	return subject, sb.String(), nil
}
