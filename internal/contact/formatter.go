package contact

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// SubjectPrefix starts every notification subject; the sender's name follows it.
const SubjectPrefix = "New Portfolio Message from "

// Notification is the message sent to the site owner for one submission.
type Notification struct {
	SenderName  string
	SenderEmail string
	Subject     string
	HTMLBody    string
	TextBody    string
	Recipient   string
}

// html/template escapes every interpolated value for its context, so markup
// in a submission is rendered as text in the owner's mail client.
var notificationHTML = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>New Portfolio Message</title>
</head>
<body style="margin:0;padding:0;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,Helvetica,Arial,sans-serif;background-color:#f4f5f7;">
<table width="100%" cellpadding="0" cellspacing="0" style="background-color:#f4f5f7;padding:32px 0;">
<tr><td align="center">
<table width="560" cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;overflow:hidden;">
  <tr><td style="padding:24px 32px;background-color:#1a1a2e;">
    <h1 style="margin:0;font-size:20px;color:#ffffff;">New Portfolio Message</h1>
  </td></tr>
  <tr><td style="padding:24px 32px 8px;">
    <p style="margin:0 0 8px;font-size:15px;color:#4a4a68;"><strong>Name:</strong> {{.Name}}</p>
    <p style="margin:0;font-size:15px;color:#4a4a68;"><strong>Email:</strong> <a href="mailto:{{.Email}}" style="color:#6c63ff;">{{.Email}}</a></p>
  </td></tr>
  <tr><td style="padding:16px 32px 24px;">
    <div style="background-color:#f0f0ff;border-left:4px solid #6c63ff;border-radius:4px;padding:16px;font-size:15px;color:#1a1a2e;line-height:1.6;white-space:pre-wrap;">{{.Message}}</div>
  </td></tr>
  <tr><td style="padding:16px 32px;background-color:#f9f9fc;border-top:1px solid #eeeef2;">
    <p style="margin:0;font-size:12px;color:#aaaabc;text-align:center;">Sent from your portfolio contact form. Reply to this email to answer {{.Name}}.</p>
  </td></tr>
</table>
</td></tr>
</table>
</body>
</html>`))

var subjectSanitizer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Formatter renders notifications addressed to a fixed recipient.
type Formatter struct {
	recipient string
}

// NewFormatter returns a Formatter that addresses every notification to recipient.
func NewFormatter(recipient string) *Formatter {
	return &Formatter{recipient: recipient}
}

// Format builds the notification for s. The output depends only on s and
// the configured recipient.
func (f *Formatter) Format(s ValidatedSubmission) (Notification, error) {
	data := struct {
		Name    string
		Email   string
		Message string
	}{s.Name(), s.Email(), s.Message()}

	var html bytes.Buffer
	if err := notificationHTML.Execute(&html, data); err != nil {
		return Notification{}, fmt.Errorf("render notification: %w", err)
	}

	return Notification{
		SenderName:  s.Name(),
		SenderEmail: s.Email(),
		Subject:     SubjectPrefix + subjectSanitizer.Replace(s.Name()),
		HTMLBody:    html.String(),
		TextBody:    textBody(s),
		Recipient:   f.recipient,
	}, nil
}

func textBody(s ValidatedSubmission) string {
	return fmt.Sprintf(`New Portfolio Message

Name: %s
Email: %s

Message:
%s

--
Sent from your portfolio contact form.`, s.Name(), s.Email(), s.Message())
}
