package email

import (
	"fmt"
	"html"
	"strings"

	"birthdays/internal/config"
	"birthdays/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #db2777; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #fdf2f8; padding: 20px; border: 1px solid #fbcfe8; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .button { display: inline-block; background: #db2777; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; margin: 10px 0; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        table { width: 100%%; border-collapse: collapse; }
        td, th { text-align: left; padding: 6px 8px; border-bottom: 1px solid #e5e7eb; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// submitterLine describes who sent a submission, if they said.
func submitterLine(sub *models.Submission) string {
	name := deref(sub.SubmitterName)
	email := deref(sub.SubmitterEmail)
	switch {
	case name != "" && email != "":
		return fmt.Sprintf("%s (%s)", name, email)
	case name != "":
		return name
	case email != "":
		return email
	default:
		return "Anonymous"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NewSubmission generates the immediate notification for a link owner.
func (t *Templates) NewSubmission(link *models.SharingLink, sub *models.Submission) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] New birthday submitted: %s", t.cfg.SiteTitle, sub.Name)

	linkLabel := "your sharing link"
	if link.Description != nil {
		linkLabel = *link.Description
	}

	optionalHTML := ""
	optionalText := ""
	if sub.Category != nil {
		optionalHTML += fmt.Sprintf(`<p><span class="label">Category:</span> %s</p>`, html.EscapeString(*sub.Category))
		optionalText += fmt.Sprintf("Category: %s\n", *sub.Category)
	}
	if sub.Relationship != nil {
		optionalHTML += fmt.Sprintf(`<p><span class="label">Relationship:</span> %s</p>`, html.EscapeString(*sub.Relationship))
		optionalText += fmt.Sprintf("Relationship: %s\n", *sub.Relationship)
	}
	if sub.Notes != nil {
		optionalHTML += fmt.Sprintf(`<p><span class="label">Notes:</span> %s</p>`, html.EscapeString(*sub.Notes))
		optionalText += fmt.Sprintf("Notes: %s\n", *sub.Notes)
	}

	content := fmt.Sprintf(`
        <p>Someone added a birthday through %s. It is waiting for your review.</p>

        <div class="info-box">
            <p><span class="label">Name:</span> %s</p>
            <p><span class="label">Date:</span> %s</p>
            %s
            <p><span class="label">Submitted by:</span> %s</p>
        </div>

        <p style="text-align: center;">
            <a href="%s" class="button">Review submissions</a>
        </p>
    `,
		html.EscapeString(linkLabel),
		html.EscapeString(sub.Name),
		sub.Date.String(),
		optionalHTML,
		html.EscapeString(submitterLine(sub)),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`New birthday submitted through %s

Name: %s
Date: %s
%sSubmitted by: %s

Review at: %s

--
%s
%s`,
		linkLabel,
		sub.Name,
		sub.Date.String(),
		optionalText,
		submitterLine(sub),
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}

// SummaryDigest generates one email listing every submission queued for an
// owner since the last digest.
func (t *Templates) SummaryDigest(owner *models.User, subs []models.Submission) (subject, htmlBody, textBody string) {
	noun := "birthdays"
	if len(subs) == 1 {
		noun = "birthday"
	}
	subject = fmt.Sprintf("[%s] %d new %s waiting for review", t.cfg.SiteTitle, len(subs), noun)

	var rows, lines strings.Builder
	for i := range subs {
		sub := &subs[i]
		fmt.Fprintf(&rows, `<tr><td>%s</td><td>%s</td><td>%s</td></tr>`,
			html.EscapeString(sub.Name),
			sub.Date.String(),
			html.EscapeString(submitterLine(sub)),
		)
		fmt.Fprintf(&lines, "- %s, %s (from %s)\n", sub.Name, sub.Date.String(), submitterLine(sub))
	}

	content := fmt.Sprintf(`
        <p>Hi %s, here are the birthdays shared with you since your last summary.</p>

        <div class="info-box">
            <table>
                <tr><th>Name</th><th>Date</th><th>From</th></tr>
                %s
            </table>
        </div>

        <p style="text-align: center;">
            <a href="%s" class="button">Review submissions</a>
        </p>
    `,
		html.EscapeString(owner.DisplayName()),
		rows.String(),
		t.cfg.BaseURL,
	)

	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf(`Hi %s,

%d new %s waiting for review:

%s
Review at: %s

--
%s
%s`,
		owner.DisplayName(),
		len(subs),
		noun,
		lines.String(),
		t.cfg.BaseURL,
		t.cfg.SiteTitle,
		t.cfg.BaseURL,
	)

	return
}
