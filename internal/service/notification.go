package service

import (
	"html"
	"strings"
	"time"

	"github.com/banddevs/backend/internal/model"
)

const receivedAtLayout = "January 2, 2006 at 03:04 PM"

// RenderNotification builds the HTML body of the "new contact message" email.
// Company and Service rows are included only when set. All user input is escaped.
func RenderNotification(msg *model.ContactMessage, receivedAt time.Time) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>New Contact Form Submission</title>
</head>
<body style="margin: 0; padding: 0; background-color: #f8fafc; font-family: 'Inter', -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;">
  <div style="max-width: 600px; margin: 40px auto; padding: 20px;">
    <div style="background: #10b981; color: white; padding: 30px; border-radius: 8px 8px 0 0; text-align: center;">
      <h1 style="margin: 0; font-size: 24px; font-weight: 600;">New Contact Message</h1>
      <p style="margin: 8px 0 0 0; font-size: 16px; opacity: 0.9;">BandDevs Contact Form</p>
    </div>
    <div style="background: white; padding: 30px; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb;">
      <div style="margin-bottom: 30px;">
        <h2 style="color: #1f2937; margin: 0 0 20px 0; font-size: 18px; font-weight: 600;">Contact Information</h2>
        <div style="background: #f9fafb; padding: 20px; border-radius: 6px; border: 1px solid #e5e7eb;">
`)
	writeField(&b, "Name", msg.Name)
	writeField(&b, "Email", msg.Email)
	if msg.Company != "" {
		writeField(&b, "Company", msg.Company)
	}
	if msg.Service != "" {
		writeField(&b, "Service", msg.Service)
	}
	b.WriteString(`        </div>
      </div>
      <div style="margin-bottom: 30px;">
        <h2 style="color: #1f2937; margin: 0 0 15px 0; font-size: 18px; font-weight: 600;">Message</h2>
        <div style="background: #f9fafb; padding: 20px; border-radius: 6px; border: 1px solid #e5e7eb; border-left: 4px solid #10b981;">
          <p style="margin: 0; color: #374151; line-height: 1.6; white-space: pre-wrap;">`)
	b.WriteString(html.EscapeString(msg.Message))
	b.WriteString(`</p>
        </div>
      </div>
      <div style="text-align: center; padding-top: 20px; border-top: 1px solid #e5e7eb;">
        <p style="margin: 0; color: #6b7280; font-size: 14px;">Message received: `)
	b.WriteString(receivedAt.Format(receivedAtLayout))
	b.WriteString(`</p>
        <p style="margin: 10px 0 0 0; color: #9ca3af; font-size: 12px;">BandDevs Contact Form</p>
      </div>
    </div>
  </div>
</body>
</html>
`)
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString(`          <div style="margin-bottom: 15px;">
            <strong style="color: #374151; display: block; margin-bottom: 4px;">`)
	b.WriteString(label)
	b.WriteString(`:</strong>
            <span style="color: #1f2937;">`)
	b.WriteString(html.EscapeString(value))
	b.WriteString(`</span>
          </div>
`)
}
