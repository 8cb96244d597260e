package mailer

import (
	"fmt"
	"html"
	"time"
)

// AssignmentEmailData fills the assignment notification template.
type AssignmentEmailData struct {
	ComplaintNumber string
	Subject         string
	Description     string
	Priority        string
	AssignedTo      string
	DueDate         string
	ComplaintURL    string
}

var priorityColors = map[string]string{
	"Urgent": "#ef4444",
	"High":   "#f97316",
	"Medium": "#eab308",
	"Low":    "#22c55e",
}

// RenderAssignmentEmail builds the HTML body sent to the operations mailbox
// and the new assignee when a complaint changes hands.
func RenderAssignmentEmail(data AssignmentEmailData) string {
	color, ok := priorityColors[data.Priority]
	if !ok {
		color = "#6366f1"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #1e293b; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #f8fafc; padding: 20px; border-radius: 0 0 8px 8px; }
    .badge { display: inline-block; padding: 4px 12px; border-radius: 4px; font-size: 12px; font-weight: 600; background: %s; color: white; }
    .field { margin: 12px 0; }
    .label { color: #64748b; font-size: 12px; text-transform: uppercase; font-weight: 600; }
    .value { color: #1e293b; font-size: 14px; margin-top: 4px; }
    .button { display: inline-block; background: #3b82f6; color: white; padding: 10px 20px; border-radius: 6px; text-decoration: none; margin-top: 20px; }
    .footer { color: #64748b; font-size: 12px; margin-top: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h2 style="margin: 0;">New Complaint Assignment</h2>
      <p style="margin: 8px 0 0 0; opacity: 0.9;">Complaint #%s</p>
    </div>
    <div class="content">
      <p>Hi %s,</p>
      <p>A new complaint has been assigned to you.</p>
      <div class="field">
        <div class="label">Subject</div>
        <div class="value">%s</div>
      </div>
      <div class="field">
        <div class="label">Description</div>
        <div class="value">%s</div>
      </div>
      <div class="field">
        <div class="label">Priority</div>
        <div class="value"><span class="badge">%s</span></div>
      </div>
      <div class="field">
        <div class="label">Due Date</div>
        <div class="value">%s</div>
      </div>
      <a href="%s" class="button">View Complaint</a>
      <div class="footer">
        <p>This is an automated email. Please do not reply to this message.</p>
        <p>&copy; %d Complaint Management System. All rights reserved.</p>
      </div>
    </div>
  </div>
</body>
</html>`,
		color,
		html.EscapeString(data.ComplaintNumber),
		html.EscapeString(data.AssignedTo),
		html.EscapeString(data.Subject),
		html.EscapeString(data.Description),
		html.EscapeString(data.Priority),
		html.EscapeString(data.DueDate),
		data.ComplaintURL,
		time.Now().Year())
}

// CommentEmailData fills the comment notification template.
type CommentEmailData struct {
	ComplaintNumber string
	Subject         string
	AuthorEmail     string
	Message         string
	IsInternal      bool
	ComplaintURL    string
}

// RenderCommentEmail builds the HTML body sent to the operations mailbox
// whenever a comment lands, internal or public.
func RenderCommentEmail(data CommentEmailData) string {
	visibility := "Public"
	if data.IsInternal {
		visibility = "Internal"
	}

	return fmt.Sprintf(`<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; color: #0f172a;">
  <h2 style="margin: 0 0 8px 0;">New comment on complaint #%s</h2>
  <p style="margin: 0 0 12px 0;">%s comment by %s</p>
  <div style="padding: 12px; background: #f8fafc; border-radius: 8px; border: 1px solid #e2e8f0;">
    <div style="font-weight: 600; margin-bottom: 6px;">Message:</div>
    <div style="white-space: pre-wrap;">%s</div>
  </div>
  <p style="margin: 12px 0 0 0;">Subject: %s</p>
  <a href="%s" style="display: inline-block; margin-top: 12px; padding: 10px 16px; background: #2563eb; color: white; border-radius: 6px; text-decoration: none;">View Complaint</a>
</div>`,
		html.EscapeString(data.ComplaintNumber),
		visibility,
		html.EscapeString(data.AuthorEmail),
		html.EscapeString(data.Message),
		html.EscapeString(data.Subject),
		data.ComplaintURL)
}
