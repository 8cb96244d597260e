// Package mailer delivers templated notification emails through one of the
// configured providers. All sends are best-effort: failures are logged and
// reported as false, never returned as errors and never retried.
package mailer

import "context"

// Notification is a rendered email ready for delivery.
type Notification struct {
	To      string
	Subject string
	HTML    string
}

// Sender accepts a notification and reports whether a provider took it.
type Sender interface {
	Send(ctx context.Context, n Notification) bool
}
