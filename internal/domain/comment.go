package domain

import "time"

// Comment captures discussion on a complaint. Internal comments are hidden
// from customer-facing views by convention.
type Comment struct {
	ID          string
	ComplaintID string
	UserID      string
	Content     string
	IsInternal  bool
	CreatedAt   time.Time
}
