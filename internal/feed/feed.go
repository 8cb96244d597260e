// Package feed maintains a capped Redis list of recent complaint activity
// backing the dashboard notifications widget. Pushes are best-effort; the
// read side falls back to the database when Redis is unavailable.
package feed

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/events"
	"github.com/spec-kit/complaint-console/internal/persistence"
)

const (
	feedKey = "complaints:activity_feed"
	feedCap = 50
)

// Entry is one row of the live feed.
type Entry struct {
	ComplaintID     string    `json:"complaint_id"`
	ComplaintNumber string    `json:"complaint_number"`
	Subject         string    `json:"subject"`
	Action          string    `json:"action"`
	Detail          string    `json:"detail,omitempty"`
	ActorID         *string   `json:"actor_id,omitempty"`
	At              time.Time `json:"at"`
}

// ActivityFeed pushes and reads feed entries.
type ActivityFeed struct {
	redis  *persistence.Redis
	logger *zap.Logger
}

// NewActivityFeed builds the feed.
func NewActivityFeed(redis *persistence.Redis, logger *zap.Logger) *ActivityFeed {
	return &ActivityFeed{redis: redis, logger: logger}
}

// RegisterHandlers subscribes the feed to mutation events.
func (f *ActivityFeed) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventComplaintCreated, f.handleEvent)
	dispatcher.Subscribe(events.EventStatusChanged, f.handleEvent)
	dispatcher.Subscribe(events.EventAssigneeChanged, f.handleEvent)
	dispatcher.Subscribe(events.EventCommentAdded, f.handleEvent)
}

func (f *ActivityFeed) handleEvent(ctx context.Context, event events.Event) error {
	entry := Entry{
		ComplaintID: event.ComplaintID,
		ActorID:     event.ActorID,
		At:          event.Timestamp,
	}

	switch payload := event.Payload.(type) {
	case events.ComplaintCreatedPayload:
		entry.ComplaintNumber = payload.ComplaintNumber
		entry.Subject = payload.Subject
		entry.Action = "created"
	case events.StatusChangedPayload:
		entry.ComplaintNumber = payload.ComplaintNumber
		entry.Subject = payload.Subject
		entry.Action = "status_change"
		entry.Detail = string(payload.NewStatus)
	case events.AssigneeChangedPayload:
		entry.ComplaintNumber = payload.ComplaintNumber
		entry.Subject = payload.Subject
		entry.Action = "assignment_change"
		entry.Detail = payload.AssigneeName
	case events.CommentAddedPayload:
		entry.ComplaintNumber = payload.ComplaintNumber
		entry.Subject = payload.Subject
		entry.Action = "comment"
	default:
		return nil
	}

	f.Push(ctx, entry)
	return nil
}

// Push prepends an entry and trims the list to its cap.
func (f *ActivityFeed) Push(ctx context.Context, entry Entry) {
	if f == nil || f.redis == nil || f.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		f.logger.Error("encode feed entry", zap.Error(err))
		return
	}
	pipe := f.redis.Client.Pipeline()
	pipe.LPush(ctx, feedKey, raw)
	pipe.LTrim(ctx, feedKey, 0, feedCap-1)
	if _, err := pipe.Exec(ctx); err != nil {
		f.logger.Warn("push feed entry", zap.Error(err))
	}
}

// Recent returns up to limit newest entries, newest first.
func (f *ActivityFeed) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if f == nil || f.redis == nil || f.redis.Client == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 3
	}
	raws, err := f.redis.Client.LRange(ctx, feedKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			f.logger.Warn("decode feed entry", zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
