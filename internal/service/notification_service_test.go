package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-console/internal/config"
	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/events"
	"github.com/spec-kit/complaint-console/internal/mailer"
)

type fakeSender struct {
	sent []mailer.Notification
	ok   bool
}

func (f *fakeSender) Send(_ context.Context, n mailer.Notification) bool {
	f.sent = append(f.sent, n)
	return f.ok
}

func notificationTestConfig(templateURL string) config.MailConfig {
	return config.MailConfig{
		OpsMailbox:         "it@gilanimobility.ae",
		TemplateBaseURL:    templateURL,
		TemplateServiceID:  "service_test",
		TemplateCreatedID:  "template_created",
		TemplateResolvedID: "template_resolved",
		TemplatePublicKey:  "pub",
		TemplatePrivateKey: "priv",
	}
}

func newNotificationEnv(t *testing.T, templateURL string) (*NotificationService, *fakeSender, *recordingDispatcher) {
	t.Helper()
	cfg := notificationTestConfig(templateURL)
	sender := &fakeSender{ok: true}
	template := mailer.NewTemplateClient(cfg, nil)
	svc := NewNotificationService(cfg, "http://localhost:3000", sender, template, nil)
	dispatcher := newRecordingDispatcher()
	svc.RegisterHandlers(dispatcher)
	return svc, sender, dispatcher
}

func assigneeChangedEvent(changed bool, assigneeID *string, email string) events.Event {
	return events.Event{
		ID:          "evt-1",
		Type:        events.EventAssigneeChanged,
		ComplaintID: "cmp-1",
		Timestamp:   testNow,
		Payload: events.AssigneeChangedPayload{
			ComplaintNumber: "CMP-ABCD1234",
			Subject:         "Portal login fails",
			Description:     "Cannot sign in",
			Priority:        domain.PriorityUrgent,
			DueDate:         testNow.Add(72 * time.Hour),
			ReporterName:    "Sara Haddad",
			AssigneeID:      assigneeID,
			AssigneeName:    "Omar Khalil",
			AssigneeEmail:   email,
			Changed:         changed,
		},
	}
}

func TestAssignmentNotifiesOpsAndAssignee(t *testing.T) {
	_, sender, dispatcher := newNotificationEnv(t, "http://127.0.0.1:0")
	assigneeID := "user-2"

	err := dispatcher.Publish(context.Background(), assigneeChangedEvent(true, &assigneeID, "omar@example.com"))
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "it@gilanimobility.ae", sender.sent[0].To)
	assert.Equal(t, "omar@example.com", sender.sent[1].To)
	assert.Contains(t, sender.sent[0].Subject, "CMP-ABCD1234")
	assert.Contains(t, sender.sent[0].HTML, "Omar Khalil")
}

func TestAssignmentSkippedWhenNotChanged(t *testing.T) {
	_, sender, dispatcher := newNotificationEnv(t, "http://127.0.0.1:0")
	assigneeID := "user-2"

	err := dispatcher.Publish(context.Background(), assigneeChangedEvent(false, &assigneeID, "omar@example.com"))
	require.NoError(t, err)

	assert.Empty(t, sender.sent)
}

func TestAssignmentSkippedWhenUnassigned(t *testing.T) {
	_, sender, dispatcher := newNotificationEnv(t, "http://127.0.0.1:0")

	err := dispatcher.Publish(context.Background(), assigneeChangedEvent(true, nil, ""))
	require.NoError(t, err)

	assert.Empty(t, sender.sent)
}

func TestCommentAlwaysNotifiesOps(t *testing.T) {
	_, sender, dispatcher := newNotificationEnv(t, "http://127.0.0.1:0")

	err := dispatcher.Publish(context.Background(), events.Event{
		Type:        events.EventCommentAdded,
		ComplaintID: "cmp-1",
		Payload: events.CommentAddedPayload{
			CommentID:       "cmt-1",
			ComplaintNumber: "CMP-ABCD1234",
			Subject:         "Portal login fails",
			AuthorEmail:     "sara@example.com",
			Body:            "internal note",
			IsInternal:      true,
		},
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "it@gilanimobility.ae", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].HTML, "Internal")
}

func TestCreatedEventHitsTemplateProvider(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1.0/email/send", r.URL.Path)
		assert.Equal(t, "http://localhost", r.Header.Get("origin"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, _, dispatcher := newNotificationEnv(t, server.URL)
	err := dispatcher.Publish(context.Background(), events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: "cmp-1",
		Payload: events.ComplaintCreatedPayload{
			ComplaintNumber: "CMP-ABCD1234",
			Subject:         "Portal login fails",
			Description:     "Cannot sign in",
			CategoryName:    "Technical Support",
			Priority:        domain.PriorityUrgent,
			ReporterEmail:   "sara@example.com",
			CreatedAt:       testNow,
		},
	})
	require.NoError(t, err)

	require.NotNil(t, captured)
	assert.Equal(t, "template_created", captured["template_id"])
	params, ok := captured["template_params"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "CMP-ABCD1234", params["complaint_number"])
	assert.Equal(t, "it@gilanimobility.ae", params["to_email"])
}

func TestStatusChangeOnlyTerminalStatesNotify(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.Equal(t, "template_resolved", req["template_id"])
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, _, dispatcher := newNotificationEnv(t, server.URL)
	statusEvent := func(status domain.ComplaintStatus) events.Event {
		return events.Event{
			Type:        events.EventStatusChanged,
			ComplaintID: "cmp-1",
			Payload: events.StatusChangedPayload{
				ComplaintNumber: "CMP-ABCD1234",
				Subject:         "Portal login fails",
				OldStatus:       domain.StatusInProgress,
				NewStatus:       status,
				ChangedAt:       testNow,
			},
		}
	}

	require.NoError(t, dispatcher.Publish(context.Background(), statusEvent(domain.StatusPending)))
	assert.Equal(t, 0, calls)

	require.NoError(t, dispatcher.Publish(context.Background(), statusEvent(domain.StatusResolved)))
	assert.Equal(t, 1, calls)

	require.NoError(t, dispatcher.Publish(context.Background(), statusEvent(domain.StatusClosed)))
	assert.Equal(t, 2, calls)
}
