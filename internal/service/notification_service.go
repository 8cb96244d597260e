package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/config"
	"github.com/spec-kit/complaint-console/internal/domain"
	"github.com/spec-kit/complaint-console/internal/events"
	"github.com/spec-kit/complaint-console/internal/mailer"
)

// NotificationService turns complaint events into emails. Every delivery is
// best effort: a failed or skipped send is logged and never propagates back
// into the operation that raised the event.
type NotificationService struct {
	cfg      config.MailConfig
	baseURL  string
	gateway  mailer.Sender
	template *mailer.TemplateClient
	logger   *zap.Logger
}

func NewNotificationService(cfg config.MailConfig, baseURL string, gateway mailer.Sender, template *mailer.TemplateClient, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		cfg:      cfg,
		baseURL:  baseURL,
		gateway:  gateway,
		template: template,
		logger:   logger,
	}
}

// RegisterHandlers subscribes the notification handlers to the dispatcher.
func (n *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	dispatcher.Subscribe(events.EventStatusChanged, n.handleStatusChanged)
	dispatcher.Subscribe(events.EventAssigneeChanged, n.handleAssigneeChanged)
	dispatcher.Subscribe(events.EventCommentAdded, n.handleCommentAdded)
}

func (n *NotificationService) handleComplaintCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		return nil
	}
	sent := n.template.SendComplaintCreated(ctx, mailer.ComplaintCreatedParams{
		ComplaintNumber: payload.ComplaintNumber,
		Subject:         payload.Subject,
		Category:        payload.CategoryName,
		Priority:        string(payload.Priority),
		Description:     payload.Description,
		ReporterEmail:   payload.ReporterEmail,
		CreatedAt:       payload.CreatedAt.Format(time.RFC1123),
		DashboardLink:   n.dashboardLink(),
	})
	if !sent {
		n.logger.Warn("complaint created notification not delivered",
			zap.String("complaint_number", payload.ComplaintNumber))
	}
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}
	// Only terminal states reach the operations mailbox; intermediate moves
	// stay in the audit trail.
	if payload.NewStatus != domain.StatusResolved && payload.NewStatus != domain.StatusClosed {
		return nil
	}
	sent := n.template.SendComplaintResolved(ctx, mailer.ComplaintResolvedParams{
		ComplaintNumber: payload.ComplaintNumber,
		Subject:         payload.Subject,
		Status:          string(payload.NewStatus),
		ResolvedAt:      payload.ChangedAt.Format(time.RFC1123),
		DashboardLink:   n.dashboardLink(),
	})
	if !sent {
		n.logger.Warn("status change notification not delivered",
			zap.String("complaint_number", payload.ComplaintNumber),
			zap.String("status", string(payload.NewStatus)))
	}
	return nil
}

func (n *NotificationService) handleAssigneeChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.AssigneeChangedPayload)
	if !ok {
		return nil
	}
	// Unassignments and no-op reassignments are silent.
	if !payload.Changed || payload.AssigneeID == nil || payload.AssigneeEmail == "" {
		return nil
	}

	body := mailer.RenderAssignmentEmail(mailer.AssignmentEmailData{
		ComplaintNumber: payload.ComplaintNumber,
		Subject:         payload.Subject,
		Description:     payload.Description,
		Priority:        string(payload.Priority),
		AssignedTo:      payload.AssigneeName,
		DueDate:         payload.DueDate.Format("Mon, 02 Jan 2006"),
		ComplaintURL:    n.complaintURL(event.ComplaintID),
	})
	subject := fmt.Sprintf("Complaint #%s assigned to %s", payload.ComplaintNumber, payload.AssigneeName)

	for _, recipient := range []string{n.cfg.OpsMailbox, payload.AssigneeEmail} {
		ok := n.gateway.Send(ctx, mailer.Notification{
			To:      recipient,
			Subject: subject,
			HTML:    body,
		})
		if !ok {
			n.logger.Warn("assignment notification not delivered",
				zap.String("complaint_number", payload.ComplaintNumber),
				zap.String("recipient", recipient))
		}
	}
	return nil
}

func (n *NotificationService) handleCommentAdded(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.CommentAddedPayload)
	if !ok {
		return nil
	}
	body := mailer.RenderCommentEmail(mailer.CommentEmailData{
		ComplaintNumber: payload.ComplaintNumber,
		Subject:         payload.Subject,
		AuthorEmail:     payload.AuthorEmail,
		Message:         payload.Body,
		IsInternal:      payload.IsInternal,
		ComplaintURL:    n.complaintURL(event.ComplaintID),
	})
	ok = n.gateway.Send(ctx, mailer.Notification{
		To:      n.cfg.OpsMailbox,
		Subject: fmt.Sprintf("New comment on complaint #%s", payload.ComplaintNumber),
		HTML:    body,
	})
	if !ok {
		n.logger.Warn("comment notification not delivered",
			zap.String("complaint_number", payload.ComplaintNumber))
	}
	return nil
}

func (n *NotificationService) dashboardLink() string {
	return n.baseURL + "/dashboard"
}

func (n *NotificationService) complaintURL(complaintID string) string {
	return fmt.Sprintf("%s/dashboard/complaints/%s", n.baseURL, complaintID)
}
