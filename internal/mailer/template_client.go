package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-console/internal/config"
)

// TemplateClient is the second outward notification path: a templated-email
// HTTP API addressed by service and template ids. It serves the created and
// resolved events only and is independent of the Gateway's provider chain.
type TemplateClient struct {
	cfg    config.MailConfig
	client *http.Client
	logger *zap.Logger
}

// NewTemplateClient builds the client.
func NewTemplateClient(cfg config.MailConfig, logger *zap.Logger) *TemplateClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

// ComplaintCreatedParams fills the created template.
type ComplaintCreatedParams struct {
	ComplaintNumber string
	Subject         string
	Category        string
	Priority        string
	Description     string
	ReporterEmail   string
	CreatedAt       string
	DashboardLink   string
}

// ComplaintResolvedParams fills the resolved template.
type ComplaintResolvedParams struct {
	ComplaintNumber string
	Subject         string
	Status          string
	ResolvedAt      string
	DashboardLink   string
}

// SendComplaintCreated notifies the operations mailbox about a new complaint.
func (t *TemplateClient) SendComplaintCreated(ctx context.Context, params ComplaintCreatedParams) bool {
	return t.send(ctx, t.cfg.TemplateCreatedID, map[string]string{
		"complaint_number": params.ComplaintNumber,
		"subject":          params.Subject,
		"category":         params.Category,
		"priority":         params.Priority,
		"description":      params.Description,
		"reporter_email":   params.ReporterEmail,
		"created_at":       params.CreatedAt,
		"dashboard_link":   params.DashboardLink,
	})
}

// SendComplaintResolved notifies the operations mailbox about a resolution.
func (t *TemplateClient) SendComplaintResolved(ctx context.Context, params ComplaintResolvedParams) bool {
	return t.send(ctx, t.cfg.TemplateResolvedID, map[string]string{
		"complaint_number": params.ComplaintNumber,
		"subject":          params.Subject,
		"status":           params.Status,
		"resolved_at":      params.ResolvedAt,
		"dashboard_link":   params.DashboardLink,
	})
}

type templateSendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken"`
	TemplateParams map[string]string `json:"template_params"`
}

func (t *TemplateClient) send(ctx context.Context, templateID string, params map[string]string) bool {
	if t.cfg.TemplatePublicKey == "" || t.cfg.TemplatePrivateKey == "" {
		t.logger.Warn("templated email keys not configured; notification dropped",
			zap.String("template_id", templateID))
		return false
	}

	params["to_email"] = t.cfg.OpsMailbox
	payload, err := json.Marshal(templateSendRequest{
		ServiceID:      t.cfg.TemplateServiceID,
		TemplateID:     templateID,
		UserID:         t.cfg.TemplatePublicKey,
		AccessToken:    t.cfg.TemplatePrivateKey,
		TemplateParams: params,
	})
	if err != nil {
		t.logger.Error("templated email payload", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.cfg.TemplateBaseURL+"/api/v1.0/email/send", bytes.NewReader(payload))
	if err != nil {
		t.logger.Error("templated email request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	// The provider rejects server-side calls without an origin header.
	req.Header.Set("origin", "http://localhost")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Error("templated email send", zap.Error(err), zap.String("template_id", templateID))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		t.logger.Error("templated email rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
			zap.String("template_id", templateID))
		return false
	}

	t.logger.Info("templated email sent",
		zap.String("template_id", templateID),
		zap.String("to", t.cfg.OpsMailbox))
	return true
}
