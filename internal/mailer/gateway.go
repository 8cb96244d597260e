package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/spec-kit/complaint-console/internal/config"
	"github.com/spec-kit/complaint-console/internal/observability"
)

// Gateway sends HTML emails through the HTTP email API when an API key is
// configured, falling back to the SMTP relay. With neither configured it
// logs a warning and reports false.
type Gateway struct {
	cfg     config.MailConfig
	client  *http.Client
	dialer  *gomail.Dialer
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewGateway constructs the gateway with one HTTP client and one SMTP
// dialer for the life of the process.
func NewGateway(cfg config.MailConfig, logger *zap.Logger, metrics *observability.Metrics) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	g := &Gateway{
		cfg:     cfg,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
		metrics: metrics,
	}
	if cfg.SMTPHost != "" && cfg.SMTPUser != "" && cfg.SMTPPassword != "" {
		g.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
		g.dialer.SSL = cfg.SMTPSecure
	}
	return g
}

// Send attempts delivery through the provider chain.
func (g *Gateway) Send(ctx context.Context, n Notification) bool {
	if g.cfg.APIKey != "" {
		if g.sendViaAPI(ctx, n) {
			g.metrics.RecordNotification("api", true)
			return true
		}
		g.metrics.RecordNotification("api", false)
	}

	if g.dialer == nil {
		g.logger.Warn("email not configured; notification dropped",
			zap.String("to", n.To),
			zap.String("subject", n.Subject))
		return false
	}

	sent := g.sendViaSMTP(n)
	g.metrics.RecordNotification("smtp", sent)
	return sent
}

type apiSendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (g *Gateway) sendViaAPI(ctx context.Context, n Notification) bool {
	payload, err := json.Marshal(apiSendRequest{
		From:    g.cfg.From,
		To:      []string{n.To},
		Subject: n.Subject,
		HTML:    n.HTML,
	})
	if err != nil {
		g.logger.Error("email api payload", zap.Error(err))
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIBaseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		g.logger.Error("email api request", zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error("email api send", zap.Error(err), zap.String("to", n.To))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		g.logger.Error("email api rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
			zap.String("to", n.To))
		return false
	}

	g.logger.Info("email sent via api", zap.String("to", n.To))
	return true
}

func (g *Gateway) sendViaSMTP(n Notification) bool {
	from := g.cfg.From
	if from == "" {
		from = g.cfg.SMTPUser
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", n.Subject)
	m.SetBody("text/html", n.HTML)

	if err := g.dialer.DialAndSend(m); err != nil {
		g.logger.Error("smtp send", zap.Error(err), zap.String("to", n.To))
		return false
	}

	g.logger.Info("email sent via smtp", zap.String("to", n.To))
	return true
}
