package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-console/internal/config"
)

func templateTestConfig(baseURL string) config.MailConfig {
	return config.MailConfig{
		OpsMailbox:         "it@gilanimobility.ae",
		TemplateBaseURL:    baseURL,
		TemplateServiceID:  "service_test",
		TemplateCreatedID:  "template_created",
		TemplateResolvedID: "template_resolved",
		TemplatePublicKey:  "pub",
		TemplatePrivateKey: "priv",
	}
}

func TestTemplateClientSendsCreated(t *testing.T) {
	var captured templateSendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1.0/email/send", r.URL.Path)
		assert.Equal(t, "http://localhost", r.Header.Get("origin"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTemplateClient(templateTestConfig(server.URL), nil)
	ok := client.SendComplaintCreated(context.Background(), ComplaintCreatedParams{
		ComplaintNumber: "CMP-ABCD1234",
		Subject:         "Portal login fails",
		Category:        "Technical Support",
		Priority:        "Urgent",
		Description:     "Cannot sign in",
		ReporterEmail:   "sara@example.com",
		CreatedAt:       "Sun, 15 Jun 2025 12:00:00 UTC",
		DashboardLink:   "http://localhost:3000/dashboard",
	})

	assert.True(t, ok)
	assert.Equal(t, "service_test", captured.ServiceID)
	assert.Equal(t, "template_created", captured.TemplateID)
	assert.Equal(t, "pub", captured.UserID)
	assert.Equal(t, "priv", captured.AccessToken)
	assert.Equal(t, "CMP-ABCD1234", captured.TemplateParams["complaint_number"])
	assert.Equal(t, "it@gilanimobility.ae", captured.TemplateParams["to_email"])
}

func TestTemplateClientSendsResolved(t *testing.T) {
	var captured templateSendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewTemplateClient(templateTestConfig(server.URL), nil)
	ok := client.SendComplaintResolved(context.Background(), ComplaintResolvedParams{
		ComplaintNumber: "CMP-ABCD1234",
		Subject:         "Portal login fails",
		Status:          "Resolved",
		ResolvedAt:      "Sun, 15 Jun 2025 14:00:00 UTC",
		DashboardLink:   "http://localhost:3000/dashboard",
	})

	assert.True(t, ok)
	assert.Equal(t, "template_resolved", captured.TemplateID)
	assert.Equal(t, "Resolved", captured.TemplateParams["status"])
}

func TestTemplateClientWithoutKeysIsDropped(t *testing.T) {
	cfg := templateTestConfig("http://127.0.0.1:0")
	cfg.TemplatePrivateKey = ""
	client := NewTemplateClient(cfg, nil)

	ok := client.SendComplaintCreated(context.Background(), ComplaintCreatedParams{ComplaintNumber: "CMP-1"})

	assert.False(t, ok)
}

func TestTemplateClientRejectionReturnsFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad origin", http.StatusForbidden)
	}))
	defer server.Close()

	client := NewTemplateClient(templateTestConfig(server.URL), nil)
	ok := client.SendComplaintResolved(context.Background(), ComplaintResolvedParams{ComplaintNumber: "CMP-1"})

	assert.False(t, ok)
}

func TestRenderAssignmentEmailEscapesContent(t *testing.T) {
	html := RenderAssignmentEmail(AssignmentEmailData{
		ComplaintNumber: "CMP-ABCD1234",
		Subject:         "<script>alert(1)</script>",
		Description:     "desc",
		Priority:        "High",
		AssignedTo:      "Omar",
		DueDate:         "Wed, 18 Jun 2025",
		ComplaintURL:    "http://localhost:3000/dashboard/complaints/cmp-1",
	})

	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "#f97316")
}

func TestRenderCommentEmailVisibility(t *testing.T) {
	internal := RenderCommentEmail(CommentEmailData{ComplaintNumber: "CMP-1", IsInternal: true})
	public := RenderCommentEmail(CommentEmailData{ComplaintNumber: "CMP-1", IsInternal: false})

	assert.Contains(t, internal, "Internal")
	assert.Contains(t, public, "Public")
}
