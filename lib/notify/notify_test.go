package notify

import (
	"context"
	"net"
	"strings"
	"testing"

	"jetcargo-backend/lib/submission"

	"github.com/stretchr/testify/require"
)

var lead = submission.Submission{
	"name":         "Jane Doe",
	"email":        "jane@example.com",
	"phone":        "3055550100",
	"message":      "Two pallets",
	"service_type": "lcl_ocean_freight",
	"page_url":     "https://www.jetcargo.us/lcl",
	"referrer":     "direct",
	"timestamp":    "2024-05-01T12:00:00Z",
}

func TestRender(t *testing.T) {
	subject, body := Render(lead, "c-1")
	require.Equal(t, "New Lcl Ocean Freight lead: Jane Doe", subject)
	require.Contains(t, body, "https://www.jetcargo.us/lcl")
	require.Contains(t, body, "CRM contact: c-1")
	require.Contains(t, body, "message: Two pallets\n")
	require.Contains(t, body, "submitted at: 2024-05-01T12:00:00Z")
	// metadata is only listed once, at the end
	require.Equal(t, 1, strings.Count(body, "referrer"))
	require.NotContains(t, body, "service_type")

	// keys are listed in sorted order
	require.Less(t, strings.Index(body, "email:"), strings.Index(body, "name:"))
}

func TestRenderWithoutName(t *testing.T) {
	subject, body := Render(submission.Submission{"email": "ops@example.com"}, "")
	require.Equal(t, "New General Contact lead: ops@example.com", subject)
	require.NotContains(t, body, "CRM contact")
}

func TestMailerUnreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	mailer := NewMailer(SmtpConfig{Server: "127.0.0.1", Port: port, EmailAddress: "site@jetcargo.us"}, []string{"sales@jetcargo.us"})
	err = mailer.Notify(context.Background(), lead, "c-1")
	require.Error(t, err)

	// no recipients means nothing to send
	err = NewMailer(SmtpConfig{Server: "127.0.0.1", Port: port}, nil).Notify(context.Background(), lead, "")
	require.NoError(t, err)

	require.NoError(t, Noop{}.Notify(context.Background(), lead, ""))
}
