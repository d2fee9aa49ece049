package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"jetcargo-backend/lib/restyutil"
	"jetcargo-backend/lib/submission"
	"jetcargo-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("jetcargo.lib.webhook")

// ErrRejected is returned when the webhook answered with a 2xx status but
// reported that it did not accept the submission.
var ErrRejected = errors.New("submission rejected")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code   int
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("webhook responded with status %d", e.Code)
	}
	return fmt.Sprintf("webhook responded with status %d: %s", e.Code, e.Detail)
}

// Response is the body of a successful delivery.
type Response struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ContactId string `json:"ghl_contact_id,omitempty"`
}

type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// detail pulls a readable message out of an error response, the detail
// field may be a plain string or an object.
func detail(body []byte) string {
	var parsed errorBody
	err := json.Unmarshal(body, &parsed)
	if err != nil || len(parsed.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var message string
	err = json.Unmarshal(parsed.Detail, &message)
	if err == nil {
		return message
	}
	var object struct {
		Message string   `json:"message"`
		Errors  []string `json:"errors"`
	}
	err = json.Unmarshal(parsed.Detail, &object)
	if err == nil && object.Message != "" {
		if len(object.Errors) > 0 {
			return fmt.Sprintf("%s: %s", object.Message, strings.Join(object.Errors, ", "))
		}
		return object.Message
	}
	return string(parsed.Detail)
}

type Options struct {
	Url     string
	Timeout time.Duration
	// Transcript receives every delivery when set.
	Transcript restyutil.Output
}

// Client delivers submissions to a single webhook url, it never retries.
type Client struct {
	http *resty.Client
	url  string
}

func NewClient(opts Options) *Client {
	client := resty.New()
	client.SetHeader("content-type", "application/json")
	client.SetHeader("accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	telemetry.InstrumentResty(client, "jetcargo.lib.webhook/http")
	restyutil.Record(client, opts.Transcript)
	return &Client{http: client, url: opts.Url}
}

func (c *Client) Url() string {
	return c.url
}

// Deliver posts the submission as a flat json object.
func (c *Client) Deliver(ctx context.Context, sub submission.Submission) (Response, error) {
	ctx, span := tracer.Start(ctx, "Deliver")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", c.url),
		attribute.String("service_type", string(sub.ServiceType())),
	)

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string(sub)).
		Post(c.url)
	if err != nil {
		span.SetStatus(codes.Error, "failed to send request")
		return Response{}, fmt.Errorf("deliver submission: %w", err)
	}

	if res.IsError() || res.StatusCode() >= 300 {
		err := &StatusError{Code: res.StatusCode(), Detail: detail(res.Body())}
		span.SetStatus(codes.Error, err.Error())
		return Response{}, err
	}

	var out Response
	err = json.Unmarshal(res.Body(), &out)
	if err != nil {
		span.SetStatus(codes.Error, "failed to decode response")
		return Response{}, fmt.Errorf("decode webhook response: %w", err)
	}
	if !out.Success {
		span.SetStatus(codes.Error, "submission rejected")
		return out, fmt.Errorf("%w: %s", ErrRejected, out.Message)
	}

	return out, nil
}
