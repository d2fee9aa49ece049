package ghl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jetcargo-backend/lib/restyutil"
	"jetcargo-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("jetcargo.lib.ghl")

const (
	DefaultBaseUrl = "https://services.leadconnectorhq.com"
	ApiVersion     = "2021-07-28"
)

// ErrDuplicateContact is returned by CreateContact when a contact with the
// same email or phone already exists in the location.
var ErrDuplicateContact = errors.New("duplicate contact")

// APIError is a non-2xx response from the api.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gohighlevel responded with status %d: %s", e.Status, e.Body)
}

type CustomField struct {
	Key        string `json:"key"`
	FieldValue string `json:"field_value"`
}

type ContactInput struct {
	LocationId   string        `json:"locationId"`
	FirstName    string        `json:"firstName,omitempty"`
	LastName     string        `json:"lastName,omitempty"`
	Email        string        `json:"email,omitempty"`
	Phone        string        `json:"phone,omitempty"`
	CompanyName  string        `json:"companyName,omitempty"`
	Source       string        `json:"source,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	CustomFields []CustomField `json:"customFields,omitempty"`
}

type Contact struct {
	Id          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

// FullName is the contact name as shown in the crm.
func (c Contact) FullName() string {
	if c.ContactName != "" {
		return c.ContactName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

type OpportunityInput struct {
	LocationId    string  `json:"locationId"`
	Name          string  `json:"name"`
	PipelineId    string  `json:"pipelineId"`
	ContactId     string  `json:"contactId"`
	Status        string  `json:"status"`
	Source        string  `json:"source,omitempty"`
	MonetaryValue float64 `json:"monetaryValue"`
}

type Opportunity struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	PipelineId string `json:"pipelineId"`
	ContactId  string `json:"contactId"`
	Status     string `json:"status"`
}

type Options struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl    string
	ApiKey     string
	LocationId string
	Timeout    time.Duration
	// Transcript receives every exchange with the api when set.
	Transcript restyutil.Output
}

type Client struct {
	http       *resty.Client
	locationId string
	hasApiKey  bool
}

func NewClient(opts Options) *Client {
	baseUrl := opts.BaseUrl
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetBaseURL(baseUrl)
	client.SetTimeout(timeout)
	client.SetAuthToken(opts.ApiKey)
	client.SetHeader("Version", ApiVersion)
	client.SetHeader("Accept", "application/json")
	client.SetHeader("Content-Type", "application/json")
	telemetry.InstrumentResty(client, "jetcargo.lib.ghl/http")
	restyutil.Record(client, opts.Transcript)

	return &Client{
		http:       client,
		locationId: opts.LocationId,
		hasApiKey:  opts.ApiKey != "",
	}
}

// Configured reports whether both the api key and the location id are set.
func (c *Client) Configured() bool {
	return c.hasApiKey && c.locationId != ""
}

func (c *Client) HasApiKey() bool {
	return c.hasApiKey
}

func (c *Client) LocationId() string {
	return c.locationId
}

func apiError(res *resty.Response) error {
	return &APIError{Status: res.StatusCode(), Body: res.String()}
}

func (c *Client) CreateContact(ctx context.Context, input ContactInput) (Contact, error) {
	ctx, span := tracer.Start(ctx, "CreateContact")
	defer span.End()

	input.LocationId = c.locationId

	var body struct {
		Contact Contact `json:"contact"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&body).
		Post("/contacts/")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Contact{}, err
	}

	if res.StatusCode() == 400 && strings.Contains(strings.ToLower(res.String()), "duplicate") {
		span.SetAttributes(attribute.Bool("duplicate", true))
		return Contact{}, fmt.Errorf("%w: %s", ErrDuplicateContact, res.String())
	}
	if res.IsError() {
		err := apiError(res)
		span.SetStatus(codes.Error, err.Error())
		return Contact{}, err
	}

	span.SetAttributes(attribute.String("contact_id", body.Contact.Id))
	return body.Contact, nil
}

func (c *Client) SearchContactsByEmail(ctx context.Context, email string) ([]Contact, error) {
	ctx, span := tracer.Start(ctx, "SearchContactsByEmail")
	defer span.End()

	var body struct {
		Contacts []Contact `json:"contacts"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("locationId", c.locationId).
		SetQueryParam("email", email).
		SetResult(&body).
		Get("/contacts/")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.IsError() {
		err := apiError(res)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("results", len(body.Contacts)))
	return body.Contacts, nil
}

func (c *Client) CreateOpportunity(ctx context.Context, input OpportunityInput) (Opportunity, error) {
	ctx, span := tracer.Start(ctx, "CreateOpportunity")
	defer span.End()

	input.LocationId = c.locationId

	var body struct {
		Opportunity Opportunity `json:"opportunity"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(input).
		SetResult(&body).
		Post("/opportunities/")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Opportunity{}, err
	}
	if res.IsError() {
		err := apiError(res)
		span.SetStatus(codes.Error, err.Error())
		return Opportunity{}, err
	}

	span.SetAttributes(
		attribute.String("opportunity_id", body.Opportunity.Id),
		attribute.String("pipeline_id", input.PipelineId),
	)
	return body.Opportunity, nil
}
