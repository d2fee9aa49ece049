package relay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jetcargo-backend/lib/ghl"
	"jetcargo-backend/lib/notify"
	"jetcargo-backend/lib/ratelimit"
	"jetcargo-backend/lib/submission"
	"jetcargo-backend/lib/telemetry"
	"jetcargo-backend/lib/timezone"
	"jetcargo-backend/services/relay/db"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var tracer = otel.Tracer("jetcargo.services.relay")
var meter = otel.Meter("jetcargo.services.relay")

const (
	report_relay_config      = "relay.config"
	report_relay_rate_limit  = "relay.rate-limit"
	report_relay_contact     = "relay.create-contact"
	report_relay_opportunity = "relay.create-opportunity"
	report_relay_audit       = "relay.audit"
	report_relay_notify      = "relay.notify"
)

// CRM is the part of the crm api the relay depends on, ghl.Client
// implements it.
type CRM interface {
	Configured() bool
	HasApiKey() bool
	LocationId() string
	CreateContact(ctx context.Context, input ghl.ContactInput) (ghl.Contact, error)
	SearchContactsByEmail(ctx context.Context, email string) ([]ghl.Contact, error)
	CreateOpportunity(ctx context.Context, input ghl.OpportunityInput) (ghl.Opportunity, error)
}

const (
	DefaultName       = "Jet Cargo → GoHighLevel Integration"
	DefaultRateLimit  = 5
	DefaultRateWindow = time.Hour
)

type Options struct {
	Name    string
	Version string
	// Pipelines overrides DefaultPipelines, see NewPipelines.
	Pipelines map[string]string
	// RateLimit is the amount of submissions a single ip may make within
	// RateWindow.
	RateLimit  int
	RateWindow time.Duration
	// TrustProxy keys the rate limit on the address the proxy in front of
	// the relay appended to X-Forwarded-For instead of the remote address.
	TrustProxy bool
	// RetentionDays is how long audit rows are kept, 0 keeps them forever.
	RetentionDays int
	// Now defaults to timezone.Now.
	Now func() time.Time
}

type Service struct {
	db        *sql.DB
	qry       *db.Queries
	crm       CRM
	notifier  notify.Notifier
	limiter   *ratelimit.Limiter
	pipelines Pipelines
	tel       telemetry.API
	options   Options

	submissionCounter metric.Int64Counter
}

func NewService(database *sql.DB, crm CRM, notifier notify.Notifier, tel telemetry.API, options Options) (Service, error) {
	if options.Name == "" {
		options.Name = DefaultName
	}
	if options.RateLimit <= 0 {
		options.RateLimit = DefaultRateLimit
	}
	if options.RateWindow <= 0 {
		options.RateWindow = DefaultRateWindow
	}
	if options.Now == nil {
		options.Now = timezone.Now
	}
	if notifier == nil {
		notifier = notify.Noop{}
	}

	submissionCounter, err := meter.Int64Counter(
		"relay_submissions_total",
		metric.WithDescription("The total amount of submissions received, by audit status."),
	)
	if err != nil {
		return Service{}, err
	}

	return Service{
		db:                database,
		qry:               db.New(database),
		crm:               crm,
		notifier:          notifier,
		limiter:           ratelimit.New(options.RateLimit, options.RateWindow),
		pipelines:         NewPipelines(options.Pipelines),
		tel:               telemetry.NewScopedAPI("relay", tel),
		options:           options,
		submissionCounter: submissionCounter,
	}, nil
}

// createLead creates the contact (or finds the existing one) and an
// opportunity for it. A failed opportunity is reported but does not fail
// the lead, the contact already exists at that point.
func (s Service) createLead(ctx context.Context, sub submission.Submission, now time.Time) (string, error) {
	ctx, span := tracer.Start(ctx, "createLead")
	defer span.End()

	contact, err := s.crm.CreateContact(ctx, ContactInput(sub))
	if errors.Is(err, ghl.ErrDuplicateContact) {
		span.SetAttributes(attribute.Bool("duplicate", true))

		contacts, err := s.crm.SearchContactsByEmail(ctx, sub.Email())
		if err != nil {
			return "", fmt.Errorf("search existing contact: %w", err)
		}
		existing, ok := pickContact(contacts, sub.Name())
		if !ok {
			return "", fmt.Errorf("duplicate contact %s could not be found", sub.Email())
		}
		contact = existing
	} else if err != nil {
		return "", fmt.Errorf("create contact: %w", err)
	}

	code := sub.ServiceType()
	_, err = s.crm.CreateOpportunity(ctx, ghl.OpportunityInput{
		Name:          OpportunityName(sub, now),
		PipelineId:    s.pipelines.For(code),
		ContactId:     contact.Id,
		Status:        "open",
		Source:        OpportunitySource,
		MonetaryValue: 0,
	})
	if err != nil {
		s.tel.ReportBroken(report_relay_opportunity, err, contact.Id)
	}

	return contact.Id, nil
}

// audit records the outcome of a submission, failing to do so never fails
// the request.
func (s Service) audit(ctx context.Context, clientIp string, now time.Time, sub submission.Submission, status, contactId string) {
	s.submissionCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))

	payload, err := json.Marshal(sub)
	if err != nil {
		s.tel.ReportBroken(report_relay_audit, err)
		return
	}
	err = s.qry.InsertSubmission(ctx, db.InsertSubmissionParams{
		ID:          uuid.NewString(),
		ReceivedAt:  now.Unix(),
		ClientIp:    clientIp,
		ServiceType: string(sub.ServiceType()),
		Email:       sub.Email(),
		Status:      status,
		ContactID:   contactId,
		Payload:     string(payload),
	})
	if err != nil {
		s.tel.ReportBroken(report_relay_audit, err)
	}
}

func (s Service) notifyAsync(ctx context.Context, sub submission.Submission, contactId string) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		err := s.notifier.Notify(ctx, sub, contactId)
		if err != nil {
			s.tel.ReportBroken(report_relay_notify, err, contactId)
		}
	}()
}
