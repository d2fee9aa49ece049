package capture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"jetcargo-backend/lib/form"
	"jetcargo-backend/lib/submission"
	"jetcargo-backend/lib/telemetry"
	"jetcargo-backend/lib/validate"
	"jetcargo-backend/lib/webhook"
)

const (
	report_submitter_in_flight = "submitter.in-flight"
	report_submitter_validate  = "submitter.validate"
	report_submitter_deliver   = "submitter.deliver"
)

var (
	// ErrInFlight is returned when the form already has a submission being
	// delivered.
	ErrInFlight = errors.New("submission already in progress")
	// ErrInvalid wraps the validation problems of a submission.
	ErrInvalid = errors.New("invalid submission")
)

// Guard marks a single form instance as having a submission in flight. The
// zero value is ready to use, a Guard must not be copied after first use.
type Guard struct {
	busy atomic.Bool
}

// Acquire reports whether the caller now owns the guard.
func (g *Guard) Acquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

func (g *Guard) Release() {
	g.busy.Store(false)
}

func (g *Guard) Busy() bool {
	return g.busy.Load()
}

// Deliverer sends a submission somewhere, webhook.Client implements it.
type Deliverer interface {
	Deliver(ctx context.Context, sub submission.Submission) (webhook.Response, error)
}

type Submitter struct {
	deliverer Deliverer
	tel       telemetry.API
	meta      func() Meta
}

// NewSubmitter creates a Submitter, meta is called once per submission and
// may be nil.
func NewSubmitter(deliverer Deliverer, tel telemetry.API, meta func() Meta) *Submitter {
	if meta == nil {
		meta = func() Meta { return Meta{} }
	}
	return &Submitter{
		deliverer: deliverer,
		tel:       telemetry.NewScopedAPI("capture", tel),
		meta:      meta,
	}
}

func (s *Submitter) submit(ctx context.Context, f form.Form) (webhook.Response, error) {
	sub := Build(f, s.meta())

	problems := validate.Submission(sub)
	if len(problems) > 0 {
		return webhook.Response{}, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, ", "))
	}

	res, err := s.deliverer.Deliver(ctx, sub)
	if err != nil {
		return res, fmt.Errorf("deliver %s submission: %w", sub.ServiceType(), err)
	}
	return res, nil
}

// Submit captures and delivers f while holding guard.
func (s *Submitter) Submit(ctx context.Context, f form.Form, guard *Guard) (webhook.Response, error) {
	if !guard.Acquire() {
		return webhook.Response{}, ErrInFlight
	}
	defer guard.Release()
	return s.submit(ctx, f)
}

func (s *Submitter) report(err error) {
	switch {
	case errors.Is(err, ErrInvalid):
		s.tel.ReportWarning(report_submitter_validate, err)
	default:
		s.tel.ReportBroken(report_submitter_deliver, err)
	}
}

// SubmitAsync delivers f in the background. Any failure is reported and
// never returned to the caller. The returned channel is closed once the
// submission is done.
func (s *Submitter) SubmitAsync(ctx context.Context, f form.Form, guard *Guard) <-chan struct{} {
	done := make(chan struct{})
	if !guard.Acquire() {
		s.tel.ReportWarning(report_submitter_in_flight, ErrInFlight)
		close(done)
		return done
	}

	go func() {
		defer close(done)
		defer guard.Release()

		res, err := s.submit(ctx, f)
		if err != nil {
			s.report(err)
			return
		}
		s.tel.ReportDebug("submission delivered", res.ContactId)
	}()

	return done
}
