package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"jetcargo-backend/lib/form"
	"jetcargo-backend/lib/servicetype"
	"jetcargo-backend/lib/submission"
	"jetcargo-backend/lib/telemetry"
	"jetcargo-backend/lib/webhook"

	"github.com/stretchr/testify/require"
)

var quoteForm = form.Static{
	FieldList: []form.Field{
		{Name: "dmform-0", Value: "Jane Doe", Type: "text"},
		{Name: "dmform-1", Value: "jane@example.com", Type: "email"},
		{Name: "dmform-2", Value: "305 555 0100", Type: "tel"},
	},
	Context: "Express Air Freight Request",
	URL:     "https://www.jetcargo.us/",
	Title:   "Jet Cargo",
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC)
	sub := Build(quoteForm, Meta{Now: now, UserAgent: "test-agent"})

	require.Equal(t, servicetype.ExpressAirFreight, sub.ServiceType())
	require.Equal(t, "jane@example.com", sub.Email())
	require.Equal(t, "305 555 0100", sub.Phone())
	require.Equal(t, "Jane Doe", sub.Name())
	require.Equal(t, "https://www.jetcargo.us/", sub[submission.KeyPageURL])
	require.Equal(t, "Jet Cargo", sub[submission.KeyPageTitle])
	require.Equal(t, "2024-05-01T12:00:00Z", sub[submission.KeyTimestamp])
	require.Equal(t, "test-agent", sub[submission.KeyUserAgent])
	require.Equal(t, DefaultReferrer, sub[submission.KeyReferrer])
}

func TestBuildAlwaysClassifies(t *testing.T) {
	sub := Build(form.Static{}, Meta{})
	require.Equal(t, string(servicetype.GeneralContact), sub[submission.KeyServiceType])

	withId := quoteForm
	withId.Context = ""
	withId.Id = "warehousing-form"
	withId.Referer = "https://google.com"
	sub = Build(withId, Meta{})
	require.Equal(t, servicetype.Warehousing, sub.ServiceType())
	require.Equal(t, "https://google.com", sub[submission.KeyReferrer])
}

type fakeDeliverer struct {
	release chan struct{}
	calls   chan submission.Submission
	err     error
}

func (d fakeDeliverer) Deliver(ctx context.Context, sub submission.Submission) (webhook.Response, error) {
	d.calls <- sub
	if d.release != nil {
		<-d.release
	}
	if d.err != nil {
		return webhook.Response{}, d.err
	}
	return webhook.Response{Success: true, ContactId: "c-1"}, nil
}

func TestSubmit(t *testing.T) {
	deliverer := fakeDeliverer{calls: make(chan submission.Submission, 1)}
	submitter := NewSubmitter(deliverer, &telemetry.Recorder{}, nil)

	var guard Guard
	res, err := submitter.Submit(context.Background(), quoteForm, &guard)
	require.NoError(t, err)
	require.Equal(t, "c-1", res.ContactId)
	require.False(t, guard.Busy())

	sent := <-deliverer.calls
	require.Equal(t, "jane@example.com", sent.Email())
}

func TestSubmitInvalid(t *testing.T) {
	deliverer := fakeDeliverer{calls: make(chan submission.Submission, 1)}
	submitter := NewSubmitter(deliverer, &telemetry.Recorder{}, nil)

	noEmail := form.Static{FieldList: []form.Field{{Name: "name", Value: "Jane", Type: "text"}}}
	var guard Guard
	_, err := submitter.Submit(context.Background(), noEmail, &guard)
	require.True(t, errors.Is(err, ErrInvalid))
	require.False(t, guard.Busy())
	require.Len(t, deliverer.calls, 0)
}

func TestGuardExclusivity(t *testing.T) {
	deliverer := fakeDeliverer{
		calls:   make(chan submission.Submission, 2),
		release: make(chan struct{}),
	}
	tel := &telemetry.Recorder{}
	submitter := NewSubmitter(deliverer, tel, nil)

	var guard Guard
	done := submitter.SubmitAsync(context.Background(), quoteForm, &guard)
	// wait for the first submission to reach the deliverer
	<-deliverer.calls
	require.True(t, guard.Busy())

	_, err := submitter.Submit(context.Background(), quoteForm, &guard)
	require.ErrorIs(t, err, ErrInFlight)

	second := submitter.SubmitAsync(context.Background(), quoteForm, &guard)
	<-second
	require.Len(t, tel.Reports("warning"), 1)

	// a different form instance is not blocked
	var other Guard
	otherDone := submitter.SubmitAsync(context.Background(), quoteForm, &other)
	<-deliverer.calls

	close(deliverer.release)
	<-done
	<-otherDone
	require.False(t, guard.Busy())
	require.False(t, other.Busy())
	require.Len(t, deliverer.calls, 0)
}

func TestSubmitAsyncSwallowsErrors(t *testing.T) {
	deliverer := fakeDeliverer{
		calls: make(chan submission.Submission, 1),
		err:   &webhook.StatusError{Code: 500, Detail: "boom"},
	}
	tel := &telemetry.Recorder{}
	submitter := NewSubmitter(deliverer, tel, nil)

	var guard Guard
	<-submitter.SubmitAsync(context.Background(), quoteForm, &guard)

	broken := tel.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "capture: "+report_submitter_deliver, broken[0].Id)
	require.False(t, guard.Busy())
}
