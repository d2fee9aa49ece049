package chrono

import (
	"fmt"

	"jetcargo-backend/lib/telemetry"
	"jetcargo-backend/lib/timezone"

	"github.com/robfig/cron/v3"
)

// CronAPI is what anything that runs on a schedule depends on.
type CronAPI interface {
	Cron(spec string, callback func()) error
}

// StandardCron implements CronAPI with robfig/cron, schedules are
// interpreted in the business timezone.
type StandardCron struct {
	cron *cron.Cron
}

// NewStandardCron creates and starts the scheduler.
func NewStandardCron(tel telemetry.API) StandardCron {
	cronner := cron.New(
		cron.WithLogger(cronLogger{tel: tel}),
		cron.WithLocation(timezone.Location),
	)
	cronner.Start()
	return StandardCron{cron: cronner}
}

func (s StandardCron) Cron(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	return err
}

// Stop stops scheduling new jobs and waits for running ones to finish.
func (s StandardCron) Stop() {
	<-s.cron.Stop().Done()
}

type cronLogger struct {
	tel telemetry.API
}

func (l cronLogger) formatParams(keysAndValues []any) []any {
	params := []any{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		params = append(params, fmt.Sprintf("%v: %v", keysAndValues[i], keysAndValues[i+1]))
	}
	return params
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(fmt.Sprintf("cron: %s", msg), l.formatParams(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken("cron", append([]any{fmt.Errorf("%s: %w", msg, err)}, l.formatParams(keysAndValues)...)...)
}
