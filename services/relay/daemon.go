package relay

import (
	"context"
	"fmt"
	"time"

	"jetcargo-backend/lib/chrono"
)

const (
	report_relay_sweep     = "relay.sweep"
	report_relay_retention = "relay.retention"
	report_relay_counts    = "relay.counts"
)

// StartDaemons schedules the background jobs of the relay, they stop with
// the scheduler.
func (s Service) StartDaemons(cron chrono.CronAPI) error {
	err := cron.Cron("@every 10m", s.sweepRateLimits)
	if err != nil {
		return err
	}
	err = cron.Cron("@hourly", func() {
		s.reportCounts(context.Background())
	})
	if err != nil {
		return err
	}
	if s.options.RetentionDays > 0 {
		err = cron.Cron("@daily", func() {
			s.pruneAuditLog(context.Background())
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// sweepRateLimits forgets ips that have not submitted within the window.
func (s Service) sweepRateLimits() {
	removed := s.limiter.Sweep(s.options.Now())
	s.tel.ReportDebug("swept rate limit buckets", removed)
	s.tel.ReportCount(report_relay_sweep, int64(s.limiter.Len()))
}

// reportCounts reports the submissions of the last day by status.
func (s Service) reportCounts(ctx context.Context) {
	since := s.options.Now().Add(-24 * time.Hour).Unix()
	rows, err := s.qry.CountSubmissionsByStatus(ctx, since)
	if err != nil {
		s.tel.ReportBroken(report_relay_counts, err)
		return
	}
	for _, row := range rows {
		s.tel.ReportCount(fmt.Sprintf("%s.%s", report_relay_counts, row.Status), row.Count)
	}
}

func (s Service) pruneAuditLog(ctx context.Context) {
	cutoff := s.options.Now().AddDate(0, 0, -s.options.RetentionDays).Unix()
	deleted, err := s.qry.DeleteSubmissionsBefore(ctx, cutoff)
	if err != nil {
		s.tel.ReportBroken(report_relay_retention, err)
		return
	}
	s.tel.ReportDebug("pruned audit log", deleted)
}
