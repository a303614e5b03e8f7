package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kcs-funding/giftcrawl/internal/config"
)

// scheduleLoop fires the crawl and purge jobs once per day at their
// configured hours, local time. Jobs go through the shared runner, so a
// scheduled firing that overlaps a manually triggered job is skipped rather
// than queued.
func scheduleLoop(ctx context.Context, sched config.ScheduleConfig, runner *jobRunner, crawlJob, purgeJob jobFunc) {
	for {
		now := time.Now()
		name, job, next := "crawl", crawlJob, nextDaily(now, sched.CrawlHour)
		if p := nextDaily(now, sched.PurgeHour); p.Before(next) {
			name, job, next = "purge", purgeJob, p
		}

		zap.L().Info("next scheduled job", zap.String("job", name), zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if !runner.tryStart("scheduled "+name, job) {
			zap.L().Warn("scheduled job skipped, another job is running", zap.String("job", name))
		}
	}
}

// nextDaily returns the next occurrence of hour:00 strictly after now.
func nextDaily(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
