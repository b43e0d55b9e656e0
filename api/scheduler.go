/*
scheduler.go - Scheduled refresh of the exchange-rate set

PURPOSE:
  Keeps the persisted rate set current by polling the bank's XML feed
  on a cron schedule. A failed fetch leaves the last good rates in
  place; screens then use those, or the compiled-in defaults if
  nothing was ever stored. The refresher never blocks request
  handling.
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/assemned1000/teamgestion-sub000/rates"
	"github.com/assemned1000/teamgestion-sub000/store/sqlite"
)

// RateRefresher periodically fetches and persists exchange rates.
type RateRefresher struct {
	Feed  *rates.FeedClient
	Store *sqlite.Store
	Log   *logrus.Logger

	cron *cron.Cron
}

func NewRateRefresher(feed *rates.FeedClient, store *sqlite.Store, log *logrus.Logger) *RateRefresher {
	return &RateRefresher{Feed: feed, Store: store, Log: log}
}

// Start runs one immediate refresh, then schedules recurring ones.
// The schedule uses standard cron syntax, e.g. "0 6 * * *" for daily.
func (rr *RateRefresher) Start(schedule string) error {
	rr.RefreshOnce()

	rr.cron = cron.New()
	if _, err := rr.cron.AddFunc(schedule, rr.RefreshOnce); err != nil {
		return err
	}
	rr.cron.Start()
	rr.Log.Infof("rate refresh scheduled: %s", schedule)
	return nil
}

// Stop halts the schedule, waiting for a running refresh to finish.
func (rr *RateRefresher) Stop() {
	if rr.cron != nil {
		<-rr.cron.Stop().Done()
	}
}

// RefreshOnce fetches the feed and persists the result. Failures are
// logged and swallowed; stale rates beat missing rates.
func (rr *RateRefresher) RefreshOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fetched, err := rr.Feed.Fetch(ctx)
	if err != nil {
		rr.Log.WithError(err).Warn("rate refresh failed, keeping previous rates")
		return
	}

	if err := rr.Store.SaveRates(ctx, fetched); err != nil {
		rr.Log.WithError(err).Error("failed to persist refreshed rates")
		return
	}

	rr.Log.Info("exchange rates refreshed")
}
