/*
Package rates fetches the live exchange-rate set from the bank's XML
feed. The engine itself never does I/O; this client runs at startup
and on a cron schedule, and its result is persisted so screens keep
working when the feed is down. The compiled-in defaults are the last
resort.

FEED FORMAT:
  <rates>
    <rate pair="eur_dzd">140.25</rate>
    <rate pair="usd_dzd">133.10</rate>
    <rate pair="aed_dzd">36.24</rate>
  </rates>
*/
package rates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/assemned1000/teamgestion-sub000/billing"
)

// FeedClient retrieves exchange rates from the configured XML feed.
type FeedClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

func NewFeedClient(url string, log *logrus.Logger) *FeedClient {
	return &FeedClient{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// Fetch downloads and parses the current rate set. The result is
// validated before it is returned; a feed serving zero or negative
// rates is treated as an error, never applied.
func (c *FeedClient) Fetch(ctx context.Context) (billing.RateSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return billing.RateSet{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return billing.RateSet{}, fmt.Errorf("rate feed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return billing.RateSet{}, fmt.Errorf("rate feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return billing.RateSet{}, fmt.Errorf("failed to read rate feed response: %w", err)
	}

	c.log.Debugf("rate feed response: %s", string(body))

	rates, err := parseFeed(body)
	if err != nil {
		return billing.RateSet{}, err
	}
	if err := rates.Validate(); err != nil {
		return billing.RateSet{}, fmt.Errorf("rate feed served unusable rates: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"eur_dzd": rates.EURDZD,
		"usd_dzd": rates.USDDZD,
		"aed_dzd": rates.AEDDZD,
	}).Info("fetched exchange rates")

	return rates, nil
}

func parseFeed(body []byte) (billing.RateSet, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return billing.RateSet{}, fmt.Errorf("failed to parse rate feed XML: %w", err)
	}

	rates := billing.RateSet{}
	seen := 0
	for _, el := range doc.FindElements("//rates/rate") {
		value, err := decimal.NewFromString(el.Text())
		if err != nil {
			return billing.RateSet{}, fmt.Errorf("malformed rate value %q: %w", el.Text(), err)
		}

		switch el.SelectAttrValue("pair", "") {
		case "eur_dzd":
			rates.EURDZD = value
			seen++
		case "usd_dzd":
			rates.USDDZD = value
			seen++
		case "aed_dzd":
			rates.AEDDZD = value
			seen++
		}
	}

	if seen != 3 {
		return billing.RateSet{}, fmt.Errorf("rate feed missing pairs: found %d of 3", seen)
	}
	return rates, nil
}
