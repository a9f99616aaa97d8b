// Package gapanalysis fetches skill-gap analyses for a set of target roles,
// tolerating that the backend may not have finished computing a role's
// analysis on the first request.
package gapanalysis

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	gapAnalysisPath = "/skills/gap-analysis"

	// Backend query defaults.
	DefaultDays      = 30
	DefaultThreshold = 0.25

	defaultMaxAttempts = 6
	defaultInterval    = 5 * time.Second
)

// Aggregator runs bounded-retry, fixed-interval polling campaigns over the
// gap-analysis endpoint. The delay is deliberately constant: this is a
// low-frequency polling path, not a hot retry loop.
type Aggregator struct {
	api         *transport.Client
	maxAttempts int
	interval    time.Duration
	days        int
	threshold   float64
}

// Option defines a function type to modify the Aggregator instance.
type Option func(*Aggregator)

// WithMaxAttempts overrides how many rounds a campaign may run.
func WithMaxAttempts(attempts int) Option {
	return func(a *Aggregator) {
		a.maxAttempts = attempts
	}
}

// WithInterval overrides the fixed delay between all-failed rounds.
func WithInterval(interval time.Duration) Option {
	return func(a *Aggregator) {
		a.interval = interval
	}
}

// WithQuery overrides the analysis window and skill threshold sent per target.
func WithQuery(days int, threshold float64) Option {
	return func(a *Aggregator) {
		a.days = days
		a.threshold = threshold
	}
}

// NewAggregator creates an Aggregator issuing requests through api.
func NewAggregator(api *transport.Client, options ...Option) (*Aggregator, error) {
	if api == nil {
		return nil, errors.New("[NewAggregator] transport client is required")
	}

	aggregator := &Aggregator{
		api:         api,
		maxAttempts: defaultMaxAttempts,
		interval:    defaultInterval,
		days:        DefaultDays,
		threshold:   DefaultThreshold,
	}
	for _, opt := range options {
		opt(aggregator)
	}
	if aggregator.maxAttempts < 1 {
		return nil, errors.New("[NewAggregator] maxAttempts must be at least 1")
	}
	return aggregator, nil
}

// Campaign is the state of one polling aggregation over a fixed ordered
// role set. Once the owning context is cancelled no field mutates again.
type Campaign struct {
	ID      uuid.UUID
	Targets []string

	// Attempt is the 0-based index of the last round that ran.
	Attempt int

	// Results holds the successful analyses of the round that resolved the
	// campaign, keyed by role. Empty on failure.
	Results map[string]Analysis

	// Err is the consolidated failure after all rounds were exhausted.
	Err error
}

// SameTargets reports structural equality over two ordered role lists.
// Campaign identity is the ordered list, not slice identity, so an
// unrelated caller refresh does not restart a campaign.
func SameTargets(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// outcome is one target's settled result within a round.
type outcome struct {
	role     string
	analysis Analysis
	err      error
}

// Run executes one campaign to completion or cancellation. An empty target
// set resolves immediately with an empty result set; that is not an error.
//
// Each round fans out one request per target, waits for every target to
// settle, then evaluates: any success resolves the campaign with exactly
// that round's successful results; a fully failed round sleeps the fixed
// interval and tries again, up to the attempt bound. Per-target failures
// are not classified: a validation failure and a still-computing failure
// are equally eligible for the next round.
func (a *Aggregator) Run(ctx context.Context, targets []string) *Campaign {
	campaign := &Campaign{
		ID:      uuid.New(),
		Targets: append([]string(nil), targets...),
		Results: map[string]Analysis{},
	}
	if len(targets) == 0 {
		return campaign
	}

	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		campaign.Attempt = attempt

		outcomes := a.fanOut(ctx, targets)
		if ctx.Err() != nil {
			return campaign
		}

		succeeded := map[string]Analysis{}
		for _, o := range outcomes {
			if o.err == nil {
				succeeded[o.role] = o.analysis
			}
		}

		log.Debug().
			Str("campaign_id", campaign.ID.String()).
			Int("attempt", attempt).
			Int("targets", len(targets)).
			Int("succeeded", len(succeeded)).
			Msg("gap analysis round settled")

		// A single successful round is sufficient; the campaign does not
		// wait for every target to succeed.
		if len(succeeded) > 0 {
			campaign.Results = succeeded
			campaign.Err = nil
			return campaign
		}

		if attempt == a.maxAttempts-1 {
			campaign.Results = map[string]Analysis{}
			campaign.Err = newAnalysisError(outcomes[0].role, outcomes[0].err)
			return campaign
		}

		if !sleepInterval(ctx, a.interval) {
			return campaign
		}
	}
	return campaign
}

// fanOut issues one request per target concurrently and waits for all of
// them to settle. Outcomes keep target order; a slow or failed target never
// blocks evaluation of the others, and no target retries out of lockstep
// with the round.
func (a *Aggregator) fanOut(ctx context.Context, targets []string) []outcome {
	outcomes := make([]outcome, len(targets))

	var wg sync.WaitGroup
	for i, role := range targets {
		wg.Add(1)
		go func(i int, role string) {
			defer wg.Done()

			var analysis Analysis
			err := a.api.Get(ctx, gapAnalysisPath, a.query(role), &analysis)
			outcomes[i] = outcome{role: role, analysis: analysis, err: err}
		}(i, role)
	}
	wg.Wait()

	return outcomes
}

func (a *Aggregator) query(role string) url.Values {
	return url.Values{
		"role":      []string{role},
		"days":      []string{strconv.Itoa(a.days)},
		"threshold": []string{strconv.FormatFloat(a.threshold, 'f', -1, 64)},
	}
}

// sleepInterval waits the fixed inter-round delay, returning false when the
// context was cancelled mid-delay.
func sleepInterval(ctx context.Context, interval time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(interval):
		return true
	}
}
