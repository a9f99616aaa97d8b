package gapanalysis_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-skillgap-client/credentials"
	"github.com/jrsteele09/go-skillgap-client/credentials/repofake"
	"github.com/jrsteele09/go-skillgap-client/gapanalysis"
	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/stretchr/testify/require"
)

const (
	roleEngineer = "Software Engineer"
	roleAnalyst  = "Data Analyst"
)

// roleScript decides how the fake backend answers each role per round:
// succeedFrom is the 0-based request number from which the role resolves
// (negative means never).
type roleScript struct {
	succeedFrom int
}

type testBackend struct {
	lock    sync.Mutex
	scripts map[string]roleScript
	calls   map[string]int
}

func newTestBackend(scripts map[string]roleScript) *testBackend {
	return &testBackend{scripts: scripts, calls: map[string]int{}}
}

func (b *testBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")

	b.lock.Lock()
	call := b.calls[role]
	b.calls[role]++
	script := b.scripts[role]
	b.lock.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if script.succeedFrom < 0 || call < script.succeedFrom {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"detail": map[string]any{
				"message":      "No job data found for '" + role + "'",
				"suggestions":  []string{"Try increasing the time window"},
				"alternatives": []string{"Full Stack Developer"},
			},
		})
		return
	}

	_ = json.NewEncoder(w).Encode(gapanalysis.Analysis{
		Role:                  role,
		TotalPostingsAnalyzed: 42,
		CoveragePercentage:    67.5,
		MissingSkills:         []string{"Docker"},
	})
}

func (b *testBackend) totalCalls() int {
	b.lock.Lock()
	defer b.lock.Unlock()

	total := 0
	for _, count := range b.calls {
		total += count
	}
	return total
}

func setupAggregator(t *testing.T, backend *testBackend, options ...gapanalysis.Option) *gapanalysis.Aggregator {
	t.Helper()

	server := httptest.NewServer(backend)
	t.Cleanup(server.Close)

	store, err := credentials.NewStore(repofake.NewFakeCredentialsRepo())
	require.NoError(t, err)

	api, err := transport.New(server.URL, store)
	require.NoError(t, err)

	options = append([]gapanalysis.Option{gapanalysis.WithInterval(time.Millisecond)}, options...)
	aggregator, err := gapanalysis.NewAggregator(api, options...)
	require.NoError(t, err)
	return aggregator
}

func TestEmptyTargetSetResolvesImmediately(t *testing.T) {
	backend := newTestBackend(nil)
	aggregator := setupAggregator(t, backend)

	campaign := aggregator.Run(context.Background(), nil)

	require.NoError(t, campaign.Err)
	require.Empty(t, campaign.Results)
	require.Zero(t, backend.totalCalls())
}

func TestPartialSuccessResolvesAfterFirstRound(t *testing.T) {
	backend := newTestBackend(map[string]roleScript{
		roleEngineer: {succeedFrom: 0},
		roleAnalyst:  {succeedFrom: -1},
	})
	aggregator := setupAggregator(t, backend)

	campaign := aggregator.Run(context.Background(), []string{roleEngineer, roleAnalyst})

	// One successful target is enough; the campaign does not wait for the
	// other to ever succeed.
	require.NoError(t, campaign.Err)
	require.Equal(t, 0, campaign.Attempt)
	require.Len(t, campaign.Results, 1)
	require.Contains(t, campaign.Results, roleEngineer)
	require.Equal(t, 2, backend.totalCalls())
}

func TestLaterRoundSuccess(t *testing.T) {
	backend := newTestBackend(map[string]roleScript{
		roleEngineer: {succeedFrom: 2},
	})
	aggregator := setupAggregator(t, backend)

	campaign := aggregator.Run(context.Background(), []string{roleEngineer})

	require.NoError(t, campaign.Err)
	require.Equal(t, 2, campaign.Attempt)
	require.Len(t, campaign.Results, 1)
	require.Equal(t, 42, campaign.Results[roleEngineer].TotalPostingsAnalyzed)
}

func TestExhaustedAttemptsProduceFinalFailure(t *testing.T) {
	backend := newTestBackend(map[string]roleScript{
		roleEngineer: {succeedFrom: -1},
		roleAnalyst:  {succeedFrom: -1},
	})
	aggregator := setupAggregator(t, backend, gapanalysis.WithMaxAttempts(3))

	campaign := aggregator.Run(context.Background(), []string{roleEngineer, roleAnalyst})

	require.Error(t, campaign.Err)
	require.Empty(t, campaign.Results)
	require.Equal(t, 2, campaign.Attempt)

	// No network call is made after the final round.
	require.Equal(t, 6, backend.totalCalls())
}

func TestFinalFailurePrefersStructuredDetail(t *testing.T) {
	backend := newTestBackend(map[string]roleScript{
		roleEngineer: {succeedFrom: -1},
	})
	aggregator := setupAggregator(t, backend, gapanalysis.WithMaxAttempts(1))

	campaign := aggregator.Run(context.Background(), []string{roleEngineer})

	var analysisErr *gapanalysis.AnalysisError
	require.ErrorAs(t, campaign.Err, &analysisErr)
	require.Equal(t, roleEngineer, analysisErr.Role)
	require.Equal(t, "No job data found for 'Software Engineer'", analysisErr.Message)
	require.Equal(t, []string{"Try increasing the time window"}, analysisErr.Suggestions)
	require.Equal(t, []string{"Full Stack Developer"}, analysisErr.Alternatives)
}

func TestCancellationMidDelayStopsCampaign(t *testing.T) {
	backend := newTestBackend(map[string]roleScript{
		roleEngineer: {succeedFrom: -1},
	})
	aggregator := setupAggregator(t, backend,
		gapanalysis.WithMaxAttempts(4),
		gapanalysis.WithInterval(200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan *gapanalysis.Campaign, 1)
	go func() {
		done <- aggregator.Run(ctx, []string{roleEngineer})
	}()

	// Let round 0 settle, then cancel while the aggregator sleeps.
	time.Sleep(50 * time.Millisecond)
	cancel()

	campaign := <-done
	callsAtCancel := backend.totalCalls()

	require.Empty(t, campaign.Results)
	require.NoError(t, campaign.Err)
	require.Equal(t, 0, campaign.Attempt)

	// After the delay would have elapsed, nothing has mutated and no
	// further round ran.
	time.Sleep(300 * time.Millisecond)
	require.Empty(t, campaign.Results)
	require.Equal(t, callsAtCancel, backend.totalCalls())
}

func TestCancellationMidFlightStopsCampaign(t *testing.T) {
	var lock sync.Mutex
	calls := 0
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lock.Lock()
		calls++
		lock.Unlock()

		// Hold every request open until the client gives up.
		select {
		case <-r.Context().Done():
		case <-release:
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	store, err := credentials.NewStore(repofake.NewFakeCredentialsRepo())
	require.NoError(t, err)

	api, err := transport.New(server.URL, store)
	require.NoError(t, err)

	aggregator, err := gapanalysis.NewAggregator(api,
		gapanalysis.WithMaxAttempts(4),
		gapanalysis.WithInterval(time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan *gapanalysis.Campaign, 1)
	go func() {
		done <- aggregator.Run(ctx, []string{roleEngineer, roleAnalyst})
	}()

	// Cancel while both per-target requests are still waiting on the server.
	time.Sleep(50 * time.Millisecond)
	cancel()

	campaign := <-done
	require.Empty(t, campaign.Results)
	require.NoError(t, campaign.Err)
	require.Equal(t, 0, campaign.Attempt)

	// The aborted round is not followed by another one.
	time.Sleep(50 * time.Millisecond)
	lock.Lock()
	defer lock.Unlock()
	require.Equal(t, 2, calls)
}

func TestSameTargets(t *testing.T) {
	require.True(t, gapanalysis.SameTargets(nil, nil))
	require.True(t, gapanalysis.SameTargets([]string{roleEngineer}, []string{roleEngineer}))
	require.False(t, gapanalysis.SameTargets([]string{roleEngineer}, []string{roleAnalyst}))
	require.False(t, gapanalysis.SameTargets([]string{roleEngineer, roleAnalyst}, []string{roleAnalyst, roleEngineer}))
	require.False(t, gapanalysis.SameTargets([]string{roleEngineer}, []string{roleEngineer, roleAnalyst}))
}
