package main

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/jrsteele09/go-skillgap-client/credentials"
	"github.com/jrsteele09/go-skillgap-client/credentials/badgerrepo"
	"github.com/jrsteele09/go-skillgap-client/gapanalysis"
	"github.com/jrsteele09/go-skillgap-client/internal/config"
	"github.com/jrsteele09/go-skillgap-client/learning"
	"github.com/jrsteele09/go-skillgap-client/market"
	"github.com/jrsteele09/go-skillgap-client/projects"
	"github.com/jrsteele09/go-skillgap-client/session"
	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// app wires the credential store, transport, session manager and the
// analysis clients together by construction.
type app struct {
	store      *credentials.Store
	session    *session.Manager
	aggregator *gapanalysis.Aggregator
	market     *market.Client
	learning   *learning.Client
	projects   *projects.Client

	loginHintShown bool
}

func newApp(cfg config.Config) (*app, error) {
	repo, err := badgerrepo.New(badgerrepo.DefaultConfig(filepath.Join(cfg.GetDataFolder(), "credentials")))
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] badgerrepo.New")
	}

	store, err := credentials.NewStore(repo)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] credentials.NewStore")
	}

	api, err := transport.New(cfg.GetAPIBaseURL(), store,
		transport.WithHTTPClient(&http.Client{Timeout: cfg.GetHTTPTimeout()}))
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] transport.New")
	}

	sessionManager, err := session.NewManager(store, api)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] session.NewManager")
	}

	aggregator, err := gapanalysis.NewAggregator(api,
		gapanalysis.WithMaxAttempts(cfg.GetMaxPollAttempts()),
		gapanalysis.WithInterval(cfg.GetPollInterval()),
		gapanalysis.WithQuery(cfg.GetAnalysisDays(), cfg.GetAnalysisThreshold()))
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] gapanalysis.NewAggregator")
	}

	marketClient, err := market.NewClient(api)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] market.NewClient")
	}

	learningClient, err := learning.NewClient(api)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] learning.NewClient")
	}

	projectsClient, err := projects.NewClient(api)
	if err != nil {
		return nil, errors.Wrap(err, "[newApp] projects.NewClient")
	}

	return &app{
		store:      store,
		session:    sessionManager,
		aggregator: aggregator,
		market:     marketClient,
		learning:   learningClient,
		projects:   projectsClient,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		log.Err(err).Msg("failed to close credential store")
	}
}

// showLoginHint routes the user to the login entry point. Showing it twice
// is a no-op, not an error.
func (a *app) showLoginHint() {
	if a.loginHintShown {
		return
	}
	a.loginHintShown = true
	fmt.Println("Not signed in. Run `skillgap login` to sign in.")
}

// printResult renders a session operation outcome, mapping field errors to
// the inputs they concern.
func printResult(result session.Result) {
	if result.OK {
		return
	}
	fmt.Println(result.Message)
	for _, field := range result.Fields {
		fmt.Printf("  %s: %s\n", field.Loc, field.Msg)
	}
}
