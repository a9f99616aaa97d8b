// Package market exposes the backend's aggregated job-market analytics.
package market

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
)

const trendingPath = "/market/trending"

// Backend query defaults.
const (
	DefaultDays           = 30
	DefaultSkillsLimit    = 15
	DefaultLocationsLimit = 10
)

// TrendingSkill is one in-demand skill with its posting frequency.
type TrendingSkill struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TrendingLocation is one job location with its posting count.
type TrendingLocation struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// TechnologyTrend is one technology tag with its posting count.
type TechnologyTrend struct {
	Technology string `json:"technology"`
	Count      int    `json:"count"`
}

// SalaryTrend is the salary distribution for one location.
type SalaryTrend struct {
	Location string  `json:"location"`
	AvgMin   float64 `json:"avg_min"`
	AvgMax   float64 `json:"avg_max"`
	Count    int     `json:"count"`
}

// RemoteTrend is the remote versus onsite posting split.
type RemoteTrend struct {
	Remote bool `json:"remote"`
	Count  int  `json:"count"`
}

// Trending is the backend's market summary for a time window.
type Trending struct {
	TopSkills          []TrendingSkill    `json:"top_skills"`
	TopLocations       []TrendingLocation `json:"top_locations"`
	TechnologyTrends   []TechnologyTrend  `json:"technology_trends"`
	SalaryTrends       []SalaryTrend      `json:"salary_trends"`
	RemoteDistribution []RemoteTrend      `json:"remote_distribution"`
	TotalJobsAnalyzed  int                `json:"total_jobs_analyzed"`
	GeneratedAt        time.Time          `json:"generated_at"`
	WindowDays         int                `json:"window_days"`
}

// Client fetches market analytics through the authenticated transport.
type Client struct {
	api *transport.Client
}

// NewClient creates a market Client issuing requests through api.
func NewClient(api *transport.Client) (*Client, error) {
	if api == nil {
		return nil, errors.New("[market.NewClient] transport client is required")
	}
	return &Client{api: api}, nil
}

// Trending fetches the market summary for the given window. Zero arguments
// fall back to the backend defaults.
func (c *Client) Trending(ctx context.Context, days, skillsLimit, locationsLimit int) (*Trending, error) {
	if days <= 0 {
		days = DefaultDays
	}
	if skillsLimit <= 0 {
		skillsLimit = DefaultSkillsLimit
	}
	if locationsLimit <= 0 {
		locationsLimit = DefaultLocationsLimit
	}

	query := url.Values{
		"days":            []string{strconv.Itoa(days)},
		"skills_limit":    []string{strconv.Itoa(skillsLimit)},
		"locations_limit": []string{strconv.Itoa(locationsLimit)},
	}

	var trending Trending
	if err := c.api.Get(ctx, trendingPath, query, &trending); err != nil {
		return nil, errors.Wrap(err, "[Client.Trending] api.Get")
	}
	return &trending, nil
}
