// Package projects exposes the backend's project-idea catalog and the
// per-user recommendations computed from it.
package projects

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
)

const (
	recommendationsPath = "/projects/recommendations"
	skillBuildingPath   = "/projects/skill-building"
	searchPath          = "/projects/search"
	allPath             = "/projects/all"

	// Backend query defaults.
	DefaultRecommendationLimit = 10
	DefaultSearchLimit         = 20
	DefaultListLimit           = 50
)

// Difficulty grades a project idea.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Valid reports whether the value is one the backend accepts.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	}
	return false
}

// Idea is one project with the backend's per-user skill match.
// SkillMatchPercentage is nil on endpoints that do not compute it.
type Idea struct {
	ID                   int        `json:"id"`
	Title                string     `json:"title"`
	Description          string     `json:"description"`
	Difficulty           Difficulty `json:"difficulty"`
	EstimatedTime        string     `json:"estimated_time"`
	Skills               []string   `json:"skills"`
	Features             []string   `json:"features"`
	Roles                []string   `json:"roles"`
	SkillMatchPercentage *float64   `json:"skill_match_percentage"`
	MissingSkills        []string   `json:"missing_skills"`
}

// Recommendations is the personalized project list for the signed-in user.
type Recommendations struct {
	Projects        []Idea         `json:"projects"`
	TotalProjects   int            `json:"total_projects"`
	Filters         map[string]any `json:"filters_applied"`
	UserSkillCount  int            `json:"user_skill_count"`
	Recommendations []string       `json:"recommendations"`
}

// Search is one page of project search results.
type Search struct {
	Projects    []Idea         `json:"projects"`
	TotalFound  int            `json:"total_found"`
	SearchQuery string         `json:"search_query"`
	Filters     map[string]any `json:"filters_applied"`
}

// Client fetches project ideas through the authenticated transport.
type Client struct {
	api *transport.Client
}

// NewClient creates a projects Client issuing requests through api.
func NewClient(api *transport.Client) (*Client, error) {
	if api == nil {
		return nil, errors.New("[projects.NewClient] transport client is required")
	}
	return &Client{api: api}, nil
}

// Recommendations fetches projects ranked by skill match, optionally filtered
// by difficulty, focus skills and target role. A non-positive limit falls
// back to the backend default.
func (c *Client) Recommendations(ctx context.Context, difficulty Difficulty, skillFocus []string, targetRole string, limit int) (*Recommendations, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, errors.Errorf("[Client.Recommendations] unknown difficulty %q", difficulty)
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	query := url.Values{"limit": []string{strconv.Itoa(limit)}}
	if difficulty != "" {
		query.Set("difficulty", string(difficulty))
	}
	for _, skill := range skillFocus {
		query.Add("skill_focus", skill)
	}
	if targetRole != "" {
		query.Set("target_role", targetRole)
	}

	var recommendations Recommendations
	if err := c.api.Get(ctx, recommendationsPath, query, &recommendations); err != nil {
		return nil, errors.Wrap(err, "[Client.Recommendations] api.Get")
	}
	return &recommendations, nil
}

// SkillBuilding fetches projects that teach the given skills, easiest first.
func (c *Client) SkillBuilding(ctx context.Context, skills []string, difficulty Difficulty, limit int) ([]Idea, error) {
	if len(skills) == 0 {
		return nil, errors.New("[Client.SkillBuilding] at least one skill is required")
	}
	if difficulty != "" && !difficulty.Valid() {
		return nil, errors.Errorf("[Client.SkillBuilding] unknown difficulty %q", difficulty)
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	query := url.Values{
		"skills": skills,
		"limit":  []string{strconv.Itoa(limit)},
	}
	if difficulty != "" {
		query.Set("difficulty", string(difficulty))
	}

	var ideas []Idea
	if err := c.api.Get(ctx, skillBuildingPath, query, &ideas); err != nil {
		return nil, errors.Wrap(err, "[Client.SkillBuilding] api.Get")
	}
	return ideas, nil
}

// Search searches projects across titles, descriptions, features and skills.
// A non-positive limit falls back to the backend default.
func (c *Client) Search(ctx context.Context, searchQuery string, skills []string, difficulty Difficulty, limit, offset int) (*Search, error) {
	if searchQuery == "" {
		return nil, errors.New("[Client.Search] query is required")
	}
	if difficulty != "" && !difficulty.Valid() {
		return nil, errors.Errorf("[Client.Search] unknown difficulty %q", difficulty)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{
		"query":  []string{searchQuery},
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(offset)},
	}
	for _, skill := range skills {
		query.Add("skills", skill)
	}
	if difficulty != "" {
		query.Set("difficulty", string(difficulty))
	}

	var result Search
	if err := c.api.Get(ctx, searchPath, query, &result); err != nil {
		return nil, errors.Wrap(err, "[Client.Search] api.Get")
	}
	return &result, nil
}

// All fetches the full catalog page by page.
func (c *Client) All(ctx context.Context, difficulty Difficulty, limit, offset int) ([]Idea, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, errors.Errorf("[Client.All] unknown difficulty %q", difficulty)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	query := url.Values{
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(offset)},
	}
	if difficulty != "" {
		query.Set("difficulty", string(difficulty))
	}

	var ideas []Idea
	if err := c.api.Get(ctx, allPath, query, &ideas); err != nil {
		return nil, errors.Wrap(err, "[Client.All] api.Get")
	}
	return ideas, nil
}
