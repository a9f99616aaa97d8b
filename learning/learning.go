// Package learning exposes the backend's curated learning resources and
// per-user learning roadmaps.
package learning

import (
	"context"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
)

const (
	roadmapPath        = "/learning/roadmap"
	resourcesPath      = "/learning/resources"
	resourceSearchPath = "/learning/resources/search"

	// Backend query default.
	DefaultSearchLimit = 20
)

// ResourceType classifies a learning resource.
type ResourceType string

const (
	ResourceDocumentation ResourceType = "Documentation"
	ResourceVideo         ResourceType = "Video"
	ResourceCourse        ResourceType = "Course"
	ResourceBook          ResourceType = "Book"
)

// Valid reports whether the value is one the backend accepts.
func (r ResourceType) Valid() bool {
	switch r {
	case ResourceDocumentation, ResourceVideo, ResourceCourse, ResourceBook:
		return true
	}
	return false
}

// Resource is one learning resource for a skill.
type Resource struct {
	Type        ResourceType `json:"type"`
	Title       string       `json:"title"`
	URL         string       `json:"url"`
	Description string       `json:"description"`
}

// SkillPath is the resource list for one skill, with the priority the
// backend's gap analysis assigned to it. PriorityScore is nil when the
// roadmap was built without gap analysis.
type SkillPath struct {
	Skill         string     `json:"skill"`
	Resources     []Resource `json:"resources"`
	IsMissing     bool       `json:"is_missing"`
	PriorityScore *float64   `json:"priority_score"`
}

// Roadmap is the backend's personalized learning plan for the signed-in user.
type Roadmap struct {
	TargetRole         string      `json:"target_role"`
	SkillPaths         []SkillPath `json:"skill_paths"`
	TotalSkills        int         `json:"total_skills"`
	MissingSkillsCount int         `json:"missing_skills_count"`
	CoveragePercentage float64     `json:"coverage_percentage"`
	Recommendations    []string    `json:"recommendations"`
}

// ResourceSearch is one page of resource search results.
type ResourceSearch struct {
	Resources   []Resource     `json:"resources"`
	TotalFound  int            `json:"total_found"`
	SearchQuery string         `json:"search_query"`
	Filters     map[string]any `json:"filters_applied"`
}

// Client fetches learning resources through the authenticated transport.
type Client struct {
	api *transport.Client
}

// NewClient creates a learning Client issuing requests through api.
func NewClient(api *transport.Client) (*Client, error) {
	if api == nil {
		return nil, errors.New("[learning.NewClient] transport client is required")
	}
	return &Client{api: api}, nil
}

// Roadmap fetches the roadmap, optionally focused on one target role.
// includeGapAnalysis lets the backend prioritize paths by the user's gaps.
func (c *Client) Roadmap(ctx context.Context, targetRole string, includeGapAnalysis bool) (*Roadmap, error) {
	query := url.Values{
		"include_gap_analysis": []string{strconv.FormatBool(includeGapAnalysis)},
	}
	if targetRole != "" {
		query.Set("target_role", targetRole)
	}

	var roadmap Roadmap
	if err := c.api.Get(ctx, roadmapPath, query, &roadmap); err != nil {
		return nil, errors.Wrap(err, "[Client.Roadmap] api.Get")
	}
	return &roadmap, nil
}

// Resources fetches resources for the given skills, optionally narrowed by
// type and a free-text filter.
func (c *Client) Resources(ctx context.Context, skills []string, resourceType ResourceType, search string) ([]Resource, error) {
	if len(skills) == 0 {
		return nil, errors.New("[Client.Resources] at least one skill is required")
	}
	if resourceType != "" && !resourceType.Valid() {
		return nil, errors.Errorf("[Client.Resources] unknown resource type %q", resourceType)
	}

	query := url.Values{"skills": skills}
	if resourceType != "" {
		query.Set("resource_type", string(resourceType))
	}
	if search != "" {
		query.Set("search", search)
	}

	var resources []Resource
	if err := c.api.Get(ctx, resourcesPath, query, &resources); err != nil {
		return nil, errors.Wrap(err, "[Client.Resources] api.Get")
	}
	return resources, nil
}

// SearchResources searches resources across skill names, titles and
// descriptions. A non-positive limit falls back to the backend default.
func (c *Client) SearchResources(ctx context.Context, searchQuery string, resourceType ResourceType, limit, offset int) (*ResourceSearch, error) {
	if searchQuery == "" {
		return nil, errors.New("[Client.SearchResources] query is required")
	}
	if resourceType != "" && !resourceType.Valid() {
		return nil, errors.Errorf("[Client.SearchResources] unknown resource type %q", resourceType)
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	query := url.Values{
		"query":  []string{searchQuery},
		"limit":  []string{strconv.Itoa(limit)},
		"offset": []string{strconv.Itoa(offset)},
	}
	if resourceType != "" {
		query.Set("resource_type", string(resourceType))
	}

	var result ResourceSearch
	if err := c.api.Get(ctx, resourceSearchPath, query, &result); err != nil {
		return nil, errors.Wrap(err, "[Client.SearchResources] api.Get")
	}
	return &result, nil
}
