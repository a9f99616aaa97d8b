package gapanalysis

// SkillGapItem is one required skill and whether the user already has it.
type SkillGapItem struct {
	Skill              string  `json:"skill"`
	RequiredPercentage float64 `json:"required_percentage"`
	UserHas            bool    `json:"user_has"`
}

// Analysis is the backend's gap analysis for one target role.
type Analysis struct {
	Role                  string         `json:"role"`
	TotalPostingsAnalyzed int            `json:"total_postings_analyzed"`
	RequiredSkills        []SkillGapItem `json:"required_skills"`
	MissingSkills         []string       `json:"missing_skills"`
	CoveragePercentage    float64        `json:"coverage_percentage"`
	SkillMatchCount       int            `json:"skill_match_count"`
	TotalRequiredSkills   int            `json:"total_required_skills"`
}
