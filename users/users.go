package users

import (
	"fmt"
	"time"
)

// ExperienceLevel represents where the user is in their studies.
// The backend rejects anything outside this set.
type ExperienceLevel string

const (
	ExperienceTwelfthPassOut ExperienceLevel = "12th Pass Out"
	ExperienceFirstYear      ExperienceLevel = "1st Year"
	ExperienceSecondYear     ExperienceLevel = "2nd Year"
	ExperienceThirdYear      ExperienceLevel = "3rd Year"
	ExperienceFourthYear     ExperienceLevel = "4th Year"
)

// ExperienceLevels lists the levels the backend accepts, in order.
var ExperienceLevels = []ExperienceLevel{
	ExperienceTwelfthPassOut,
	ExperienceFirstYear,
	ExperienceSecondYear,
	ExperienceThirdYear,
	ExperienceFourthYear,
}

// Valid reports whether the level is one the backend accepts.
// The empty level is valid: the field is optional.
func (e ExperienceLevel) Valid() bool {
	if e == "" {
		return true
	}
	for _, level := range ExperienceLevels {
		if e == level {
			return true
		}
	}
	return false
}

// Profile is the canonical server-side user record. The server owns every
// field; the client only ever caches what the server returned.
type Profile struct {
	ID              string          `json:"id"`
	Email           string          `json:"email"`
	FullName        string          `json:"full_name"`
	Skills          []string        `json:"skills"`
	TargetRoles     []string        `json:"target_roles"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	Location        string          `json:"location,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Registration is the payload for creating a new account.
type Registration struct {
	Email           string          `json:"email"`
	Password        string          `json:"password"`
	FullName        string          `json:"full_name"`
	Skills          []string        `json:"skills,omitempty"`
	TargetRoles     []string        `json:"target_roles,omitempty"`
	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	Location        string          `json:"location,omitempty"`
}

// ProfileUpdate is a merge-patch for PUT /auth/me. Nil fields are omitted
// from the request body and left untouched by the server.
type ProfileUpdate struct {
	FullName        *string          `json:"full_name,omitempty"`
	Skills          *[]string        `json:"skills,omitempty"`
	TargetRoles     *[]string        `json:"target_roles,omitempty"`
	ExperienceLevel *ExperienceLevel `json:"experience_level,omitempty"`
	Location        *string          `json:"location,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p ProfileUpdate) Empty() bool {
	return p.FullName == nil && p.Skills == nil && p.TargetRoles == nil &&
		p.ExperienceLevel == nil && p.Location == nil
}

func (p Profile) String() string {
	return fmt.Sprintf("%s <%s>", p.FullName, p.Email)
}
