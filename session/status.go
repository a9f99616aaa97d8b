package session

import "github.com/jrsteele09/go-skillgap-client/users"

// Status is the session lifecycle state.
type Status string

const (
	// StatusLoading is the only valid initial state, held until Bootstrap
	// has decided whether stored credentials are usable.
	StatusLoading Status = "loading"

	// StatusAuthenticated means a validated access token and a cached user
	// are both present.
	StatusAuthenticated Status = "authenticated"

	// StatusAnonymous means no usable credentials exist.
	StatusAnonymous Status = "anonymous"

	// StatusError means startup validation could not be performed at all,
	// as opposed to completing with "not authenticated".
	StatusError Status = "error"
)

// Snapshot is an immutable view of the session. User is non-nil exactly
// when Status is StatusAuthenticated.
type Snapshot struct {
	Status Status
	User   *users.Profile
}

// Authenticated reports whether the snapshot carries a logged-in user.
func (s Snapshot) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}
