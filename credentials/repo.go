package credentials

// Storage keys. Three independent keys, no composite schema.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserProfile  = "user_profile"
)

// Keys lists every key the store owns, in the order they are cleared.
var Keys = []string{KeyAccessToken, KeyRefreshToken, KeyUserProfile}

// Repo defines the interface for durable credential storage.
// Absence is reported through the found flag, never as an error.
type Repo interface {
	// Get retrieves a value by key
	Get(key string) (value string, found bool, err error)

	// Set overwrites the value for a key
	Set(key, value string) error

	// Delete removes a key; deleting an absent key is a no-op
	Delete(key string) error

	// DeleteAll removes the given keys in a single atomic operation
	DeleteAll(keys ...string) error

	// Close releases any underlying resources
	Close() error
}
