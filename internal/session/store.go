package session

import "errors"

// Well-known keys shared by every view that reads the session
const (
	KeyUser        = "user"
	KeyAccessToken = "accessToken"
	KeyUserID      = "userId"
	KeyUsername    = "username"
)

var (
	ErrNotFound       = errors.New("session key not found")
	ErrInvalidPayload = errors.New("session payload is not a JSON object")
)

// Store is the durable client-local key/value store holding the session.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}
