package session

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Record is the persisted view of the authenticated user
type Record struct {
	User        json.RawMessage
	AccessToken string
	UserID      string
	Username    string
}

// Save writes a login payload to the store: the full payload under "user"
// plus the auxiliary keys the payload carries. Auxiliary keys absent from
// the payload are removed so two logins never mix. The previous user is
// dropped before any key changes and the new one is written last, so a
// failed write never leaves a user next to another login's token.
func Save(store Store, payload []byte) (*Record, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, ErrInvalidPayload
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, payload); err != nil {
		return nil, ErrInvalidPayload
	}

	rec := &Record{
		User:        json.RawMessage(compact.Bytes()),
		AccessToken: scalar(fields["accessToken"]),
		UserID:      scalar(fields["userId"]),
		Username:    scalar(fields["username"]),
	}

	if err := write(store, rec, compact.String()); err != nil {
		_ = Clear(store)
		return nil, err
	}
	return rec, nil
}

func write(store Store, rec *Record, user string) error {
	if err := store.Delete(KeyUser); err != nil {
		return fmt.Errorf("failed to remove previous user: %w", err)
	}

	aux := []struct {
		key   string
		value string
	}{
		{KeyAccessToken, rec.AccessToken},
		{KeyUserID, rec.UserID},
		{KeyUsername, rec.Username},
	}
	for _, kv := range aux {
		var err error
		if kv.value != "" {
			err = store.Set(kv.key, kv.value)
		} else {
			err = store.Delete(kv.key)
		}
		if err != nil {
			return fmt.Errorf("failed to save %s: %w", kv.key, err)
		}
	}

	if err := store.Set(KeyUser, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// Load reads the record back; ErrNotFound means nobody is logged in
func Load(store Store) (*Record, error) {
	user, err := store.Get(KeyUser)
	if err != nil {
		return nil, err
	}

	rec := &Record{User: json.RawMessage(user)}
	for key, dst := range map[string]*string{
		KeyAccessToken: &rec.AccessToken,
		KeyUserID:      &rec.UserID,
		KeyUsername:    &rec.Username,
	} {
		v, err := store.Get(key)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		*dst = v
	}
	return rec, nil
}

// Clear removes every session key. It does not contact the backend.
func Clear(store Store) error {
	for _, key := range []string{KeyUser, KeyAccessToken, KeyUserID, KeyUsername} {
		if err := store.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// BearerToken returns the stored access token, or "" when there is none
func BearerToken(store Store) string {
	token, err := store.Get(KeyAccessToken)
	if err != nil {
		return ""
	}
	return token
}

// Authenticated reports whether the record belongs to a logged-in user.
// A JWT access token past its expiry ends the session; opaque tokens are
// trusted until the server rejects them.
func (r *Record) Authenticated(now time.Time) bool {
	if r == nil || len(r.User) == 0 {
		return false
	}
	if r.AccessToken == "" {
		return true
	}
	claims, err := ParseClaims(r.AccessToken)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return now.Before(claims.ExpiresAt.Time)
}

// DisplayName prefers the username key, then a name inside the user payload
func (r *Record) DisplayName() string {
	if r.Username != "" {
		return r.Username
	}
	var u struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(r.User, &u); err == nil {
		for _, s := range []string{u.Username, u.Name, u.Email} {
			if s != "" {
				return s
			}
		}
	}
	return r.UserID
}

func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
