// Package portal holds the signed-in views of the platform: account flows,
// author analytics, the moderation and report queues and conversion-rate
// administration. Each is thin fetch/act plumbing over the API client.
package portal

import (
	"context"
	"fmt"
	"net/url"

	"github.com/BradenHooton/folio/internal/validation"
)

// API is the JSON request surface the portal needs. *apiclient.Client
// satisfies it.
type API interface {
	Do(ctx context.Context, method, path string, in, out any) error
}

// validate rejects a request locally before any network call
func validate(req any) error {
	if errs := validation.Struct(req); len(errs) > 0 {
		return errs
	}
	return nil
}

// itemPath builds /base/{id}/action with the id escaped
func itemPath(base, id, action string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("%s: id is required", base)
	}
	return fmt.Sprintf("%s/%s/%s", base, url.PathEscape(id), action), nil
}
