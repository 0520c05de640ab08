// Package tracker defines the external issue tracker client boundary.
// The real transport is not implemented; submission goes through a stub
// that is invoked only after a document has been generated.
package tracker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// AuthError indicates the tracker rejected the client's credentials.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("tracker authentication failed: %s", e.Reason)
}

// NetworkError indicates the tracker could not be reached.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("tracker unreachable: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Client submits a generated document for an issue.
type Client interface {
	Submit(ctx context.Context, issueKey, document string) error
}

// Stub is the placeholder client. It logs the request and refuses it.
type Stub struct {
	log zerolog.Logger
}

var _ Client = (*Stub)(nil)

// NewStub creates the stub client.
func NewStub(log zerolog.Logger) *Stub {
	return &Stub{log: log}
}

// Submit always fails with an AuthError: no credentials are configured.
func (s *Stub) Submit(_ context.Context, issueKey, _ string) error {
	s.log.Debug().Str("issue_key", issueKey).Msg("tracker submission requested")
	return &AuthError{Reason: "no tracker credentials configured"}
}
