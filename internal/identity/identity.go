// Package identity resolves the calling user for the transport layer. The
// external identity provider owns registration and credentials; this package
// only verifies the bearer tokens it mints and mirrors the public user
// fields.
package identity

import (
	"context"
	"errors"
)

// Identity carries the public fields of an authenticated user.
type Identity struct {
	ID   string
	Name string
	Lab  string
}

// ErrUnauthenticated is returned for missing, malformed or forged tokens and
// for tokens referencing unknown users.
var ErrUnauthenticated = errors.New("identity: unauthenticated")

// Provider resolves a bearer token to an identity.
type Provider interface {
	Resolve(ctx context.Context, token string) (Identity, error)
}
