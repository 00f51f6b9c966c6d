// Package auth applies Imgur API credentials to outgoing requests.
//
//go:generate mockgen -destination=./mocks/auth.go . Authenticator
package auth

import (
	"net/http"
	"strings"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
)

// Authenticator defines the interface for applying authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request) error
	Type() Type
}

// ClientIDAuth authorizes anonymous API calls with a registered application id.
type ClientIDAuth struct {
	ClientID string
}

// BearerAuth authorizes calls on behalf of a user with an OAuth access token.
type BearerAuth struct {
	Token string
}

// HeaderAuth represents authentication via custom HTTP headers.
type HeaderAuth struct {
	Headers map[string]string
}

// Type represents the type of authentication.
type Type string

// Authentication types.
const (
	ClientIDAuthType Type = "client-id"
	BearerAuthType   Type = "bearer"
	HeaderAuthType   Type = "header"
)

// Apply sets "Authorization: Client-ID <id>".
func (c ClientIDAuth) Apply(req *http.Request) error {
	if c.ClientID == "" {
		return pkgerrors.ErrMissingClientID
	}
	req.Header.Set("Authorization", "Client-ID "+c.ClientID)
	return nil
}

// Type returns ClientIDAuthType.
func (c ClientIDAuth) Type() Type { return ClientIDAuthType }

// Apply adds a Bearer token to the Authorization header of the HTTP request.
func (b BearerAuth) Apply(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

// Type returns BearerAuthType.
func (b BearerAuth) Type() Type { return BearerAuthType }

// Apply adds custom headers to the HTTP request.
func (h HeaderAuth) Apply(req *http.Request) error {
	for k, v := range h.Headers {
		req.Header.Set(k, v)
	}
	return nil
}

// Type returns HeaderAuthType.
func (h HeaderAuth) Type() Type { return HeaderAuthType }

// FromCredentials picks the authenticator for the configured credentials.
// An access token wins over a client id.
func FromCredentials(clientID, accessToken string) (Authenticator, error) {
	if token := strings.TrimSpace(accessToken); token != "" {
		return BearerAuth{Token: token}, nil
	}
	if id := strings.TrimSpace(clientID); id != "" {
		return ClientIDAuth{ClientID: id}, nil
	}
	return nil, pkgerrors.ErrMissingClientID
}
