package config

import (
	"github.com/glorpus-work/imgurdl/pkg/auth"
)

// Authenticator builds the request authenticator for the configured credentials.
// An access token takes precedence over the client id.
func (i ImgurConfig) Authenticator() (auth.Authenticator, error) {
	return auth.FromCredentials(i.ClientID, i.AccessToken)
}

// HasCredentials reports whether any usable credential is set.
func (i ImgurConfig) HasCredentials() bool {
	_, err := i.Authenticator()
	return err == nil
}
