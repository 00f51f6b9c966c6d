package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/imgurdl/pkg/auth"
	"github.com/glorpus-work/imgurdl/pkg/errors"
)

func TestImgurConfig_Authenticator(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ImgurConfig
		wantType auth.Type
		wantErr  error
	}{
		{
			name:     "client id only",
			cfg:      ImgurConfig{ClientID: "cid"},
			wantType: auth.ClientIDAuthType,
		},
		{
			name:     "access token wins",
			cfg:      ImgurConfig{ClientID: "cid", AccessToken: "tok"},
			wantType: auth.BearerAuthType,
		},
		{
			name:    "no credentials",
			cfg:     ImgurConfig{ClientSecret: "secret"},
			wantErr: errors.ErrMissingClientID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := tt.cfg.Authenticator()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, tt.cfg.HasCredentials())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, a.Type())
			assert.True(t, tt.cfg.HasCredentials())
		})
	}
}
