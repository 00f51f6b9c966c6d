package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDownloadRoot(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	root, err := DefaultDownloadRoot()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDownloadDirName), root)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/pics", want: filepath.Join(home, "pics")},
		{name: "absolute path untouched", in: "/var/tmp", want: "/var/tmp"},
		{name: "relative path untouched", in: "pics", want: "pics"},
		{name: "tilde in the middle untouched", in: "a~/b", want: "a~/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveDownloadDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	root := t.TempDir()

	t.Run("relative name joins root", func(t *testing.T) {
		got, err := ResolveDownloadDir("aww", root)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "aww"), got)
	})

	t.Run("empty root falls back to default", func(t *testing.T) {
		got, err := ResolveDownloadDir("aww", "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, DefaultDownloadDirName, "aww"), got)
	})

	t.Run("tilde root is expanded", func(t *testing.T) {
		got, err := ResolveDownloadDir("aww", "~/imgs")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, "imgs", "aww"), got)
	})

	t.Run("absolute name ignores root", func(t *testing.T) {
		abs := filepath.Join(root, "x", "..", "y")
		got, err := ResolveDownloadDir(abs, "/unused")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "y"), got)
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := ResolveDownloadDir("", root)
		assert.Error(t, err)
	})
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Skipf("no user config dir on this system: %v", err)
	}
	base, baseErr := os.UserConfigDir()
	require.NoError(t, baseErr)
	assert.Equal(t, filepath.Join(base, AppName), dir)
}
