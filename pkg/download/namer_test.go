package download

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/glorpus-work/imgurdl/pkg/errors"
	"github.com/glorpus-work/imgurdl/pkg/model"
)

func TestNamer_NameFor(t *testing.T) {
	tests := []struct {
		name     string
		items    []model.ItemDescriptor
		expected []string
	}{
		{
			name: "suggested name is used",
			items: []model.ItemDescriptor{
				{StableID: "abc", SuggestedName: "sunset", RemoteURL: "https://i.imgur.com/abc.jpg"},
			},
			expected: []string{"sunset.jpg"},
		},
		{
			name: "stable id when no suggested name",
			items: []model.ItemDescriptor{
				{StableID: "abc", RemoteURL: "https://i.imgur.com/abc.png"},
			},
			expected: []string{"abc.png"},
		},
		{
			name: "collision within batch gets id suffix",
			items: []model.ItemDescriptor{
				{StableID: "abc", SuggestedName: "cat", RemoteURL: "https://example.com/abc"},
				{StableID: "def", SuggestedName: "cat", RemoteURL: "https://example.com/def"},
			},
			expected: []string{"cat", "cat_def"},
		},
		{
			name: "suffix goes before the extension",
			items: []model.ItemDescriptor{
				{StableID: "abc", SuggestedName: "cat", RemoteURL: "https://i.imgur.com/abc.gif"},
				{StableID: "def", SuggestedName: "cat", RemoteURL: "https://i.imgur.com/def.gif"},
			},
			expected: []string{"cat.gif", "cat_def.gif"},
		},
		{
			name: "existing extension in name is kept",
			items: []model.ItemDescriptor{
				{StableID: "abc", SuggestedName: "photo.jpeg", RemoteURL: "https://i.imgur.com/abc.jpg"},
			},
			expected: []string{"photo.jpeg"},
		},
		{
			name: "path separators are neutralized",
			items: []model.ItemDescriptor{
				{StableID: "abc", SuggestedName: "../../etc/passwd"},
			},
			expected: []string{"_.._etc_passwd"},
		},
		{
			name: "name of only dots falls back to id",
			items: []model.ItemDescriptor{
				{StableID: "abc", SuggestedName: ".."},
			},
			expected: []string{"abc"},
		},
		{
			name: "query string does not leak into extension",
			items: []model.ItemDescriptor{
				{StableID: "abc", RemoteURL: "https://i.imgur.com/abc.JPG?x=1"},
			},
			expected: []string{"abc.jpg"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			n := NewNamer()
			for i, it := range tt.items {
				got, err := n.NameFor(it, dir)
				require.NoError(t, err)
				assert.Equal(t, filepath.Join(dir, tt.expected[i]), got)
			}
		})
	}
}

func TestNamer_ExistingFileOnDisk(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cat"), []byte("x"), 0o644))

	got, err := NewNamer().NameFor(model.ItemDescriptor{StableID: "abc", SuggestedName: "cat"}, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cat_abc"), got)
}

func TestNamer_CollisionExhausted(t *testing.T) {
	dir := t.TempDir()
	n := NewNamer()
	item := model.ItemDescriptor{StableID: "abc", SuggestedName: "cat"}

	_, err := n.NameFor(item, dir)
	require.NoError(t, err)
	_, err = n.NameFor(item, dir)
	require.NoError(t, err)

	_, err = n.NameFor(item, dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrNamingCollisionExhausted))

	var ce *NamingCollisionError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, filepath.Join(dir, "cat_abc"), ce.Path)
}

func TestNamer_Deterministic(t *testing.T) {
	items := []model.ItemDescriptor{
		{StableID: "1", SuggestedName: "a"},
		{StableID: "2", SuggestedName: "a"},
		{StableID: "3"},
	}
	dir := t.TempDir()

	run := func() []string {
		n := NewNamer()
		var out []string
		for _, it := range items {
			p, err := n.NameFor(it, dir)
			require.NoError(t, err)
			out = append(out, p)
		}
		return out
	}
	assert.Equal(t, run(), run())
}

func TestNamer_EmptyItem(t *testing.T) {
	_, err := NewNamer().NameFor(model.ItemDescriptor{}, t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrInvalidPath))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, out string
	}{
		{"plain", "plain"},
		{"  spaced  ", "spaced"},
		{"a:b*c?d", "a_b_c_d"},
		{"tab\there", "tab_here"},
		{"back\\slash", "back_slash"},
		{"...", ""},
		{"naïve café", "naïve café"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.out, sanitizeName(tt.in), tt.in)
	}

	long := sanitizeName(strings.Repeat("é", maxNameLength))
	assert.LessOrEqual(t, len(long), maxNameLength)
	assert.True(t, strings.HasPrefix(strings.Repeat("é", maxNameLength), long))
}

func TestExtensionFromURL(t *testing.T) {
	assert.Equal(t, ".jpg", extensionFromURL("https://i.imgur.com/x.jpg"))
	assert.Equal(t, ".webm", extensionFromURL("https://i.imgur.com/x.webm"))
	assert.Equal(t, "", extensionFromURL("https://i.imgur.com/x"))
	assert.Equal(t, "", extensionFromURL("https://i.imgur.com/x.toolongext"))
	assert.Equal(t, "", extensionFromURL("https://i.imgur.com/x.j-g"))
	assert.Equal(t, "", extensionFromURL("://bad"))
}
