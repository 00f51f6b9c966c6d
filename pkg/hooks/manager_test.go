package hooks_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glorpus-work/imgurdl/pkg/hooks"
)

func TestNewHookManager(t *testing.T) {
	manager := hooks.NewHookManager()
	assert.NotNil(t, manager)
}

func TestAddHook(t *testing.T) {
	tests := []struct {
		name        string
		hook        hooks.Hook
		expectedErr error
	}{
		{
			name: "valid hooks",
			hook: hooks.Hook{Type: hooks.PreBatch, Content: `// nothing`},
		},
		{
			name:        "empty hooks type",
			hook:        hooks.Hook{Type: "", Content: "test content"},
			expectedErr: hooks.ErrHookTypeEmpty,
		},
		{
			name:        "unknown hooks type",
			hook:        hooks.Hook{Type: "pre-install", Content: "test content"},
			expectedErr: hooks.ErrHookLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := hooks.NewHookManager()
			err := manager.AddHook(tt.hook)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, manager.HasHook(tt.hook.Type))
			assert.NoError(t, manager.Execute(context.Background(), tt.hook.Type, hooks.HookContext{}))
		})
	}
}

func TestRemoveHook(t *testing.T) {
	manager := hooks.NewHookManager()
	require.NoError(t, manager.AddHook(hooks.Hook{Type: hooks.PostBatch, Content: `err = "always"`}))

	require.NoError(t, manager.RemoveHook(hooks.PostBatch))
	assert.False(t, manager.HasHook(hooks.PostBatch))
	assert.NoError(t, manager.Execute(context.Background(), hooks.PostBatch, hooks.HookContext{}))

	assert.ErrorIs(t, manager.RemoveHook(""), hooks.ErrHookTypeEmpty)
}

func TestLoadHooksFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-batch.tengo"), []byte(`err = "from file"`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-batch.tengo"), []byte(`// ok`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.tengo"), []byte(`// ignored`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-batch.txt"), []byte(`ignored`), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.tengo"), 0o750))

	manager := hooks.NewHookManager()
	require.NoError(t, hooks.LoadHooksFromDir(manager, dir))

	assert.True(t, manager.HasHook(hooks.PreBatch))
	assert.True(t, manager.HasHook(hooks.PostBatch))

	err := manager.Execute(context.Background(), hooks.PreBatch, hooks.HookContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from file")
}

func TestLoadHooksFromDir_Missing(t *testing.T) {
	manager := hooks.NewHookManager()
	assert.NoError(t, hooks.LoadHooksFromDir(manager, filepath.Join(t.TempDir(), "nope")))
	assert.NoError(t, hooks.LoadHooksFromDir(manager, ""))
	assert.False(t, manager.HasHook(hooks.PreBatch))
}

func TestHookTemplate(t *testing.T) {
	assert.Contains(t, hooks.HookTemplate(hooks.PreBatch), "itemCount")
	assert.Contains(t, hooks.HookTemplate(hooks.PostBatch), "succeeded")
	assert.Contains(t, hooks.HookTemplate("bogus"), "Unknown hooks type")
}

func TestHookTemplatesCompile(t *testing.T) {
	for _, hookType := range hooks.Types {
		manager := hooks.NewHookManager()
		require.NoError(t, manager.AddHook(hooks.Hook{Type: hookType, Content: hooks.HookTemplate(hookType)}))
		assert.NoError(t, manager.Execute(context.Background(), hookType, hooks.HookContext{}), hookType)
	}
}
