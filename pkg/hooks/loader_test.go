package hooks_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/glorpus-work/imgurdl/pkg/hooks"
	mock_hooks "github.com/glorpus-work/imgurdl/pkg/hooks/mocks"
)

func TestLoadHooksFromDir_RegistersKnownScripts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-batch.tengo"), []byte(`x := 1`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-install.tengo"), []byte(`x := 2`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644))

	ctrl := gomock.NewController(t)
	manager := mock_hooks.NewMockHookManager(ctrl)
	manager.EXPECT().AddHook(hooks.Hook{Type: hooks.PostBatch, Content: `x := 1`}).Return(nil)

	require.NoError(t, hooks.LoadHooksFromDir(manager, dir))
}

func TestLoadHooksFromDir_AddHookError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-batch.tengo"), []byte(`x := 1`), 0o644))

	ctrl := gomock.NewController(t)
	manager := mock_hooks.NewMockHookManager(ctrl)
	boom := errors.New("boom")
	manager.EXPECT().AddHook(gomock.Any()).Return(boom)

	err := hooks.LoadHooksFromDir(manager, dir)
	assert.ErrorIs(t, err, boom)
}
