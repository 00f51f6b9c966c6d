//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/glorpus-work/imgurdl/pkg/config"
	"github.com/glorpus-work/imgurdl/pkg/fsutil"
	"github.com/glorpus-work/imgurdl/test/testutil"
)

// testEnv is an isolated configuration pointing at a fake Imgur API.
type testEnv struct {
	fake        *testutil.FakeImgur
	configPath  string
	downloadDir string
	hooksDir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{config.EnvClientID, config.EnvClientSecret, config.EnvAccessToken} {
		t.Setenv(key, "")
	}

	root := t.TempDir()
	env := &testEnv{
		fake:        testutil.NewFakeImgur(t),
		configPath:  filepath.Join(root, "config.yaml"),
		downloadDir: filepath.Join(root, "downloads"),
		hooksDir:    filepath.Join(root, "hooks"),
	}

	cfg := config.DefaultConfig()
	cfg.Imgur.ClientID = testutil.TestClientID
	cfg.Imgur.BaseURL = env.fake.URL
	cfg.Settings.DownloadDir = env.downloadDir
	cfg.Settings.HooksDir = env.hooksDir
	cfg.Settings.Workers = 4
	env.writeConfig(t, cfg)
	return env
}

func (e *testEnv) writeConfig(t *testing.T, cfg *config.Config) {
	t.Helper()
	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(e.configPath, data, fsutil.FileModeSecure))
}

func (e *testEnv) writeHook(t *testing.T, name, script string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.hooksDir, fsutil.DirModeDefault))
	require.NoError(t, os.WriteFile(filepath.Join(e.hooksDir, name+".tengo"), []byte(script), fsutil.FileModeDefault))
}

// run executes the root command with the test config and returns its stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}
