package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		env, err := LoadEnvFile("")
		require.NoError(t, err)
		assert.Nil(t, env)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})

	t.Run("reads variables", func(t *testing.T) {
		path := writeEnvFile(t, "FOO=bar\nBAZ=qux\n")
		env, err := LoadEnvFile(path)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"FOO": "bar", "BAZ": "qux"}, env)
	})
}

func TestMergeEnv(t *testing.T) {
	merged := MergeEnv(
		map[string]string{"A": "1", "B": "1"},
		map[string]string{"B": "2", "C": "2"},
		nil,
	)
	assert.Equal(t, map[string]string{"A": "1", "B": "2", "C": "2"}, merged)
}

func TestCommandEnv(t *testing.T) {
	t.Run("nothing set inherits unmodified", func(t *testing.T) {
		env, err := CommandEnv(nil, "")
		require.NoError(t, err)
		assert.Nil(t, env)

		env, err = CommandEnv(&Config{}, "")
		require.NoError(t, err)
		assert.Nil(t, env)
	})

	t.Run("config env merged over inherited", func(t *testing.T) {
		t.Setenv("DOCKER_INIT_TEST_INHERITED", "yes")

		env, err := CommandEnv(&Config{Env: map[string]string{"EXTRA": "1"}}, "")
		require.NoError(t, err)
		assert.Contains(t, env, "DOCKER_INIT_TEST_INHERITED=yes")
		assert.Contains(t, env, "EXTRA=1")
	})

	t.Run("flag env file wins over config env", func(t *testing.T) {
		path := writeEnvFile(t, "EXTRA=from_file\n")

		env, err := CommandEnv(&Config{Env: map[string]string{"EXTRA": "from_config"}}, path)
		require.NoError(t, err)
		assert.Contains(t, env, "EXTRA=from_file")
		assert.NotContains(t, env, "EXTRA=from_config")
	})

	t.Run("missing flag env file", func(t *testing.T) {
		_, err := CommandEnv(nil, filepath.Join(t.TempDir(), "absent.env"))
		assert.Error(t, err)
	})
}
