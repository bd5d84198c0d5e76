package launcher

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX shell syntax")
	}
}

func TestLaunchCapturesStdout(t *testing.T) {
	skipOnWindows(t)
	res, err := New(nil).Launch(context.Background(), "echo hello")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, msgSuccess, res.Message)
	assert.Equal(t, "echo hello", res.Command)
	assert.Contains(t, res.Stdout, "hello")
	assert.Empty(t, res.Stderr)
}

func TestLaunchNonZeroExit(t *testing.T) {
	skipOnWindows(t)
	res, err := New(nil).Launch(context.Background(), "echo oops >&2; exit 3")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, msgFailed, res.Message)
	assert.Contains(t, res.Stderr, "oops")
}

func TestLaunchPassesLineToShellUnsplit(t *testing.T) {
	skipOnWindows(t)
	res, err := New(nil).Launch(context.Background(), "printf 'a b\\nc\\n' | wc -l")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, res.Stdout, "2")
}

func TestLaunchReplacesInvalidUTF8(t *testing.T) {
	skipOnWindows(t)
	res, err := New(nil).Launch(context.Background(), `printf 'ok\377'`)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "ok\uFFFD", res.Stdout)
}

func TestLaunchStartFailure(t *testing.T) {
	l := New(nil)
	l.Shell = filepath.Join(t.TempDir(), "no-such-shell")

	res, err := l.Launch(context.Background(), "echo hello")
	require.ErrorIs(t, err, ErrStart)
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "Failed to execute process:")
	assert.Equal(t, "echo hello", res.Command)
	assert.Empty(t, res.Stdout)
	assert.Empty(t, res.Stderr)
}
