package browser

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubLookPath(t *testing.T, found map[string]string) {
	t.Helper()
	original := lookPath
	lookPath = func(name string) (string, error) {
		if path, ok := found[name]; ok {
			return path, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = original })
}

func TestLocateConfigured(t *testing.T) {
	stubLookPath(t, nil)

	path := filepath.Join(t.TempDir(), "chrome")
	require.NoError(t, os.WriteFile(path, []byte{}, 0755))

	got, err := Locate(path)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	_, err = Locate(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestLocateFromPath(t *testing.T) {
	stubLookPath(t, map[string]string{
		"google-chrome": "/usr/bin/google-chrome",
		"chromium":      "/usr/bin/chromium",
	})

	got, err := Locate("")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/chromium", got, "按候选顺序优先")
}

func TestLocateUnavailable(t *testing.T) {
	stubLookPath(t, nil)
	if _, err := os.Stat("/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"); err == nil {
		t.Skip("本机安装了Chrome")
	}

	_, err := Locate("")
	assert.ErrorIs(t, err, ErrUnavailable)
}
