package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "apps.json")
	apps := []App{
		{ID: uuid.New(), Name: "htop", Description: strPtr("viewer"), Command: "htop", URL: "https://htop.dev"},
		{ID: uuid.New(), Name: "list", Command: "ls -la | sort", URL: ""},
	}

	require.NoError(t, Save(path, apps))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, apps, got)
}

func TestSaveWritesIndentedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")
	id := uuid.MustParse("6f1c1c1e-6c2e-4b8a-9d8e-2d9b1f0f4a11")

	require.NoError(t, Save(path, []App{{ID: id, Name: "a", Command: "true", URL: "u"}}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `[
  {
    "id": "6f1c1c1e-6c2e-4b8a-9d8e-2d9b1f0f4a11",
    "name": "a",
    "description": null,
    "command": "true",
    "url": "u"
  }
]`
	assert.Equal(t, want, string(b))
}

func TestSaveEmptyWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")
	require.NoError(t, Save(path, nil))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "apps.json")
	require.NoError(t, Save(path, []App{{ID: uuid.New(), Name: "a"}}))
	require.NoError(t, Save(path, []App{{ID: uuid.New(), Name: "b"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "apps.json", entries[0].Name())
}

func TestLoadMissingFile(t *testing.T) {
	apps, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 12}]`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
