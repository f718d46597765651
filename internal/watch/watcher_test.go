package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDebounce = 50 * time.Millisecond

// waitForBatch receives one change batch or fails the test
func waitForBatch(t *testing.T, w *Watcher) []string {
	t.Helper()

	select {
	case batch := <-w.Changes():
		return batch
	case err := <-w.Errors():
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change batch")
	}

	return nil
}

func TestWatcher_DetectsSourceChange(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, nil, testDebounce)
	require.NoError(t, err)
	defer w.Close()

	file := filepath.Join(dir, "index.ts")
	require.NoError(t, os.WriteFile(file, []byte("console.log(1);\n"), 0o644))

	batch := waitForBatch(t, w)
	assert.Contains(t, batch, file)
}

func TestWatcher_IgnoresNonSourceFiles(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, nil, testDebounce)
	require.NoError(t, err)
	defer w.Close()

	// A non-source write alone must not produce a batch
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	source := filepath.Join(dir, "app.js")
	require.NoError(t, os.WriteFile(source, []byte("1;\n"), 0o644))

	batch := waitForBatch(t, w)
	assert.Equal(t, []string{source}, batch)
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, nil, testDebounce)
	require.NoError(t, err)
	defer w.Close()

	a := filepath.Join(dir, "a.ts")
	b := filepath.Join(dir, "b.ts")
	require.NoError(t, os.WriteFile(a, []byte("1;\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("2;\n"), 0o644))

	batch := waitForBatch(t, w)
	assert.Contains(t, batch, a)
	assert.Contains(t, batch, b)
}

func TestWatcher_TracksNewDirectories(t *testing.T) {
	dir := t.TempDir()

	w, err := New([]string{dir}, nil, testDebounce)
	require.NoError(t, err)
	defer w.Close()

	subDir := filepath.Join(dir, "components")
	require.NoError(t, os.Mkdir(subDir, 0o755))

	// Give the watcher a moment to pick up the new directory
	time.Sleep(200 * time.Millisecond)

	file := filepath.Join(subDir, "button.tsx")
	require.NoError(t, os.WriteFile(file, []byte("1;\n"), 0o644))

	batch := waitForBatch(t, w)
	assert.Contains(t, batch, file)
}

func TestWatcher_SkipsIgnoredDirectories(t *testing.T) {
	dir := t.TempDir()

	ignored := filepath.Join(dir, "node_modules")
	require.NoError(t, os.Mkdir(ignored, 0o755))

	w, err := New([]string{dir}, []string{"node_modules"}, testDebounce)
	require.NoError(t, err)
	defer w.Close()

	// Change inside an ignored directory must not produce a batch
	require.NoError(t, os.WriteFile(filepath.Join(ignored, "dep.js"), []byte("1;\n"), 0o644))

	source := filepath.Join(dir, "index.ts")
	require.NoError(t, os.WriteFile(source, []byte("1;\n"), 0o644))

	batch := waitForBatch(t, w)
	assert.Equal(t, []string{source}, batch)
}

func TestIsSourceFile(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"index.ts", true},
		{"app.tsx", true},
		{"util.js", true},
		{"style.css", true},
		{"package.json", true},
		{"README.md", false},
		{"notes.txt", false},
		{"binary", false},
	}

	for _, test := range tests {
		result := isSourceFile(test.input)
		assert.Equal(t, test.expected, result, "isSourceFile(%q)", test.input)
	}
}
