package staging

import (
	"bytes"
	"mime/multipart"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stageFiles(t *testing.T, area *Area, names ...string) *Batch {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image bytes for " + name))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)

	batch, err := area.Stage(form.File["images"])
	require.NoError(t, err)
	return batch
}

func TestStagePreservesOrderAndMarksPrimary(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	batch := stageFiles(t, area, "one.jpg", "two.jpg", "three.jpg")
	defer batch.Close()

	files := batch.Files()
	require.Len(t, files, 3)
	assert.Equal(t, "one.jpg", files[0].Name)
	assert.True(t, files[0].Primary)
	assert.False(t, files[1].Primary)
	assert.Equal(t, 2, files[2].Position)

	for _, f := range files {
		_, err := os.Stat(f.Path)
		assert.NoError(t, err)
	}
}

func TestMoveReordersAndRecomputesPrimary(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	batch := stageFiles(t, area, "a.jpg", "b.jpg", "c.jpg")
	defer batch.Close()

	require.NoError(t, batch.Move(2, 0))

	files := batch.Files()
	assert.Equal(t, "c.jpg", files[0].Name)
	assert.Equal(t, "a.jpg", files[1].Name)
	assert.Equal(t, "b.jpg", files[2].Name)
	assert.True(t, files[0].Primary)
	assert.False(t, files[1].Primary)
	for i, f := range files {
		assert.Equal(t, i, f.Position)
	}
}

func TestMoveOutOfRange(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	batch := stageFiles(t, area, "a.jpg")
	defer batch.Close()

	assert.Error(t, batch.Move(0, 5))
	assert.Error(t, batch.Move(-1, 0))
}

func TestCloseRemovesFilesAndIsIdempotent(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	batch := stageFiles(t, area, "a.jpg", "b.jpg")
	paths := make([]string, 0, 2)
	for _, f := range batch.Files() {
		paths = append(paths, f.Path)
	}

	require.NoError(t, batch.Close())
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err))
	}

	assert.NoError(t, batch.Close())
	assert.True(t, batch.Empty())
}

func TestEmptyBatch(t *testing.T) {
	area, err := NewArea(t.TempDir())
	require.NoError(t, err)

	batch, err := area.Stage(nil)
	require.NoError(t, err)
	defer batch.Close()

	assert.True(t, batch.Empty())
}
