package imagestore_test

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"userhub/pkg/imagestore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uploadHeader builds a *multipart.FileHeader the way an HTTP handler
// would receive one.
func uploadHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	fw, err := w.CreateFormFile("profile_image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	_, fh, err := req.FormFile("profile_image")
	require.NoError(t, err)
	return fh
}

func TestStoreSave(t *testing.T) {
	store, err := imagestore.New(imagestore.Config{Dir: t.TempDir()})
	require.NoError(t, err)

	name, err := store.Save(uploadHeader(t, "avatar.png", []byte("png bytes")))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(name))
	assert.True(t, store.Exists(name))

	data, err := os.ReadFile(filepath.Join(store.Dir(), name))
	require.NoError(t, err)
	assert.Equal(t, []byte("png bytes"), data)

	// A second upload of the same original name gets a distinct stored name
	other, err := store.Save(uploadHeader(t, "avatar.png", []byte("other bytes")))
	require.NoError(t, err)
	assert.NotEqual(t, name, other)
	assert.True(t, store.Exists(name))
	assert.True(t, store.Exists(other))
}

func TestStoreDelete(t *testing.T) {
	store, err := imagestore.New(imagestore.Config{Dir: t.TempDir()})
	require.NoError(t, err)

	name, err := store.Save(uploadHeader(t, "pic.jpg", []byte("jpg bytes")))
	require.NoError(t, err)

	store.Delete(name)
	assert.False(t, store.Exists(name))

	// Deleting a missing file is not an error
	store.Delete(name)
	store.Delete("")
}

func TestStoreResolve(t *testing.T) {
	store, err := imagestore.New(imagestore.Config{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "/uploads/123.png", store.Resolve("123.png"))
	// References never escape the upload directory
	assert.Equal(t, "/uploads/passwd", store.Resolve("../../etc/passwd"))
}

func TestNewRequiresDir(t *testing.T) {
	_, err := imagestore.New(imagestore.Config{})
	assert.Error(t, err)

	// Nested directories are created on demand
	dir := filepath.Join(t.TempDir(), "a", "b")
	store, err := imagestore.New(imagestore.Config{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, store.Dir())
}
