package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestValidateImageUploadAcceptsKnownTypes(t *testing.T) {
	for _, name := range []string{"photo.jpg", "photo.JPEG", "icon.png", "banner.webp"} {
		require.NoError(t, validateImageUpload(name, 1024), name)
	}
}

func TestValidateImageUploadRejectsUnknownTypes(t *testing.T) {
	require.Error(t, validateImageUpload("archive.zip", 1024))
	require.Error(t, validateImageUpload("clip.gif", 1024))
	require.Error(t, validateImageUpload("noextension", 1024))
}

func TestValidateImageUploadRejectsOversize(t *testing.T) {
	require.NoError(t, validateImageUpload("photo.jpg", maxImageSize))
	require.Error(t, validateImageUpload("photo.jpg", maxImageSize+1))
}

func TestDiskStorageRemoveRefusesEscape(t *testing.T) {
	store := DiskStorage{Root: t.TempDir(), BaseURL: "/uploads"}

	require.Error(t, store.Remove(productImageFolder, "../../etc/passwd"))
	require.NoError(t, store.Remove(productImageFolder, ""))
	// Deleting a blob that is already gone is not a failure.
	require.NoError(t, store.Remove(productImageFolder, "no-such-file.png"))
}

func TestDiskStorageSaveRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("pngdata"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/upload/image", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	file, err := c.FormFile("image")
	require.NoError(t, err)

	store := DiskStorage{Root: t.TempDir(), BaseURL: "/uploads"}
	url, publicID, err := store.Save(file, productImageFolder)
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(publicID, ".png"))
	require.Equal(t, "/uploads/products/"+publicID, url)

	saved, err := os.ReadFile(filepath.Join(store.Root, productImageFolder, publicID))
	require.NoError(t, err)
	require.Equal(t, []byte("pngdata"), saved)

	require.NoError(t, store.Remove(productImageFolder, publicID))
	_, err = os.Stat(filepath.Join(store.Root, productImageFolder, publicID))
	require.True(t, os.IsNotExist(err))
}

func TestValidateProductInput(t *testing.T) {
	require.NoError(t, validateProductInput(10, 20, 4.5))
	require.Error(t, validateProductInput(0, 0, 0))
	require.Error(t, validateProductInput(-5, 0, 0))
	require.Error(t, validateProductInput(10, 101, 0))
	require.Error(t, validateProductInput(10, -1, 0))
	require.Error(t, validateProductInput(10, 0, 5.5))
}

func TestParsePaginationParams(t *testing.T) {
	page, limit, err := parsePaginationParams("2", "50")
	require.NoError(t, err)
	require.Equal(t, int64(2), page)
	require.Equal(t, int64(50), limit)

	_, _, err = parsePaginationParams("0", "10")
	require.Error(t, err)

	_, _, err = parsePaginationParams("abc", "10")
	require.Error(t, err)
}
