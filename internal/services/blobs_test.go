package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"yatube/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x02, 0x00,
	0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xFF, 0xFF, 0xFF, 0x21, 0xF9, 0x04, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x2C, 0x00, 0x00, 0x00, 0x00,
	0x02, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x0C,
	0x0A, 0x00, 0x3B,
}

// uploadHeader builds a parsed multipart file header like gin hands to handlers.
func uploadHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxImageSize))
	return req.MultipartForm.File["image"][0]
}

func TestSaveImage(t *testing.T) {
	root := t.TempDir()
	blobs, err := NewDiskBlobStore(root)
	require.NoError(t, err)

	key, err := SaveImage(context.Background(), blobs, uploadHeader(t, "small.gif", "image/gif", smallGIF))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "posts/"))
	assert.True(t, strings.HasSuffix(key, ".gif"))

	stored, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, smallGIF, stored)

	require.NoError(t, blobs.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(key)))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveImageRejectsNonImages(t *testing.T) {
	blobs, err := NewDiskBlobStore(t.TempDir())
	require.NoError(t, err)

	_, err = SaveImage(context.Background(), blobs, uploadHeader(t, "notes.txt", "text/plain", []byte("hi")))
	assert.ErrorIs(t, err, errs.ImageInvalid)
}

func TestDiskBlobStoreRejectsTraversal(t *testing.T) {
	blobs, err := NewDiskBlobStore(t.TempDir())
	require.NoError(t, err)

	assert.Error(t, blobs.Put(context.Background(), "../escape", strings.NewReader("x")))
	assert.Error(t, blobs.Put(context.Background(), "", strings.NewReader("x")))
}
