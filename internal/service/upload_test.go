package service

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/transport"
)

func dataURL(mime string, data []byte) transport.UploadFile {
	return transport.UploadFile{DataURL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)}
}

func TestUploadSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	svc := &UploadService{Dir: dir}

	urls, err := svc.Save(context.Background(), transport.UploadRequest{Files: []transport.UploadFile{
		dataURL("image/png", []byte("png-bytes")),
		dataURL("image/jpeg", []byte("jpeg-bytes")),
	}})
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.True(t, strings.HasPrefix(urls[0], "/uploads/"))
	assert.True(t, strings.HasSuffix(urls[0], ".png"))
	assert.True(t, strings.HasSuffix(urls[1], ".jpg"))

	raw, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(urls[0], "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(raw))
}

func TestUploadSave_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files []transport.UploadFile
		msg   string
	}{
		{name: "no files", files: nil, msg: "files"},
		{name: "not a data url", files: []transport.UploadFile{{DataURL: "https://x/y.png"}}, msg: "Invalid image format"},
		{name: "svg", files: []transport.UploadFile{dataURL("image/svg+xml", []byte("<svg/>"))}, msg: "Unsupported image type"},
		{name: "too large", files: []transport.UploadFile{dataURL("image/gif", make([]byte, MaxUploadBytes+1))}, msg: "Image is too large"},
		{name: "bad base64", files: []transport.UploadFile{{DataURL: "data:image/png;base64,@@@"}}, msg: "Invalid image format"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			dir := filepath.Join(t.TempDir(), "uploads")
			svc := &UploadService{Dir: dir}
			files := append([]transport.UploadFile{dataURL("image/webp", []byte("ok"))}, tt.files...)
			if tt.files == nil {
				files = nil
			}
			_, err := svc.Save(context.Background(), transport.UploadRequest{Files: files})
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.msg)

			// nothing is written when any file is rejected
			_, statErr := os.Stat(dir)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
