package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/transport"
)

const (
	MaxUploadBytes = 5 << 20
	UploadsURLPath = "/uploads/"
)

var (
	dataURLRe = regexp.MustCompile(`(?s)^data:([^;]+);base64,(.+)$`)

	uploadExt = map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/webp": "webp",
		"image/gif":  "gif",
	}
)

type UploadService struct {
	Dir string
}

type decodedUpload struct {
	ext  string
	data []byte
}

// Save stores base64 data-URL images under Dir and returns their public
// URLs. Every file is checked before anything is written.
func (s *UploadService) Save(ctx context.Context, req transport.UploadRequest) ([]string, error) {
	l := logging.FromContext(ctx).With("svc", "upload.save")
	if err := Check(req); err != nil {
		return nil, err
	}

	decoded := make([]decodedUpload, 0, len(req.Files))
	for i, f := range req.Files {
		field := fmt.Sprintf("files[%d].dataUrl", i)
		m := dataURLRe.FindStringSubmatch(strings.TrimSpace(f.DataURL))
		if m == nil {
			return nil, invalid(field, "Invalid image format")
		}
		ext, ok := uploadExt[strings.ToLower(m[1])]
		if !ok {
			return nil, invalid(field, "Unsupported image type")
		}
		if base64.StdEncoding.DecodedLen(len(m[2])) > MaxUploadBytes+3 {
			return nil, invalid(field, "Image is too large")
		}
		data, err := base64.StdEncoding.DecodeString(m[2])
		if err != nil {
			return nil, invalid(field, "Invalid image format")
		}
		if len(data) > MaxUploadBytes {
			return nil, invalid(field, "Image is too large")
		}
		decoded = append(decoded, decodedUpload{ext: ext, data: data})
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	urls := make([]string, 0, len(decoded))
	for _, d := range decoded {
		name := strings.ReplaceAll(uuid.NewString(), "-", "") + "." + d.ext
		if err := os.WriteFile(filepath.Join(s.Dir, name), d.data, 0o644); err != nil {
			return nil, fmt.Errorf("write upload: %w", err)
		}
		urls = append(urls, UploadsURLPath+name)
	}
	l.Info("uploads_saved", "count", len(urls))
	return urls, nil
}
