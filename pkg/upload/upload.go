// Package upload handles multipart image uploads for the catalog.
//
// Files are validated (content type, size), renamed with a timestamp prefix,
// and written through pkg/storage so they land on whichever disk is
// configured (local uploads directory or S3).
package upload

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/shoestop/backend/pkg/apperr"
	"github.com/shoestop/backend/pkg/storage"
)

// MaxImageBytes caps uploaded image size at 5 MB.
const MaxImageBytes = 5 << 20

// Result describes a stored upload.
type Result struct {
	Name string // storage path, e.g. "products/1724800000-air-max.jpg"
	URL  string // public URL
}

var imageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Image extracts the named file field from a multipart request, validates it
// as an image, and stores it under folder/. Returns apperr.Validation on a
// missing or invalid file.
func Image(r *http.Request, field, folder string) (*Result, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, apperr.Validation(fmt.Sprintf("The %s field must be an image file", field))
	}
	defer file.Close()

	if header.Size > MaxImageBytes {
		return nil, apperr.Validation(fmt.Sprintf("The %s must not exceed 5 MB", field))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !imageExts[ext] {
		return nil, apperr.Validation(fmt.Sprintf("The %s must be a jpg, png, gif or webp image", field))
	}

	// Sniff the actual content type from the first 512 bytes.
	head := make([]byte, 512)
	n, _ := io.ReadFull(file, head)
	if !strings.HasPrefix(http.DetectContentType(head[:n]), "image/") {
		return nil, apperr.Validation(fmt.Sprintf("The %s must be an image file", field))
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, apperr.Internal("upload: rewind file", err)
	}

	name := fmt.Sprintf("%s/%d-%s", strings.Trim(folder, "/"), time.Now().Unix(), sanitize(header.Filename))
	if err := storage.PutStream(name, file); err != nil {
		return nil, apperr.Internal("upload: store file", err)
	}

	return &Result{Name: name, URL: storage.URL(name)}, nil
}

// Delete removes a previously stored upload. Unknown paths are ignored.
func Delete(name string) error {
	if name == "" {
		return nil
	}
	return storage.Delete(name)
}

// sanitize strips path separators and spaces from an original filename.
func sanitize(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "-")
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		}
		return '-'
	}, name)
}
