package imaging

import (
	"path/filepath"
	"strings"

	"github.com/sukraa/prescription-ai-backend/pkg/errors"
)

// Formats a prescription upload may arrive in. Anything else is rejected
// before the image is decoded or sent anywhere.
var allowedExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// ValidateFormat checks the declared filename extension and content type
// against the allow-list. It is a pure predicate: no decoding happens here.
// The filename extension decides when present; the content type is the
// fallback for extension-less uploads.
func ValidateFormat(filename, contentType string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext != "" {
		if allowedExtensions[ext] {
			return nil
		}
		return errors.UnsupportedFormat(ext)
	}

	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if allowedContentTypes[ct] {
		return nil
	}
	if ct == "" {
		return errors.UnsupportedFormat("unknown")
	}
	return errors.UnsupportedFormat(ct)
}
