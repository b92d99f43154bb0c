package storage

import (
	"fmt"
	"strings"
)

// allowedContentTypes lists the MIME types accepted for lead attachments:
// documents the agent collects, screenshots, and call recordings.
var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,

	"application/pdf": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":       true,
	"text/plain": true,
	"text/csv":   true,

	"audio/mpeg":  true,
	"audio/wav":   true,
	"audio/ogg":   true,
	"audio/x-wav": true,
}

// ValidateContentType checks the MIME type against the allow list, ignoring
// parameters such as charset.
func (s *Service) ValidateContentType(contentType string) error {
	normalized := strings.Split(contentType, ";")[0]
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	if !allowedContentTypes[normalized] {
		return fmt.Errorf("content type %q is not allowed", contentType)
	}
	return nil
}

func (s *Service) ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > s.maxFileSize {
		return fmt.Errorf("file size %d bytes exceeds maximum of %d bytes", sizeBytes, s.maxFileSize)
	}
	return nil
}
