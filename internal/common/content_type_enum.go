package common

import "strings"

// MediaFileType classifies an uploaded file by its MIME type.
type MediaFileType string

const (
	MediaFileTypeImage   MediaFileType = "image"
	MediaFileTypeVideo   MediaFileType = "video"
	MediaFileTypeUnknown MediaFileType = "unknown"
)

func (mft MediaFileType) String() string {
	return string(mft)
}

// IsValid reports whether the type may be stored.
func (mft MediaFileType) IsValid() bool {
	return mft == MediaFileTypeImage || mft == MediaFileTypeVideo
}

func DetectFileType(mimeType string) MediaFileType {
	lowerMimeType := strings.ToLower(strings.TrimSpace(mimeType))
	if strings.HasPrefix(lowerMimeType, "image/") {
		return MediaFileTypeImage
	}
	if strings.HasPrefix(lowerMimeType, "video/") {
		return MediaFileTypeVideo
	}
	return MediaFileTypeUnknown
}
