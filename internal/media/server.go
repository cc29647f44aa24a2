// Package media streams stored uploads back to clients.
package media

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"socialapp/internal/common"
	"socialapp/internal/dbmongo"
)

// FileOpener is satisfied by dbmongo.MediaStorage.
type FileOpener interface {
	Open(ctx context.Context, fileID string) (io.ReadCloser, *dbmongo.MediaFile, error)
}

type HTTPServer struct {
	storage FileOpener
	log     *zap.Logger
}

// NewHTTPServer accepts a nil storage, in which case every file is reported missing.
func NewHTTPServer(storage FileOpener, log *zap.Logger) *HTTPServer {
	return &HTTPServer{
		storage: storage,
		log:     log,
	}
}

// ServeFile handles GET /media/{fileId}.
func (s *HTTPServer) ServeFile(w http.ResponseWriter, r *http.Request) {
	if s.storage == nil {
		common.WriteError(w, r, s.log, common.NewNotFoundError("file not found"))
		return
	}

	fileID := mux.Vars(r)["fileId"]
	fileReader, mediaFile, err := s.storage.Open(r.Context(), fileID)
	if err != nil {
		common.WriteError(w, r, s.log, err)
		return
	}
	defer fileReader.Close()

	contentType := mediaFile.ContentType
	if contentType == "" {
		contentType = getContentType(mediaFile.Filename)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(mediaFile.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, fileReader); err != nil {
		s.log.Warn("error streaming file", zap.String("file_id", fileID), zap.Error(err))
	}
}

func getContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	default:
		return "application/octet-stream"
	}
}
