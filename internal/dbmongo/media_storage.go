package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"socialapp/internal/common"
)

// MediaStorage stores uploads in GridFS and hands out "<prefix><objectID>" references.
type MediaStorage struct {
	gridFS    *gridfs.Bucket
	urlPrefix string
}

func NewMediaStorage(mongoClient *MongoClient, urlPrefix string) *MediaStorage {
	return &MediaStorage{
		gridFS:    mongoClient.GridFS,
		urlPrefix: urlPrefix,
	}
}

type MediaFile struct {
	ID          string               `json:"id"`
	Filename    string               `json:"filename"`
	ContentType string               `json:"content_type"`
	Size        int64                `json:"size"`
	FileType    common.MediaFileType `json:"file_type"`
	UploadedBy  uint64               `json:"uploaded_by"`
	UploadedAt  time.Time            `json:"uploaded_at"`
}

// Save uploads the file and returns the reference stored on posts and profiles.
func (ms *MediaStorage) Save(_ context.Context, ownerID uint64, upload *common.Upload) (string, error) {
	fileType := common.DetectFileType(upload.ContentType)
	if !fileType.IsValid() {
		return "", common.NewValidationError("only image and video uploads are supported")
	}

	metadata := bson.M{
		"file_type":   fileType.String(),
		"mime_type":   upload.ContentType,
		"uploaded_by": int64(ownerID),
		"uploaded_at": time.Now().UTC(),
	}

	stream, err := ms.gridFS.OpenUploadStream(upload.Filename, options.GridFSUpload().SetMetadata(metadata))
	if err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	if _, err := io.Copy(stream, upload.Content); err != nil {
		_ = stream.Abort()
		return "", fmt.Errorf("file copy failed: %w", err)
	}
	if err := stream.Close(); err != nil {
		return "", fmt.Errorf("upload failed: %w", err)
	}

	return ms.urlPrefix + stream.FileID.(primitive.ObjectID).Hex(), nil
}

// Remove deletes a stored file. References this store did not issue are ignored,
// as are files that are already gone.
func (ms *MediaStorage) Remove(ctx context.Context, ref string) error {
	fileID, ok := ms.FileID(ref)
	if !ok {
		return nil
	}
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil
	}

	err = ms.gridFS.DeleteContext(ctx, objectID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil
	}
	return err
}

// FileID extracts the GridFS id from a reference issued by Save.
func (ms *MediaStorage) FileID(ref string) (string, bool) {
	if !strings.HasPrefix(ref, ms.urlPrefix) {
		return "", false
	}
	id := strings.TrimPrefix(ref, ms.urlPrefix)
	return id, id != ""
}

// Open streams a stored file. The caller closes the reader.
func (ms *MediaStorage) Open(_ context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, common.NewNotFoundError("file not found")
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, nil, common.NewNotFoundError("file not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	return stream, &MediaFile{
		ID:          fileID,
		Filename:    fileInfo.Name,
		ContentType: getStringFromMap(metadata, "mime_type"),
		Size:        fileInfo.Length,
		FileType:    common.MediaFileType(getStringFromMap(metadata, "file_type")),
		UploadedBy:  getUintFromMap(metadata, "uploaded_by"),
		UploadedAt:  fileInfo.UploadDate,
	}, nil
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if str, ok := m[key].(string); ok {
		return str
	}
	return ""
}

func getUintFromMap(m bson.M, key string) uint64 {
	switch v := m[key].(type) {
	case int64:
		return uint64(v)
	case int32:
		return uint64(v)
	}
	return 0
}
