package dbmongo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gochat/internal/common"
)

// MediaStorage keeps chat images in GridFS. Uploaded files are addressed as
// <baseURL>/<fileID>, which the media server resolves.
type MediaStorage struct {
	gridFS  *gridfs.Bucket
	baseURL string
	now     func() time.Time
}

func NewMediaStorage(mongoClient *MongoClient, baseURL string) *MediaStorage {
	return &MediaStorage{
		gridFS:  mongoClient.GridFS,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

type MediaFile struct {
	ID         string               `json:"id"`
	Filename   string               `json:"filename"`
	Size       int64                `json:"size"`
	FileType   common.MediaFileType `json:"file_type"`
	MIMEType   string               `json:"mime_type"`
	UploadedBy uint64               `json:"uploaded_by"`
	UploadedAt time.Time            `json:"uploaded_at"`
}

// Upload implements common.ImageHost.
func (ms *MediaStorage) Upload(ctx context.Context, ownerID uint64, img *common.Image) (string, error) {
	file, err := ms.UploadFile(ctx, imageFilename(ownerID, img.MIMEType, ms.now()), img.MIMEType, ownerID, bytes.NewReader(img.Data))
	if err != nil {
		return "", err
	}
	return ms.URI(file.ID), nil
}

// URI is the public address of a stored file.
func (ms *MediaStorage) URI(fileID string) string {
	return ms.baseURL + "/" + fileID
}

func (ms *MediaStorage) UploadFile(ctx context.Context, filename, mimeType string, uploaderID uint64, content io.Reader) (*MediaFile, error) {
	uploadedAt := ms.now().UTC()
	opts := options.GridFSUpload().SetMetadata(fileMetadata(mimeType, uploaderID, uploadedAt))

	stream, err := ms.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetWriteDeadline(deadline)
	}

	size, err := io.Copy(stream, content)
	if err != nil {
		_ = stream.Abort()
		return nil, fmt.Errorf("file copy failed: %w", err)
	}
	if err := stream.Close(); err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}

	id, ok := stream.FileID.(primitive.ObjectID)
	if !ok {
		return nil, errors.New("upload failed: unexpected file id type")
	}

	return &MediaFile{
		ID:         id.Hex(),
		Filename:   filename,
		Size:       size,
		FileType:   common.DetectFileType(mimeType),
		MIMEType:   mimeType,
		UploadedBy: uploaderID,
		UploadedAt: uploadedAt,
	}, nil
}

// DownloadFile returns a reader over the file content. The caller closes it.
func (ms *MediaStorage) DownloadFile(ctx context.Context, fileID string) (io.ReadCloser, *MediaFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, common.NotFound("file not found")
	}

	stream, err := ms.gridFS.OpenDownloadStream(objectID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, nil, common.NotFound("file not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("download failed: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = stream.SetReadDeadline(deadline)
	}

	fileInfo := stream.GetFile()
	var metadata bson.M
	if fileInfo.Metadata != nil {
		_ = bson.Unmarshal(fileInfo.Metadata, &metadata)
	}

	return stream, mediaFileFrom(fileID, fileInfo.Name, fileInfo.Length, fileInfo.UploadDate, metadata), nil
}

func (ms *MediaStorage) DeleteFile(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return common.NotFound("file not found")
	}
	err = ms.gridFS.DeleteContext(ctx, objectID)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return common.NotFound("file not found")
	}
	return err
}

func fileMetadata(mimeType string, uploaderID uint64, at time.Time) bson.M {
	return bson.M{
		"file_type":   common.DetectFileType(mimeType).String(),
		"mime_type":   mimeType,
		"uploaded_by": uploaderID,
		"uploaded_at": at,
	}
}

func mediaFileFrom(id, name string, size int64, uploadedAt time.Time, metadata bson.M) *MediaFile {
	return &MediaFile{
		ID:         id,
		Filename:   name,
		Size:       size,
		FileType:   common.MediaFileType(getStringFromMap(metadata, "file_type")),
		MIMEType:   getStringFromMap(metadata, "mime_type"),
		UploadedBy: getUintFromMap(metadata, "uploaded_by"),
		UploadedAt: uploadedAt,
	}
}

func imageFilename(ownerID uint64, mimeType string, at time.Time) string {
	ext, _ := common.ExtensionFor(mimeType)
	return strconv.FormatUint(ownerID, 10) + "-" + strconv.FormatInt(at.UnixMilli(), 10) + ext
}

func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// bson stores uint64 as int64
func getUintFromMap(m bson.M, key string) uint64 {
	switch v := m[key].(type) {
	case int64:
		return uint64(v)
	case int32:
		return uint64(v)
	}
	return 0
}
