package minio_storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// MediaStorage holds all course media: logos, lecture videos and note
// attachments. Object keys are namespaced per course.
type MediaStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewMediaStorage(storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*MediaStorage, error) {
	exists, err := storage.client.BucketExists(context.Background(), bucketName)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err = storage.client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MediaStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func (s *MediaStorage) upload(
	ctx context.Context,
	objectKey, filename string,
	reader io.Reader,
	size int64,
	contentType string,
) (string, error) {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filename))
		if contentType == "" {
			contentType = "application/octet-stream"
		}
	}

	_, err := s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		reader,
		size,
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *MediaStorage) UploadLogo(ctx context.Context, courseID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("courses/%s/logo%s", courseID.String(), ext)
	return s.upload(ctx, objectKey, filename, reader, size, contentType)
}

func (s *MediaStorage) UploadVideo(ctx context.Context, courseID, videoID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("courses/%s/videos/%s%s", courseID.String(), videoID.String(), ext)
	return s.upload(ctx, objectKey, filename, reader, size, contentType)
}

func (s *MediaStorage) UploadNoteFile(ctx context.Context, courseID, noteID uuid.UUID, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	objectKey := fmt.Sprintf("courses/%s/notes/%s%s", courseID.String(), noteID.String(), ext)
	return s.upload(ctx, objectKey, filename, reader, size, contentType)
}

func (s *MediaStorage) GetMediaURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		reqParams,
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}

func (s *MediaStorage) DeleteMedia(ctx context.Context, objectKey string) error {
	return s.storage.client.RemoveObject(ctx, s.bucket, objectKey, minio.RemoveObjectOptions{})
}
