package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AvatarStore keeps user avatars in an object bucket, one object per user.
type AvatarStore struct {
	client *minio.Client
	bucket string
}

func NewAvatarStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*AvatarStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(context.Background(), bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(context.Background(), bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &AvatarStore{client: client, bucket: bucket}, nil
}

// Upload replaces the user's avatar and returns the object key.
func (s *AvatarStore) Upload(ctx context.Context, userID string, r io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("avatars/%s", userID)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}
	return objectName, nil
}

// Fetch streams the stored avatar; the caller must close the reader.
func (s *AvatarStore) Fetch(ctx context.Context, objectName string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch avatar: %w", err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, "", fmt.Errorf("failed to stat avatar: %w", err)
	}
	return obj, stat.ContentType, nil
}
