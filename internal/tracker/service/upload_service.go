package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// 错误定义
var (
	ErrStorageUnavailable = errors.New("object storage unavailable")
	ErrUnsupportedImage   = errors.New("unsupported image type")
)

// UploadService 文件上传服务，负责公司Logo等静态资源
type UploadService struct {
	client *minio.Client
	bucket string
}

// NewUploadService 创建上传服务
func NewUploadService(client *minio.Client, bucket string) *UploadService {
	return &UploadService{client: client, bucket: bucket}
}

var allowedImageTypes = map[string]bool{
	"image/png":     true,
	"image/jpeg":    true,
	"image/svg+xml": true,
	"image/webp":    true,
}

// UploadLogo 上传公司Logo，返回对象访问路径
func (s *UploadService) UploadLogo(ctx context.Context, reader io.Reader, size int64, contentType, filename string) (string, error) {
	if s.client == nil {
		return "", ErrStorageUnavailable
	}
	if !allowedImageTypes[strings.ToLower(contentType)] {
		return "", ErrUnsupportedImage
	}

	ext := filepath.Ext(filename)
	objectName := fmt.Sprintf("logo/%s%s", uuid.New().String(), ext)

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return "", fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return "", fmt.Errorf("create bucket: %w", err)
		}
	}

	_, err = s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}

	return fmt.Sprintf("/%s/%s", s.bucket, objectName), nil
}
