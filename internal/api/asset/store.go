// Package asset quản lý media asset trên object store tương thích S3
// (MinIO, Cloudflare R2, AWS S3).
package asset

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"media_scheduler/config"
	"media_scheduler/internal/common"
)

// Store là interface thao tác asset trên object store.
// Delete với key không tồn tại phải trả về nil (idempotent).
type Store interface {
	Upload(ctx context.Context, data []byte, fileName, contentType string) (publicURL, key string, err error)
	Delete(ctx context.Context, key string) error
}

// s3Uploader và s3Deleter tách API của SDK ra interface nhỏ để test với fake
type s3Uploader interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type s3Deleter interface {
	DeleteObjectWithContext(ctx aws.Context, input *s3.DeleteObjectInput, opts ...request.Option) (*s3.DeleteObjectOutput, error)
}

// S3Store triển khai Store trên S3-compatible endpoint
type S3Store struct {
	uploader s3Uploader
	client   s3Deleter
	endpoint string
	bucket   string
	folder   string
}

// NewS3Store tạo mới S3Store từ config
func NewS3Store(cfg *config.Configuration) (*S3Store, error) {
	region := cfg.AssetStore_Region
	if region == "" {
		region = "auto"
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(region),
		Endpoint:         aws.String(cfg.AssetStore_Endpoint),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials(cfg.AssetStore_AccessKey, cfg.AssetStore_SecretKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Store{
		uploader: s3manager.NewUploader(sess),
		client:   s3.New(sess),
		endpoint: cfg.AssetStore_Endpoint,
		bucket:   cfg.AssetStore_Bucket,
		folder:   cfg.AssetStore_Folder,
	}, nil
}

// Upload đẩy asset lên store với key duy nhất và trả về public URL + key.
// Key = folder/uuid_filename để không bao giờ ghi đè asset cũ.
func (s *S3Store) Upload(ctx context.Context, data []byte, fileName, contentType string) (string, string, error) {
	uniqueName := fmt.Sprintf("%s_%s", uuid.New().String(), fileName)
	key := fmt.Sprintf("%s/%s", s.folder, uniqueName)

	upParams := &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	}

	if _, err := s.uploader.UploadWithContext(ctx, upParams); err != nil {
		return "", "", common.NewError(
			common.ErrCodeStorageUpload,
			fmt.Sprintf("Không upload được asset '%s' lên store", fileName),
			common.StatusInternalServerError,
			err,
		)
	}

	publicURL := fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key)
	return publicURL, key, nil
}

// Delete xóa asset theo key. Key không tồn tại được coi là xóa thành công.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, "NotFound":
				return nil
			}
		}
		return common.NewError(
			common.ErrCodeStorageDelete,
			fmt.Sprintf("Không xóa được asset '%s' khỏi store", key),
			common.StatusInternalServerError,
			err,
		)
	}
	return nil
}
