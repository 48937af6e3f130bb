package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appConfig "github.com/susvada/storefront-api/config"
	"github.com/susvada/storefront-api/utils"
)

// MediaStorage stores product images and serves presigned URLs for them
type MediaStorage interface {
	UploadImage(fileHeader *multipart.FileHeader) (string, error)
	GetImageURL(key string) (string, error)
	DeleteImage(key string) error
}

// S3MediaStorage implements MediaStorage on AWS S3
type S3MediaStorage struct {
	client *s3.Client
	bucket string
}

// NewS3MediaStorage creates an S3-backed product media store
func NewS3MediaStorage(cfg *appConfig.Config) (*S3MediaStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.AWSRegion),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3MediaStorage{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.AWSS3Bucket,
	}, nil
}

// UploadImage validates nothing itself; callers run utils.ValidateImageFile
// first. Returns the S3 key under products/.
func (s *S3MediaStorage) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("products/%d_%s", time.Now().Unix(), filepath.Base(fileHeader.Filename))

	_, err = s.client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(utils.ImageContentType(fileHeader.Filename)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return key, nil
}

// GetImageURL generates a presigned URL valid for 1 hour
func (s *S3MediaStorage) GetImageURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}

	presignClient := s3.NewPresignClient(s.client)
	request, err := presignClient.PresignGetObject(context.TODO(), &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = time.Hour
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return request.URL, nil
}

// DeleteImage removes a product image from S3
func (s *S3MediaStorage) DeleteImage(key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}
	return nil
}
