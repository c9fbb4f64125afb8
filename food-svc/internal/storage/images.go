package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// LocalImageStore writes uploads under Dir and serves them from PublicPrefix.
type LocalImageStore struct {
	Dir          string
	PublicPrefix string
}

func NewLocalImageStore(dir, publicPrefix string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, PublicPrefix: publicPrefix}
}

func (s *LocalImageStore) Save(_ context.Context, name, _ string, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	name = filepath.Base(name)
	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return path.Join(s.PublicPrefix, name), nil
}

type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3ImageStore struct {
	Client S3PutObjectAPI
	Bucket string
	Region string
}

func NewS3ImageStore(ctx context.Context, bucket, region string) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &S3ImageStore{Client: s3.NewFromConfig(cfg), Bucket: bucket, Region: region}, nil
}

func (s *S3ImageStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	key := "images/" + path.Base(name)
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload image to S3: %w", err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key), nil
}
