package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"media-library/internal/domain/repositories"
	appconfig "media-library/internal/pkg/config"
)

// S3Storage stores objects in an S3 bucket, optionally under a root prefix
// and behind a custom public URL (CDN).
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	region    string
	prefix    string
	publicURL string
}

func NewS3Storage(ctx context.Context, cfg appconfig.S3DiskConfig) (*S3Storage, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("could not load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		region:    cfg.Region,
		prefix:    strings.Trim(cfg.RootPrefix, "/"),
		publicURL: strings.TrimSuffix(cfg.PublicURL, "/"),
	}, nil
}

func (s *S3Storage) key(path string) string {
	if s.prefix == "" {
		return path
	}
	return s.prefix + "/" + path
}

func (s *S3Storage) Put(ctx context.Context, path string, data []byte, opts repositories.PutOptions) (*repositories.StoredObject, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(path)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(opts.ContentType),
	}
	if opts.Visibility == repositories.VisibilityPublic {
		input.ACL = types.ObjectCannedACLPublicRead
	}

	out, err := s.client.PutObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("S3 upload failed for %s: %w", path, err)
	}

	obj := &repositories.StoredObject{
		Path:         path,
		Size:         int64(len(data)),
		LastModified: time.Now(),
	}
	if out.ETag != nil {
		obj.ETag = strings.Trim(*out.ETag, `"`)
	}
	return obj, nil
}

func (s *S3Storage) Get(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("S3 get failed for %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("S3 read failed for %s: %w", path, err)
	}
	return data, nil
}

func (s *S3Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		return fmt.Errorf("S3 delete failed for %s: %w", path, err)
	}
	return nil
}

func (s *S3Storage) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("S3 head failed for %s: %w", path, err)
	}
	return true, nil
}

func (s *S3Storage) URL(path string) string {
	key := s.key(path)
	if s.publicURL != "" {
		return s.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

func (s *S3Storage) TemporaryURL(ctx context.Context, path string, expiresIn time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("S3 presign failed for %s: %w", path, err)
	}
	return req.URL, nil
}
