package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// S3Config configures the S3-backed object store.
type S3Config struct {
	Bucket string
	Region string
	// Endpoint overrides the S3 endpoint (minio, localstack). Empty uses AWS.
	Endpoint string
	// PublicBaseURL is the URL prefix assets are served from. When empty the
	// standard virtual-hosted S3 URL is used.
	PublicBaseURL string
}

// S3Store stores assets in a single S3 bucket under per-folder prefixes.
type S3Store struct {
	client *s3.Client
	cfg    S3Config
}

// NewS3Store creates an S3-backed store using the default AWS credential
// chain.
func NewS3Store(ctx context.Context, cfg S3Config) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("objectstore: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("objectstore: load aws config: %w", err)
	}
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	} else if awsCfg.Region == "" {
		awsCfg.Region = "us-east-1"
	}

	var opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Store{
		client: s3.NewFromConfig(awsCfg, opts...),
		cfg:    cfg,
	}, nil
}

// Store uploads data under a generated key and returns its public URL.
func (s *S3Store) Store(ctx context.Context, data []byte, meta Metadata) (Object, error) {
	if len(data) == 0 {
		return Object{}, fmt.Errorf("objectstore: empty payload")
	}

	contentType := meta.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(data).String()
	}

	key := s.objectKey(meta)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("objectstore: put %s: %w", key, err)
	}

	return Object{URL: s.publicURL(key), AssetID: key}, nil
}

func (s *S3Store) objectKey(meta Metadata) string {
	folder := strings.Trim(meta.Folder, "/")
	if folder == "" {
		folder = "uploads"
	}
	name := uuid.NewString()
	if ext := path.Ext(meta.FileName); ext != "" {
		name += ext
	}
	return folder + "/" + name
}

func (s *S3Store) publicURL(key string) string {
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	}
	if s.cfg.Endpoint != "" {
		return strings.TrimRight(s.cfg.Endpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
