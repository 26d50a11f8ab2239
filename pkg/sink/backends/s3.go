package backends

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/arl/rget/pkg/sink"
)

// S3Sink copies a finished download artifact into an S3 (or
// S3-compatible) bucket under an optional key prefix, the cloud
// counterpart to DiskSink.
type S3Sink struct {
	client    *s3.Client
	bucket    string
	keyPrefix string
}

// NewS3Sink returns an unconfigured S3Sink; call Init before using it.
func NewS3Sink() *S3Sink {
	return &S3Sink{}
}

// Init reads bucket/region/prefix/credentials from config and builds the
// underlying S3 client. Credentials resolve in this order: an explicit
// profile, explicit access-key/secret, then the SDK's default chain
// (environment, shared config, instance role).
func (s *S3Sink) Init(config map[string]interface{}) error {
	bucket, _ := config["bucket"].(string)
	if bucket == "" {
		return fmt.Errorf("bucket is required for the s3 sink")
	}
	s.bucket = bucket

	if prefix, _ := config["prefix"].(string); prefix != "" {
		s.keyPrefix = strings.TrimSuffix(prefix, "/")
	}

	cfg, err := loadAWSConfig(context.Background(), config)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	s.client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint, _ := config["endpoint"].(string); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		if pathStyle, ok := config["usePathStyle"].(bool); ok {
			o.UsePathStyle = pathStyle
		}
	})

	return nil
}

func loadAWSConfig(ctx context.Context, config map[string]interface{}) (aws.Config, error) {
	region, _ := config["region"].(string)
	if region == "" {
		region = "us-east-1"
	}

	switch {
	case nonEmptyString(config["profile"]):
		return awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithSharedConfigProfile(config["profile"].(string)),
		)
	case nonEmptyString(config["accessKeyId"]):
		secret, _ := config["secretAccessKey"].(string)
		session, _ := config["sessionToken"].(string)
		creds := credentials.NewStaticCredentialsProvider(config["accessKeyId"].(string), secret, session)
		return awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(region),
			awsconfig.WithCredentialsProvider(creds),
		)
	default:
		return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	}
}

func nonEmptyString(v interface{}) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// Save uploads data to the bucket under key.
func (s *S3Sink) Save(ctx context.Context, key string, data io.Reader) error {
	full := s.namespaced(key)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(full),
		Body:   data,
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", s.bucket, full, err)
	}

	return nil
}

// Load opens the object stored under key. The caller owns the returned
// reader.
func (s *S3Sink) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	full := s.namespaced(key)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(full),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NoSuchKey") {
			return nil, sink.ErrKeyNotFound
		}
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, full, err)
	}

	return out.Body, nil
}

// Delete removes the object stored under key.
func (s *S3Sink) Delete(ctx context.Context, key string) error {
	exists, err := s.Exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return sink.ErrKeyNotFound
	}

	full := s.namespaced(key)
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(full),
	}); err != nil {
		return fmt.Errorf("delete s3://%s/%s: %w", s.bucket, full, err)
	}

	return nil
}

// Exists reports whether an object is stored under key.
func (s *S3Sink) Exists(ctx context.Context, key string) (bool, error) {
	full := s.namespaced(key)

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(full),
	})
	if err != nil {
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("head s3://%s/%s: %w", s.bucket, full, err)
	}

	return true, nil
}

// List returns every key under the bucket (and this sink's prefix, if
// any) starting with prefix, paging through results as needed.
func (s *S3Sink) List(ctx context.Context, prefix string) ([]string, error) {
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.namespaced(prefix)),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list s3://%s: %w", s.bucket, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil {
				keys = append(keys, s.stripNamespace(*obj.Key))
			}
		}
	}

	return keys, nil
}

// Close is a no-op; the S3 client holds no connection worth releasing.
func (s *S3Sink) Close() error {
	return nil
}

// namespaced qualifies key with this sink's configured prefix, if any.
func (s *S3Sink) namespaced(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + "/" + strings.TrimPrefix(key, "/")
}

// stripNamespace is namespaced's inverse.
func (s *S3Sink) stripNamespace(objectKey string) string {
	if s.keyPrefix == "" {
		return objectKey
	}

	withSlash := s.keyPrefix + "/"
	return strings.TrimPrefix(objectKey, withSlash)
}
