package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/Alijeyrad/clinica_backend/config"
)

// Object is one generated document to store.
type Object struct {
	Key         string
	ContentType string
	// FileName is what browsers save the download as.
	FileName string
	Body     []byte
	Metadata map[string]string
}

// Client keeps generated documents (payroll workbooks) in a private bucket
// and hands out short-lived download links. Keys are stored under the
// configured prefix.
type Client struct {
	api    *s3.Client
	presig *s3.PresignClient
	bucket string
	prefix string
	ttl    time.Duration
}

func New(ctx context.Context, cfg config.S3Config) (*Client, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := []func(*awscfg.LoadOptions) error{awscfg.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		// Otherwise the SDK chain applies (env, shared config, instance role).
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}
	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	ttl := time.Duration(cfg.PresignTTLSec) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Client{
		api:    api,
		presig: s3.NewPresignClient(api),
		bucket: cfg.Bucket,
		prefix: cfg.KeyPrefix,
		ttl:    ttl,
	}, nil
}

func (c *Client) fullKey(key string) string {
	if c.prefix == "" {
		return key
	}
	return path.Join(c.prefix, key)
}

// Put stores obj as a private object.
func (c *Client) Put(ctx context.Context, obj Object) error {
	in := &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(c.fullKey(obj.Key)),
		Body:          bytes.NewReader(obj.Body),
		ContentLength: aws.Int64(int64(len(obj.Body))),
		ContentType:   aws.String(obj.ContentType),
		ACL:           types.ObjectCannedACLPrivate,
		Metadata:      obj.Metadata,
	}
	if obj.FileName != "" {
		in.ContentDisposition = aws.String(attachment(obj.FileName))
	}
	if _, err := c.api.PutObject(ctx, in); err != nil {
		return fmt.Errorf("s3 put %q: %w", obj.Key, err)
	}
	return nil
}

// URL presigns a GET for key, valid for the configured TTL.
func (c *Client) URL(ctx context.Context, key string) (string, error) {
	req, err := c.presig.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.fullKey(key)),
	}, s3.WithPresignExpires(c.ttl))
	if err != nil {
		return "", fmt.Errorf("s3 presign %q: %w", key, err)
	}
	return req.URL, nil
}

func attachment(name string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": name})
}
