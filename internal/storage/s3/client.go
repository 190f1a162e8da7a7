package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client wraps the S3 SDK for a single bucket.
type Client struct {
	bucket   string
	uploader *manager.Uploader
	presign  *awss3.PresignClient
}

// Options carries bucket settings. EndpointURL and UsePathStyle support
// S3-compatible stores such as MinIO.
type Options struct {
	Bucket       string
	Region       string
	EndpointURL  string
	UsePathStyle bool
}

func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	s3Client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if opts.EndpointURL != "" {
			o.BaseEndpoint = aws.String(opts.EndpointURL)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return &Client{
		bucket:   opts.Bucket,
		uploader: manager.NewUploader(s3Client),
		presign:  awss3.NewPresignClient(s3Client),
	}, nil
}

func (c *Client) Put(ctx context.Context, objectName, contentType string, body io.Reader) error {
	_, err := c.uploader.Upload(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectName),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3: upload %s: %w", objectName, err)
	}
	return nil
}

func (c *Client) PresignGet(ctx context.Context, objectName string, ttl time.Duration) (string, error) {
	req, err := c.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectName),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("s3: presign %s: %w", objectName, err)
	}
	return req.URL, nil
}
