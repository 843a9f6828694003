// Package cloudflare provides a client for interacting with Cloudflare R2.
package cloudflare

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/spf13/viper"
)

const minMultipartSize = 12 << 20

type R2Client struct {
	C       *s3.Client
	Presign *s3.PresignClient
	Bucket  *string

	// Ceiling for every single R2 call so a stalled backend can't
	// hang a request forever
	Timeout time.Duration
}

func NewR2() (*R2Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("storage.access_key_id"),
			viper.GetString("storage.secret_access_key"),
			"",
		)),
	)
	if err != nil {
		return nil, err
	}

	bucket := aws.String(viper.GetString("storage.bucket"))

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", viper.GetString("storage.account_id")))
		o.Region = "auto"
	})

	_, err = client.HeadBucket(context.TODO(), &s3.HeadBucketInput{
		Bucket: bucket,
	})
	if err != nil {
		var apiErr smithy.APIError

		if errors.As(err, &apiErr) {
			if apiErr.ErrorCode() == "NotFound" {
				return nil, fmt.Errorf("bucket '%s' does not exist", *bucket)
			}
		}

		return nil, fmt.Errorf("failed to check if bucket exists, %w", err)
	}

	return &R2Client{
		C:       client,
		Presign: s3.NewPresignClient(client),
		Bucket:  bucket,
		Timeout: time.Duration(viper.GetInt("storage.timeout")) * time.Second,
	}, nil
}

// Put writes one blob under key. Bodies past minMultipartSize go
// through the multipart uploader, everything else is a single PutObject.
func (r *R2Client) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	input := &s3.PutObjectInput{
		Bucket:        r.Bucket,
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	}

	var err error
	if size > minMultipartSize {
		u := manager.NewUploader(r.C, func(u *manager.Uploader) {
			u.Concurrency = 5
			u.PartSize = 6 << 20
		})
		_, err = u.Upload(ctx, input)
	} else {
		_, err = r.C.PutObject(ctx, input)
	}
	if err != nil {
		return fmt.Errorf("failed to upload object to R2, %w", err)
	}

	return nil
}

// SignedGetURL returns a capability URL granting direct read access to
// one blob for ttl. Recipients download straight from R2, not through us.
func (r *R2Client) SignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	req, err := r.Presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: r.Bucket,
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("failed to presign object, %w", err)
	}

	return req.URL, nil
}

func (r *R2Client) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	_, err := r.C.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: r.Bucket,
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from R2, %w", err)
	}

	return nil
}
