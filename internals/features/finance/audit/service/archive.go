package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Archiver stores an exported report and returns where it can be fetched.
type Archiver interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type S3Archiver struct {
	Client *s3.Client
	Bucket string
	Region string
}

// NewS3Archiver memakai kredensial default AWS (env, shared config, role).
func NewS3Archiver(ctx context.Context, bucket, region string) (*S3Archiver, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &S3Archiver{Client: s3.NewFromConfig(cfg), Bucket: bucket, Region: region}, nil
}

func (a *S3Archiver) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := a.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.Bucket, a.Region, key), nil
}
