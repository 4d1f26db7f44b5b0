// Package mediasvc stores binary assets on an S3-compatible host.
package mediasvc

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/mwalimu/tutorhub/core"
)

type s3Service struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

var _ core.MediaService = (*s3Service)(nil)

func NewS3Service(conf *core.Config) (*s3Service, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(conf.Media.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(conf.Media.AccessKey, conf.Media.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, errors.Wrap(err, "loading AWS config")
	}

	return &s3Service{
		client:  s3.NewFromConfig(cfg),
		bucket:  conf.Media.Bucket,
		region:  conf.Media.Region,
		baseURL: conf.Media.BaseURL,
	}, nil
}

func (svc *s3Service) Upload(ctx context.Context, name, contentType string, content io.Reader) (core.MediaObject, error) {
	// a random prefix keeps re-uploads under the same name from clobbering each other
	key := fmt.Sprintf("media/%d/%s-%s", time.Now().UTC().Year(), uuid.New().String()[:8], name)

	_, err := svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(svc.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return core.MediaObject{}, errors.Wrap(err, "uploading object")
	}
	return core.MediaObject{Key: key, URL: svc.url(key)}, nil
}

func (svc *s3Service) Delete(ctx context.Context, key string) error {
	_, err := svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(svc.bucket),
		Key:    aws.String(key),
	})
	return errors.Wrap(err, "deleting object")
}

func (svc *s3Service) url(key string) string {
	if svc.baseURL != "" {
		return svc.baseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", svc.bucket, svc.region, key)
}
