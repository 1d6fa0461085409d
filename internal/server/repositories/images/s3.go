package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrijs2005/cropcare/internal/common"
)

const (
	s3KeyPrefix    = "forum/"
	presignExpires = 15 * time.Minute
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, in *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type getPresigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures an S3Store. Endpoint may point at MinIO or any other
// S3-compatible server; it is addressed path-style.
type S3Options struct {
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Endpoint  string
}

// S3Store keeps images as objects under forum/ in one bucket and serves them
// through presigned GET URLs.
type S3Store struct {
	bucket    string
	objects   objectAPI
	presigner getPresigner
}

func NewS3Store(ctx context.Context, o S3Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	return &S3Store{
		bucket:    o.Bucket,
		objects:   client,
		presigner: s3.NewPresignClient(client),
	}, nil
}

func objectKey(name string) string { return s3KeyPrefix + name }

func (s *S3Store) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(name)),
		Body:        body,
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}

	if _, err := s.objects.PutObject(ctx, in); err != nil {
		var ae smithy.APIError
		if errors.As(err, &ae) && ae.ErrorCode() == "PreconditionFailed" {
			return fmt.Errorf("%w: %s", ErrNameTaken, name)
		}
		return fmt.Errorf("%w: put %s: %v", common.ErrExternalUnavailable, name, err)
	}
	return nil
}

// Get checks the object exists and returns a presigned URL for it.
func (s *S3Store) Get(ctx context.Context, name string) (*Image, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	key := objectKey(name)
	if _, err := s.objects.HeadObject(ctx, &s3.HeadObjectInput{Bucket: aws.String(s.bucket), Key: aws.String(key)}); err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: head %s: %v", common.ErrExternalUnavailable, name, err)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return nil, fmt.Errorf("presign get %s: %w", name, err)
	}

	return &Image{RedirectURL: req.URL, ContentType: ContentType(name)}, nil
}

func (s *S3Store) Delete(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if _, err := s.objects.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(name)),
	}); err != nil {
		return fmt.Errorf("%w: delete %s: %v", common.ErrExternalUnavailable, name, err)
	}
	return nil
}
