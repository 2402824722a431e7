package document

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3 loads a document stored as an S3 object
type S3 struct {
	bucket string
	key    string
	client *s3.Client
}

var _ Loader = (*S3)(nil)

type S3Option func(*S3)

func WithS3Bucket(bucket string) S3Option {
	return func(s *S3) {
		s.bucket = bucket
	}
}

func WithS3Key(key string) S3Option {
	return func(s *S3) {
		s.key = key
	}
}

func WithS3Client(clt *s3.Client) S3Option {
	return func(s *S3) {
		s.client = clt
	}
}

func NewS3(opts ...S3Option) *S3 {
	ret := new(S3)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

func (s *S3) Load(ctx context.Context) (*Document, error) {
	if s.client == nil {
		return nil, fmt.Errorf("no s3 client for s3://%s/%s", s.bucket, s.key)
	}
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer resp.Body.Close()
	bs, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	doc := New(bs, path.Base(s.key))
	if ct := aws.ToString(resp.ContentType); ct == "text/html" {
		doc.Kind = HTMLKind
	}
	doc.Meta["source"] = "s3"
	doc.Meta["bucket"] = s.bucket
	doc.Meta["key"] = s.key
	return doc, nil
}
