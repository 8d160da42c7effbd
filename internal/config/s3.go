package config

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/maproute/internal/errors"
)

// maxRemoteSize bounds the size of a downloaded route table.
const maxRemoteSize = 4 << 20

// ObjectGetter is the part of the S3 client used to fetch route tables.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3Client builds an S3 client from the default AWS configuration
// chain (environment, shared config, instance role).
func NewS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, errors.New(errors.CodeRemoteFetch).
			WithDetail("loading AWS configuration").
			Wrap(err)
	}
	return s3.NewFromConfig(cfg), nil
}

// ParseS3URL splits "s3://bucket/key" into bucket and key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "s3" || u.Host == "" || strings.Trim(u.Path, "/") == "" {
		return "", "", errors.New(errors.CodeBadArgument).
			WithDetail(fmt.Sprintf("%q is not an s3://bucket/key URL", raw))
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

// LoadS3 fetches a route table from S3. The format follows the key's
// extension.
func LoadS3(ctx context.Context, client ObjectGetter, source string) (*Config, error) {
	bucket, key, err := ParseS3URL(source)
	if err != nil {
		return nil, err
	}
	format, err := FormatOf(path.Base(key))
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, errors.New(errors.CodeRemoteFetch).WithDetail(source).Wrap(err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxRemoteSize+1))
	if err != nil {
		return nil, errors.New(errors.CodeRemoteFetch).WithDetail(source).Wrap(err)
	}
	if len(data) > maxRemoteSize {
		return nil, errors.New(errors.CodeRemoteFetch).
			WithDetail(fmt.Sprintf("%s is larger than %d bytes", source, maxRemoteSize))
	}
	return Parse(source, data, format)
}
