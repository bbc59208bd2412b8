package backup

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sakhi-app/core/internal/config"
)

// Uploader pushes a finished archive to remote storage and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, key string, payload []byte, contentType string) (string, error)
}

type s3Uploader struct {
	client    *s3.Client
	bucket    string
	region    string
	endpoint  string
	pathStyle bool
}

// NewS3Uploader builds an uploader from static credentials. A custom
// endpoint (MinIO, R2...) implies path-style addressing.
func NewS3Uploader(opts config.S3Options) (Uploader, error) {
	if opts.Bucket == "" || opts.Region == "" || opts.AccessKeyID == "" || opts.SecretAccessKey == "" {
		return nil, fmt.Errorf("incomplete s3 config: bucket/region/access_key_id/secret_access_key are required")
	}

	endpoint, err := normalizeEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	pathStyle := opts.PathStyle || endpoint != ""

	s3opts := s3.Options{
		Region:                     opts.Region,
		Credentials:                aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")),
		UsePathStyle:               pathStyle,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
		ResponseChecksumValidation: aws.ResponseChecksumValidationWhenRequired,
	}
	if endpoint != "" {
		s3opts.BaseEndpoint = aws.String(endpoint)
	}

	return &s3Uploader{
		client:    s3.New(s3opts),
		bucket:    opts.Bucket,
		region:    opts.Region,
		endpoint:  endpoint,
		pathStyle: pathStyle,
	}, nil
}

// normalizeEndpoint defaults the scheme to https and requires a host, plus a
// port whenever a colon follows the host.
func normalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return "", nil
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")
	u, err := url.Parse(endpoint)
	if err != nil || u.Hostname() == "" || (strings.HasSuffix(u.Host, ":") && u.Port() == "") {
		return "", fmt.Errorf("invalid s3 endpoint: %s", raw)
	}
	return endpoint, nil
}

func (u *s3Uploader) Upload(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	key = normalizeObjectKey(key)
	if key == "" {
		return "", fmt.Errorf("invalid s3 object key")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentLength: aws.Int64(int64(len(payload))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s: %w", key, err)
	}
	return u.objectURL(key), nil
}

func (u *s3Uploader) objectURL(key string) string {
	base := u.endpoint
	if base == "" {
		base = fmt.Sprintf("https://s3.%s.amazonaws.com", u.region)
	}
	if u.pathStyle {
		return base + "/" + u.bucket + "/" + key
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return ""
	}
	parsed.Host = u.bucket + "." + parsed.Host
	return parsed.String() + "/" + key
}

// objectKey places an archive under prefix/YYYY/MM/.
func objectKey(prefix, filename string, now time.Time) string {
	return normalizeObjectKey(strings.Join([]string{prefix, now.Format("2006"), now.Format("01"), filename}, "/"))
}

func normalizeObjectKey(key string) string {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	for strings.Contains(key, "//") {
		key = strings.ReplaceAll(key, "//", "/")
	}
	return strings.TrimPrefix(key, "/")
}
