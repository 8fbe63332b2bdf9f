package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	appcfg "github.com/fdg312/bmi-planner/internal/config"
)

var ErrObjectNotFound = errors.New("object not found")

const defaultPresignTTL = 15 * time.Minute

// File is one rendered export as written to the store.
type File struct {
	Key         string
	Filename    string
	ContentType string
	Data        []byte
}

// Store keeps rendered export files.
type Store interface {
	Put(ctx context.Context, f File) (int64, error)
	Get(ctx context.Context, key string) ([]byte, error)
	// DownloadURL returns a direct link that saves as filename,
	// or "" when the store has no public endpoint and the API streams the file.
	DownloadURL(ctx context.Context, key, filename string) (string, error)
	Delete(ctx context.Context, key string) error
}

// ExportKey places every export under its owner: exports/{owner}/{id}.{format}.
// The owner is path-escaped so arbitrary user ids cannot leave their prefix.
func ExportKey(owner string, id uuid.UUID, format string) string {
	return "exports/" + url.PathEscape(owner) + "/" + id.String() + "." + format
}

// ContentDisposition builds an attachment header for filename.
func ContentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}

// S3Store implements Store on any S3-compatible object storage.
type S3Store struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	presignTTL time.Duration
}

// NewS3Store connects with static credentials to a path-style endpoint
// (Yandex Object Storage, MinIO, R2).
func NewS3Store(ctx context.Context, cfg appcfg.S3Config) (*S3Store, error) {
	if missing := cfg.MissingRequired(); len(missing) > 0 {
		return nil, fmt.Errorf("S3 configuration incomplete: missing %s", strings.Join(missing, ", "))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	ttl := time.Duration(cfg.PresignTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultPresignTTL
	}

	return &S3Store{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		presignTTL: ttl,
	}, nil
}

// Put uploads the file with its download name, so direct links save under
// the same name the API would stream.
func (s *S3Store) Put(ctx context.Context, f File) (int64, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(f.Key),
		Body:        bytes.NewReader(f.Data),
		ContentType: aws.String(f.ContentType),
	}
	if f.Filename != "" {
		input.ContentDisposition = aws.String(ContentDisposition(f.Filename))
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return 0, fmt.Errorf("put %s: %w", f.Key, err)
	}
	return int64(len(f.Data)), nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// DownloadURL presigns a GET that overrides the stored disposition with filename.
func (s *S3Store) DownloadURL(ctx context.Context, key, filename string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if filename != "" {
		input.ResponseContentDisposition = aws.String(ContentDisposition(filename))
	}

	req, err := s.presigner.PresignGetObject(ctx, input, s3.WithPresignExpires(s.presignTTL))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
