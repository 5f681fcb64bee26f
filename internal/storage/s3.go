// Package storage wraps the S3-compatible object store that holds
// project files exchanged through the client portal.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

type Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

type FileStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

func NewFileStore(opts Options) *FileStore {
	s3opts := s3.Options{
		Region:      opts.Region,
		Credentials: awscreds.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
	}
	// Custom endpoint means an S3-compatible space; those want
	// path-style addressing.
	if opts.Endpoint != "" {
		s3opts.BaseEndpoint = aws.String(opts.Endpoint)
		s3opts.UsePathStyle = true
	}

	client := s3.New(s3opts)
	return &FileStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  opts.Bucket,
	}
}

func (fs *FileStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	_, err := fs.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(fs.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	return err
}

func (fs *FileStore) Delete(ctx context.Context, key string) error {
	_, err := fs.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	})
	return err
}

// PresignGet returns a time-limited download URL; objects are never
// public.
func (fs *FileStore) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	out, err := fs.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(fs.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// ObjectKey builds a collision-free key that still keeps the original
// extension for content-type sniffing on download.
func ObjectKey(projectID uint, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	if len(ext) > 10 {
		ext = ""
	}
	return fmt.Sprintf("projects/%d/%s%s", projectID, uuid.NewString(), ext)
}

// PreviewKey derives the sibling key holding the webp preview.
func PreviewKey(objectKey string) string {
	return objectKey + ".preview.webp"
}
