// Package storage uploads event images and hands back a stable URL.
// Event records store only the URL, never the binary.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// Uploader stores one image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
}

// S3 uploads images into a single public bucket under event_images/.
type S3 struct {
	uploader *s3manager.Uploader
	bucket   string
}

// NewS3 builds an S3 uploader for the given region and bucket.
func NewS3(region, bucket string) *S3 {
	sess := session.Must(session.NewSession(aws.NewConfig().WithRegion(region)))
	return &S3{uploader: s3manager.NewUploader(sess), bucket: bucket}
}

// Upload stores the image under a timestamped key so repeated uploads of the
// same filename never clobber each other.
func (s *S3) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	key := fmt.Sprintf("event_images/%d-%s", time.Now().UnixNano(), sanitize(filename))

	out, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filename, err)
	}
	return out.Location, nil
}

// sanitize strips path components and whitespace from an uploaded filename.
func sanitize(filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "/" || name == "" {
		return "image"
	}
	return name
}

func contentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}

// Static returns a fixed URL for every upload. Used by tests and local runs
// without AWS credentials.
type Static struct {
	URL string
}

func (s Static) Upload(context.Context, string, io.Reader) (string, error) {
	return s.URL, nil
}
