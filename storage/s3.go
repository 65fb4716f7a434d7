package storage

import (
	"io"
	"time"

	"docserver/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage relies on the bucket having object versioning enabled so that
// re-uploads of the same key accumulate a retrievable history.
type S3Storage struct {
	bucket   Bucket
	s3Client *s3.S3
}

func NewS3Storage(bucket *Bucket) StorageAPI {
	return &S3Storage{
		bucket:   *bucket,
		s3Client: bucket.CreateSVC(),
	}
}

func (s *S3Storage) GetBucket() *Bucket {
	return &s.bucket
}

func (s *S3Storage) Save(path string, reader io.Reader, mimeType string) (int64, error) {
	counter := &countingReader{reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket: &s.bucket.Name,
		Key:    aws.String(s.bucket.GetRemotePath(path)),
		Body:   counter,
	}
	if mimeType != "" {
		input.ContentType = &mimeType
	}
	if s.bucket.SSEEncryption != "" {
		input.ServerSideEncryption = &s.bucket.SSEEncryption
	}
	_, err := uploader.Upload(&input)
	return counter.total, err
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: &s.bucket.Name,
		Key:    aws.String(s.bucket.GetRemotePath(path)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: &s.bucket.Name,
		Key:    aws.String(s.bucket.GetRemotePath(path)),
	})
	return err
}

func (s *S3Storage) ListVersions(path string) ([]Version, error) {
	key := s.bucket.GetRemotePath(path)
	result := []Version{}
	input := &s3.ListObjectVersionsInput{
		Bucket: &s.bucket.Name,
		Prefix: &key,
	}
	err := s.s3Client.ListObjectVersionsPages(input, func(page *s3.ListObjectVersionsOutput, lastPage bool) bool {
		for _, v := range page.Versions {
			if v.Key == nil || *v.Key != key {
				continue
			}
			version := Version{
				ID:       aws.StringValue(v.VersionId),
				Size:     aws.Int64Value(v.Size),
				IsLatest: aws.BoolValue(v.IsLatest),
			}
			if v.LastModified != nil {
				version.LastModified = v.LastModified.Unix()
			}
			result = append(result, version)
		}
		return true
	})
	return result, err
}

func (s *S3Storage) GetURL(path, versionID string) (string, error) {
	input := &s3.GetObjectInput{
		Bucket: &s.bucket.Name,
		Key:    aws.String(s.bucket.GetRemotePath(path)),
	}
	if versionID != "" {
		input.VersionId = &versionID
	}
	request, _ := s.s3Client.GetObjectRequest(input)
	return request.Presign(time.Duration(config.PRESIGN_VALID_MINS) * time.Minute)
}

func (s *S3Storage) GetTotalSpace() uint64 {
	return 0 // not reported by S3
}

func (s *S3Storage) GetFreeSpace() uint64 {
	return 0
}

type countingReader struct {
	reader io.Reader
	total  int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.total += int64(n)
	return n, err
}
