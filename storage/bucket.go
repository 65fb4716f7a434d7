package storage

import (
	"os"

	"docserver/db"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

type Bucket struct {
	ID          uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt   int64  `json:"-"`
	UpdatedAt   int64  `json:"-"`
	Name        string `gorm:"type:varchar(200)" json:"name"` // S3 bucket name or a display name for disk buckets
	StorageType StorageType
	Path        string `json:"path"` // Directory on a drive or a key prefix in a S3 bucket
	// S3-specific
	S3Key         string `json:"s3key,omitempty"`
	S3Secret      string `json:"s3secret,omitempty"`
	Region        string `json:"region,omitempty"`
	Endpoint      string `json:"endpoint,omitempty"` // for S3-compatible services
	SSEEncryption string `json:"sse,omitempty"`
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

// GetRemotePath prefixes the object key with the bucket's configured prefix
func (b *Bucket) GetRemotePath(path string) string {
	if b.Path == "" {
		return path
	}
	return b.Path + "/" + path
}

func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.Config{
		Region:      &b.Region,
		Credentials: credentials.NewStaticCredentials(b.S3Key, b.S3Secret, ""),
	}
	if b.Endpoint != "" {
		cfg.Endpoint = &b.Endpoint
		cfg.S3ForcePathStyle = aws.Bool(true)
	}
	return s3.New(session.Must(session.NewSession(&cfg)))
}

// TryInit prepares the bucket for use. For disk buckets that means
// pre-creating the base directory.
func (b *Bucket) TryInit() error {
	if b.StorageType == StorageTypeFile {
		return os.MkdirAll(b.Path, 0777)
	}
	return nil
}

func (b *Bucket) Create() error {
	if err := b.TryInit(); err != nil {
		return err
	}
	return db.Instance.Create(b).Error
}
