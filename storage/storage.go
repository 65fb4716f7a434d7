package storage

import (
	"errors"
	"io"
	"log"
	"strconv"

	"docserver/config"
	"docserver/db"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Version describes one stored revision of a blob, as reported by the
// backend's own versioning (S3 object versions, or the disk backend's
// history directory).
type Version struct {
	ID           string `json:"id"`
	Size         int64  `json:"size"`
	LastModified int64  `json:"last_modified"`
	IsLatest     bool   `json:"is_latest"`
}

type StorageAPI interface {
	GetBucket() *Bucket
	// Save stores the blob under path and records a new backend version
	Save(path string, reader io.Reader, mimeType string) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Delete(path string) error
	// ListVersions returns all backend versions of the blob, newest first
	ListVersions(path string) ([]Version, error)
	// GetURL returns an opaque locator for the blob; versionID "" means latest
	GetURL(path, versionID string) (string, error)
	GetTotalSpace() uint64
	GetFreeSpace() uint64
}

var cachedStorage = cmap.New[StorageAPI]()

func Init() {
	db.Instance.AutoMigrate(&Bucket{})

	var buckets []Bucket
	if err := db.Instance.Find(&buckets).Error; err != nil {
		panic(err)
	}
	if len(buckets) == 0 && config.DEFAULT_BUCKET_DIR != "" {
		initial := Bucket{
			Name:        "default",
			StorageType: StorageTypeFile,
			Path:        config.DEFAULT_BUCKET_DIR,
		}
		if err := initial.Create(); err != nil {
			panic(err)
		}
		buckets = append(buckets, initial)
	}
	log.Printf("Storage Buckets found: %d\n", len(buckets))
	cachedStorage.Clear()
	for _, bucket := range buckets {
		cachedStorage.Set(bucketKey(bucket.ID), NewStorage(&bucket))
	}
}

func bucketKey(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func NewStorage(bucket *Bucket) StorageAPI {
	if bucket.StorageType == StorageTypeS3 {
		return NewS3Storage(bucket)
	}
	return NewDiskStorage(bucket)
}

// Register adds (or replaces) the storage for a newly saved bucket
func Register(bucket *Bucket) StorageAPI {
	storage := NewStorage(bucket)
	cachedStorage.Set(bucketKey(bucket.ID), storage)
	return storage
}

func StorageFrom(bucket *Bucket) StorageAPI {
	if s, ok := cachedStorage.Get(bucketKey(bucket.ID)); ok {
		return s
	}
	return nil
}

// GetDefaultStorage picks the bucket new files land in, preferring disk
// buckets. With no buckets registered it returns an error so uploads fail
// with a response instead of a panic.
func GetDefaultStorage() (StorageAPI, error) {
	if cachedStorage.IsEmpty() {
		return nil, errors.New("no storage buckets configured")
	}
	var result StorageAPI
	for item := range cachedStorage.IterBuffered() {
		if result == nil {
			result = item.Val
		}
		if item.Val.GetBucket().StorageType == StorageTypeFile {
			return item.Val, nil
		}
	}
	return result, nil
}
