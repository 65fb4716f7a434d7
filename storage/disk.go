package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// DiskStorage keeps the latest copy of each blob at BasePath/<path> and a
// full version history under BasePath/.versions/<path>/. Version IDs are
// opaque to callers, mirroring what S3 object versioning hands out.
type DiskStorage struct {
	// BasePath is a directory (usually mount point of a disk) that is writable by the current process
	BasePath  string
	bucket    Bucket
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

const versionsDir = ".versions"

func NewDiskStorage(bucket *Bucket) StorageAPI {
	return &DiskStorage{
		BasePath: bucket.Path,
		bucket:   *bucket,
		dirs:     make(map[string]bool, 10),
	}
}

func (s *DiskStorage) GetBucket() *Bucket {
	return &s.bucket
}

func (s *DiskStorage) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	s.dirs[dir] = true
	return os.MkdirAll(dir, 0777)
}

func (s *DiskStorage) getFullPath(path string) string {
	return s.BasePath + "/" + path
}

func (s *DiskStorage) getVersionsPath(path string) string {
	return s.BasePath + "/" + versionsDir + "/" + path
}

func (s *DiskStorage) Save(path string, reader io.Reader, mimeType string) (int64, error) {
	fileName := s.getFullPath(path)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	file.Close()
	if err != nil {
		return result, err
	}
	// Record the new revision in the history directory
	versionDir := s.getVersionsPath(path)
	if err = s.createDir(versionDir); err != nil {
		return result, err
	}
	versionID := fmt.Sprintf("%020d_%s", versionSeq(versionDir)+1, uuid.NewString())
	src, err := os.Open(fileName)
	if err != nil {
		return result, err
	}
	defer src.Close()
	dst, err := os.Create(versionDir + "/" + versionID)
	if err != nil {
		return result, err
	}
	_, err = io.Copy(dst, src)
	dst.Close()
	return result, err
}

// versionSeq returns the number of revisions recorded so far
func versionSeq(versionDir string) int {
	entries, err := os.ReadDir(versionDir)
	if err != nil {
		return 0
	}
	return len(entries)
}

func (s *DiskStorage) Load(path string, writer io.Writer) (int64, error) {
	file, err := os.Open(s.getFullPath(path))
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

func (s *DiskStorage) Delete(path string) error {
	_ = os.RemoveAll(s.getVersionsPath(path))
	return os.Remove(s.getFullPath(path))
}

func (s *DiskStorage) ListVersions(path string) ([]Version, error) {
	entries, err := os.ReadDir(s.getVersionsPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return []Version{}, nil
		}
		return nil, err
	}
	result := make([]Version, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		result = append(result, Version{
			ID:           entry.Name(),
			Size:         info.Size(),
			LastModified: info.ModTime().Unix(),
		})
	}
	// Newest first; names sort by the zero-padded sequence prefix
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	if len(result) > 0 {
		result[0].IsLatest = true
	}
	return result, nil
}

func (s *DiskStorage) GetURL(path, versionID string) (string, error) {
	if versionID == "" {
		fileName := s.getFullPath(path)
		if _, err := os.Stat(fileName); err != nil {
			return "", err
		}
		return fileName, nil
	}
	if strings.Contains(versionID, "/") || strings.Contains(versionID, "..") {
		return "", os.ErrNotExist
	}
	fileName := s.getVersionsPath(path) + "/" + versionID
	if _, err := os.Stat(fileName); err != nil {
		return "", err
	}
	return fileName, nil
}

func (s *DiskStorage) GetTotalSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Blocks * uint64(stat.Bsize)
}

func (s *DiskStorage) GetFreeSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}
