package models

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strconv"

	"docserver/db"
	"docserver/filter"
	"docserver/storage"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type File struct {
	ID            uint64         `gorm:"primaryKey" json:"id"`
	CreatedAt     int64          `json:"created_at"`
	UpdatedAt     int64          `json:"updated_at"`
	WorkspaceID   uint64         `gorm:"index:uniq_workspace_file,unique,priority:1;not null" json:"workspace_id"`
	Workspace     Workspace      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UploaderID    uint64         `gorm:"not null" json:"uploader_id"`
	Uploader      User           `gorm:"foreignKey:UploaderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	BucketID      uint64         `json:"-"`
	Bucket        storage.Bucket `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	FileName      string         `gorm:"type:varchar(300);index:uniq_workspace_file,unique,priority:2;not null" json:"file_name"`
	FilePath      string         `gorm:"type:varchar(1000)" json:"file_path"`
	FileType      string         `gorm:"type:varchar(100)" json:"file_type"`
	FileSizeBytes int64          `json:"file_size_bytes"`
	Version       int            `gorm:"not null;default:1" json:"version"`

	Permissions []FilePermission `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// blobPath returns the storage key for a file name within a workspace. The
// key ends in the file name, so backend version enumeration works by name.
func blobPath(workspaceID uint64, fileName string) string {
	return "workspace/" + strconv.FormatUint(workspaceID, 10) + "/" + fileName
}

func (f *File) GetPath() string {
	return blobPath(f.WorkspaceID, f.FileName)
}

// getStorage resolves the blob backend holding this file's bytes
func (f *File) getStorage() (storage.StorageAPI, error) {
	bucket := storage.Bucket{ID: f.BucketID}
	s := storage.StorageFrom(&bucket)
	if s == nil {
		return nil, fmt.Errorf("no storage registered for bucket %d", f.BucketID)
	}
	return s, nil
}

// FileUpload stores content and records metadata. With existingFileID == 0 a
// new File row is created at version 1; otherwise the existing row is updated
// in place and its version advances by exactly one. Textual uploads pass
// through the bad-word filter first. The blob write happens before the
// metadata write, so a failed metadata write leaves an orphaned blob rather
// than a dangling row.
func FileUpload(userID, workspaceID uint64, fileName string, content []byte, contentType, lang string, existingFileID uint64) (*File, error) {
	uploader, err := UserGet(userID)
	if err != nil {
		return nil, err
	}
	if filter.IsTextual(contentType) {
		content = []byte(filter.Clean(string(content), lang))
	}

	file := File{}
	var store storage.StorageAPI
	if existingFileID != 0 {
		if err = db.Instance.First(&file, existingFileID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: file %d", ErrNotFound, existingFileID)
			}
			return nil, err
		}
		store, err = file.getStorage()
		if err != nil {
			return nil, err
		}
	} else {
		if store, err = storage.GetDefaultStorage(); err != nil {
			return nil, err
		}
	}

	path := blobPath(workspaceID, fileName)
	size, err := store.Save(path, bytes.NewReader(content), contentType)
	if err != nil {
		return nil, err
	}

	if existingFileID == 0 {
		file = File{
			WorkspaceID:   workspaceID,
			UploaderID:    uploader.ID,
			BucketID:      store.GetBucket().ID,
			FileName:      fileName,
			FilePath:      path,
			FileType:      contentType,
			FileSizeBytes: size,
			Version:       1,
		}
		if err = db.Instance.Create(&file).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("%w: workspace %d already has a file named %q", ErrConflict, workspaceID, fileName)
			}
			return nil, translateStoreError(err)
		}
	} else {
		// Re-read under a row lock and bump inside one transaction. A plain
		// snapshot read is not enough on MySQL: two concurrent re-uploads
		// would both see version N and both write N+1.
		err = db.Instance.Transaction(func(tx *gorm.DB) error {
			fresh := File{}
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&fresh, existingFileID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: file %d", ErrNotFound, existingFileID)
				}
				return err
			}
			previous := fresh.Version
			if previous < 0 {
				previous = 0
			}
			updates := map[string]interface{}{
				"file_name":       fileName,
				"file_path":       path,
				"file_type":       contentType,
				"file_size_bytes": size,
				"uploader_id":     uploader.ID,
				"workspace_id":    workspaceID,
				"version":         previous + 1,
			}
			if err := tx.Model(&fresh).Updates(updates).Error; err != nil {
				return translateStoreError(err)
			}
			file = fresh
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	audit("file.upload", "file", file.ID, &workspaceID, &userID, fileName)
	return &file, nil
}

// FileList returns every file row. Deliberately unscoped, same policy as
// PermissionList.
func FileList() ([]File, error) {
	files := []File{}
	err := db.Instance.Find(&files).Error
	return files, err
}

func fileGet(fileID uint64) (File, error) {
	file := File{}
	if err := db.Instance.First(&file, fileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return File{}, fmt.Errorf("%w: file %d", ErrNotFound, fileID)
		}
		return File{}, err
	}
	return file, nil
}

// FileGetLocator returns the storage locator for a file's latest content.
// The caller must exist and hold a can_view grant on the file; the locator
// is an opaque string (a presigned URL for S3 buckets, a path for disk).
func FileGetLocator(fileID, userID uint64) (string, error) {
	if _, err := UserGet(userID); err != nil {
		return "", err
	}
	permission, err := permissionFor(fileID, userID)
	if err != nil {
		return "", err
	}
	if permission == nil || !permission.CanView {
		return "", fmt.Errorf("%w: user %d may not view file %d", ErrForbidden, userID, fileID)
	}
	file, err := fileGet(fileID)
	if err != nil {
		return "", err
	}
	store, err := file.getStorage()
	if err != nil {
		return "", err
	}
	return store.GetURL(file.FilePath, "")
}

// FileListVersions enumerates the backend's versions of the file's blob,
// newest first. A file with no stored versions is reported as not found.
func FileListVersions(fileID uint64) ([]storage.Version, error) {
	file, err := fileGet(fileID)
	if err != nil {
		return nil, err
	}
	store, err := file.getStorage()
	if err != nil {
		return nil, err
	}
	versions, err := store.ListVersions(file.FilePath)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w: no versions stored for file %d", ErrNotFound, fileID)
	}
	return versions, nil
}

// FileGetVersionLocator resolves the locator of one historical version.
func FileGetVersionLocator(fileID uint64, versionID string) (string, error) {
	file, err := fileGet(fileID)
	if err != nil {
		return "", err
	}
	store, err := file.getStorage()
	if err != nil {
		return "", err
	}
	versions, err := store.ListVersions(file.FilePath)
	if err != nil {
		return "", err
	}
	for _, v := range versions {
		if v.ID == versionID {
			return store.GetURL(file.FilePath, versionID)
		}
	}
	return "", fmt.Errorf("%w: file %d has no version %q", ErrNotFound, fileID, versionID)
}

// FileDelete removes the metadata row; permissions go with it via the FK
// cascade. The blob delete is best-effort afterwards - an orphaned blob is
// harmless, a dangling row is not.
func FileDelete(fileID uint64) error {
	file, err := fileGet(fileID)
	if err != nil {
		return err
	}
	result := db.Instance.Delete(&File{}, fileID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: file %d", ErrNotFound, fileID)
	}
	if store, err := file.getStorage(); err == nil {
		if err = store.Delete(file.FilePath); err != nil {
			log.Printf("could not delete blob %s: %v", file.FilePath, err)
		}
	}
	audit("file.delete", "file", fileID, &file.WorkspaceID, nil, file.FileName)
	return nil
}
