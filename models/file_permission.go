package models

import (
	"errors"
	"fmt"
	"time"

	"docserver/db"

	"gorm.io/gorm"
)

// Capabilities are the five independent per-file grants. Anything not set
// explicitly on grant defaults to false.
type Capabilities struct {
	CanView     bool `json:"can_view"`
	CanEdit     bool `json:"can_edit"`
	CanDelete   bool `json:"can_delete"`
	CanShare    bool `json:"can_share"`
	CanDownload bool `json:"can_download"`
}

type FilePermission struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	FileID      uint64    `gorm:"index:uniq_file_user,unique,priority:1;not null" json:"file_id"`
	File        File      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID      uint64    `gorm:"index:uniq_file_user,unique,priority:2;not null" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	WorkspaceID uint64    `json:"workspace_id"`
	Workspace   Workspace `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Capabilities `gorm:"embedded"`

	// A manager cannot be deleted while on record as a grantor
	GrantedByID uint64 `gorm:"not null" json:"granted_by_id"`
	GrantedBy   User   `gorm:"foreignKey:GrantedByID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	GrantedAt   int64  `json:"granted_at"`
}

// PermissionList returns every permission row. Deliberately unscoped: no
// caller identity or workspace filter is applied.
func PermissionList() ([]FilePermission, error) {
	permissions := []FilePermission{}
	err := db.Instance.Find(&permissions).Error
	return permissions, err
}

func PermissionGrant(fileID, userID, workspaceID uint64, caps Capabilities, grantedByID uint64) (*FilePermission, error) {
	grantor, err := requireManager(grantedByID)
	if err != nil {
		return nil, err
	}
	permission := FilePermission{
		FileID:       fileID,
		UserID:       userID,
		WorkspaceID:  workspaceID,
		Capabilities: caps,
		GrantedByID:  grantor.ID,
		GrantedAt:    time.Now().Unix(),
	}
	if err = db.Instance.Create(&permission).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: permission for (file %d, user %d) already exists", ErrConflict, fileID, userID)
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, fmt.Errorf("%w: file, user or workspace does not exist", ErrNotFound)
		}
		return nil, err
	}
	audit("permission.grant", "file_permission", permission.ID, &workspaceID, &grantedByID, "")
	return &permission, nil
}

// PermissionUpdate replaces the capability set on an existing row. All five
// flags are written, so flags omitted by the caller reset to false.
func PermissionUpdate(permissionID uint64, caps Capabilities, grantedByID uint64) (*FilePermission, error) {
	grantor, err := requireManager(grantedByID)
	if err != nil {
		return nil, err
	}
	permission := FilePermission{}
	if err = db.Instance.First(&permission, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: permission %d", ErrNotFound, permissionID)
		}
		return nil, err
	}
	permission.Capabilities = caps
	permission.GrantedByID = grantor.ID
	permission.GrantedAt = time.Now().Unix()
	err = db.Instance.Model(&permission).
		Select("can_view", "can_edit", "can_delete", "can_share", "can_download", "granted_by_id", "granted_at").
		Updates(&permission).Error
	if err != nil {
		return nil, err
	}
	audit("permission.update", "file_permission", permission.ID, &permission.WorkspaceID, &grantedByID, "")
	return &permission, nil
}

// PermissionRevoke deletes the row. The manager gate is checked against the
// acting user, not the original grantor: revocation is a manager capability,
// not tied to whoever granted.
func PermissionRevoke(permissionID, actingUserID uint64) error {
	if _, err := requireManager(actingUserID); err != nil {
		return err
	}
	result := db.Instance.Delete(&FilePermission{}, permissionID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: permission %d", ErrNotFound, permissionID)
	}
	audit("permission.revoke", "file_permission", permissionID, nil, &actingUserID, "")
	return nil
}

// permissionFor returns the permission row for (file, user), or nil when no
// row exists.
func permissionFor(fileID, userID uint64) (*FilePermission, error) {
	permission := FilePermission{}
	err := db.Instance.Where("file_id = ? AND user_id = ?", fileID, userID).First(&permission).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &permission, nil
}
