package models

import (
	"errors"
	"fmt"

	"docserver/db"

	"gorm.io/gorm"
)

const (
	RoleMember = "member"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

type WorkspaceMember struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	UserID      uint64    `gorm:"index:uniq_user_workspace,unique,priority:1;not null" json:"user_id"`
	User        User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	WorkspaceID uint64    `gorm:"index:uniq_user_workspace,unique,priority:2;not null" json:"workspace_id"`
	Workspace   Workspace `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Role        string    `gorm:"type:varchar(20);not null;default:member" json:"role"`
	JoinedAt    int64     `gorm:"autoCreateTime" json:"joined_at"`
}

// MemberAdd is gated on grantedByID being a manager. One membership row per
// (user, workspace) pair; a second add is a conflict.
func MemberAdd(workspaceID, userID uint64, role string, grantedByID uint64) (*WorkspaceMember, error) {
	if _, err := requireManager(grantedByID); err != nil {
		return nil, err
	}
	if _, err := UserGet(userID); err != nil {
		return nil, err
	}
	if _, err := WorkspaceGet(workspaceID); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleMember
	}
	member := WorkspaceMember{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
	}
	if err := db.Instance.Create(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: user %d is already a member of workspace %d", ErrConflict, userID, workspaceID)
		}
		return nil, translateStoreError(err)
	}
	audit("member.add", "workspace_member", member.ID, &workspaceID, &grantedByID, role)
	return &member, nil
}

func MemberRemove(workspaceID, userID uint64, grantedByID uint64) error {
	if _, err := requireManager(grantedByID); err != nil {
		return err
	}
	result := db.Instance.
		Where("workspace_id = ? AND user_id = ?", workspaceID, userID).
		Delete(&WorkspaceMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: user %d is not a member of workspace %d", ErrNotFound, userID, workspaceID)
	}
	audit("member.remove", "workspace_member", userID, &workspaceID, &grantedByID, "")
	return nil
}

func MemberList(workspaceID uint64) ([]WorkspaceMember, error) {
	members := []WorkspaceMember{}
	err := db.Instance.Where("workspace_id = ?", workspaceID).Order("joined_at").Find(&members).Error
	return members, err
}
