package models

import (
	"errors"
	"fmt"

	"docserver/db"

	"gorm.io/gorm"
)

type Workspace struct {
	ID                 uint64 `gorm:"primaryKey" json:"id"`
	CreatedAt          int64  `json:"created_at"`
	UpdatedAt          int64  `json:"updated_at"`
	Name               string `gorm:"type:varchar(200);not null" json:"name"`
	Description        string `gorm:"type:varchar(1000)" json:"description"`
	WorkspaceManagerID uint64 `gorm:"not null" json:"workspace_manager_id"`
	WorkspaceManager   User   `gorm:"foreignKey:WorkspaceManagerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	Files   []File            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Members []WorkspaceMember `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// WorkspaceCreate is manager-gated; the acting manager becomes the owner.
func WorkspaceCreate(actingUserID uint64, name, description string) (*Workspace, error) {
	manager, err := requireManager(actingUserID)
	if err != nil {
		return nil, err
	}
	workspace := Workspace{
		Name:               name,
		Description:        description,
		WorkspaceManagerID: manager.ID,
	}
	if err = db.Instance.Create(&workspace).Error; err != nil {
		return nil, translateStoreError(err)
	}
	audit("workspace.create", "workspace", workspace.ID, &workspace.ID, &actingUserID, name)
	return &workspace, nil
}

func WorkspaceGet(workspaceID uint64) (Workspace, error) {
	workspace := Workspace{}
	if err := db.Instance.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Workspace{}, fmt.Errorf("%w: workspace %d", ErrNotFound, workspaceID)
		}
		return Workspace{}, err
	}
	return workspace, nil
}

// WorkspaceDelete removes the workspace; files, memberships and file
// permissions go with it through the FK cascade.
func WorkspaceDelete(workspaceID uint64, actingUserID uint64) error {
	if _, err := requireManager(actingUserID); err != nil {
		return err
	}
	result := db.Instance.Delete(&Workspace{}, workspaceID)
	if result.Error != nil {
		return translateStoreError(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: workspace %d", ErrNotFound, workspaceID)
	}
	audit("workspace.delete", "workspace", workspaceID, &workspaceID, &actingUserID, "")
	return nil
}
