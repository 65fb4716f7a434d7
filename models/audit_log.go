package models

import (
	"log"

	"docserver/db"
)

// AuditLog records every mutating core operation. Writes are best-effort: a
// failed audit insert never fails the operation it describes.
type AuditLog struct {
	ID          uint64  `gorm:"primaryKey" json:"id"`
	CreatedAt   int64   `json:"created_at"`
	Action      string  `gorm:"type:varchar(50);index" json:"action"`
	EntityType  string  `gorm:"type:varchar(50)" json:"entity_type"`
	EntityID    uint64  `json:"entity_id"`
	WorkspaceID *uint64 `gorm:"index" json:"workspace_id,omitempty"`
	ActorID     *uint64 `json:"actor_id,omitempty"`
	Details     string  `gorm:"type:varchar(1000)" json:"details"`
}

func audit(action, entityType string, entityID uint64, workspaceID, actorID *uint64, details string) {
	entry := AuditLog{
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		WorkspaceID: workspaceID,
		ActorID:     actorID,
		Details:     details,
	}
	if err := db.Instance.Create(&entry).Error; err != nil {
		log.Printf("audit write failed for %s: %v", action, err)
	}
}

func AuditList(workspaceID uint64) ([]AuditLog, error) {
	entries := []AuditLog{}
	query := db.Instance.Order("id desc")
	if workspaceID != 0 {
		query = query.Where("workspace_id = ?", workspaceID)
	}
	err := query.Limit(500).Find(&entries).Error
	return entries, err
}
