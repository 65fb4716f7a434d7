package models

import (
	"docserver/db"
	"docserver/storage"
)

func Init() {
	// Buckets first: File carries a FK to them
	db.Instance.AutoMigrate(&storage.Bucket{})
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Workspace{})
	db.Instance.AutoMigrate(&WorkspaceMember{})
	db.Instance.AutoMigrate(&File{})
	db.Instance.AutoMigrate(&FilePermission{})
	db.Instance.AutoMigrate(&AuditLog{})
}
