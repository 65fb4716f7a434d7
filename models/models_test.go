package models

import (
	"strings"
	"testing"

	"docserver/config"
	"docserver/db"
	"docserver/storage"

	"github.com/stretchr/testify/require"
)

// setupTest points db.Instance at a fresh in-memory sqlite database with a
// disk bucket in a temp dir, so the full upload path can run without MySQL
// or S3.
func setupTest(t *testing.T) {
	t.Helper()
	config.MYSQL_DSN = ""
	config.SQLITE_FILE = "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	config.DEFAULT_BUCKET_DIR = t.TempDir()
	db.Init()
	Init()
	storage.Init()
}

func createTestUser(t *testing.T, name string, isManager bool) User {
	t.Helper()
	user, err := UserCreate(name, name+"@example.com", isManager)
	require.NoError(t, err)
	return user
}

func createTestWorkspace(t *testing.T, manager User) *Workspace {
	t.Helper()
	workspace, err := WorkspaceCreate(manager.ID, "ws-"+manager.Name, "")
	require.NoError(t, err)
	return workspace
}

func uploadTestFile(t *testing.T, uploader User, workspaceID uint64, name, content string) *File {
	t.Helper()
	file, err := FileUpload(uploader.ID, workspaceID, name, []byte(content), "application/octet-stream", "en", 0)
	require.NoError(t, err)
	return file
}
