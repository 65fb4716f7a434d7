package models

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"docserver/db"
	"docserver/filter"
	"docserver/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileUploadVersioning(t *testing.T) {
	setupTest(t)
	manager := createTestUser(t, "boss", true)
	workspace := createTestWorkspace(t, manager)

	file, err := FileUpload(manager.ID, workspace.ID, "report.pdf", []byte("v1 bytes"), "application/pdf", "en", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, file.Version)
	assert.Equal(t, "report.pdf", file.FileName)
	assert.EqualValues(t, len("v1 bytes"), file.FileSizeBytes)

	again, err := FileUpload(manager.ID, workspace.ID, "report.pdf", []byte("v2 bytes!"), "application/pdf", "en", file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ID, again.ID)
	assert.Equal(t, 2, again.Version)
	assert.EqualValues(t, len("v2 bytes!"), again.FileSizeBytes)

	versions, err := FileListVersions(file.ID)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.True(t, versions[0].IsLatest)
	assert.False(t, versions[1].IsLatest)

	// A historical version resolves to its own locator
	locator, err := FileGetVersionLocator(file.ID, versions[1].ID)
	require.NoError(t, err)
	data, err := os.ReadFile(locator)
	require.NoError(t, err)
	assert.Equal(t, "v1 bytes", string(data))

	_, err = FileGetVersionLocator(file.ID, "no-such-version")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileUploadVersionStrictlyIncrements(t *testing.T) {
	setupTest(t)
	manager := createTestUser(t, "boss", true)
	workspace := createTestWorkspace(t, manager)
	file := uploadTestFile(t, manager, workspace.ID, "doc.txt", "v1")

	// Each re-upload advances by exactly one, and the stored row agrees
	// with the value the caller got back.
	for want := 2; want <= 6; want++ {
		updated, err := FileUpload(manager.ID, workspace.ID, "doc.txt", []byte("next"), "application/octet-stream", "en", file.ID)
		require.NoError(t, err)
		assert.Equal(t, want, updated.Version)

		stored, err := fileGet(file.ID)
		require.NoError(t, err)
		assert.Equal(t, want, stored.Version)
	}
}

func TestFileUploadMissingReferences(t *testing.T) {
	setupTest(t)
	manager := createTestUser(t, "boss", true)
	workspace := createTestWorkspace(t, manager)

	_, err := FileUpload(9999, workspace.ID, "a.bin", []byte("x"), "application/octet-stream", "en", 0)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = FileUpload(manager.ID, workspace.ID, "a.bin", []byte("x"), "application/octet-stream", "en", 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileUploadDuplicateName(t *testing.T) {
	setupTest(t)
	manager := createTestUser(t, "boss", true)
	workspace := createTestWorkspace(t, manager)
	other, err := WorkspaceCreate(manager.ID, "other", "")
	require.NoError(t, err)

	uploadTestFile(t, manager, workspace.ID, "same.txt", "a")
	_, err = FileUpload(manager.ID, workspace.ID, "same.txt", []byte("b"), "application/octet-stream", "en", 0)
	assert.ErrorIs(t, err, ErrConflict)

	// Same name in another workspace is fine
	_, err = FileUpload(manager.ID, other.ID, "same.txt", []byte("b"), "application/octet-stream", "en", 0)
	assert.NoError(t, err)
}

func TestFileUploadFiltersTextualContent(t *testing.T) {
	setupTest(t)
	blocklist := map[string][]string{"en": {"secret"}}
	data, err := json.Marshal(blocklist)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "badwords.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	require.NoError(t, filter.Load(path))

	manager := createTestUser(t, "boss", true)
	workspace := createTestWorkspace(t, manager)

	file, err := FileUpload(manager.ID, workspace.ID, "notes.txt", []byte("a secret plan"), "text/plain", "en", 0)
	require.NoError(t, err)

	store, err := storage.GetDefaultStorage()
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = store.Load(file.FilePath, &buf)
	require.NoError(t, err)
	assert.Equal(t, "a s*****t plan", buf.String())

	// Binary uploads pass through untouched
	raw, err := FileUpload(manager.ID, workspace.ID, "notes.bin", []byte("a secret plan"), "application/octet-stream", "en", 0)
	require.NoError(t, err)
	buf.Reset()
	_, err = store.Load(raw.FilePath, &buf)
	require.NoError(t, err)
	assert.Equal(t, "a secret plan", buf.String())
}

func TestFileGetLocatorAuthorization(t *testing.T) {
	setupTest(t)
	manager := createTestUser(t, "boss", true)
	viewer := createTestUser(t, "viewer", false)
	workspace := createTestWorkspace(t, manager)
	file := uploadTestFile(t, manager, workspace.ID, "doc.txt", "hello")

	// Unknown user: not found before any capability check
	_, err := FileGetLocator(file.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	// Known user without a permission row
	_, err = FileGetLocator(file.ID, viewer.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Permission row without can_view is still forbidden
	permission, err := PermissionGrant(file.ID, viewer.ID, workspace.ID, Capabilities{CanDownload: true}, manager.ID)
	require.NoError(t, err)
	_, err = FileGetLocator(file.ID, viewer.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = PermissionUpdate(permission.ID, Capabilities{CanView: true}, manager.ID)
	require.NoError(t, err)
	locator, err := FileGetLocator(file.ID, viewer.ID)
	require.NoError(t, err)
	data, err := os.ReadFile(locator)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestFileDeleteCascadesPermissions(t *testing.T) {
	setupTest(t)
	manager := createTestUser(t, "boss", true)
	viewer := createTestUser(t, "viewer", false)
	workspace := createTestWorkspace(t, manager)
	file := uploadTestFile(t, manager, workspace.ID, "doc.txt", "hello")
	_, err := PermissionGrant(file.ID, viewer.ID, workspace.ID, Capabilities{CanView: true}, manager.ID)
	require.NoError(t, err)

	require.NoError(t, FileDelete(file.ID))
	assert.ErrorIs(t, FileDelete(file.ID), ErrNotFound)

	var count int64
	db.Instance.Model(&FilePermission{}).Where("file_id = ?", file.ID).Count(&count)
	assert.EqualValues(t, 0, count)

	// Version history is removed with the blob
	_, err = FileListVersions(file.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
