package handlers

import (
	"io"
	"net/http"
	"strconv"

	"docserver/models"

	"github.com/gin-gonic/gin"
)

// FileUpload accepts the raw file bytes as the request body. Identifiers come
// in as query parameters; a file_id targets an existing file and bumps its
// version, otherwise a new file is created.
//
//	PUT /file/upload?user_id=1&workspace_id=2&name=report.pdf[&file_id=3][&lang=en]
func FileUpload(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	workspaceID, err := strconv.ParseUint(c.Query("workspace_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	fileName := c.Query("name")
	if fileName == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Name: "BadRequest", Message: "'name' is required"})
		return
	}
	// file_id is optional, but when present it must be a valid ID -
	// a mangled value must not silently create a fresh file
	existingFileID := uint64(0)
	if raw := c.Query("file_id"); raw != "" {
		if existingFileID, err = strconv.ParseUint(raw, 10, 64); err != nil {
			badRequest(c, err)
			return
		}
	}
	lang := c.DefaultQuery("lang", "en")

	content, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}
	contentType := c.ContentType()

	file, err := models.FileUpload(userID, workspaceID, fileName, content, contentType, lang, existingFileID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, file)
}

func FileList(c *gin.Context) {
	files, err := models.FileList()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, files)
}

// FileGetLocator returns the opaque storage locator, not the bytes; clients
// fetch content from the storage backend directly.
func FileGetLocator(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Query("file_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	userID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	locator, err := models.FileGetLocator(fileID, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locator": locator})
}

func FileListVersions(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Query("file_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	versions, err := models.FileListVersions(fileID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func FileGetVersionLocator(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Query("file_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	versionID := c.Query("version_id")
	if versionID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Name: "BadRequest", Message: "'version_id' is required"})
		return
	}
	locator, err := models.FileGetVersionLocator(fileID, versionID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locator": locator})
}

func FileDelete(c *gin.Context) {
	fileID, err := strconv.ParseUint(c.Query("file_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := models.FileDelete(fileID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
