package handlers

import (
	"net/http"
	"strconv"

	"docserver/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type PermissionGrantRequest struct {
	FileID      uint64 `json:"file_id" binding:"required"`
	UserID      uint64 `json:"user_id" binding:"required"`
	WorkspaceID uint64 `json:"workspace_id" binding:"required"`
	GrantedByID uint64 `json:"granted_by_id" binding:"required"`
	// Unset capabilities default to false
	models.Capabilities
}

// An absent permission_id matches zero rows and surfaces as NotFound
type PermissionUpdateRequest struct {
	PermissionID uint64 `json:"permission_id"`
	GrantedByID  uint64 `json:"granted_by_id" binding:"required"`
	models.Capabilities
}

func PermissionList(c *gin.Context) {
	permissions, err := models.PermissionList()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, permissions)
}

func PermissionGrant(c *gin.Context) {
	postReq := PermissionGrantRequest{}
	if err := c.ShouldBindWith(&postReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	permission, err := models.PermissionGrant(
		postReq.FileID, postReq.UserID, postReq.WorkspaceID,
		postReq.Capabilities, postReq.GrantedByID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, permission)
}

func PermissionUpdate(c *gin.Context) {
	putReq := PermissionUpdateRequest{}
	if err := c.ShouldBindWith(&putReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	permission, err := models.PermissionUpdate(putReq.PermissionID, putReq.Capabilities, putReq.GrantedByID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, permission)
}

func PermissionRevoke(c *gin.Context) {
	permissionID, err := strconv.ParseUint(c.Query("permission_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	actingUserID, err := strconv.ParseUint(c.Query("acting_user_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := models.PermissionRevoke(permissionID, actingUserID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
