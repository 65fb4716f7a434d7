package handlers

import (
	"net/http"
	"strconv"

	"docserver/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type WorkspaceCreateRequest struct {
	ActingUserID uint64 `json:"acting_user_id" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
}

type MemberRequest struct {
	WorkspaceID uint64 `json:"workspace_id" binding:"required"`
	UserID      uint64 `json:"user_id" binding:"required"`
	Role        string `json:"role" binding:"omitempty,oneof=member editor viewer"`
	GrantedByID uint64 `json:"granted_by_id" binding:"required"`
}

func WorkspaceCreate(c *gin.Context) {
	postReq := WorkspaceCreateRequest{}
	if err := c.ShouldBindWith(&postReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	workspace, err := models.WorkspaceCreate(postReq.ActingUserID, postReq.Name, postReq.Description)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, workspace)
}

func WorkspaceDelete(c *gin.Context) {
	workspaceID, err := strconv.ParseUint(c.Query("workspace_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	actingUserID, err := strconv.ParseUint(c.Query("acting_user_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := models.WorkspaceDelete(workspaceID, actingUserID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func MemberAdd(c *gin.Context) {
	postReq := MemberRequest{}
	if err := c.ShouldBindWith(&postReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	member, err := models.MemberAdd(postReq.WorkspaceID, postReq.UserID, postReq.Role, postReq.GrantedByID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func MemberRemove(c *gin.Context) {
	postReq := MemberRequest{}
	if err := c.ShouldBindWith(&postReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	if err := models.MemberRemove(postReq.WorkspaceID, postReq.UserID, postReq.GrantedByID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func MemberList(c *gin.Context) {
	workspaceID, err := strconv.ParseUint(c.Query("workspace_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	members, err := models.MemberList(workspaceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}
