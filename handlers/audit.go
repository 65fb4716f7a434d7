package handlers

import (
	"net/http"
	"strconv"

	"docserver/models"

	"github.com/gin-gonic/gin"
)

// AuditList returns recent audit entries, optionally scoped to a workspace
func AuditList(c *gin.Context) {
	workspaceID, _ := strconv.ParseUint(c.Query("workspace_id"), 10, 64)
	entries, err := models.AuditList(workspaceID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
