package handlers

import (
	"net/http"

	"docserver/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type UserCreateRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	IsManager bool   `json:"is_manager"`
}

type UserSetManagerRequest struct {
	UserID    uint64 `json:"user_id" binding:"required"`
	IsManager *bool  `json:"is_manager" binding:"required"`
}

func UserCreate(c *gin.Context) {
	postReq := UserCreateRequest{}
	if err := c.ShouldBindWith(&postReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	user, err := models.UserCreate(postReq.Name, postReq.Email, postReq.IsManager)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func UserList(c *gin.Context) {
	users, err := models.UserList()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UserSetManager promotes or demotes a user. The capability cascade on their
// file permissions happens inside the model call.
func UserSetManager(c *gin.Context) {
	postReq := UserSetManagerRequest{}
	if err := c.ShouldBindWith(&postReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	user, err := models.UserSetManager(postReq.UserID, *postReq.IsManager)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
