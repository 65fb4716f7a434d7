package handlers

import (
	"errors"
	"net/http"

	"docserver/models"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the wire shape for every failure
type ErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// abortWithError maps the model error taxonomy onto HTTP statuses
func abortWithError(c *gin.Context, err error) {
	name, status := "Internal", http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		name, status = "NotFound", http.StatusNotFound
	case errors.Is(err, models.ErrNotAuthorized):
		name, status = "NotAuthorized", http.StatusBadRequest
	case errors.Is(err, models.ErrForbidden):
		name, status = "Forbidden", http.StatusForbidden
	case errors.Is(err, models.ErrConflict):
		name, status = "Conflict", http.StatusConflict
	}
	c.JSON(status, ErrorResponse{Name: name, Message: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Name: "BadRequest", Message: err.Error()})
}
