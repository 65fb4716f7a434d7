package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFileUploadRejectsMalformedFileID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.PUT("/file/upload", FileUpload)

	// A mangled file_id must be a 400, not a silent new file at id 0
	req := httptest.NewRequest(http.MethodPut,
		"/file/upload?user_id=1&workspace_id=1&name=a.txt&file_id=abc",
		strings.NewReader("data"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "BadRequest")
}

