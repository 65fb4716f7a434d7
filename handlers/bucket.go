package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"docserver/db"
	"docserver/models"
	"docserver/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type BucketSaveRequest struct {
	ActingUserID uint64 `json:"acting_user_id" binding:"required"`
	storage.Bucket
}

type BucketInfo struct {
	storage.Bucket
	TotalSpace uint64 `json:"total_space"`
	FreeSpace  uint64 `json:"free_space"`
}

func hasWriteAccess(bucket *storage.Bucket) error {
	store := storage.NewStorage(bucket)
	testPath := "tmp/path"
	if _, err := store.Save(testPath, strings.NewReader("some-content"), "text/plain"); err != nil {
		log.Printf("Cannot save to bucket: %+v", bucket)
		return err
	}
	if err := store.Delete(testPath); err != nil {
		log.Printf("Cannot delete from bucket: %+v", bucket)
		return err
	}
	return nil
}

func cleanupPath(in *storage.Bucket) {
	for strings.Contains(in.Path, "..") {
		in.Path = strings.ReplaceAll(in.Path, "..", "")
	}
	for strings.Contains(in.Path, "//") {
		in.Path = strings.ReplaceAll(in.Path, "//", "/")
	}
}

func BucketSave(c *gin.Context) {
	postReq := BucketSaveRequest{}
	if err := c.ShouldBindWith(&postReq, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := models.RequireManager(postReq.ActingUserID); err != nil {
		abortWithError(c, err)
		return
	}
	bucket := postReq.Bucket
	cleanupPath(&bucket)

	if bucket.Name == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Name: "BadRequest", Message: "Empty bucket name"})
		return
	}
	if bucket.StorageType == storage.StorageTypeFile {
		if bucket.Path == "" || bucket.Path[0] != '/' {
			c.JSON(http.StatusBadRequest, ErrorResponse{Name: "BadRequest", Message: "Path must be absolute and start with / (slash)"})
			return
		}
	} else if bucket.StorageType == storage.StorageTypeS3 {
		if bucket.S3Key == "" || bucket.S3Secret == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{Name: "BadRequest", Message: "'S3 Key' and 'S3 Secret' must be provided"})
			return
		}
		if bucket.Region == "" {
			bucket.Region = "us-east-1"
		}
	} else {
		c.JSON(http.StatusBadRequest, ErrorResponse{Name: "BadRequest", Message: "'type' must be one of 'file' or 's3'"})
		return
	}
	if err := hasWriteAccess(&bucket); err != nil {
		c.JSON(http.StatusForbidden, ErrorResponse{Name: "Forbidden", Message: "No write access to bucket: " + err.Error()})
		return
	}
	if err := bucket.TryInit(); err != nil {
		c.JSON(http.StatusForbidden, ErrorResponse{Name: "Forbidden", Message: err.Error()})
		return
	}
	var err error
	if bucket.ID == 0 {
		err = db.Instance.Create(&bucket).Error
	} else {
		err = db.Instance.Save(&bucket).Error
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	storage.Register(&bucket)
	c.JSON(http.StatusOK, bucket)
}

func BucketList(c *gin.Context) {
	actingUserID, err := strconv.ParseUint(c.Query("acting_user_id"), 10, 64)
	if err != nil {
		badRequest(c, err)
		return
	}
	if _, err = models.RequireManager(actingUserID); err != nil {
		abortWithError(c, err)
		return
	}
	buckets := []storage.Bucket{}
	if err := db.Instance.Find(&buckets).Error; err != nil {
		abortWithError(c, err)
		return
	}
	result := make([]BucketInfo, 0, len(buckets))
	for i := range buckets {
		info := BucketInfo{Bucket: buckets[i]}
		if store := storage.StorageFrom(&buckets[i]); store != nil {
			info.TotalSpace = store.GetTotalSpace()
			info.FreeSpace = store.GetFreeSpace()
		}
		result = append(result, info)
	}
	c.JSON(http.StatusOK, result)
}
