package main

import (
	"log"
	"strings"
	"time"

	"docserver/config"
	"docserver/db"
	"docserver/filter"
	"docserver/handlers"
	"docserver/models"
	"docserver/storage"
	"docserver/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	db.Init()
	models.Init()
	storage.Init()
	if err := filter.Load(config.BADWORDS_FILE); err != nil {
		log.Fatalf("Cannot load badwords file %s: %v", config.BADWORDS_FILE, err)
	}

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "PUT", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/file/upload"})))
	}
	// No cache by default, individual end-points can override that
	router.Use((&utils.CacheRouter{CacheTime: utils.CacheNoCache}).Handler())

	// User handlers
	router.POST("/user/create", handlers.UserCreate)
	router.GET("/user/list", handlers.UserList)
	router.POST("/user/manager", handlers.UserSetManager)
	// Workspace handlers
	router.POST("/workspace/create", handlers.WorkspaceCreate)
	router.DELETE("/workspace/delete", handlers.WorkspaceDelete)
	router.POST("/workspace/member/add", handlers.MemberAdd)
	router.POST("/workspace/member/remove", handlers.MemberRemove)
	router.GET("/workspace/member/list", handlers.MemberList)
	// File handlers
	router.PUT("/file/upload", handlers.FileUpload)
	router.GET("/file/list", handlers.FileList)
	router.GET("/file/locator", handlers.FileGetLocator)
	router.GET("/file/versions", handlers.FileListVersions)
	router.GET("/file/version-locator", handlers.FileGetVersionLocator)
	router.DELETE("/file/delete", handlers.FileDelete)
	// Permission handlers
	router.GET("/permission/list", handlers.PermissionList)
	router.POST("/permission/grant", handlers.PermissionGrant)
	router.PUT("/permission/update", handlers.PermissionUpdate)
	router.DELETE("/permission/revoke", handlers.PermissionRevoke)
	// Bucket handlers
	router.GET("/bucket/list", handlers.BucketList)
	router.POST("/bucket/save", handlers.BucketSave)
	// Audit log
	router.GET("/audit/list", handlers.AuditList)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
